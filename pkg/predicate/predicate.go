package predicate

import (
	"context"
	"time"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/expression"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/flowerr"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/graph"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/state"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/template"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/types"
)

// DefaultTimeout is the wall-clock budget for an askWhen evaluation. Edge
// carries no per-expression timeoutMs the way VariableDef does, so askWhen
// reuses the variable-resolution default rather than introducing a second
// magic number.
const DefaultTimeout = 500 * time.Millisecond

// Evaluator decides whether an edge's askWhen expression currently holds.
type Evaluator struct {
	gateway *graph.Gateway
	sandbox *expression.Evaluator
}

// New builds a predicate Evaluator over the shared Graph Gateway and
// Sandbox Evaluator.
func New(gateway *graph.Gateway, sandbox *expression.Evaluator) *Evaluator {
	return &Evaluator{gateway: gateway, sandbox: sandbox}
}

// Evaluate substitutes templates in askWhen against ctxState's evaluator
// context, dispatches by cypher:/python: prefix (default sandbox), and
// coerces the outcome to boolean. An empty askWhen is true without
// consulting either evaluator. A genuine evaluation failure is returned as
// a FlowError rather than defaulting to false.
func (e *Evaluator) Evaluate(ctx context.Context, askWhen string, ctxState *state.Context) (bool, error) {
	if askWhen == "" {
		return true, nil
	}

	kind, raw := types.SplitEvaluator(askWhen)

	target := template.SandboxTarget
	if kind == types.EvaluatorCypher {
		target = template.GraphQueryTarget
	}

	snippet, err := template.Substitute(ctx, raw, ctxState.EvaluatorContext(), ctxState, target)
	if err != nil {
		return false, flowerr.Wrap(flowerr.EvaluationError, err, "askWhen: template substitution failed")
	}

	if kind == types.EvaluatorCypher {
		return e.evaluateCypher(ctx, snippet)
	}
	return e.evaluatePython(ctx, snippet, ctxState)
}

func (e *Evaluator) evaluateCypher(ctx context.Context, snippet string) (bool, error) {
	queryCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	records, err := e.gateway.RunEvaluatorQuery(queryCtx, snippet, map[string]any{})
	if err != nil {
		if queryCtx.Err() != nil {
			return false, flowerr.Timeoutf("askWhen evaluation exceeded %s", DefaultTimeout)
		}
		return false, err
	}

	result := graph.ExtractValue(records)
	b, ok := expression.CoerceBool(result)
	if !ok {
		return false, flowerr.EvaluationErrorf("askWhen: graph-query result %T did not coerce to boolean", result)
	}
	return b, nil
}

func (e *Evaluator) evaluatePython(ctx context.Context, snippet string, ctxState *state.Context) (bool, error) {
	env := expression.MergeBuiltins(ctxState.EvaluatorContext())
	return e.sandbox.EvaluateBoolean(ctx, snippet, env, DefaultTimeout)
}
