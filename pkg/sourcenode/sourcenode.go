package sourcenode

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

// DefaultTimeout bounds a cypher:/python: sourceNode evaluation, mirroring
// the Variable Resolver's default since a sourceNode expression is, in
// effect, an inline unnamed variable declaration.
const DefaultTimeout = 500 * time.Millisecond

// Resolver resolves and propagates the current source node across edges.
type Resolver struct {
	gateway *graph.Gateway
	sandbox *expression.Evaluator
}

// New builds a Resolver over the shared Graph Gateway and Sandbox
// Evaluator.
func New(gateway *graph.Gateway, sandbox *expression.Evaluator) *Resolver {
	return &Resolver{gateway: gateway, sandbox: sandbox}
}

// Resolve computes the source node for one edge (or the Section itself,
// when called with the Section's own sourceNode expression) and updates
// ctxState with it. It also returns the resolved value directly, since
// callers loading Section-level variables need sourceNodeId available
// before LoadDefinitions runs.
func (r *Resolver) Resolve(ctx context.Context, expr string, ctxState *state.Context) (any, error) {
	if expr == "" {
		return ctxState.SourceNode(), nil
	}

	if segments, ok := template.ParseBarePlaceholder(expr); ok {
		value, err := template.ResolveRoot(ctx, segments[0], ctxState.EvaluatorContext(), ctxState)
		if err != nil {
			return nil, err
		}
		value, err = template.NavigatePath(value, segments[1:])
		if err != nil {
			return nil, flowerr.Wrap(flowerr.EvaluationError, err, "sourceNode: %s", expr)
		}
		ctxState.SetSourceNode(value)
		return value, nil
	}

	kind, raw := types.SplitEvaluator(expr)
	target := template.SandboxTarget
	if kind == types.EvaluatorCypher {
		target = template.GraphQueryTarget
	}

	snippet, err := template.Substitute(ctx, raw, ctxState.EvaluatorContext(), ctxState, target)
	if err != nil {
		return nil, flowerr.Wrap(flowerr.EvaluationError, err, "sourceNode: template substitution failed")
	}

	var value any
	if kind == types.EvaluatorCypher {
		value, err = r.evaluateCypher(ctx, snippet)
	} else {
		value, err = r.evaluatePython(ctx, snippet, ctxState)
	}
	if err != nil {
		return nil, err
	}

	ctxState.SetSourceNode(value)
	return value, nil
}

func (r *Resolver) evaluateCypher(ctx context.Context, snippet string) (any, error) {
	queryCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	records, err := r.gateway.RunEvaluatorQuery(queryCtx, snippet, map[string]any{})
	if err != nil {
		if queryCtx.Err() != nil {
			return nil, flowerr.Timeoutf("sourceNode evaluation exceeded %s", DefaultTimeout)
		}
		return nil, err
	}
	return graph.ExtractValue(records), nil
}

func (r *Resolver) evaluatePython(ctx context.Context, snippet string, ctxState *state.Context) (any, error) {
	env := expression.MergeBuiltins(ctxState.EvaluatorContext())
	return r.sandbox.Evaluate(ctx, snippet, env, DefaultTimeout)
}
