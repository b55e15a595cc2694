package executor

import (
	"context"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/flowerr"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/state"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/template"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/types"
)

// CompleteSectionAction runs an Action's graph-query snippet for its side
// effect (e.g. stamping a completion marker) and marks the walk complete.
type CompleteSectionAction struct{}

func (CompleteSectionAction) ActionType() types.ActionType { return types.ActionCompleteSection }

func (a CompleteSectionAction) Execute(ctx context.Context, action types.Action, ctxState *state.Context, rt *Runtime) (Result, error) {
	if err := resolveActionSourceNode(ctx, action, ctxState, rt); err != nil {
		return Result{}, err
	}

	if action.Query != "" {
		snippet, err := template.Substitute(ctx, action.Query, ctxState.EvaluatorContext(), ctxState, template.GraphQueryTarget)
		if err != nil {
			return Result{}, flowerr.Wrap(flowerr.EvaluationError, err, "action %s: template substitution failed", action.ActionID)
		}
		if _, err := rt.Gateway.Run(ctx, snippet, map[string]any{}); err != nil {
			return Result{}, err
		}
	}

	return Result{Completed: true}, nil
}
