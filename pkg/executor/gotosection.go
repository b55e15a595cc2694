package executor

import (
	"context"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/state"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/types"
)

// GotoSectionAction redirects the walk to a different Section without
// touching the graph store.
type GotoSectionAction struct{}

func (GotoSectionAction) ActionType() types.ActionType { return types.ActionGotoSection }

func (a GotoSectionAction) Execute(ctx context.Context, action types.Action, ctxState *state.Context, rt *Runtime) (Result, error) {
	if err := resolveActionSourceNode(ctx, action, ctxState, rt); err != nil {
		return Result{}, err
	}
	return Result{NextSectionID: action.NextSectionID, HasNextSection: true}, nil
}
