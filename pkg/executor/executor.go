package executor

import (
	"context"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/graph"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/sourcenode"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/state"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/types"
)

// Result is the outcome of executing one Action.
type Result struct {
	CreatedNodeIDs []string
	NextSectionID  string
	HasNextSection bool
	Completed      bool
}

// Runtime bundles the shared collaborators an Action implementation needs:
// the Graph Gateway for its query, and the Source-Node Resolver for its
// optional sourceNode expression.
type Runtime struct {
	Gateway    *graph.Gateway
	SourceNode *sourcenode.Resolver
}

// Action is the strategy interface one action kind implements.
type Action interface {
	ActionType() types.ActionType
	Execute(ctx context.Context, action types.Action, ctxState *state.Context, rt *Runtime) (Result, error)
}
