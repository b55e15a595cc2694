package executor

import (
	"context"
	"fmt"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/graph"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/state"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/types"
)

// resolveActionSourceNode resolves action's own sourceNode expression, if
// it declares one, updating ctxState. An Action with no sourceNode
// expression keeps whatever source the enclosing edge already established.
func resolveActionSourceNode(ctx context.Context, action types.Action, ctxState *state.Context, rt *Runtime) error {
	if action.SourceNode == "" {
		return nil
	}
	_, err := rt.SourceNode.Resolve(ctx, action.SourceNode, ctxState)
	return err
}

// toString renders a created-node identifier column value as a string,
// preferring a graph entity's own id over its Go-value representation.
func toString(v any) string {
	if id := graph.DeriveNodeID(v); id != nil {
		if s, ok := id.(string); ok {
			return s
		}
		return fmt.Sprint(id)
	}
	return fmt.Sprint(v)
}
