package executor

import (
	"context"
	"fmt"
	"sync"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/state"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/types"
)

// Registry maps an ActionType to the Action implementation that handles it.
type Registry struct {
	mu      sync.RWMutex
	actions map[types.ActionType]Action
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{actions: make(map[types.ActionType]Action)}
}

// Register adds act under its own ActionType. Returns ErrAlreadyRegistered
// if that type already has an Action.
func (r *Registry) Register(act Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.actions[act.ActionType()]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, act.ActionType())
	}
	r.actions[act.ActionType()] = act
	return nil
}

// MustRegister registers act and panics on error.
func (r *Registry) MustRegister(act Action) {
	if err := r.Register(act); err != nil {
		panic(err)
	}
}

// DefaultRegistry returns a Registry populated with the three built-in
// Action kinds.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.MustRegister(&CreateNodeAction{})
	reg.MustRegister(&GotoSectionAction{})
	reg.MustRegister(&CompleteSectionAction{})
	return reg
}

// Execute dispatches action to its registered Action. An actionType with no
// registered Action is not an error: it is recorded as a warning on
// ctxState and produces a no-op Result.
func (r *Registry) Execute(ctx context.Context, action types.Action, ctxState *state.Context, rt *Runtime) (Result, error) {
	r.mu.RLock()
	act, exists := r.actions[action.ActionType]
	r.mu.RUnlock()

	if !exists {
		ctxState.AddWarning(types.Warning{
			Variable: action.ActionID,
			Message:  fmt.Sprintf("unrecognized actionType %q, treated as no-op", action.ActionType),
		})
		return Result{}, nil
	}
	return act.Execute(ctx, action, ctxState, rt)
}
