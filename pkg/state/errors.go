package state

import "errors"

// ErrVariableCycle is returned when resolve(name) is re-entered for a
// variable that is already Resolving on the same call stack.
var ErrVariableCycle = errors.New("state: variable resolution cycle detected")
