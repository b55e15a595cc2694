package executor

import "errors"

// ErrAlreadyRegistered is returned by Register when an executor for the
// given ActionType is already present.
var ErrAlreadyRegistered = errors.New("executor: action type already registered")
