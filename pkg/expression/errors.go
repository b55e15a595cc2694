package expression

import "errors"

// ErrNonBooleanResult is wrapped into a flowerr.EvaluationError when a
// caller asked for a boolean result but the snippet produced something else.
var ErrNonBooleanResult = errors.New("expression did not evaluate to a boolean")
