package graph

import "errors"

// Sentinel errors for Gateway operations.
var (
	ErrRowCapExceeded = errors.New("evaluator query exceeded row cap")
	ErrRetriesExhausted = errors.New("graph gateway: retries exhausted")
	ErrSessionClosed    = errors.New("graph gateway: session closed")
)

// TransientError is implemented by Session errors that are safe to retry
// (service-unavailable, session-expired, deadlock-like conditions).
type TransientError interface {
	error
	Transient() bool
}

type transientErr struct {
	msg string
}

func (e *transientErr) Error() string   { return e.msg }
func (e *transientErr) Transient() bool { return true }

// NewTransientError wraps msg as a retry-eligible error, for use by Session
// implementations that want to signal the Gateway's retry policy.
func NewTransientError(msg string) error {
	return &transientErr{msg: msg}
}

// IsTransient reports whether err should be retried by the Gateway.
func IsTransient(err error) bool {
	var te TransientError
	if as(err, &te) {
		return te.Transient()
	}
	return false
}

// as walks err's single-error Unwrap chain looking for a TransientError;
// errors joined with an Unwrap() []error method are not searched.
func as(err error, target *TransientError) bool {
	for err != nil {
		if te, ok := err.(TransientError); ok {
			*target = te
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
