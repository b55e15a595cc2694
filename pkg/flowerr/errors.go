package flowerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a FlowError for the purposes of HTTP status mapping and
// caller-side handling. Kinds are coarse on purpose: callers branch on Kind,
// never on the message text.
type Kind string

const (
	// NotFound means a referenced Section, Question, Action or Edge does
	// not exist in the graph store.
	NotFound Kind = "NotFound"
	// EvaluationError means a cypher: or python: snippet failed to
	// evaluate (syntax error, undefined reference, type mismatch).
	EvaluationError Kind = "EvaluationError"
	// EvaluatorTimeout means a snippet exceeded its wall-clock budget.
	EvaluatorTimeout Kind = "EvaluatorTimeout"
	// Security means a snippet attempted something the sandbox forbids
	// (a statement instead of an expression, a non-whitelisted builtin).
	Security Kind = "Security"
	// StorageError means the Graph Gateway's underlying store failed
	// after exhausting retries.
	StorageError Kind = "StorageError"
	// ResourceLimit means a configured cap was exceeded (row cap,
	// walk depth, HTTP rate and request-body size limits).
	ResourceLimit Kind = "ResourceLimit"
	// ContractViolation means a component invariant was violated in a
	// way that indicates a bug rather than bad input (e.g. an Edge with
	// no recognized TargetKind reaching the traversal engine).
	ContractViolation Kind = "ContractViolation"
)

// FlowError is the error type returned by every component in this module.
type FlowError struct {
	Kind    Kind
	Message string
	TraceID string
	Cause   error
}

func (e *FlowError) Error() string {
	if e.TraceID != "" {
		return fmt.Sprintf("%s: %s (trace %s)", e.Kind, e.Message, e.TraceID)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *FlowError) Unwrap() error {
	return e.Cause
}

// WithTraceID returns a copy of e carrying the given trace id. Used by the
// HTTP layer to stamp a trace id onto an error returned from deeper in the
// call stack, where the trace id was not yet known.
func (e *FlowError) WithTraceID(traceID string) *FlowError {
	cp := *e
	cp.TraceID = traceID
	return &cp
}

func new_(kind Kind, format string, args ...any) *FlowError {
	return &FlowError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a NotFound FlowError.
func NotFoundf(format string, args ...any) *FlowError { return new_(NotFound, format, args...) }

// EvaluationErrorf builds an EvaluationError FlowError.
func EvaluationErrorf(format string, args ...any) *FlowError {
	return new_(EvaluationError, format, args...)
}

// Timeoutf builds an EvaluatorTimeout FlowError.
func Timeoutf(format string, args ...any) *FlowError { return new_(EvaluatorTimeout, format, args...) }

// Securityf builds a Security FlowError.
func Securityf(format string, args ...any) *FlowError { return new_(Security, format, args...) }

// StorageErrorf builds a StorageError FlowError.
func StorageErrorf(format string, args ...any) *FlowError { return new_(StorageError, format, args...) }

// ResourceLimitf builds a ResourceLimit FlowError.
func ResourceLimitf(format string, args ...any) *FlowError {
	return new_(ResourceLimit, format, args...)
}

// ContractViolationf builds a ContractViolation FlowError.
func ContractViolationf(format string, args ...any) *FlowError {
	return new_(ContractViolation, format, args...)
}

// Wrap attaches an existing error as the Cause of a new FlowError of the
// given kind, preserving it for errors.Unwrap/errors.Is chains.
func Wrap(kind Kind, cause error, format string, args ...any) *FlowError {
	fe := new_(kind, format, args...)
	fe.Cause = cause
	return fe
}

// As extracts a *FlowError from err, following the same convention as the
// standard errors.As.
func As(err error) (*FlowError, bool) {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// HTTPStatus maps an error to an HTTP status code for the reference HTTP
// binding: every FlowError (whatever its Kind) maps to 409, since each one
// represents a domain-level failure the caller can inspect via its kind and
// message rather than a transport fault; anything else is an unclassified
// internal error and maps to 500.
func HTTPStatus(err error) int {
	if _, ok := As(err); ok {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
