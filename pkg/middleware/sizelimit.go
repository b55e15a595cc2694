package middleware

import (
	"errors"
	"net/http"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/flowerr"
)

// DefaultMaxRequestBodySize bounds a WalkRequest body: the graph-backed
// payloads this endpoint accepts (section id, applicant/application ids, a
// handful of extra params) are small; anything past 1MB indicates a
// misbehaving caller rather than a legitimate request.
const DefaultMaxRequestBodySize = 1 * 1024 * 1024

// SizeLimit wraps the request body in an http.MaxBytesReader so a caller
// streaming an oversized body gets a clean rejection instead of the handler
// exhausting memory trying to decode it, catching the failure before any
// JSON decoding happens.
func SizeLimit(maxBytes int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// AsBodyTooLargeError converts err into a ResourceLimit FlowError when it
// originated from a SizeLimit-wrapped body, otherwise returns it unchanged,
// so a handler's JSON-decode error path can report a clean 409 instead of an
// unclassified 500.
func AsBodyTooLargeError(err error) error {
	if err == nil {
		return nil
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return flowerr.ResourceLimitf("request body exceeds size limit: %v", err)
	}
	return err
}
