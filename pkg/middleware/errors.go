package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/flowerr"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/types"
)

// errorResponse is the JSON body every middleware-rejected request gets,
// matching the envelope cmd/server's handler uses for errors raised deeper
// in the call stack.
type errorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	TraceID string `json:"traceId,omitempty"`
}

// writeError maps err to an HTTP status via flowerr.HTTPStatus and writes
// the JSON error envelope, stamping the request's trace id if one was
// already attached to its context.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := errorResponse{Error: err.Error(), TraceID: types.GetTraceID(r.Context())}
	if fe, ok := flowerr.As(err); ok {
		body.Kind = string(fe.Kind)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(flowerr.HTTPStatus(err))
	_ = json.NewEncoder(w).Encode(body)
}
