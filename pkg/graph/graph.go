package graph

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/flowerr"
)

// Record is one materialized result row, keyed by column name.
type Record map[string]any

// Value returns the column's value and whether it was present.
func (r Record) Value(column string) (any, bool) {
	v, ok := r[column]
	return v, ok
}

// ElementID reads a store-assigned opaque element identifier from column,
// conventionally "elementId".
func (r Record) ElementID(column string) (string, bool) {
	v, ok := r[column]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// NumericID reads a store-assigned numeric node id from column,
// conventionally "id".
func (r Record) NumericID(column string) (int64, bool) {
	v, ok := r[column]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// Node is a labeled property-graph node value, as it would appear inside an
// evaluator's result set (e.g. a `cypher:` snippet returning `n` from
// `MATCH (n) RETURN n`).
type Node struct {
	ElementID  string
	NumericID  int64
	HasNumeric bool
	Labels     []string
	Properties map[string]any
}

// Relationship is a labeled property-graph edge value.
type Relationship struct {
	ElementID  string
	Type       string
	StartID    string
	EndID      string
	Properties map[string]any
}

// Path is an ordered sequence of element ids visited by a graph-query path
// result (e.g. `MATCH p = (...) RETURN p`).
type Path struct {
	ElementIDs []string
}

// Session is the raw transport the Gateway retries against. A real
// implementation wraps a graph-database driver session; InMemoryStore
// implements it directly for tests.
type Session interface {
	Run(ctx context.Context, statement string, params map[string]any) ([]Record, error)
}

// RetryPolicy controls the Gateway's backoff on classified-transient errors.
type RetryPolicy struct {
	MaxAttempts     int
	InitialBackoff  time.Duration
	MaxBackoff      time.Duration
}

// DefaultRetryPolicy is the default backoff schedule: 3 attempts, 200ms
// initial backoff, 2s cap.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: 200 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
	}
}

// backoff computes the exponential delay for the given 1-indexed attempt,
// capped and jittered by up to 25%.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	raw := float64(p.InitialBackoff) * math.Pow(2, float64(attempt-1))
	d := time.Duration(raw)
	if d > p.MaxBackoff {
		d = p.MaxBackoff
	}
	jitter := time.Duration(rand.Int63n(int64(d)/4 + 1))
	return d + jitter
}

// Gateway executes parameterized statements against a Session, applying
// retry-on-transient, row-cap enforcement for evaluator-issued queries, and
// parameter sanitization.
type Gateway struct {
	session Session
	policy  RetryPolicy
	rowCap  int
}

// NewGateway builds a Gateway over session with the given retry policy and
// evaluator row cap (config.Default uses 100; 0 disables the cap).
func NewGateway(session Session, policy RetryPolicy, rowCap int) *Gateway {
	return &Gateway{session: session, policy: policy, rowCap: rowCap}
}

// Run executes a structural query (engine-internal: loading edges, Section/
// Question/Action payloads) with retry-on-transient but no row cap.
func (g *Gateway) Run(ctx context.Context, statement string, params map[string]any) ([]Record, error) {
	return g.runWithRetry(ctx, statement, params, 0)
}

// RunEvaluatorQuery executes a statement issued by the Sandbox/predicate/
// variable/source-node/action evaluators on behalf of a `cypher:`-prefixed
// snippet. Results exceeding the Gateway's row cap fail with ResourceLimit.
func (g *Gateway) RunEvaluatorQuery(ctx context.Context, statement string, params map[string]any) ([]Record, error) {
	return g.runWithRetry(ctx, statement, params, g.rowCap)
}

func (g *Gateway) runWithRetry(ctx context.Context, statement string, params map[string]any, rowCap int) ([]Record, error) {
	clean := sanitizeParams(params)

	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= g.policy.MaxAttempts; attempt++ {
		attempts = attempt
		records, err := g.session.Run(ctx, statement, clean)
		if err == nil {
			if rowCap > 0 && len(records) > rowCap {
				return nil, flowerr.ResourceLimitf("graph query returned %d rows, exceeding cap of %d", len(records), rowCap)
			}
			return records, nil
		}

		lastErr = err
		if !IsTransient(err) || attempt == g.policy.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(g.policy.backoff(attempt)):
		}
	}

	return nil, flowerr.Wrap(flowerr.StorageError, lastErr, "graph gateway: query failed after %d attempt(s)", attempts)
}

// sanitizeParams strips values the store cannot bind: graph-node/
// relationship/path objects and any key beginning with "__".
func sanitizeParams(params map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		if len(k) >= 2 && k[0] == '_' && k[1] == '_' {
			continue
		}
		if !isBindable(v) {
			continue
		}
		out[k] = v
	}
	return out
}

// ExtractValue implements the single-value extraction rule shared by the
// Variable Resolver and the Predicate Evaluator: a lone record with a
// single column yields that column's value; a lone record with a "value"
// column yields that column; otherwise a lone record yields its full
// property map. Multiple records apply the same rule per record and
// return a list.
func ExtractValue(records []Record) any {
	if len(records) == 0 {
		return nil
	}
	if len(records) == 1 {
		return ExtractRecord(records[0])
	}
	out := make([]any, len(records))
	for i, r := range records {
		out[i] = ExtractRecord(r)
	}
	return out
}

// ExtractRecord applies the single-record half of ExtractValue's rule.
func ExtractRecord(r Record) any {
	if len(r) == 1 {
		for _, v := range r {
			return v
		}
	}
	if v, ok := r.Value("value"); ok {
		return v
	}
	return map[string]any(r)
}

// DeriveNodeID extracts the identity a source-node value should be keyed by
// for existence queries: a Node's ElementID if set, else its NumericID if
// present, else the value itself unchanged (a plain scalar id).
func DeriveNodeID(v any) any {
	switch t := v.(type) {
	case Node:
		if t.ElementID != "" {
			return t.ElementID
		}
		if t.HasNumeric {
			return t.NumericID
		}
		return nil
	case *Node:
		if t == nil {
			return nil
		}
		return DeriveNodeID(*t)
	default:
		return v
	}
}

func isBindable(v any) bool {
	switch v.(type) {
	case Record, []Record, *Record, Node, *Node, Relationship, *Relationship, Path, *Path:
		return false
	default:
		return true
	}
}
