package state

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/expression"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/flowerr"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/graph"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/template"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/types"
)

// NewExecutionID generates a fresh per-walk execution/trace identifier.
// google/uuid is this pack's own id generator, used here in place of a
// hand-rolled crypto/rand-plus-hex scheme.
func NewExecutionID() string {
	return uuid.New().String()
}

// ValueState is the lazy-resolution state of one variable's cache entry.
type ValueState int

const (
	Unresolved ValueState = iota
	Resolving
	Resolved
	Failed
)

type cacheEntry struct {
	state ValueState
	value any
}

const defaultVariableTimeout = 500 * time.Millisecond

// Context is the per-walk state a traversal carries: the caller's input
// parameters, the current source node, the variable-definition table in
// scope, the memoized resolved-variable cache, and any warnings recovered
// from failed evaluations. One Context belongs to exactly one Walk call.
type Context struct {
	mu sync.Mutex

	params     map[string]any
	sourceNode any
	defs       map[string]types.VariableDef
	cache      map[string]*cacheEntry
	warnings   []types.Warning

	gateway *graph.Gateway
	sandbox *expression.Evaluator
}

// New builds a Context for a single walk, seeded with the request's input
// parameters.
func New(gateway *graph.Gateway, sandbox *expression.Evaluator, params map[string]any) *Context {
	return &Context{
		params:  params,
		defs:    make(map[string]types.VariableDef),
		cache:   make(map[string]*cacheEntry),
		gateway: gateway,
		sandbox: sandbox,
	}
}

// SourceNode returns the Context's current source node value.
func (c *Context) SourceNode() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sourceNode
}

// SetSourceNode updates the current source node, as the Source-Node
// Resolver does per edge.
func (c *Context) SetSourceNode(v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sourceNode = v
}

// LoadDefinitions registers a Section's or Edge's variable declarations.
// A redefinition of an already-loaded name replaces the definition and
// drops any cached value for it, so the next resolve(name) re-evaluates.
func (c *Context) LoadDefinitions(defs []types.VariableDef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range defs {
		c.defs[d.Name] = d
		delete(c.cache, d.Name)
	}
}

// AddWarning records a non-fatal problem observed outside variable
// resolution (e.g. the Action Executor's unknown-actionType case) so it
// surfaces in the walk's response alongside resolver-produced warnings.
func (c *Context) AddWarning(w types.Warning) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, w)
}

// Warnings returns a copy of the warnings accumulated so far.
func (c *Context) Warnings() []types.Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]types.Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// ResolvedVariables returns a copy of every variable currently in the
// Resolved state, keyed by name.
func (c *Context) ResolvedVariables() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]any, len(c.cache))
	for name, entry := range c.cache {
		if entry.state == Resolved {
			out[name] = entry.value
		}
	}
	return out
}

// EvaluatorContext merges input parameters, the current source node, a
// derived sourceNodeId, and already-resolved variables into the map an
// evaluator's environment is built from. It is also the params argument
// passed to the Template Substitutor, so a placeholder whose root is
// already resolved never triggers a redundant resolve(name) call.
func (c *Context) EvaluatorContext() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()

	env := make(map[string]any, len(c.params)+len(c.cache)+2)
	for k, v := range c.params {
		env[k] = v
	}
	env["sourceNode"] = c.sourceNode
	env["sourceNodeId"] = graph.DeriveNodeID(c.sourceNode)
	for name, entry := range c.cache {
		if entry.state == Resolved {
			env[name] = entry.value
		}
	}
	return env
}

// Resolve implements template.Resolver: it is the Context's own back
// pointer, handed to the Template Substitutor so an unresolved placeholder
// root falls through to resolve(name) instead of failing outright.
func (c *Context) Resolve(ctx context.Context, name string) (any, error) {
	return c.resolve(ctx, name)
}

// resolve returns the cached value for name if present, otherwise looks up
// its definition, substitutes templates, runs the declared evaluator under
// its timeout, and caches the outcome (including nil on a recovered
// failure). EvaluatorTimeout is the one failure that is not recovered: it
// is returned to the caller unchanged and the cache entry is rolled back to
// Unresolved so a later attempt can retry.
func (c *Context) resolve(ctx context.Context, name string) (any, error) {
	c.mu.Lock()
	if entry, ok := c.cache[name]; ok {
		switch entry.state {
		case Resolved, Failed:
			v := entry.value
			c.mu.Unlock()
			return v, nil
		case Resolving:
			c.mu.Unlock()
			return nil, flowerr.Wrap(flowerr.ContractViolation, ErrVariableCycle, "state: cycle resolving variable %q", name)
		}
	}

	def, ok := c.defs[name]
	if !ok {
		c.mu.Unlock()
		return nil, flowerr.NotFoundf("state: no variable definition named %q", name)
	}
	c.cache[name] = &cacheEntry{state: Resolving}
	c.mu.Unlock()

	value, err := c.evaluate(ctx, def)
	if err != nil {
		if fe, ok := flowerr.As(err); ok && fe.Kind == flowerr.EvaluatorTimeout {
			c.mu.Lock()
			delete(c.cache, name)
			c.mu.Unlock()
			return nil, err
		}

		_, raw := def.Evaluator()
		c.mu.Lock()
		c.warnings = append(c.warnings, types.Warning{
			Variable:  name,
			Message:   err.Error(),
			Evaluator: truncateSnippet(raw, 120),
		})
		c.cache[name] = &cacheEntry{state: Failed, value: nil}
		c.mu.Unlock()
		return nil, nil
	}

	c.mu.Lock()
	c.cache[name] = &cacheEntry{state: Resolved, value: value}
	c.mu.Unlock()
	return value, nil
}

func (c *Context) evaluate(ctx context.Context, def types.VariableDef) (any, error) {
	kind, raw := def.Evaluator()
	timeout := defaultVariableTimeout
	if def.TimeoutMs > 0 {
		timeout = time.Duration(def.TimeoutMs) * time.Millisecond
	}

	target := template.SandboxTarget
	if kind == types.EvaluatorCypher {
		target = template.GraphQueryTarget
	}

	snippet, err := template.Substitute(ctx, raw, c.EvaluatorContext(), c, target)
	if err != nil {
		return nil, flowerr.Wrap(flowerr.EvaluationError, err, "variable %q: template substitution failed", def.Name)
	}

	if kind == types.EvaluatorCypher {
		return c.evaluateCypher(ctx, snippet, timeout)
	}
	return c.evaluatePython(ctx, snippet, timeout)
}

func (c *Context) evaluateCypher(ctx context.Context, snippet string, timeout time.Duration) (any, error) {
	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	records, err := c.gateway.RunEvaluatorQuery(queryCtx, snippet, map[string]any{})
	if err != nil {
		if queryCtx.Err() != nil {
			return nil, flowerr.Timeoutf("variable evaluation exceeded %s", timeout)
		}
		return nil, err
	}
	return graph.ExtractValue(records), nil
}

func (c *Context) evaluatePython(ctx context.Context, snippet string, timeout time.Duration) (any, error) {
	env := expression.MergeBuiltins(c.EvaluatorContext())
	return c.sandbox.Evaluate(ctx, snippet, env, timeout)
}

func truncateSnippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
