package expression

import (
	"context"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/flowerr"
)

// Evaluator runs `python:`-prefixed snippets against a restricted
// expr-lang/expr environment. One Evaluator can be shared across walks;
// it holds no per-call state beyond a compiled-program cache.
type Evaluator struct {
	mu    sync.Mutex
	cache map[string]*vm.Program
}

// NewEvaluator returns a ready Evaluator with an empty program cache.
func NewEvaluator() *Evaluator {
	return &Evaluator{cache: make(map[string]*vm.Program)}
}

// Evaluate compiles (or reuses a cached compile of) snippet against env and
// runs it on a dedicated goroutine bounded by timeout. env is expected to
// already be merged with the whitelisted builtins via MergeBuiltins.
//
// A compile failure (unresolved identifier, disallowed construct, or a
// snippet that is not a single expression) surfaces as flowerr.Security.
// A runtime failure surfaces as flowerr.EvaluationError. Exceeding timeout
// surfaces as flowerr.EvaluatorTimeout; the evaluating goroutine is
// abandoned rather than waited on, per spec's "do not share workers"
// isolation rule.
func (e *Evaluator) Evaluate(ctx context.Context, snippet string, env map[string]any, timeout time.Duration) (any, error) {
	program, err := e.compile(snippet, env)
	if err != nil {
		return nil, flowerr.Wrap(flowerr.Security, err, "sandbox rejected snippet: %v", err)
	}

	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		v, runErr := expr.Run(program, env)
		done <- outcome{value: v, err: runErr}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		if out.err != nil {
			return nil, flowerr.Wrap(flowerr.EvaluationError, out.err, "sandbox evaluation failed: %v", out.err)
		}
		return out.value, nil
	case <-timer.C:
		return nil, flowerr.Timeoutf("sandbox evaluation exceeded %s", timeout)
	case <-ctx.Done():
		return nil, flowerr.Timeoutf("sandbox evaluation cancelled: %v", ctx.Err())
	}
}

// EvaluateBoolean is Evaluate plus the boolean coercion an askWhen result
// requires.
func (e *Evaluator) EvaluateBoolean(ctx context.Context, snippet string, env map[string]any, timeout time.Duration) (bool, error) {
	v, err := e.Evaluate(ctx, snippet, env, timeout)
	if err != nil {
		return false, err
	}
	b, ok := CoerceBool(v)
	if !ok {
		return false, flowerr.Wrap(flowerr.EvaluationError, ErrNonBooleanResult, "askWhen produced non-boolean result %T", v)
	}
	return b, nil
}

// CoerceBool applies the engine's truthiness rules: a bool is itself, a
// non-empty string/non-zero number/non-empty collection is true, nil and
// zero-ish values are false.
func CoerceBool(v any) (bool, bool) {
	switch t := v.(type) {
	case nil:
		return false, true
	case bool:
		return t, true
	case string:
		return t != "", true
	case int:
		return t != 0, true
	case int64:
		return t != 0, true
	case float64:
		return t != 0, true
	case []any:
		return len(t) > 0, true
	case map[string]any:
		return len(t) > 0, true
	default:
		return false, false
	}
}

func (e *Evaluator) compile(snippet string, env map[string]any) (*vm.Program, error) {
	e.mu.Lock()
	if program, ok := e.cache[snippet]; ok {
		e.mu.Unlock()
		return program, nil
	}
	e.mu.Unlock()

	program, err := expr.Compile(snippet, expr.Env(env), expr.DisableAllBuiltins())
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[snippet] = program
	e.mu.Unlock()
	return program, nil
}
