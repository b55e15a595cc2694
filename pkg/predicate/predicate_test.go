package predicate

import (
	"context"
	"testing"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/expression"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/flowerr"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/graph"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/state"
)

func newTestEvaluator() (*Evaluator, *graph.InMemoryStore) {
	store := graph.NewInMemoryStore()
	gw := graph.NewGateway(store, graph.DefaultRetryPolicy(), 100)
	sandbox := expression.NewEvaluator()
	return New(gw, sandbox), store
}

func TestEvaluateEmptyAskWhenIsTrue(t *testing.T) {
	e, _ := newTestEvaluator()
	ctxState := state.New(nil, nil, nil)

	ok, err := e.Evaluate(context.Background(), "", ctxState)
	if err != nil || !ok {
		t.Fatalf("expected (true, nil), got (%v, %v)", ok, err)
	}
}

func TestEvaluateSandboxDefault(t *testing.T) {
	e, _ := newTestEvaluator()
	ctxState := state.New(nil, nil, map[string]any{"has_coapplicant": "No"})

	ok, err := e.Evaluate(context.Background(), `has_coapplicant == "No"`, ctxState)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !ok {
		t.Fatal("expected true")
	}
}

func TestEvaluatePythonPrefix(t *testing.T) {
	e, _ := newTestEvaluator()
	ctxState := state.New(nil, nil, map[string]any{"age": 25})

	ok, err := e.Evaluate(context.Background(), "python: age >= 18", ctxState)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !ok {
		t.Fatal("expected true")
	}
}

func TestEvaluateCypherPrefix(t *testing.T) {
	store := graph.NewInMemoryStore()
	store.Seed(`MATCH (n) RETURN true AS value`, []graph.Record{{"value": true}})
	gw := graph.NewGateway(store, graph.DefaultRetryPolicy(), 100)
	e := New(gw, expression.NewEvaluator())

	ctxState := state.New(nil, nil, nil)
	ok, err := e.Evaluate(context.Background(), `cypher: MATCH (n) RETURN true AS value`, ctxState)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !ok {
		t.Fatal("expected true")
	}
}

func TestEvaluateCypherEmptyResultIsFalse(t *testing.T) {
	e, store := newTestEvaluator()
	store.Seed(`MATCH (n:Nope) RETURN n`, []graph.Record{})

	ctxState := state.New(nil, nil, nil)
	ok, err := e.Evaluate(context.Background(), `cypher: MATCH (n:Nope) RETURN n`, ctxState)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if ok {
		t.Fatal("expected false for an empty result set")
	}
}

func TestEvaluateTemplateSubstitutionInAskWhen(t *testing.T) {
	e, _ := newTestEvaluator()
	ctxState := state.New(nil, nil, map[string]any{"threshold": 100})

	ok, err := e.Evaluate(context.Background(), "{{ threshold }} > 50", ctxState)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !ok {
		t.Fatal("expected true")
	}
}

func TestEvaluateFailurePropagatesAsFlowError(t *testing.T) {
	e, _ := newTestEvaluator()
	ctxState := state.New(nil, nil, nil)

	_, err := e.Evaluate(context.Background(), "1 +", ctxState)
	if err == nil {
		t.Fatal("expected a propagated error for an invalid snippet")
	}
	if _, ok := flowerr.As(err); !ok {
		t.Fatalf("expected a FlowError, got %v", err)
	}
}
