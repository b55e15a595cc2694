package expression

import (
	"context"
	"testing"
	"time"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/flowerr"
)

func TestEvaluateArithmetic(t *testing.T) {
	e := NewEvaluator()
	env := MergeBuiltins(map[string]any{"age": 30})

	v, err := e.Evaluate(context.Background(), "age * 2", env, time.Second)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if n, ok := v.(int); !ok || n != 60 {
		t.Fatalf("expected 60, got %v (%T)", v, v)
	}
}

func TestEvaluateBooleanComparison(t *testing.T) {
	e := NewEvaluator()
	env := MergeBuiltins(map[string]any{"has_coapplicant": "No"})

	ok, err := e.EvaluateBoolean(context.Background(), `has_coapplicant == "No"`, env, time.Second)
	if err != nil {
		t.Fatalf("EvaluateBoolean() error = %v", err)
	}
	if !ok {
		t.Fatal("expected true")
	}
}

func TestEvaluateUnresolvedIdentifierIsSecurity(t *testing.T) {
	e := NewEvaluator()
	env := MergeBuiltins(map[string]any{})

	_, err := e.Evaluate(context.Background(), "forbidden_identifier + 1", env, time.Second)
	if err == nil {
		t.Fatal("expected error for unresolved identifier")
	}
	fe, ok := flowerr.As(err)
	if !ok || fe.Kind != flowerr.Security {
		t.Fatalf("expected Security kind, got %v", err)
	}
}

func TestEvaluateWhitelistedBuiltins(t *testing.T) {
	e := NewEvaluator()
	env := MergeBuiltins(map[string]any{"nums": []any{3, 1, 2}})

	cases := []struct {
		expr string
		want any
	}{
		{"len(nums)", 3},
		{"sorted(nums)", []any{1, 2, 3}},
	}

	for _, tc := range cases {
		v, err := e.Evaluate(context.Background(), tc.expr, env, time.Second)
		if err != nil {
			t.Fatalf("Evaluate(%q) error = %v", tc.expr, err)
		}
		switch want := tc.want.(type) {
		case []any:
			got, ok := v.([]any)
			if !ok || len(got) != len(want) {
				t.Fatalf("Evaluate(%q) = %#v, want %#v", tc.expr, v, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("Evaluate(%q)[%d] = %v, want %v", tc.expr, i, got[i], want[i])
				}
			}
		default:
			if v != tc.want {
				t.Fatalf("Evaluate(%q) = %v, want %v", tc.expr, v, tc.want)
			}
		}
	}
}

func TestEvaluateSumMinMax(t *testing.T) {
	e := NewEvaluator()
	env := MergeBuiltins(map[string]any{"nums": []any{3, 1, 2}})

	sum, err := e.Evaluate(context.Background(), "sum(nums)", env, time.Second)
	if err != nil {
		t.Fatalf("sum error: %v", err)
	}
	if sum.(float64) != 6 {
		t.Fatalf("expected sum 6, got %v", sum)
	}

	min, err := e.Evaluate(context.Background(), "min(nums)", env, time.Second)
	if err != nil {
		t.Fatalf("min error: %v", err)
	}
	if min.(float64) != 1 {
		t.Fatalf("expected min 1, got %v", min)
	}
}

func TestEvaluateTimeout(t *testing.T) {
	e := NewEvaluator()
	env := MergeBuiltins(map[string]any{})

	_, err := e.Evaluate(context.Background(), "1 + 1", env, 0)
	if err == nil {
		t.Fatal("expected timeout error with zero-duration budget")
	}
	fe, ok := flowerr.As(err)
	if !ok || fe.Kind != flowerr.EvaluatorTimeout {
		t.Fatalf("expected EvaluatorTimeout kind, got %v", err)
	}
}

func TestEvaluateBooleanNonCoercibleResult(t *testing.T) {
	e := NewEvaluator()
	env := MergeBuiltins(map[string]any{})

	_, err := e.EvaluateBoolean(context.Background(), `datetime.Now()`, env, time.Second)
	if err == nil {
		t.Fatal("expected a time.Time result to fail boolean coercion")
	}
	fe, ok := flowerr.As(err)
	if !ok || fe.Kind != flowerr.EvaluationError {
		t.Fatalf("expected EvaluationError kind, got %v", err)
	}
}

func TestCoerceBool(t *testing.T) {
	cases := []struct {
		in   any
		want bool
		ok   bool
	}{
		{nil, false, true},
		{true, true, true},
		{"", false, true},
		{"x", true, true},
		{0, false, true},
		{5, true, true},
		{[]any{}, false, true},
		{[]any{1}, true, true},
		{struct{}{}, false, false},
	}
	for _, tc := range cases {
		got, ok := CoerceBool(tc.in)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("CoerceBool(%#v) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestRegexModule(t *testing.T) {
	e := NewEvaluator()
	env := MergeBuiltins(map[string]any{"s": "hello-123"})

	v, err := e.Evaluate(context.Background(), `regex.Match("[0-9]+", s)`, env, time.Second)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if matched, ok := v.(bool); !ok || !matched {
		t.Fatalf("expected match, got %v", v)
	}
}
