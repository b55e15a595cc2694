package engine

import (
	"testing"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/graph"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/types"
)

func TestDecodeVariablesEmpty(t *testing.T) {
	for _, raw := range []any{nil, ""} {
		defs, err := decodeVariables(raw)
		if err != nil {
			t.Fatalf("decodeVariables(%v) error = %v", raw, err)
		}
		if defs != nil {
			t.Fatalf("decodeVariables(%v) = %v, want nil", raw, defs)
		}
	}
}

func TestDecodeVariablesParsesJSON(t *testing.T) {
	raw := `[{"name":"age","python":"applicant.age"}]`
	defs, err := decodeVariables(raw)
	if err != nil {
		t.Fatalf("decodeVariables() error = %v", err)
	}
	if len(defs) != 1 || defs[0].Name != "age" || defs[0].Python != "applicant.age" {
		t.Fatalf("unexpected decoded variables: %+v", defs)
	}
}

func TestDecodeVariablesInvalidJSON(t *testing.T) {
	if _, err := decodeVariables("not json"); err == nil {
		t.Fatal("expected an error for malformed variables JSON")
	}
}

func TestDecodeTargetKind(t *testing.T) {
	cases := []struct {
		raw  any
		want types.TargetKind
	}{
		{[]string{"Question"}, types.TargetQuestion},
		{[]string{"Action"}, types.TargetAction},
		{[]string{"Section"}, types.TargetSection},
		{[]any{"Question"}, types.TargetQuestion},
		{[]string{"SomethingElse"}, types.TargetUnknown},
		{nil, types.TargetUnknown},
	}
	for _, c := range cases {
		if got := decodeTargetKind(c.raw); got != c.want {
			t.Errorf("decodeTargetKind(%v) = %v, want %v", c.raw, got, c.want)
		}
	}
}

func TestDecodeTargetQuestion(t *testing.T) {
	r := graph.Record{
		"questionId": "Q1", "prompt": "What is your age?", "dataType": "number",
		"displayOrder": 3, "allowMultiple": true,
	}
	target, id, err := decodeTarget(r, types.TargetQuestion)
	if err != nil {
		t.Fatalf("decodeTarget() error = %v", err)
	}
	if id != "Q1" || target.Question == nil {
		t.Fatalf("unexpected target: id=%q target=%+v", id, target)
	}
	if target.Question.DisplayOrder != 3 || !target.Question.AllowMultiple {
		t.Fatalf("unexpected question fields: %+v", target.Question)
	}
}

func TestDecodeTargetActionReturnImmediatelyNullable(t *testing.T) {
	r := graph.Record{"actionId": "a1", "actionType": "CreateNode", "query": "RETURN 1"}
	target, id, err := decodeTarget(r, types.TargetAction)
	if err != nil {
		t.Fatalf("decodeTarget() error = %v", err)
	}
	if id != "a1" || target.Action.ReturnImmediately != nil {
		t.Fatalf("expected a nil ReturnImmediately when the column is absent, got %+v", target.Action)
	}

	r["returnImmediately"] = false
	target, _, err = decodeTarget(r, types.TargetAction)
	if err != nil {
		t.Fatalf("decodeTarget() error = %v", err)
	}
	if target.Action.ReturnImmediately == nil || *target.Action.ReturnImmediately != false {
		t.Fatalf("expected ReturnImmediately = false, got %+v", target.Action.ReturnImmediately)
	}
}

func TestDecodeEdgeOrdersAndWrapsVariableErrors(t *testing.T) {
	r := graph.Record{
		"edgeId": "e1", "kind": "PRECEDES", "orderInForm": 2, "creationSeq": int64(5),
		"askWhen": "", "edgeSourceNode": "", "edgeVariablesJson": "not json",
		"targetNodeId": "n1", "targetLabels": []string{"Question"},
		"questionId": "Q1",
	}
	if _, err := decodeEdge(r); err == nil {
		t.Fatal("expected malformed edge variables JSON to produce an error")
	}

	r["edgeVariablesJson"] = nil
	edge, err := decodeEdge(r)
	if err != nil {
		t.Fatalf("decodeEdge() error = %v", err)
	}
	if edge.OrderInForm != 2 || edge.CreationSeq != 5 || edge.targetElementID != "n1" {
		t.Fatalf("unexpected decoded edge: %+v", edge)
	}
}
