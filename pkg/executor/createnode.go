package executor

import (
	"context"
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/flowerr"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/graph"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/state"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/template"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/types"
)

// CreateNodeAction runs an Action's graph-query snippet and reports one
// created-node identifier per returned row, taken by graph.ExtractRecord:
// a single-column row's value, else its "value" column, else the whole row.
type CreateNodeAction struct{}

func (CreateNodeAction) ActionType() types.ActionType { return types.ActionCreateNode }

func (a CreateNodeAction) Execute(ctx context.Context, action types.Action, ctxState *state.Context, rt *Runtime) (Result, error) {
	if err := resolveActionSourceNode(ctx, action, ctxState, rt); err != nil {
		return Result{}, err
	}

	snippet, err := template.Substitute(ctx, action.Query, ctxState.EvaluatorContext(), ctxState, template.GraphQueryTarget)
	if err != nil {
		return Result{}, flowerr.Wrap(flowerr.EvaluationError, err, "action %s: template substitution failed", action.ActionID)
	}

	records, err := rt.Gateway.Run(ctx, snippet, map[string]any{})
	if err != nil {
		return Result{}, err
	}

	if len(action.ResultSchema) > 0 {
		if err := validateRecords(action.ActionID, action.ResultSchema, records); err != nil {
			return Result{}, err
		}
	}

	// A Record is an unordered property map, so "first column" only has a
	// clear meaning when the query returns a single column; queries
	// returning more than one are expected to name the identifier column
	// "value" (graph.ExtractRecord's rule), else the whole record is used.
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, toString(graph.ExtractRecord(r)))
	}
	return Result{CreatedNodeIDs: ids}, nil
}

// validateRecords checks every row a CreateNode query returned against its
// action's declared ResultSchema, failing the action with a
// ContractViolation on the first row that doesn't conform. A graph store
// returning rows that don't match the shape an Action author declared is a
// contract break between the store and the Action, not a transient or
// input-evaluation failure.
func validateRecords(actionID string, schema json.RawMessage, records []graph.Record) error {
	schemaLoader := gojsonschema.NewBytesLoader(schema)

	for i, r := range records {
		rowBytes, err := json.Marshal(map[string]any(r))
		if err != nil {
			return flowerr.Wrap(flowerr.ContractViolation, err, "action %s: marshal row %d for schema validation", actionID, i)
		}

		result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(rowBytes))
		if err != nil {
			return flowerr.Wrap(flowerr.ContractViolation, err, "action %s: invalid result schema", actionID)
		}
		if !result.Valid() {
			return flowerr.ContractViolationf("action %s: row %d failed result schema: %v", actionID, i, result.Errors())
		}
	}
	return nil
}
