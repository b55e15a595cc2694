package engine

import (
	"context"
	"encoding/json"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/flowerr"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/graph"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/types"
)

// The traversal engine's data model is not bound to any storage schema, so
// these statements are this engine's own convention rather than a fixed
// wire format: a Section/Question/Action/Edge property set, decoded by
// column name. Variables are carried as a JSON-encoded array property,
// mirroring how payload types elsewhere in this module round-trip through
// encoding/json rather than a bespoke property-per-field layout.

const loadSectionStatement = `MATCH (s:Section {sectionId: $sectionId})
RETURN elementId(s) AS nodeId, s.sectionId AS sectionId, s.name AS name,
       s.sourceNode AS sourceNode, s.variables AS variablesJson
LIMIT 1`

const loadOutgoingEdgesStatement = `MATCH (n)-[e:PRECEDES|TRIGGERS]->(target)
WHERE elementId(n) = $nodeId OR id(n) = $nodeId
RETURN e.edgeId AS edgeId, type(e) AS kind, e.orderInForm AS orderInForm,
       e.creationSeq AS creationSeq, e.askWhen AS askWhen,
       e.sourceNode AS edgeSourceNode, e.variables AS edgeVariablesJson,
       elementId(target) AS targetNodeId, labels(target) AS targetLabels,
       target.questionId AS questionId, target.prompt AS prompt,
       target.dataType AS dataType, target.displayOrder AS displayOrder,
       target.allowMultiple AS allowMultiple,
       target.actionId AS actionId, target.actionType AS actionType,
       target.query AS query, target.nextSectionId AS nextSectionId,
       target.returnImmediately AS returnImmediately,
       target.sourceNode AS actionSourceNode,
       target.sectionId AS targetSectionId, target.name AS targetSectionName,
       target.variables AS targetVariablesJson
ORDER BY orderInForm ASC, creationSeq ASC`

// resolvedEdge augments a decoded types.Edge with the target node's store
// element id, which the recursion in traverse needs to load that node's own
// outgoing edges in turn. types.Edge.TargetID stays a domain id (questionId/
// actionId/sectionId) since that is what a caller serializing an Edge over
// the wire would expect; the element id is engine-internal plumbing.
type resolvedEdge struct {
	types.Edge
	targetElementID string
}

func (e *Engine) loadSection(ctx context.Context, sectionID string) (string, types.Section, error) {
	records, err := e.gateway.Run(ctx, loadSectionStatement, map[string]any{"sectionId": sectionID})
	if err != nil {
		return "", types.Section{}, err
	}
	if len(records) == 0 {
		return "", types.Section{}, flowerr.NotFoundf("section %q not found", sectionID)
	}

	r := records[0]
	nodeID, _ := stringValue(r, "nodeId")
	vars, err := decodeVariables(r["variablesJson"])
	if err != nil {
		return "", types.Section{}, flowerr.Wrap(flowerr.EvaluationError, err, "section %q: invalid variables", sectionID)
	}

	name, _ := stringValue(r, "name")
	sourceNode, _ := stringValue(r, "sourceNode")
	section := types.Section{
		SectionID:  sectionID,
		Name:       name,
		SourceNode: sourceNode,
		Variables:  vars,
	}
	return nodeID, section, nil
}

func (e *Engine) loadOutgoingEdges(ctx context.Context, nodeID string) ([]resolvedEdge, error) {
	records, err := e.gateway.Run(ctx, loadOutgoingEdgesStatement, map[string]any{"nodeId": nodeID})
	if err != nil {
		return nil, err
	}

	edges := make([]resolvedEdge, 0, len(records))
	for _, r := range records {
		edge, err := decodeEdge(r)
		if err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}
	return edges, nil
}

func decodeEdge(r graph.Record) (resolvedEdge, error) {
	edgeID, _ := stringValue(r, "edgeId")
	kind, _ := stringValue(r, "kind")
	askWhen, _ := stringValue(r, "askWhen")
	sourceNode, _ := stringValue(r, "edgeSourceNode")
	targetElementID, _ := stringValue(r, "targetNodeId")

	vars, err := decodeVariables(r["edgeVariablesJson"])
	if err != nil {
		return resolvedEdge{}, flowerr.Wrap(flowerr.EvaluationError, err, "edge %q: invalid variables", edgeID)
	}

	targetKind := decodeTargetKind(r["targetLabels"])
	target, targetID, err := decodeTarget(r, targetKind)
	if err != nil {
		return resolvedEdge{}, err
	}

	return resolvedEdge{
		Edge: types.Edge{
			EdgeID:      edgeID,
			Kind:        types.EdgeKind(kind),
			OrderInForm: intValue(r, "orderInForm"),
			CreationSeq: int64Value(r, "creationSeq"),
			AskWhen:     askWhen,
			Variables:   vars,
			SourceNode:  sourceNode,
			TargetKind:  targetKind,
			TargetID:    targetID,
			Target:      target,
		},
		targetElementID: targetElementID,
	}, nil
}

func decodeTarget(r graph.Record, kind types.TargetKind) (types.Target, string, error) {
	switch kind {
	case types.TargetQuestion:
		questionID, _ := stringValue(r, "questionId")
		prompt, _ := stringValue(r, "prompt")
		dataType, _ := stringValue(r, "dataType")
		q := &types.Question{
			QuestionID:    questionID,
			Prompt:        prompt,
			DataType:      dataType,
			DisplayOrder:  intValue(r, "displayOrder"),
			AllowMultiple: boolValue(r, "allowMultiple"),
		}
		return types.Target{Question: q}, questionID, nil

	case types.TargetAction:
		actionID, _ := stringValue(r, "actionId")
		actionType, _ := stringValue(r, "actionType")
		query, _ := stringValue(r, "query")
		nextSectionID, _ := stringValue(r, "nextSectionId")
		actionSourceNode, _ := stringValue(r, "actionSourceNode")
		var returnImmediately *bool
		if v, ok := r["returnImmediately"]; ok && v != nil {
			b := boolValue(r, "returnImmediately")
			returnImmediately = &b
		}
		a := &types.Action{
			ActionID:          actionID,
			ActionType:        types.ActionType(actionType),
			Query:             query,
			NextSectionID:     nextSectionID,
			ReturnImmediately: returnImmediately,
			SourceNode:        actionSourceNode,
		}
		return types.Target{Action: a}, actionID, nil

	case types.TargetSection:
		sectionID, _ := stringValue(r, "targetSectionId")
		name, _ := stringValue(r, "targetSectionName")
		sourceNode, _ := stringValue(r, "actionSourceNode")
		vars, err := decodeVariables(r["targetVariablesJson"])
		if err != nil {
			return types.Target{}, "", flowerr.Wrap(flowerr.EvaluationError, err, "section target %q: invalid variables", sectionID)
		}
		s := &types.Section{SectionID: sectionID, Name: name, SourceNode: sourceNode, Variables: vars}
		return types.Target{Section: s}, sectionID, nil

	default:
		return types.Target{}, "", nil
	}
}

func decodeTargetKind(raw any) types.TargetKind {
	labels, _ := raw.([]string)
	if labels == nil {
		if ifaces, ok := raw.([]any); ok {
			for _, v := range ifaces {
				if s, ok := v.(string); ok {
					labels = append(labels, s)
				}
			}
		}
	}
	for _, l := range labels {
		switch l {
		case "Question":
			return types.TargetQuestion
		case "Action":
			return types.TargetAction
		case "Section":
			return types.TargetSection
		}
	}
	return types.TargetUnknown
}

func decodeVariables(raw any) ([]types.VariableDef, error) {
	if raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return nil, nil
	}
	var defs []types.VariableDef
	if err := json.Unmarshal([]byte(s), &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

func stringValue(r graph.Record, column string) (string, bool) {
	v, ok := r.Value(column)
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func intValue(r graph.Record, column string) int {
	v, ok := r.Value(column)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func int64Value(r graph.Record, column string) int64 {
	v, ok := r.Value(column)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func boolValue(r graph.Record, column string) bool {
	v, ok := r.Value(column)
	if !ok || v == nil {
		return false
	}
	b, _ := v.(bool)
	return b
}
