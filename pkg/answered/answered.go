package answered

import (
	"context"
	"fmt"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/graph"
)

// DefaultContainerRelation is the container-mediated relation the Checker
// consults when none is configured: the one container pattern attested in
// the source material (history records attached to an applicant).
const DefaultContainerRelation = "HAS_HISTORY_PROPERTY"

const (
	directPattern = `MATCH (source)-[:SUPPLIES]->(d:Datapoint)-[:ANSWERS]->(q:Question {questionId: $questionId})
WHERE elementId(source) = $sourceId OR id(source) = $sourceId
RETURN d LIMIT 1`

	containerPatternTemplate = `MATCH (source)-[:%s]->(container)-[:SUPPLIES]->(d:Datapoint)-[:ANSWERS]->(q:Question {questionId: $questionId})
WHERE elementId(source) = $sourceId OR id(source) = $sourceId
RETURN d LIMIT 1`

	parentLookupTemplate = `MATCH (parent)-[:%s]->(container)
WHERE elementId(container) = $sourceId OR id(container) = $sourceId
RETURN parent LIMIT 1`
)

// Checker decides whether a Question already has an answer under a given
// source node.
//
// Container-mediated detection is hardwired in the source material to a
// single relation name; here it is a configurable list instead, so a graph
// that models more than one kind of container (addresses, prior employers,
// dependents, ...) is not limited to one. ContainerRelations defaults to
// [DefaultContainerRelation] when empty.
type Checker struct {
	gateway            *graph.Gateway
	containerRelations []string
}

// New builds a Checker over the shared Graph Gateway. containerRelations
// overrides the relation types consulted for the container-mediated
// pattern; pass none to use [DefaultContainerRelation].
func New(gateway *graph.Gateway, containerRelations ...string) *Checker {
	if len(containerRelations) == 0 {
		containerRelations = []string{DefaultContainerRelation}
	}
	return &Checker{gateway: gateway, containerRelations: containerRelations}
}

// IsAnswered reports whether a Datapoint answering questionID exists under
// sourceNode, either directly or through any configured container relation.
// If sourceNode is itself a container (reachable from some parent via a
// configured relation), the parent is used as the effective source first:
// a container is owned by the applicant it was created under, and the
// existence check runs from that owner's point of view.
func (c *Checker) IsAnswered(ctx context.Context, sourceNode any, questionID string) (bool, error) {
	effective, err := c.resolveEffectiveSource(ctx, sourceNode)
	if err != nil {
		return false, err
	}

	ok, err := c.isAnsweredByPattern(ctx, directPattern, effective, questionID)
	if err != nil || ok {
		return ok, err
	}
	for _, rel := range c.containerRelations {
		ok, err := c.isAnsweredByPattern(ctx, containerQuery(rel), effective, questionID)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// resolveEffectiveSource walks up to sourceNode's owning parent if
// sourceNode is itself a container under one of the configured relations,
// otherwise returns sourceNode unchanged.
func (c *Checker) resolveEffectiveSource(ctx context.Context, sourceNode any) (any, error) {
	sourceID := graph.DeriveNodeID(sourceNode)
	if sourceID == nil {
		return sourceNode, nil
	}
	for _, rel := range c.containerRelations {
		records, err := c.gateway.Run(ctx, parentLookupQuery(rel), map[string]any{"sourceId": sourceID})
		if err != nil {
			return nil, err
		}
		if len(records) > 0 {
			if parent, ok := records[0].Value("parent"); ok {
				return parent, nil
			}
		}
	}
	return sourceNode, nil
}

// IsAnsweredInCurrentContext reports whether a Datapoint answering
// questionID exists directly under sourceNode, ignoring any container.
// The Traversal Engine does not call it: an allowMultiple Question is
// stopped at without any answered check.
func (c *Checker) IsAnsweredInCurrentContext(ctx context.Context, sourceNode any, questionID string) (bool, error) {
	return c.isAnsweredByPattern(ctx, directPattern, sourceNode, questionID)
}

func (c *Checker) isAnsweredByPattern(ctx context.Context, statement string, sourceNode any, questionID string) (bool, error) {
	sourceID := graph.DeriveNodeID(sourceNode)
	if sourceID == nil {
		return false, nil
	}
	records, err := c.gateway.Run(ctx, statement, map[string]any{
		"sourceId":   sourceID,
		"questionId": questionID,
	})
	if err != nil {
		return false, err
	}
	return len(records) > 0, nil
}

func containerQuery(relation string) string {
	return fmt.Sprintf(containerPatternTemplate, relation)
}

func parentLookupQuery(relation string) string {
	return fmt.Sprintf(parentLookupTemplate, relation)
}
