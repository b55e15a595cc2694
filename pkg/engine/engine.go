package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/answered"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/executor"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/expression"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/flowerr"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/graph"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/observer"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/predicate"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/sourcenode"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/state"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/types"
)

// defaultMaxTraversalDepth bounds the depth-first recursion in traverse,
// guarding against a misconfigured graph (e.g. a GotoSection-less cycle of
// continuation Actions) turning one Walk call into an infinite loop. It
// applies whenever an Engine is built without an explicit SetMaxDepth call.
const defaultMaxTraversalDepth = 1000

// Engine is the Traversal Engine: one Walk call loads a Section, resolves
// its variable scope, then depth-first-walks its outgoing edges to produce
// exactly one of a Question to ask, a Section jump, newly materialized node
// ids, or completion. A single Engine is safe for concurrent Walk calls.
type Engine struct {
	gateway     *graph.Gateway
	sandbox     *expression.Evaluator
	predicates  *predicate.Evaluator
	sourceNodes *sourcenode.Resolver
	answered    *answered.Checker
	actions     *executor.Registry
	observers   *observer.Manager
	maxDepth    int
}

// New builds an Engine over the shared Graph Gateway and Sandbox Evaluator.
// containerRelations is forwarded to the Answered-Question Checker; omit it
// to use its default. The maximum traversal depth defaults to
// defaultMaxTraversalDepth; call SetMaxDepth to override it from a loaded
// config.Config.
func New(gateway *graph.Gateway, sandbox *expression.Evaluator, containerRelations ...string) *Engine {
	return &Engine{
		gateway:     gateway,
		sandbox:     sandbox,
		predicates:  predicate.New(gateway, sandbox),
		sourceNodes: sourcenode.New(gateway, sandbox),
		answered:    answered.New(gateway, containerRelations...),
		actions:     executor.DefaultRegistry(),
		observers:   observer.NewManager(),
		maxDepth:    defaultMaxTraversalDepth,
	}
}

// RegisterObserver adds obs to the set notified of this Engine's walk,
// edge-evaluation, action-execution, and variable-warning events.
func (e *Engine) RegisterObserver(obs observer.Observer) {
	e.observers.Register(obs)
}

// SetMaxDepth overrides the traversal depth bound, e.g. from
// config.Config.MaxWalkDepth. A non-positive n is ignored.
func (e *Engine) SetMaxDepth(n int) {
	if n > 0 {
		e.maxDepth = n
	}
}

// Ping round-trips a trivial statement through the Graph Gateway, giving a
// health checker a real liveness signal for the backing store rather than a
// bare no-op.
func (e *Engine) Ping(ctx context.Context) error {
	_, err := e.gateway.Run(ctx, "RETURN 1", nil)
	return err
}

// outcome is what one traversal run produced. createdNodeIDs and
// nextSectionID/completed can accompany each other when a continuation
// Action (returnImmediately: false) is followed by further traversal.
type outcome struct {
	question       *types.QuestionRef
	nextSectionID  *string
	createdNodeIDs []string
	completed      bool
}

// walker carries the identifiers one Walk call's observer events are
// stamped with, so the recursive traverse methods don't have to thread
// them through every call individually.
type walker struct {
	eng         *Engine
	executionID string
	sectionID   string
}

// Walk runs a single traversal call: load the named Section, resolve its
// source node and variable scope, then depth-first-walk its outgoing edges.
func (e *Engine) Walk(ctx context.Context, req types.WalkRequest) (*types.WalkResponse, error) {
	executionID := types.GetTraceID(ctx)
	if executionID == "" {
		executionID = state.NewExecutionID()
		ctx = types.WithTraceID(ctx, executionID)
	}
	w := &walker{eng: e, executionID: executionID, sectionID: req.SectionID}

	w.notify(ctx, observer.EventWalkStart, observer.StatusStarted, observer.Event{})

	resp, err := w.walk(ctx, req)
	if err != nil {
		w.notify(ctx, observer.EventWalkEnd, observer.StatusFailure, observer.Event{Error: err})
		return nil, err
	}

	w.notify(ctx, observer.EventWalkEnd, observer.StatusSuccess, observer.Event{})
	return resp, nil
}

func (w *walker) walk(ctx context.Context, req types.WalkRequest) (*types.WalkResponse, error) {
	nodeID, section, err := w.eng.loadSection(ctx, req.SectionID)
	if err != nil {
		return nil, err
	}

	ctxState := state.New(w.eng.gateway, w.eng.sandbox, req.Params())

	if section.SourceNode != "" {
		if _, err := w.eng.sourceNodes.Resolve(ctx, section.SourceNode, ctxState); err != nil {
			return nil, err
		}
	}
	ctxState.LoadDefinitions(section.Variables)

	out, err := w.traverse(ctx, nodeID, ctxState, 0)
	if err != nil {
		return nil, err
	}

	for _, warning := range ctxState.Warnings() {
		w.notify(ctx, observer.EventVariableWarning, observer.StatusFailure, observer.Event{
			Metadata: map[string]interface{}{"variable": warning.Variable, "message": warning.Message},
		})
	}

	return w.eng.buildResponse(ctx, req, ctxState, out), nil
}

// traverse depth-first-walks nodeID's outgoing edges in order, stopping at
// the first edge whose askWhen holds. A Question target stops the walk
// unless it is already answered, in which case traversal recurses past it;
// an allowMultiple Question always stops, regardless of prior answers. An
// Action target executes, then either returns immediately or recurses from
// the Action node's own outgoing edges, merging created-node ids and
// carrying forward nextSectionID/completed from the non-terminal leg.
func (w *walker) traverse(ctx context.Context, nodeID string, ctxState *state.Context, depth int) (outcome, error) {
	if depth > w.eng.maxDepth {
		return outcome{}, flowerr.ResourceLimitf("traversal exceeded max depth of %d", w.eng.maxDepth)
	}

	edges, err := w.eng.loadOutgoingEdges(ctx, nodeID)
	if err != nil {
		return outcome{}, err
	}

	for _, edge := range edges {
		ctxState.LoadDefinitions(edge.Variables)
		if edge.SourceNode != "" {
			if _, err := w.eng.sourceNodes.Resolve(ctx, edge.SourceNode, ctxState); err != nil {
				return outcome{}, err
			}
		}

		ok, err := w.eng.predicates.Evaluate(ctx, edge.AskWhen, ctxState)
		if err != nil {
			return outcome{}, err
		}

		matchStatus := observer.StatusFailure
		if ok {
			matchStatus = observer.StatusSuccess
		}
		w.notify(ctx, observer.EventEdgeEvaluated, matchStatus, observer.Event{EdgeID: edge.EdgeID})

		if !ok {
			continue
		}

		switch edge.TargetKind {
		case types.TargetQuestion:
			return w.traverseQuestion(ctx, edge, ctxState, depth)
		case types.TargetAction:
			return w.traverseAction(ctx, edge, ctxState, depth)
		default:
			return outcome{}, flowerr.ContractViolationf("edge %q: unrecognized target kind %q", edge.EdgeID, edge.TargetKind)
		}
	}

	return outcome{completed: true}, nil
}

func (w *walker) traverseQuestion(ctx context.Context, edge resolvedEdge, ctxState *state.Context, depth int) (outcome, error) {
	q := edge.Target.Question

	// allowMultiple Questions are never answered-checked: they are designed
	// to be asked repeatedly against the same or different source nodes in
	// a loop, and the edge's own askWhen is the only thing gating when that
	// loop stops. Checking answered-state here would wrongly skip a
	// re-ask the moment any prior Datapoint exists for this question,
	// regardless of askWhen still holding.
	if q.AllowMultiple {
		return outcome{question: &types.QuestionRef{QuestionID: q.QuestionID}}, nil
	}

	already, err := w.eng.answered.IsAnswered(ctx, ctxState.SourceNode(), q.QuestionID)
	if err != nil {
		return outcome{}, err
	}
	if already {
		return w.traverse(ctx, edge.targetElementID, ctxState, depth+1)
	}
	return outcome{question: &types.QuestionRef{QuestionID: q.QuestionID}}, nil
}

func (w *walker) traverseAction(ctx context.Context, edge resolvedEdge, ctxState *state.Context, depth int) (outcome, error) {
	action := *edge.Target.Action

	res, err := w.eng.actions.Execute(ctx, action, ctxState, &executor.Runtime{Gateway: w.eng.gateway, SourceNode: w.eng.sourceNodes})

	actionEvent := observer.EventActionExecuted
	status := observer.StatusSuccess
	if err != nil {
		actionEvent = observer.EventActionFailed
		status = observer.StatusFailure
	}
	w.notify(ctx, actionEvent, status, observer.Event{
		ActionID: action.ActionID,
		Metadata: map[string]interface{}{"action_type": string(action.ActionType)},
	})
	if err != nil {
		return outcome{}, err
	}

	out := outcome{createdNodeIDs: res.CreatedNodeIDs, completed: res.Completed}
	if res.HasNextSection {
		id := res.NextSectionID
		out.nextSectionID = &id
	}

	if action.ResolvedReturnImmediately() {
		return out, nil
	}

	next, err := w.traverse(ctx, edge.targetElementID, ctxState, depth+1)
	if err != nil {
		return outcome{}, err
	}
	next.createdNodeIDs = append(out.createdNodeIDs, next.createdNodeIDs...)
	if out.nextSectionID != nil && next.nextSectionID == nil {
		next.nextSectionID = out.nextSectionID
	}
	if out.completed {
		next.completed = true
	}
	return next, nil
}

// notify fills in the identifying fields every event from this walk shares
// before handing it to the Observer Manager.
func (w *walker) notify(ctx context.Context, eventType observer.EventType, status observer.ExecutionStatus, partial observer.Event) {
	partial.Type = eventType
	partial.Status = status
	partial.Timestamp = time.Now()
	partial.ExecutionID = w.executionID
	partial.SectionID = w.sectionID
	w.eng.observers.Notify(ctx, partial)
}

func (e *Engine) buildResponse(ctx context.Context, req types.WalkRequest, ctxState *state.Context, out outcome) *types.WalkResponse {
	var sourceNode *string
	if id := graph.DeriveNodeID(ctxState.SourceNode()); id != nil {
		s := toSourceNodeString(id)
		sourceNode = &s
	}

	return &types.WalkResponse{
		SectionID:        req.SectionID,
		Question:         out.question,
		NextSectionID:    out.nextSectionID,
		CreatedNodeIDs:   out.createdNodeIDs,
		Completed:        out.completed,
		RequestVariables: req.Params(),
		SourceNode:       sourceNode,
		Vars:             ctxState.ResolvedVariables(),
		Warnings:         ctxState.Warnings(),
		TraceID:          types.GetTraceID(ctx),
	}
}

func toSourceNodeString(id any) string {
	if s, ok := id.(string); ok {
		return s
	}
	return fmt.Sprint(id)
}
