package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/observer"
)

// TelemetryObserver implements observer.Observer and records telemetry data
// for traversal execution events.
type TelemetryObserver struct {
	provider *Provider

	// Track the active span for the walk in progress
	walkSpan trace.Span

	// Track execution start time
	walkStartTime time.Time
}

// NewTelemetryObserver creates a new telemetry observer
func NewTelemetryObserver(provider *Provider) *TelemetryObserver {
	return &TelemetryObserver{
		provider: provider,
	}
}

// OnEvent handles execution events and records telemetry data
func (o *TelemetryObserver) OnEvent(ctx context.Context, event observer.Event) {
	switch event.Type {
	case observer.EventWalkStart:
		o.handleWalkStart(ctx, event)
	case observer.EventWalkEnd:
		o.handleWalkEnd(ctx, event)
	case observer.EventEdgeEvaluated:
		o.handleEdgeEvaluated(ctx, event)
	case observer.EventActionExecuted:
		o.handleActionExecuted(ctx, event, true)
	case observer.EventActionFailed:
		o.handleActionExecuted(ctx, event, false)
	}
}

func (o *TelemetryObserver) handleWalkStart(ctx context.Context, event observer.Event) {
	_, span := o.provider.Tracer().Start(ctx, "traversal.walk",
		trace.WithAttributes(
			attribute.String("section.id", event.SectionID),
			attribute.String("execution.id", event.ExecutionID),
		),
	)

	o.walkSpan = span
	o.walkStartTime = event.Timestamp
}

func (o *TelemetryObserver) handleWalkEnd(ctx context.Context, event observer.Event) {
	duration := time.Since(o.walkStartTime)

	success := event.Status == observer.StatusSuccess || event.Status == observer.StatusCompleted
	o.provider.RecordWalk(ctx, event.SectionID, duration, success)

	if o.walkSpan != nil {
		if event.Error != nil {
			o.walkSpan.RecordError(event.Error)
			o.walkSpan.SetStatus(codes.Error, event.Error.Error())
		} else {
			o.walkSpan.SetStatus(codes.Ok, "walk completed")
		}
		o.walkSpan.End()
	}
}

func (o *TelemetryObserver) handleEdgeEvaluated(ctx context.Context, event observer.Event) {
	matched := event.Status == observer.StatusSuccess
	o.provider.RecordEdgeEvaluated(ctx, event.EdgeID, matched)
}

func (o *TelemetryObserver) handleActionExecuted(ctx context.Context, event observer.Event, success bool) {
	actionType := ""
	if event.Metadata != nil {
		if v, ok := event.Metadata["action_type"].(string); ok {
			actionType = v
		}
	}
	o.provider.RecordActionExecuted(ctx, event.ActionID, actionType, success)
}
