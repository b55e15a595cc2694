// Package observer provides an event-driven observer pattern for the
// questionnaire traversal engine.
//
// # Overview
//
// The observer package lets collaborators (metrics, tracing, audit logs)
// react to a walk's lifecycle — WalkStart/WalkEnd, each EdgeEvaluated, and
// each ActionExecuted — without coupling to the engine implementation.
//
// # Basic usage
//
//	mgr := observer.NewManager()
//	mgr.Register(observer.NewConsoleObserver())
//	mgr.Notify(ctx, observer.Event{Type: observer.EventWalkStart, ...})
//
// # Thread safety
//
// Manager.Notify dispatches to each registered Observer in its own
// goroutine and recovers observer panics, so a misbehaving observer never
// affects the walk it is observing.
package observer
