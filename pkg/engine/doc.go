// Package engine implements the Traversal Engine: one Walk call per
// request, loading a Section from the graph store and depth-first-walking
// its outgoing PRECEDES/TRIGGERS edges to produce exactly one of a Question
// to present, a Section jump, newly materialized node ids, or a completion
// signal.
//
// The data model this package queries against is not bound to any fixed
// storage schema; loader.go's statements are this engine's own convention,
// run through the same Graph Gateway every evaluator in this module shares.
// Edge ordering (ascending orderInForm, ties broken by store-assigned
// creation order) is enforced in the query text itself rather than by an
// in-memory sort, so the Engine never has to trust a caller-supplied order.
//
// A single Engine is safe for concurrent Walk calls: all per-walk state
// lives in a fresh state.Context, not on the Engine itself.
package engine
