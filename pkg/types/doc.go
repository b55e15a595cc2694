// Package types defines the shared data model for the questionnaire traversal
// engine: Sections, Questions, Actions, Edges, Datapoints, variable
// definitions, and the request/response shapes exchanged with callers.
//
// These types describe the graph as the traversal engine sees it. They are
// not bound to any particular storage schema; the graph package is
// responsible for decoding store-native rows into these structures.
package types
