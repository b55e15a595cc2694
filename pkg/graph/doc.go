// Package graph implements the Graph Gateway: parameterized statement
// execution against the store holding Sections, Questions, Actions, edges,
// and Datapoints.
//
// The Gateway retries classified-transient failures with exponential
// backoff and jitter, caps the row count of evaluator-issued queries, and
// strips parameter values the store cannot accept before dispatch. The real
// graph database is out of scope; Store is the seam the rest of the engine
// depends on, backed in tests by an in-memory fake.
package graph
