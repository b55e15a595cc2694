// Package predicate implements the Predicate Evaluator: deciding whether
// an edge's askWhen expression gates traversal. An empty expression is
// vacuously true; a cypher:/python: prefix selects the evaluator exactly
// as it does for variable definitions, defaulting to the sandbox. A
// genuine evaluation failure is not swallowed here: it surfaces as a
// FlowError for the Traversal Engine to decide whether to fail the whole
// walk or skip the edge.
package predicate
