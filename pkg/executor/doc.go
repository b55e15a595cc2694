// Package executor implements the Action Executor: dispatch on the three
// graph-embedded action kinds a Traversal Engine can reach (CreateNode,
// GotoSection, CompleteSection), behind the same Registry/strategy idiom
// the source material uses to dispatch on a node's kind.
//
// An unknown actionType is never an error: it is recorded as a warning on
// the walk's Context and produces a no-op Result, since a walk already in
// flight should degrade rather than abort over a single unrecognized
// Action.
package executor
