// Package expression implements the Sandbox Evaluator: a restricted,
// single-worker expr-lang/expr runner for `python:`-prefixed snippets.
//
// Only len, min, max, sum, and sorted are exposed as builtins; regexp and
// date/time helpers are exposed as two namespaced modules (regex, datetime)
// rather than flattened into the global environment. Every call gets a
// wall-clock timeout enforced by running on a dedicated goroutine — never
// shared across calls or walks — so a hung expression cannot stall anyone
// but its own caller. expr-lang compiles expressions only, so statement
// rejection is inherent rather than hand-rolled.
package expression
