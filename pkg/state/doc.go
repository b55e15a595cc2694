// Package state implements the Context and the Variable Resolver: the
// per-walk record of input parameters, current source node, variable
// definitions, and the lazily-resolved values derived from them.
//
// resolve(name) is memoized through a four-state value holder
// (Unresolved, Resolving, Resolved, Failed) so a variable's declared
// evaluator runs at most once per walk no matter how many edges or other
// variable definitions reference it. A failed evaluation is captured as a
// warning and the variable resolves to nil, except EvaluatorTimeout, which
// propagates to the caller unchanged rather than being swallowed.
package state
