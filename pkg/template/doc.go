// Package template implements the Template Substitutor: replacement of
// `{{ name }}` and `{{ name.path.subpath }}` placeholders inside a raw
// evaluator snippet with context-derived literals, before the snippet
// reaches either evaluator.
//
// The root token of a placeholder resolves first against the caller's
// input-parameter map, then lazily through a Resolver (the Context's
// variable resolution). Two serialization strategies exist because the two
// downstream evaluators speak different literal syntax: SandboxTarget emits
// expr-lang-native literals, GraphQueryTarget emits JSON-shaped,
// double-quoted literals and additionally rewrites any single-quoted string
// literal left over in the snippet text to double-quoted form.
package template
