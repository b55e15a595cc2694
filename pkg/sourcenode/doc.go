// Package sourcenode implements the Source-Node Resolver: per-edge
// resolution of the "subject" node that answered-question checks and
// variable queries are evaluated against.
//
// A cypher:/python: prefixed expression runs through the usual
// template-substitute-then-evaluate pipeline. A bare `{{ variable }}`
// form is handled specially: it looks the variable up directly rather
// than serializing it into a sub-expression, so a variable holding a
// graph.Node (or any other non-scalar value) becomes the new source node
// with its native type intact instead of being stringified. An edge with
// no sourceNode expression retains whatever source node the Context
// already carries.
package sourcenode
