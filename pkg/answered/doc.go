// Package answered implements the Answered-Question Checker: whether a
// Datapoint answering a given Question already exists under a source
// node, directly or through a container.
//
// A direct match is source—SUPPLIES→Datapoint—ANSWERS→Question. A
// container-mediated match additionally allows source—HAS_HISTORY_PROPERTY
// →container—SUPPLIES→Datapoint—ANSWERS→Question, so the same Question can
// be answered once per container (e.g. once per address, once per prior
// employer) without being treated as already answered globally. A separate
// current-context check considers only the direct pattern; the Traversal
// Engine does not use it, since it stops at Questions marked allowMultiple
// without any answered check.
package answered
