package template

import "errors"

// ErrUnresolvedRoot is wrapped when a placeholder's root token cannot be
// found in either the input-parameter map or via the Resolver.
var ErrUnresolvedRoot = errors.New("template: unresolved root variable")

// ErrPathSegment is wrapped when a dotted path segment cannot be navigated
// (neither a map key nor a struct field of that name exists).
var ErrPathSegment = errors.New("template: path segment not found")
