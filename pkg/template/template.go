package template

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/graph"
)

// Target selects which evaluator's literal syntax a substituted value is
// rendered in.
type Target int

const (
	// SandboxTarget emits expr-lang-native literals: quoted strings,
	// lowercase true/false/nil, bare numbers.
	SandboxTarget Target = iota
	// GraphQueryTarget emits JSON-shaped literals, rewriting graph
	// entities to their property-map/relationship/path forms.
	GraphQueryTarget
)

// Resolver is the lazy lookup a placeholder's root token falls back to when
// it is not present in the input-parameter map. It is satisfied by the
// Context's Variable Resolver.
type Resolver interface {
	Resolve(ctx context.Context, name string) (any, error)
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*)\s*\}\}`)

var barePlaceholderPattern = regexp.MustCompile(`^` + placeholderPattern.String() + `$`)

// ParseBarePlaceholder reports whether expr is, in its entirety, a single
// `{{ name[.path] }}` placeholder with nothing else around it, returning
// its dotted segments if so. The Source-Node Resolver uses this to
// distinguish a bare variable reference (which should propagate the
// resolved value's native type) from a snippet that merely mentions a
// placeholder as part of a larger expression.
func ParseBarePlaceholder(expr string) ([]string, bool) {
	m := barePlaceholderPattern.FindStringSubmatch(expr)
	if m == nil {
		return nil, false
	}
	return strings.Split(m[1], "."), true
}

// Substitute replaces every `{{ name }}` / `{{ name.path.subpath }}`
// placeholder in snippet with a literal serialized for target. The root
// token of each placeholder is looked up first in params, then via
// resolver. A placeholder whose root cannot be resolved, or whose dotted
// path cannot be navigated, fails the whole substitution: partial
// substitution would hand a broken snippet to compilation.
func Substitute(ctx context.Context, snippet string, params map[string]any, resolver Resolver, target Target) (string, error) {
	var firstErr error

	out := placeholderPattern.ReplaceAllStringFunc(snippet, func(match string) string {
		if firstErr != nil {
			return match
		}
		segments := strings.Split(placeholderPattern.FindStringSubmatch(match)[1], ".")

		value, err := lookupRoot(ctx, segments[0], params, resolver)
		if err != nil {
			firstErr = err
			return match
		}

		value, err = navigatePath(value, segments[1:])
		if err != nil {
			firstErr = fmt.Errorf("%w: %s", err, strings.Join(segments, "."))
			return match
		}

		return serialize(value, target)
	})

	if firstErr != nil {
		return "", firstErr
	}

	if target == GraphQueryTarget {
		out = normalizeQuotes(out)
	}
	return out, nil
}

// ResolveRoot looks up name the same way a placeholder's root token does:
// first in params, then lazily via resolver. The Source-Node Resolver's
// bare `{{ variable }}` form uses this directly so it can keep the raw
// resolved value's native type instead of serializing it.
func ResolveRoot(ctx context.Context, name string, params map[string]any, resolver Resolver) (any, error) {
	return lookupRoot(ctx, name, params, resolver)
}

func lookupRoot(ctx context.Context, name string, params map[string]any, resolver Resolver) (any, error) {
	if params != nil {
		if v, ok := params[name]; ok {
			return v, nil
		}
	}
	if resolver != nil {
		v, err := resolver.Resolve(ctx, name)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnresolvedRoot, name)
}

// NavigatePath walks dotted path segments against root the same way a
// placeholder's path does, for callers (the Source-Node Resolver's bare
// `{{ variable }}` form) that need the raw resolved value rather than a
// serialized literal.
func NavigatePath(root any, segments []string) (any, error) {
	return navigatePath(root, segments)
}

// navigatePath walks dotted segments performing map-key access first, then
// exported-struct-field access, folding case (and full-width/half-width
// forms) when an exact match is not found.
func navigatePath(root any, segments []string) (any, error) {
	current := root
	for _, seg := range segments {
		next, ok := step(current, seg)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPathSegment, seg)
		}
		current = next
	}
	return current, nil
}

func step(v any, seg string) (any, bool) {
	switch m := v.(type) {
	case map[string]any:
		if val, ok := m[seg]; ok {
			return val, true
		}
		return foldedMapLookup(m, seg)
	case graph.Record:
		return step(map[string]any(m), seg)
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	if f := rv.FieldByName(seg); f.IsValid() && f.CanInterface() {
		return f.Interface(), true
	}
	rt := rv.Type()
	folded := foldKey(seg)
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		if foldKey(field.Name) == folded {
			return rv.Field(i).Interface(), true
		}
	}
	return nil, false
}

func foldedMapLookup(m map[string]any, seg string) (any, bool) {
	folded := foldKey(seg)
	for k, v := range m {
		if foldKey(k) == folded {
			return v, true
		}
	}
	return nil, false
}

var foldCaser = cases.Fold()

// foldKey normalizes a path segment for tolerant comparison: full-width
// characters collapse to their half-width forms before Unicode case
// folding, so "Ｎａｍｅ" and "name" compare equal.
func foldKey(s string) string {
	return foldCaser.String(width.Fold.String(s))
}

func serialize(v any, target Target) string {
	if target == SandboxTarget {
		return sandboxLiteral(v)
	}
	return graphQueryLiteral(v)
}

func sandboxLiteral(v any) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case bool:
		if t {
			return "true"
		}
		return "false"
	case string:
		return strconv.Quote(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return strconv.Quote(fmt.Sprint(t))
	}
}

func graphQueryLiteral(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		if t {
			return "true"
		}
		return "false"
	case string:
		return jsonString(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case graph.Node:
		return propertyMapLiteral(t.Properties)
	case *graph.Node:
		return propertyMapLiteral(t.Properties)
	case graph.Relationship:
		return relationshipLiteral(t)
	case *graph.Relationship:
		return relationshipLiteral(*t)
	case graph.Path:
		return pathLiteral(t)
	case *graph.Path:
		return pathLiteral(*t)
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = graphQueryLiteral(item)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case map[string]any:
		return propertyMapLiteral(t)
	default:
		return jsonString(fmt.Sprint(t))
	}
}

func propertyMapLiteral(props map[string]any) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = jsonString(k) + ":" + graphQueryLiteral(props[k])
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func relationshipLiteral(r graph.Relationship) string {
	return fmt.Sprintf("{type:%s,start:%s,end:%s,properties:%s}",
		jsonString(r.Type), jsonString(r.StartID), jsonString(r.EndID), propertyMapLiteral(r.Properties))
}

func pathLiteral(p graph.Path) string {
	parts := make([]string, len(p.ElementIDs))
	for i, id := range p.ElementIDs {
		parts[i] = jsonString(id)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func jsonString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// quotedLiteral matches an escape-aware double- or single-quoted string
// literal: a backslash escapes the following character, including another
// backslash or a quote, so `'it\'s'` is one match, not two.
var quotedLiteral = regexp.MustCompile(`"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'`)

// normalizeQuotes rewrites single-quoted string literals left in a
// graph-query snippet into double-quoted form, since the target query
// language accepts only double quotes. Double-quoted literals (including
// substituted values) are left as they are, so an apostrophe inside one is
// not taken for the start of a single-quoted literal. Escaped single quotes
// become bare quotes inside the result; any embedded double quote is escaped.
func normalizeQuotes(snippet string) string {
	return quotedLiteral.ReplaceAllStringFunc(snippet, func(match string) string {
		if match[0] == '"' {
			return match
		}
		inner := match[1 : len(match)-1]
		var b strings.Builder
		for i := 0; i < len(inner); i++ {
			c := inner[i]
			if c == '\\' && i+1 < len(inner) {
				next := inner[i+1]
				if next == '\'' {
					b.WriteByte('\'')
					i++
					continue
				}
				b.WriteByte(c)
				b.WriteByte(next)
				i++
				continue
			}
			if c == '"' {
				b.WriteString(`\"`)
				continue
			}
			b.WriteByte(c)
		}
		return `"` + b.String() + `"`
	})
}
