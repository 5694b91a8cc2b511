// Package source assembles complete Racket programs from document code
// blocks: a dialect declaration line, an optional prologue, generated
// variable bindings, the user body, and an optional epilogue.
package source

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stardiviner/ob-racket/params"
	"github.com/stardiviner/ob-racket/template"
)

// Result type values recognized by Assemble.
const (
	ResultTypeValue  = "value"
	ResultTypeOutput = "output"
)

// DefaultHLineTo is the Racket token that horizontal-rule markers in
// list-valued bindings are rewritten to when no override is configured.
const DefaultHLineTo = "null"

// hlineMarker is the marker the host uses for horizontal rules inside
// table-valued variables.
const hlineMarker = "hline"

// bindingDialects is the allow-list of dialects that accept generated
// variable bindings.
var bindingDialects = map[string]bool{
	"racket":      true,
	"racket/base": true,
}

// DialectSupportsBindings reports whether generated variable bindings
// are emitted for the given dialect.
func DialectSupportsBindings(lang string) bool {
	return bindingDialects[lang]
}

// Binding pairs a variable name with its scalar or list value.
type Binding struct {
	Name  string
	Value any
}

// Bindings is an ordered set of variable bindings. Order is preserved in
// generated code for determinism.
type Bindings []Binding

// Fragment emits a single form that defines every name simultaneously:
//
//	(define-values (x y) (values 1 '(2 3)))
//
// List values render as quoted literal lists, strings as quoted string
// literals, other scalars as plain literals. An empty binding set emits
// no fragment. hlineTo is the token substituted for horizontal-rule
// markers inside list values; pass "" for the default.
func (bs Bindings) Fragment(hlineTo string) string {
	if len(bs) == 0 {
		return ""
	}
	if hlineTo == "" {
		hlineTo = DefaultHLineTo
	}
	names := make([]string, len(bs))
	values := make([]string, len(bs))
	for i, b := range bs {
		names[i] = b.Name
		values[i] = literal(b.Value, hlineTo)
	}
	return fmt.Sprintf("(define-values (%s) (values %s))",
		strings.Join(names, " "), strings.Join(values, " "))
}

// literal renders a binding value as Racket literal source.
func literal(v any, hlineTo string) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case []any:
		return "'" + listBody(x, hlineTo)
	case bool:
		if x {
			return "#t"
		}
		return "#f"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func listBody(items []any, hlineTo string) string {
	parts := make([]string, len(items))
	for i, it := range items {
		switch x := it.(type) {
		case string:
			if x == hlineMarker {
				parts[i] = hlineTo
			} else {
				parts[i] = strconv.Quote(x)
			}
		case []any:
			parts[i] = listBody(x, hlineTo)
		default:
			parts[i] = literal(x, hlineTo)
		}
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Assemble composes the final source text for a block. Steps in fixed
// order, joined by newlines, empty steps omitted:
//
//  1. "#lang <dialect>" declaration line
//  2. prologue, expanded through the template engine
//  3. variable-binding fragment, when vars is non-empty
//  4. the user body, wrapped for value results
//  5. epilogue, expanded like the prologue
//
// A missing language parameter is a caller contract violation and
// returns [ErrLangRequired]. A result-type parameter that is neither
// "value" nor "output" returns a [*UnsupportedResultTypeError]. When the
// dialect is outside the binding allow-list, bindings are skipped and a
// non-fatal [Warning] is returned alongside the assembled source.
func Assemble(body string, vars Bindings, set *params.Set) (string, []Warning, error) {
	lang := set.GetString(params.KeyLang)
	if lang == "" {
		return "", nil, ErrLangRequired
	}

	resultType := set.GetString(params.KeyResultType)
	if resultType != ResultTypeValue && resultType != ResultTypeOutput {
		return "", nil, &UnsupportedResultTypeError{ResultType: resultType}
	}

	var warnings []Warning
	parts := []string{"#lang " + lang}

	if frag, err := expandFragment(set, params.KeyPrologue); err != nil {
		return "", nil, err
	} else if frag != "" {
		parts = append(parts, frag)
	}

	if len(vars) > 0 {
		if DialectSupportsBindings(lang) {
			parts = append(parts, vars.Fragment(set.GetString(params.KeyHLine)))
		} else {
			warnings = append(warnings, Warning{
				Code:    WarnBindingUnsupported,
				Message: fmt.Sprintf("variable bindings are not supported for dialect %q; skipping", lang),
			})
		}
	}

	if trimmed := strings.TrimSpace(body); trimmed != "" {
		if resultType == ResultTypeValue {
			parts = append(parts, fmt.Sprintf("(write (let () %s))", trimmed))
		} else {
			parts = append(parts, body)
		}
	}

	if frag, err := expandFragment(set, params.KeyEpilogue); err != nil {
		return "", nil, err
	} else if frag != "" {
		parts = append(parts, frag)
	}

	return strings.Join(parts, "\n"), warnings, nil
}

// expandFragment expands an optional prologue or epilogue parameter
// through the template engine against the full parameter set.
func expandFragment(set *params.Set, key string) (string, error) {
	v, ok := set.Get(key)
	if !ok || v == nil {
		return "", nil
	}
	spec, err := asSpec(v)
	if err != nil {
		return "", err
	}
	return template.Expand(spec, set)
}

func asSpec(v any) (template.Spec, error) {
	switch x := v.(type) {
	case template.Spec:
		return x, nil
	case string:
		return template.Literal(x), nil
	default:
		return template.Spec{}, fmt.Errorf("source: fragment must be a string or template spec, got %T", v)
	}
}
