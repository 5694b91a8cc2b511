// Package results coerces captured interpreter output into a host value:
// either a plain string or, when the text scans as a single literal
// list, an ordered sequence of rows. Scanning uses a permissive generic
// literal reader; this step never executes code, and text that does not
// scan cleanly passes through unchanged.
package results

import (
	"strconv"
	"strings"

	"t73f.de/r/sx"
	"t73f.de/r/sx/sxreader"

	"github.com/stardiviner/ob-racket/params"
)

// DefaultNilTo is the token that absence sentinels are rewritten to when
// no override is configured. It matches the horizontal-rule marker used
// by the surrounding document's table rendering.
const DefaultNilTo = "hline"

// Options controls coercion.
type Options struct {
	// Raw forces the captured text through unchanged.
	Raw bool

	// NilTo replaces absence sentinels in tabular results. Empty means
	// DefaultNilTo.
	NilTo string
}

// OptionsFrom derives coercion options from a block's header arguments.
// defaultNilTo overrides DefaultNilTo when non-empty; the per-block
// nil-replacement key wins over both.
func OptionsFrom(set *params.Set, defaultNilTo string) Options {
	opts := Options{NilTo: defaultNilTo}
	if v := set.GetString(params.KeyNilReplace); v != "" {
		opts.NilTo = v
	}
	if v, ok := set.Get(params.KeyResultParams); ok {
		opts.Raw = wantsRaw(v)
	}
	return opts
}

func wantsRaw(v any) bool {
	switch x := v.(type) {
	case string:
		return rawParam(x)
	case []any:
		for _, it := range x {
			if s, ok := it.(string); ok && rawParam(s) {
				return true
			}
		}
	}
	return false
}

func rawParam(s string) bool {
	switch s {
	case "raw", "verbatim", "scalar":
		return true
	}
	return false
}

// Coerce interprets raw captured text. Text that scans as exactly one
// non-empty literal list becomes a []any of rows, with every element
// equal to the absence sentinel (the symbol nil or the empty list)
// rewritten to the configured replacement token. Anything else, and any
// text the reader rejects, is returned unchanged as a string.
func Coerce(raw string, opts Options) any {
	if opts.Raw {
		return raw
	}
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "(") {
		return raw
	}
	rd := sxreader.MakeReader(strings.NewReader(trimmed))
	objs, err := rd.ReadAll()
	if err != nil || len(objs) != 1 {
		return raw
	}
	pair, ok := objs[0].(*sx.Pair)
	if !ok || pair.IsNil() {
		return raw
	}
	nilTo := opts.NilTo
	if nilTo == "" {
		nilTo = DefaultNilTo
	}
	return rows(pair, nilTo)
}

func rows(p *sx.Pair, nilTo string) []any {
	var out []any
	for node := p; node != nil && !node.IsNil(); {
		out = append(out, cell(node.Car(), nilTo))
		next, isPair := node.Cdr().(*sx.Pair)
		if !isPair {
			// Improper list; keep the tail as a final cell.
			out = append(out, cell(node.Cdr(), nilTo))
			break
		}
		node = next
	}
	return out
}

// cell converts one scanned object into a host value, rewriting absence
// sentinels on the way.
func cell(obj sx.Object, nilTo string) any {
	if obj == nil {
		return nilTo
	}
	if p, ok := obj.(*sx.Pair); ok {
		if p == nil || p.IsNil() {
			return nilTo
		}
		return rows(p, nilTo)
	}

	text := render(obj)
	switch text {
	case "nil":
		return nilTo
	case "#t":
		return true
	case "#f":
		return false
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f
	}
	if strings.HasPrefix(text, `"`) {
		if s, err := strconv.Unquote(text); err == nil {
			return s
		}
	}
	return text
}

// render writes the canonical form of one scanned object, without a
// trailing end-of-line.
func render(obj sx.Object) string {
	var sb strings.Builder
	_, _ = sx.Print(&sb, obj)
	return sb.String()
}
