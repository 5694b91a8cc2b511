// Package template implements the format-spec expansion engine. A [Spec]
// is either a literal string, used verbatim, or an ordered sequence of
// tokens: literal text, newline and quote-character markers, and named
// placeholders resolved against a parameter set at expansion time.
//
// The same engine is used for two unrelated purposes: emitting source
// code fragments (prologues and epilogues) and emitting shell command
// strings. It has no knowledge of which.
package template

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stardiviner/ob-racket/params"
)

// Kind discriminates the token variants of a non-literal Spec.
type Kind int

// Token kinds.
const (
	// KindText is a literal fragment appended as-is.
	KindText Kind = iota

	// KindNewline appends a single newline character.
	KindNewline

	// KindQuote appends a double-quote character.
	KindQuote

	// KindApostrophe appends a single-quote character.
	KindApostrophe

	// KindKey is a placeholder resolved against the parameter set.
	KindKey
)

// Token is a single element of a sequence Spec.
type Token struct {
	Kind Kind

	// Text is the literal fragment for KindText and the placeholder
	// name for KindKey. Unused for marker tokens.
	Text string
}

// Text returns a literal-fragment token.
func Text(s string) Token { return Token{Kind: KindText, Text: s} }

// Key returns a placeholder token for the named parameter.
func Key(name string) Token { return Token{Kind: KindKey, Text: name} }

// Marker tokens.
var (
	Newline    = Token{Kind: KindNewline}
	Quote      = Token{Kind: KindQuote}
	Apostrophe = Token{Kind: KindApostrophe}
)

// Spec is a format specification: either a verbatim literal string or an
// ordered token sequence. The zero value expands to the empty string.
type Spec struct {
	literal bool
	text    string
	tokens  []Token
}

// Literal returns a Spec that expands to s unchanged, regardless of the
// parameter set supplied.
func Literal(s string) Spec { return Spec{literal: true, text: s} }

// Seq returns a Spec built from the given token sequence.
func Seq(tokens ...Token) Spec { return Spec{tokens: tokens} }

// IsZero reports whether the Spec is the zero value.
func (s Spec) IsZero() bool {
	return !s.literal && s.text == "" && s.tokens == nil
}

// Expand turns spec into its final string. Literal specs are returned
// unchanged. For sequence specs every placeholder name must resolve in
// set; a missing name fails with a [*MissingKeyError] and nothing is
// returned. A token with an unrecognized kind fails with a
// [*InvalidTokenError].
func Expand(spec Spec, set *params.Set) (string, error) {
	if spec.literal {
		return spec.text, nil
	}
	var b strings.Builder
	for _, tok := range spec.tokens {
		switch tok.Kind {
		case KindText:
			b.WriteString(tok.Text)
		case KindNewline:
			b.WriteByte('\n')
		case KindQuote:
			b.WriteByte('"')
		case KindApostrophe:
			b.WriteByte('\'')
		case KindKey:
			v, ok := set.Get(tok.Text)
			if !ok {
				return "", &MissingKeyError{Key: tok.Text, Params: set}
			}
			b.WriteString(Render(v))
		default:
			return "", &InvalidTokenError{Token: tok}
		}
	}
	return b.String(), nil
}

// Render gives the textual representation of a placeholder value.
// Strings render verbatim so paths survive command construction; lists
// render as parenthesized literal list syntax so the generated code or
// command stays syntactically valid.
func Render(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []any:
		return renderList(x)
	default:
		return renderScalar(x)
	}
}

func renderList(items []any) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = renderElem(it)
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// renderElem renders a value inside a list literal. Unlike top-level
// placeholder values, strings are quoted here to keep the list
// machine-readable.
func renderElem(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case []any:
		return renderList(x)
	default:
		return renderScalar(x)
	}
}

func renderScalar(v any) string {
	switch x := v.(type) {
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
