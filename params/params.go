// Package params holds the per-block header arguments consumed by the
// evaluation engine. A [Set] is an ordered mapping from header-argument
// keys to arbitrary values, supplied by the host document processor per
// invocation and treated as read-only by the engine.
package params

import (
	"fmt"
	"strings"
)

// Well-known header-argument keys.
const (
	// KeyLang names the language dialect declared for the block.
	KeyLang = "lang"

	// KeyPrologue and KeyEpilogue are optional code fragments inserted
	// immediately after and before the user body. Values may be plain
	// strings or template specs.
	KeyPrologue = "prologue"
	KeyEpilogue = "epilogue"

	// KeyResultType selects how the block's result is realized:
	// "value" or "output".
	KeyResultType = "result-type"

	// KeyResultParams carries result-handling hints (e.g. "raw",
	// "verbatim"). Value may be a string or a list of strings.
	KeyResultParams = "result-params"

	// KeyEval overrides the evaluation strategy. Value may be a mode
	// string ("body", "code", "debug", "file") or a custom evaluation
	// function.
	KeyEval = "eval"

	// KeyCommand overrides the shell command template used on the
	// default evaluation path.
	KeyCommand = "cmd"

	// KeyFile is an explicit path for the assembled source program.
	KeyFile = "file"

	// KeyOutFile is an explicit path for an output artifact produced by
	// the command or custom evaluator.
	KeyOutFile = "out-file"

	// KeyColNames and KeyRowNames carry table naming hints. The engine
	// passes them through to the host untouched.
	KeyColNames = "colnames"
	KeyRowNames = "rownames"

	// KeyHLine is the token that horizontal-rule markers in list-valued
	// variable bindings are rewritten to in generated source.
	KeyHLine = "hline-to"

	// KeyNilReplace is the token that the absence sentinel in coerced
	// tabular results is rewritten to.
	KeyNilReplace = "nil-to"
)

// Pair is a single key/value header argument.
type Pair struct {
	Key   string
	Value any
}

// Set is an ordered collection of header arguments. The zero value is
// not usable; create one with [New] or [FromPairs]. Insertion order is
// preserved; updating an existing key keeps its original position.
type Set struct {
	keys   []string
	values map[string]any
}

// New returns an empty Set.
func New() *Set {
	return &Set{values: make(map[string]any)}
}

// FromPairs builds a Set from the given pairs, in order.
func FromPairs(pairs ...Pair) *Set {
	s := New()
	for _, p := range pairs {
		s.Put(p.Key, p.Value)
	}
	return s
}

// Put sets key to value, preserving the position of an existing key.
// It returns the Set for chaining.
func (s *Set) Put(key string, value any) *Set {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
	return s
}

// Get returns the value for key and whether it is present.
func (s *Set) Get(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the value for key rendered as a string, or "" when
// the key is absent.
func (s *Set) GetString(key string) string {
	v, ok := s.Get(key)
	if !ok || v == nil {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprintf("%v", v)
}

// Has reports whether key is present.
func (s *Set) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Keys returns the keys in insertion order. The slice is a copy.
func (s *Set) Keys() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of entries.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Clone returns a shallow copy of the Set. The engine clones before
// injecting derived entries so the caller's Set is never mutated.
func (s *Set) Clone() *Set {
	out := New()
	if s == nil {
		return out
	}
	for _, k := range s.keys {
		out.Put(k, s.values[k])
	}
	return out
}

// String renders the Set as a deterministic multi-line diagnostic form,
// one ":key value" pair per line in insertion order. This is the text
// returned by the engine's "debug" evaluation mode.
func (s *Set) String() string {
	if s.Len() == 0 {
		return "()"
	}
	var b strings.Builder
	b.WriteByte('(')
	for i, k := range s.keys {
		if i > 0 {
			b.WriteString("\n ")
		}
		fmt.Fprintf(&b, ":%s %v", k, s.values[k])
	}
	b.WriteByte(')')
	return b.String()
}
