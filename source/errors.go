package source

import (
	"errors"
	"fmt"
)

// ErrLangRequired indicates the language parameter was absent. Its
// presence is part of the caller contract for Assemble.
var ErrLangRequired = errors.New("source: language parameter is required")

// UnsupportedResultTypeError reports a result-type parameter that is
// neither "value" nor "output". This is a hard contract, not a
// default-fallback.
type UnsupportedResultTypeError struct {
	ResultType string
}

func (e *UnsupportedResultTypeError) Error() string {
	return fmt.Sprintf("source: unsupported result type %q (want %q or %q)",
		e.ResultType, ResultTypeValue, ResultTypeOutput)
}

// Warning codes.
const (
	// WarnBindingUnsupported is raised when variable bindings are
	// requested for a dialect outside the allow-list. The bindings are
	// skipped and evaluation proceeds.
	WarnBindingUnsupported = "binding-unsupported"
)

// Warning is a structured non-fatal diagnostic returned alongside a
// normal result.
type Warning struct {
	Code    string
	Message string
}

func (w Warning) String() string {
	return w.Code + ": " + w.Message
}
