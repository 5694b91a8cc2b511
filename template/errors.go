package template

import (
	"errors"
	"fmt"

	"github.com/stardiviner/ob-racket/params"
)

// ErrExpand is the sentinel matched by every expansion failure, for use
// with errors.Is.
var ErrExpand = errors.New("template expansion error")

// MissingKeyError reports a placeholder with no corresponding entry in
// the parameter set at expansion time.
type MissingKeyError struct {
	// Key is the unresolved placeholder name.
	Key string

	// Params is the full parameter set supplied at expansion time,
	// included for diagnostics.
	Params *params.Set
}

// Error returns the placeholder name and the parameter set it failed to
// resolve against.
func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("template: no value for placeholder %q in %s", e.Key, e.Params)
}

// Is reports whether this error matches the target.
func (e *MissingKeyError) Is(target error) bool {
	return target == ErrExpand
}

// InvalidTokenError reports a token that is neither a literal fragment,
// a recognized marker, nor a placeholder.
type InvalidTokenError struct {
	Token Token
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("template: invalid token kind %d", e.Token.Kind)
}

// Is reports whether this error matches the target.
func (e *InvalidTokenError) Is(target error) bool {
	return target == ErrExpand
}
