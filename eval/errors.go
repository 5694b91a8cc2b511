package eval

import (
	"errors"
	"fmt"
)

// Sentinel errors for error classification.
var (
	// ErrConfiguration indicates an invalid engine configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrSessionsUnsupported indicates a session-start request for this
	// dialect. Sessions always fail, by design, with no side effects.
	ErrSessionsUnsupported = errors.New("sessions are not supported for Racket blocks")
)

// UnsupportedEvalModeError reports an evaluation-mode parameter whose
// value is neither a recognized mode string nor an Evaluator function.
type UnsupportedEvalModeError struct {
	// Value is the offending parameter value.
	Value any
}

func (e *UnsupportedEvalModeError) Error() string {
	return fmt.Sprintf("eval: unsupported evaluation mode %v (%T): want a mode string or an Evaluator", e.Value, e.Value)
}
