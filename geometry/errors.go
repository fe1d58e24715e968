package geometry

import (
	"errors"
	"fmt"
)

// ErrMalformedGeometry is the root cause of every geometry parse failure.
//
// Implementations return errors that satisfy `errors.Is(err, ErrMalformedGeometry)`.
var ErrMalformedGeometry = errors.New("malformed geometry")

// ParseError describes why a solid-model blob or face list was rejected.
type ParseError struct {
	Reason string
	Face   int // offending face index, -1 when not face-specific
}

func (e *ParseError) Error() string {
	if e.Face >= 0 {
		return fmt.Sprintf("geometry parse failed at face %d: %s", e.Face, e.Reason)
	}
	return fmt.Sprintf("geometry parse failed: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrMalformedGeometry }

func parseErrorf(face int, format string, args ...any) error {
	return &ParseError{Reason: fmt.Sprintf(format, args...), Face: face}
}
