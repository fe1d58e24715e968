package encoder

import (
	"errors"
	"fmt"
)

// ErrInference indicates that a forward pass could not produce a
// usable result.
var ErrInference = errors.New("inference failed")

// InferenceError carries the reason a forward pass failed.
type InferenceError struct {
	Reason string
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed: %s", e.Reason)
}

func (e *InferenceError) Unwrap() error { return ErrInference }

func inferenceErrorf(format string, args ...any) error {
	return &InferenceError{Reason: fmt.Sprintf(format, args...)}
}
