package aagnet

import (
	"errors"
	"fmt"

	"github.com/anthony94polson/smart-toolpath-ai/checkpoint"
	"github.com/anthony94polson/smart-toolpath-ai/encoder"
	"github.com/anthony94polson/smart-toolpath-ai/geometry"
)

var (
	// ErrModelNotFound is returned when no checkpoint matching the
	// naming convention exists in the weight store.
	ErrModelNotFound = errors.New("model not found")

	// ErrCheckpointFormat is returned when a checkpoint blob does not
	// decode into a recognized weight mapping.
	ErrCheckpointFormat = errors.New("invalid checkpoint format")

	// ErrMalformedGeometry is returned when the request geometry
	// cannot be parsed into a face set.
	ErrMalformedGeometry = errors.New("malformed geometry")

	// ErrInference is returned when the forward pass fails, e.g. on a
	// shape mismatch or non-finite values.
	ErrInference = errors.New("inference failed")
)

// translateError folds subpackage errors into the public taxonomy.
// The original underlying error remains reachable via errors.Unwrap.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, checkpoint.ErrMissingModelFile) {
		return fmt.Errorf("%w: %w", ErrModelNotFound, err)
	}
	if errors.Is(err, checkpoint.ErrBadFormat) {
		return fmt.Errorf("%w: %w", ErrCheckpointFormat, err)
	}
	if errors.Is(err, geometry.ErrMalformedGeometry) {
		return fmt.Errorf("%w: %w", ErrMalformedGeometry, err)
	}
	if errors.Is(err, encoder.ErrInference) {
		return fmt.Errorf("%w: %w", ErrInference, err)
	}

	return err
}
