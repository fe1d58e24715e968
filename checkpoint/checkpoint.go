package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anthony94polson/smart-toolpath-ai/codec"
	"github.com/anthony94polson/smart-toolpath-ai/tensor"
)

// ErrMissingModelFile is returned when no checkpoint blob matches the
// expected naming convention.
var ErrMissingModelFile = errors.New("no model checkpoint found")

// ErrBadFormat is the root cause of every checkpoint decoding failure.
var ErrBadFormat = errors.New("unrecognized checkpoint format")

// FormatError describes why a checkpoint blob was rejected.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("checkpoint format: %s", e.Reason)
}

func (e *FormatError) Unwrap() error { return ErrBadFormat }

func formatErrorf(format string, args ...any) error {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

// Tensor is one named parameter: a shape and row-major data.
type Tensor struct {
	Shape []int     `json:"shape"`
	Data  []float32 `json:"data"`
}

// Elems returns the element count the shape implies.
func (t Tensor) Elems() int {
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// Matrix interprets the tensor as a 2-D matrix.
func (t Tensor) Matrix() (tensor.Matrix, error) {
	if len(t.Shape) != 2 {
		return tensor.Matrix{}, formatErrorf("want 2-D tensor, got shape %v", t.Shape)
	}
	if t.Elems() != len(t.Data) {
		return tensor.Matrix{}, formatErrorf("shape %v implies %d elements, data has %d", t.Shape, t.Elems(), len(t.Data))
	}
	return tensor.Matrix{Rows: t.Shape[0], Cols: t.Shape[1], Data: t.Data}, nil
}

// Vector interprets the tensor as a 1-D vector.
func (t Tensor) Vector() ([]float32, error) {
	if len(t.Shape) != 1 {
		return nil, formatErrorf("want 1-D tensor, got shape %v", t.Shape)
	}
	if t.Shape[0] != len(t.Data) {
		return nil, formatErrorf("shape %v implies %d elements, data has %d", t.Shape, t.Shape[0], len(t.Data))
	}
	return t.Data, nil
}

// StateDict maps parameter names to tensors.
type StateDict map[string]Tensor

// Matrix fetches a named 2-D parameter.
func (sd StateDict) Matrix(name string) (tensor.Matrix, error) {
	t, ok := sd[name]
	if !ok {
		return tensor.Matrix{}, formatErrorf("missing tensor %q", name)
	}
	m, err := t.Matrix()
	if err != nil {
		return tensor.Matrix{}, fmt.Errorf("tensor %q: %w", name, err)
	}
	return m, nil
}

// Vector fetches a named 1-D parameter.
func (sd StateDict) Vector(name string) ([]float32, error) {
	t, ok := sd[name]
	if !ok {
		return nil, formatErrorf("missing tensor %q", name)
	}
	v, err := t.Vector()
	if err != nil {
		return nil, fmt.Errorf("tensor %q: %w", name, err)
	}
	return v, nil
}

// Linear fetches a weight/bias pair into a layer.
func (sd StateDict) Linear(name string) (tensor.Linear, error) {
	w, err := sd.Matrix(name + ".weight")
	if err != nil {
		return tensor.Linear{}, err
	}
	b, err := sd.Vector(name + ".bias")
	if err != nil {
		return tensor.Linear{}, err
	}
	if len(b) != w.Rows {
		return tensor.Linear{}, formatErrorf("layer %q: bias length %d, weight rows %d", name, len(b), w.Rows)
	}
	return tensor.Linear{Weight: w, Bias: b}, nil
}

// lookupStrategy is one way of locating the weight mapping inside a decoded
// checkpoint document. First match wins.
type lookupStrategy struct {
	name    string
	extract func(data []byte, c codec.Codec) (StateDict, bool)
}

func fieldStrategy(field string) lookupStrategy {
	return lookupStrategy{
		name: field,
		extract: func(data []byte, c codec.Codec) (StateDict, bool) {
			// Two-phase decode: checkpoints often carry extra fields
			// (epoch counters, optimizer state) next to the weights.
			var doc map[string]json.RawMessage
			if err := c.Unmarshal(data, &doc); err != nil {
				return nil, false
			}
			raw, ok := doc[field]
			if !ok {
				return nil, false
			}
			var sd StateDict
			if err := c.Unmarshal(raw, &sd); err != nil {
				return nil, false
			}
			return sd, sd != nil
		},
	}
}

var strategies = []lookupStrategy{
	fieldStrategy("model_state_dict"),
	fieldStrategy("state_dict"),
	{
		name: "whole document",
		extract: func(data []byte, c codec.Codec) (StateDict, bool) {
			var sd StateDict
			if err := c.Unmarshal(data, &sd); err != nil {
				return nil, false
			}
			return sd, len(sd) > 0
		},
	},
}

// Decode decompresses and decodes a checkpoint blob into a StateDict.
// A nil codec means codec.Default.
func Decode(data []byte, c codec.Codec) (StateDict, error) {
	if c == nil {
		c = codec.Default
	}

	raw, err := Decompress(data)
	if err != nil {
		return nil, err
	}

	for _, s := range strategies {
		if sd, ok := s.extract(raw, c); ok {
			if err := sd.validate(); err != nil {
				return nil, fmt.Errorf("via %s: %w", s.name, err)
			}
			return sd, nil
		}
	}
	return nil, formatErrorf("no lookup strategy matched")
}

// Encode serializes a StateDict, optionally compressed.
// A nil codec means codec.Default.
func Encode(sd StateDict, c codec.Codec, compression Compression) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	raw, err := c.Marshal(map[string]StateDict{"model_state_dict": sd})
	if err != nil {
		return nil, err
	}
	return Compress(raw, compression)
}

func (sd StateDict) validate() error {
	for name, t := range sd {
		if t.Elems() != len(t.Data) {
			return formatErrorf("tensor %q: shape %v implies %d elements, data has %d", name, t.Shape, t.Elems(), len(t.Data))
		}
	}
	return nil
}
