// Package tensor provides small dense float32 linear algebra used by the
// graph encoder: row-major matrices, linear layers, layer normalization and
// the elementwise activations of the inference path.
//
// Shapes are validated by the caller
// (model construction rejects mis-shaped weights), so the hot-path functions
// assume conforming inputs and panic on programmer error.
package tensor
