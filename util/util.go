// Package util provides test and initialization helpers.
package util

import (
	"math/rand"

	"github.com/anthony94polson/smart-toolpath-ai/tensor"
)

// RNG encapsulates a seeded random number generator.
// Identical seeds yield identical sequences, which keeps randomly
// initialized models and property tests reproducible.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// RandomMatrix generates a matrix with entries uniform in [-scale, scale).
func (r *RNG) RandomMatrix(rows, cols int, scale float32) tensor.Matrix {
	m := tensor.New(rows, cols)
	for i := range m.Data {
		m.Data[i] = (r.rand.Float32()*2 - 1) * scale
	}
	return m
}

// RandomVector generates a vector with entries uniform in [-scale, scale).
func (r *RNG) RandomVector(n int, scale float32) []float32 {
	v := make([]float32, n)
	for i := range v {
		v[i] = (r.rand.Float32()*2 - 1) * scale
	}
	return v
}

// Bool returns true with probability p.
func (r *RNG) Bool(p float64) bool {
	return r.rand.Float64() < p
}

// Intn returns a uniform int in [0, n).
func (r *RNG) Intn(n int) int {
	return r.rand.Intn(n)
}
