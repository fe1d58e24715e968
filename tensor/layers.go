package tensor

import (
	"fmt"
	"math"
)

// Linear is a fully connected layer with (out, in) weight shape and
// y = xWᵀ + b semantics.
type Linear struct {
	Weight Matrix
	Bias   []float32
}

// OutFeatures returns the output width of the layer.
func (l Linear) OutFeatures() int { return l.Weight.Rows }

// InFeatures returns the input width of the layer.
func (l Linear) InFeatures() int { return l.Weight.Cols }

// Forward applies the layer to every row of x (N×in → N×out).
func (l Linear) Forward(x Matrix) Matrix {
	out := MatMulT(x, l.Weight)
	if l.Bias != nil {
		if len(l.Bias) != out.Cols {
			panic(fmt.Sprintf("tensor: bias length %d, want %d", len(l.Bias), out.Cols))
		}
		for i := 0; i < out.Rows; i++ {
			r := out.Row(i)
			for j, b := range l.Bias {
				r[j] += b
			}
		}
	}
	return out
}

// ForwardVec applies the layer to a single vector.
func (l Linear) ForwardVec(x []float32) []float32 {
	out := make([]float32, l.Weight.Rows)
	for j := range out {
		out[j] = Dot(x, l.Weight.Row(j))
		if l.Bias != nil {
			out[j] += l.Bias[j]
		}
	}
	return out
}

// DefaultLayerNormEps is the variance floor used when a checkpoint
// does not carry its own epsilon.
const DefaultLayerNormEps = 1e-5

// LayerNorm normalizes each row to zero mean and unit variance, then applies
// the learned per-feature scale and shift.
type LayerNorm struct {
	Gamma, Beta []float32
	Eps         float32
}

// Forward returns the row-wise normalization of x.
func (ln LayerNorm) Forward(x Matrix) Matrix {
	out := New(x.Rows, x.Cols)
	for i := 0; i < x.Rows; i++ {
		src := x.Row(i)
		dst := out.Row(i)

		var mean float32
		for _, v := range src {
			mean += v
		}
		mean /= float32(len(src))

		var variance float32
		for _, v := range src {
			d := v - mean
			variance += d * d
		}
		variance /= float32(len(src))

		inv := 1 / float32(math.Sqrt(float64(variance+ln.Eps)))
		for j, v := range src {
			n := (v - mean) * inv
			dst[j] = n*ln.Gamma[j] + ln.Beta[j]
		}
	}
	return out
}
