package tensor

import (
	"iter"
	"math"
)

// ReLUInPlace clamps negative entries of m to zero.
func ReLUInPlace(m Matrix) {
	for i, v := range m.Data {
		if v < 0 {
			m.Data[i] = 0
		}
	}
}

// Sigmoid returns 1 / (1 + e^-x).
func Sigmoid(x float32) float32 {
	return float32(1 / (1 + math.Exp(-float64(x))))
}

// SoftmaxRowsInPlace applies a numerically stable softmax to every row of m.
func SoftmaxRowsInPlace(m Matrix) {
	for i := 0; i < m.Rows; i++ {
		r := m.Row(i)
		if len(r) == 0 {
			continue
		}
		maxv := r[0]
		for _, v := range r[1:] {
			if v > maxv {
				maxv = v
			}
		}
		var sum float32
		for j, v := range r {
			e := float32(math.Exp(float64(v - maxv)))
			r[j] = e
			sum += e
		}
		inv := 1 / sum
		for j := range r {
			r[j] *= inv
		}
	}
}

// ScaleInPlace multiplies every entry of m by s.
func ScaleInPlace(m Matrix, s float32) {
	for i := range m.Data {
		m.Data[i] *= s
	}
}

// HasNonFinite reports whether m contains NaN or ±Inf.
func HasNonFinite(m Matrix) bool {
	for _, v := range m.Data {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return true
		}
	}
	return false
}

// UpperPairs yields every unordered index pair (i, j) with 0 <= i < j < n in
// lexicographic order. It is shared by edge-attribute construction and the
// pairwise instance head so both walk the upper triangle identically.
func UpperPairs(n int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if !yield(i, j) {
					return
				}
			}
		}
	}
}
