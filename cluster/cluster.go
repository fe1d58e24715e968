package cluster

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/anthony94polson/smart-toolpath-ai/tensor"
)

// Adjacency is a binarized, symmetric face affinity matrix stored as
// one bitmap per row. The diagonal is always clear.
type Adjacency struct {
	n    int
	rows []*roaring.Bitmap
}

// New returns an empty adjacency over n faces.
func New(n int) *Adjacency {
	rows := make([]*roaring.Bitmap, n)
	for i := range rows {
		rows[i] = roaring.New()
	}
	return &Adjacency{n: n, rows: rows}
}

// Len returns the number of faces.
func (a *Adjacency) Len() int { return a.n }

// Connect marks faces i and j as mutually affine. Self loops are
// ignored.
func (a *Adjacency) Connect(i, j int) {
	if i == j {
		return
	}
	a.rows[i].Add(uint32(j))
	a.rows[j].Add(uint32(i))
}

// Connected reports whether faces i and j are affine.
func (a *Adjacency) Connected(i, j int) bool {
	return a.rows[i].Contains(uint32(j))
}

// FromLogits binarizes a square matrix of affinity logits: a pair is
// affine when the sigmoid of its logit exceeds 0.5. The diagonal is
// ignored.
func FromLogits(logits tensor.Matrix) *Adjacency {
	if logits.Rows != logits.Cols {
		panic(fmt.Sprintf("cluster: affinity matrix %dx%d is not square", logits.Rows, logits.Cols))
	}
	a := New(logits.Rows)
	for i := 0; i < logits.Rows; i++ {
		for j := i + 1; j < logits.Cols; j++ {
			if tensor.Sigmoid(logits.At(i, j)) > 0.5 {
				a.Connect(i, j)
			}
		}
	}
	return a
}

// Proposals sweeps the rows in ascending order and emits one instance
// proposal per seed row: the row's affine faces that no earlier
// proposal has claimed. Seed rows that are already claimed, have no
// affinities, or whose affinities are all claimed emit nothing. The
// seed itself joins a proposal only if some other row claims it.
//
// The returned proposals are pairwise disjoint and each is sorted
// ascending.
func (a *Adjacency) Proposals() [][]int {
	used := roaring.New()
	var out [][]int

	for r := 0; r < a.n; r++ {
		if used.Contains(uint32(r)) || a.rows[r].IsEmpty() {
			continue
		}
		proposal := roaring.AndNot(a.rows[r], used)
		if proposal.IsEmpty() {
			continue
		}
		used.Or(proposal)

		members := make([]int, 0, proposal.GetCardinality())
		it := proposal.Iterator()
		for it.HasNext() {
			members = append(members, int(it.Next()))
		}
		out = append(out, members)
	}
	return out
}
