package encoder

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/anthony94polson/smart-toolpath-ai/tensor"
)

// Output bundles the predictions of the three heads for one part.
type Output struct {
	// Embeddings holds the per-face encoder embeddings (N×Width).
	Embeddings tensor.Matrix

	// ClassLogits holds the raw segmentation logits (N×Classes).
	ClassLogits tensor.Matrix

	// Affinity holds the pairwise instance logits (N×N). The matrix
	// is symmetric and the diagonal is zero: a face carries no
	// affinity with itself.
	Affinity tensor.Matrix

	// BottomLogits holds the raw bottom-face logits, one per face.
	BottomLogits []float32
}

// Infer runs the full forward pass: encoder followed by the
// segmentation, instance and bottom heads. A zero-face input returns
// an Output with empty matrices and no error.
func (m *Model) Infer(ctx context.Context, attrs, grids tensor.Matrix) (*Output, error) {
	emb, err := m.Encode(attrs, grids)
	if err != nil {
		return nil, err
	}

	n := emb.Rows
	out := &Output{
		Embeddings:   emb,
		ClassLogits:  m.segHead.forward(emb),
		Affinity:     tensor.New(n, n),
		BottomLogits: make([]float32, n),
	}
	for i := 0; i < n; i++ {
		out.BottomLogits[i] = m.bottomHead.forwardVec(emb.Row(i))[0]
	}

	if err := m.affinity(ctx, emb, out.Affinity); err != nil {
		return nil, err
	}

	if tensor.HasNonFinite(out.ClassLogits) || tensor.HasNonFinite(out.Affinity) {
		return nil, inferenceErrorf("non-finite head outputs")
	}
	return out, nil
}

// affinity fills dst with the pairwise instance logits. Each ordered
// pair (i, j) with i < j is scored once on the concatenated
// embeddings and mirrored into both triangles, so the result is
// symmetric regardless of the head weights. Rows are scored in
// parallel; every goroutine writes a disjoint set of cells.
func (m *Model) affinity(ctx context.Context, emb, dst tensor.Matrix) error {
	n := emb.Rows
	if n < 2 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	w := emb.Cols
	for i := 0; i < n-1; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pair := make([]float32, 2*w)
			copy(pair, emb.Row(i))
			for j := i + 1; j < n; j++ {
				copy(pair[w:], emb.Row(j))
				logit := m.instHead.forwardVec(pair)[0]
				dst.Set(i, j, logit)
				dst.Set(j, i, logit)
			}
			return nil
		})
	}
	return g.Wait()
}
