package encoder

import (
	"math"

	"github.com/anthony94polson/smart-toolpath-ai/tensor"
)

// Encode runs the attribute embedding and the attention blocks over
// the per-face attribute matrix (N×AttrDim) and returns the per-face
// embeddings (N×Width).
//
// A zero-row input is not an error: the result is an empty matrix
// with the encoder width, so downstream stages see an empty part
// rather than a failure. The optional grid matrix must have the same
// number of rows as attrs when the model carries a grid embedding;
// pass a zero-value Matrix otherwise.
func (m *Model) Encode(attrs, grids tensor.Matrix) (tensor.Matrix, error) {
	w := m.cfg.Width()
	if attrs.Rows == 0 {
		return tensor.New(0, w), nil
	}
	if attrs.Cols != m.cfg.AttrDim {
		return tensor.Matrix{}, inferenceErrorf("attribute width %d, want %d", attrs.Cols, m.cfg.AttrDim)
	}
	if tensor.HasNonFinite(attrs) {
		return tensor.Matrix{}, inferenceErrorf("non-finite face attributes")
	}

	x := m.attrEmbed.Forward(attrs)
	if m.gridEmbed != nil {
		if grids.Rows != attrs.Rows || grids.Cols != m.cfg.GridDim {
			return tensor.Matrix{}, inferenceErrorf("grid features %dx%d, want %dx%d", grids.Rows, grids.Cols, attrs.Rows, m.cfg.GridDim)
		}
		x = tensor.ConcatCols(x, m.gridEmbed.Forward(grids))
	}

	for i := range m.blocks {
		x = m.blocks[i].forward(x)
	}

	if tensor.HasNonFinite(x) {
		return tensor.Matrix{}, inferenceErrorf("non-finite embeddings")
	}
	return x, nil
}

// forward applies one attention block: attention with a residual
// connection and layer norm, then the feed-forward sublayer with its
// own residual connection. The feed-forward output is not normalized.
func (b *block) forward(x tensor.Matrix) tensor.Matrix {
	attn := b.selfAttention(x)
	tensor.AddInPlace(attn, x)
	h := b.norm.Forward(attn)

	ff := b.ffn1.Forward(h)
	tensor.ReLUInPlace(ff)
	ff = b.ffn2.Forward(ff)
	tensor.AddInPlace(ff, h)
	return ff
}

// selfAttention is single-head scaled dot-product attention over the
// full face set. Every face attends to every face; the graph edges do
// not mask the scores.
func (b *block) selfAttention(x tensor.Matrix) tensor.Matrix {
	q := b.query.Forward(x)
	k := b.key.Forward(x)
	v := b.value.Forward(x)

	scores := tensor.MatMulT(q, k)
	tensor.ScaleInPlace(scores, 1/float32(math.Sqrt(float64(q.Cols))))
	tensor.SoftmaxRowsInPlace(scores)

	return b.attnOut.Forward(tensor.MatMul(scores, v))
}
