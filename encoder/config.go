package encoder

import "github.com/anthony94polson/smart-toolpath-ai/geometry"

// Config describes the architecture of a Model. It must match the
// checkpoint the weights are loaded from.
type Config struct {
	// AttrDim is the width of the per-face attribute vectors.
	AttrDim int

	// GridDim is the width of the optional auxiliary grid features.
	// Zero disables the grid embedding branch.
	GridDim int

	// EmbedWidth is the width of the attribute embedding.
	EmbedWidth int

	// GridWidth is the width of the grid embedding. Only used when
	// GridDim is non-zero.
	GridWidth int

	// Blocks is the number of self-attention blocks.
	Blocks int

	// FFNRatio is the expansion factor of the feed-forward hidden
	// layer inside each block.
	FFNRatio int

	// Classes is the number of output classes of the segmentation
	// head, including the background class.
	Classes int
}

// DefaultConfig matches the published aagnet checkpoints.
var DefaultConfig = Config{
	AttrDim:    geometry.NodeAttrDim,
	EmbedWidth: 128,
	Blocks:     3,
	FFNRatio:   2,
	Classes:    26,
}

// Width returns the working width of the encoder, i.e. the width of
// the per-face embeddings flowing through the attention blocks.
func (c Config) Width() int {
	if c.GridDim > 0 {
		return c.EmbedWidth + c.GridWidth
	}
	return c.EmbedWidth
}
