package encoder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthony94polson/smart-toolpath-ai/checkpoint"
	"github.com/anthony94polson/smart-toolpath-ai/tensor"
	"github.com/anthony94polson/smart-toolpath-ai/util"
)

func testConfig() Config {
	return Config{
		AttrDim:    10,
		EmbedWidth: 16,
		Blocks:     2,
		FFNRatio:   2,
		Classes:    5,
	}
}

func testAttrs(n int, cfg Config) tensor.Matrix {
	return util.NewRNG(7).RandomMatrix(n, cfg.AttrDim, 1)
}

func TestInferShapes(t *testing.T) {
	cfg := testConfig()
	m := NewRandom(cfg, 1)

	out, err := m.Infer(context.Background(), testAttrs(6, cfg), tensor.Matrix{})
	require.NoError(t, err)

	assert.Equal(t, 6, out.Embeddings.Rows)
	assert.Equal(t, cfg.Width(), out.Embeddings.Cols)
	assert.Equal(t, 6, out.ClassLogits.Rows)
	assert.Equal(t, cfg.Classes, out.ClassLogits.Cols)
	assert.Equal(t, 6, out.Affinity.Rows)
	assert.Equal(t, 6, out.Affinity.Cols)
	assert.Len(t, out.BottomLogits, 6)
}

func TestInferDeterministic(t *testing.T) {
	cfg := testConfig()
	attrs := testAttrs(5, cfg)

	a, err := NewRandom(cfg, 42).Infer(context.Background(), attrs, tensor.Matrix{})
	require.NoError(t, err)
	b, err := NewRandom(cfg, 42).Infer(context.Background(), attrs, tensor.Matrix{})
	require.NoError(t, err)

	assert.Equal(t, a.ClassLogits.Data, b.ClassLogits.Data)
	assert.Equal(t, a.Affinity.Data, b.Affinity.Data)
	assert.Equal(t, a.BottomLogits, b.BottomLogits)

	c, err := NewRandom(cfg, 43).Infer(context.Background(), attrs, tensor.Matrix{})
	require.NoError(t, err)
	assert.NotEqual(t, a.ClassLogits.Data, c.ClassLogits.Data)
}

func TestAffinitySymmetricZeroDiagonal(t *testing.T) {
	cfg := testConfig()
	m := NewRandom(cfg, 3)

	out, err := m.Infer(context.Background(), testAttrs(8, cfg), tensor.Matrix{})
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		assert.Zero(t, out.Affinity.At(i, i))
		for j := 0; j < 8; j++ {
			assert.Equal(t, out.Affinity.At(i, j), out.Affinity.At(j, i))
		}
	}
}

func TestInferEmptyInput(t *testing.T) {
	cfg := testConfig()
	m := NewRandom(cfg, 1)

	out, err := m.Infer(context.Background(), tensor.New(0, cfg.AttrDim), tensor.Matrix{})
	require.NoError(t, err)
	assert.Zero(t, out.Embeddings.Rows)
	assert.Zero(t, out.ClassLogits.Rows)
	assert.Zero(t, out.Affinity.Rows)
	assert.Empty(t, out.BottomLogits)
}

func TestEncodeAttrWidthMismatch(t *testing.T) {
	cfg := testConfig()
	m := NewRandom(cfg, 1)

	_, err := m.Encode(tensor.New(3, cfg.AttrDim+1), tensor.Matrix{})
	assert.ErrorIs(t, err, ErrInference)
}

func TestGridEmbedding(t *testing.T) {
	cfg := testConfig()
	cfg.GridDim = 4
	cfg.GridWidth = 8
	m := NewRandom(cfg, 1)

	assert.Equal(t, cfg.EmbedWidth+cfg.GridWidth, cfg.Width())

	attrs := testAttrs(3, cfg)
	grids := util.NewRNG(9).RandomMatrix(3, cfg.GridDim, 1)

	out, err := m.Infer(context.Background(), attrs, grids)
	require.NoError(t, err)
	assert.Equal(t, cfg.Width(), out.Embeddings.Cols)

	_, err = m.Encode(attrs, util.NewRNG(9).RandomMatrix(2, cfg.GridDim, 1))
	assert.ErrorIs(t, err, ErrInference)
}

func TestStateDictRoundTrip(t *testing.T) {
	cfg := testConfig()
	orig := NewRandom(cfg, 11)

	loaded, err := FromStateDict(orig.StateDict(), cfg)
	require.NoError(t, err)

	attrs := testAttrs(5, cfg)
	a, err := orig.Infer(context.Background(), attrs, tensor.Matrix{})
	require.NoError(t, err)
	b, err := loaded.Infer(context.Background(), attrs, tensor.Matrix{})
	require.NoError(t, err)

	assert.Equal(t, a.ClassLogits.Data, b.ClassLogits.Data)
	assert.Equal(t, a.Affinity.Data, b.Affinity.Data)
	assert.Equal(t, a.BottomLogits, b.BottomLogits)
}

func TestFromStateDictErrors(t *testing.T) {
	cfg := testConfig()
	sd := NewRandom(cfg, 1).StateDict()

	t.Run("MissingKey", func(t *testing.T) {
		broken := checkpoint.StateDict{}
		for k, v := range sd {
			broken[k] = v
		}
		delete(broken, "seg_head.0.weight")

		_, err := FromStateDict(broken, cfg)
		assert.ErrorIs(t, err, checkpoint.ErrBadFormat)
	})

	t.Run("ShapeMismatch", func(t *testing.T) {
		broken := checkpoint.StateDict{}
		for k, v := range sd {
			broken[k] = v
		}
		wrong := util.NewRNG(2).RandomMatrix(cfg.EmbedWidth, cfg.AttrDim+2, 1)
		broken["attr_embed.weight"] = checkpoint.Tensor{
			Shape: []int{wrong.Rows, wrong.Cols},
			Data:  wrong.Data,
		}

		_, err := FromStateDict(broken, cfg)
		assert.ErrorIs(t, err, checkpoint.ErrBadFormat)
	})
}
