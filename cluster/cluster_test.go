package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthony94polson/smart-toolpath-ai/tensor"
	"github.com/anthony94polson/smart-toolpath-ai/util"
)

func TestProposalsRowScan(t *testing.T) {
	// Faces 0 and 1 are mutually affine, face 2 is isolated. Row 0
	// claims face 1; rows 1 and 2 emit nothing.
	a := New(3)
	a.Connect(0, 1)

	assert.Equal(t, [][]int{{1}}, a.Proposals())
}

func TestProposalsEmpty(t *testing.T) {
	assert.Empty(t, New(0).Proposals())
	assert.Empty(t, New(1).Proposals())
	assert.Empty(t, New(5).Proposals())
}

func TestProposalsClique(t *testing.T) {
	a := New(4)
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			a.Connect(i, j)
		}
	}

	// Row 0 claims 1, 2 and 3; the remaining rows are all used.
	assert.Equal(t, [][]int{{1, 2, 3}}, a.Proposals())
}

func TestProposalsTwoComponents(t *testing.T) {
	a := New(6)
	a.Connect(0, 1)
	a.Connect(0, 2)
	a.Connect(4, 5)

	assert.Equal(t, [][]int{{1, 2}, {5}}, a.Proposals())
}

func TestProposalsSkipsClaimedAffinities(t *testing.T) {
	// Row 3 is affine only with the already-claimed face 1 and emits
	// nothing.
	a := New(4)
	a.Connect(0, 1)
	a.Connect(3, 1)

	assert.Equal(t, [][]int{{1}}, a.Proposals())
}

func TestFromLogitsThreshold(t *testing.T) {
	logits := tensor.New(3, 3)
	logits.Set(0, 1, 2.5)
	logits.Set(1, 0, 2.5)
	logits.Set(0, 2, -1)
	logits.Set(2, 0, -1)
	// A zero logit sits exactly at sigmoid 0.5 and stays below the
	// strict threshold.
	logits.Set(1, 2, 0)
	logits.Set(2, 1, 0)

	a := FromLogits(logits)
	assert.True(t, a.Connected(0, 1))
	assert.False(t, a.Connected(0, 2))
	assert.False(t, a.Connected(1, 2))
	assert.False(t, a.Connected(0, 0))
}

func TestFromLogitsNotSquare(t *testing.T) {
	assert.Panics(t, func() { FromLogits(tensor.New(2, 3)) })
}

func TestProposalsDisjointAndDeterministic(t *testing.T) {
	const n = 64
	rng := util.NewRNG(99)

	a := New(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Bool(0.05) {
				a.Connect(i, j)
			}
		}
	}

	first := a.Proposals()
	require.NotEmpty(t, first)

	seen := map[int]bool{}
	for _, p := range first {
		require.NotEmpty(t, p)
		for _, f := range p {
			assert.False(t, seen[f], "face %d claimed twice", f)
			seen[f] = true
		}
	}

	assert.Equal(t, first, a.Proposals())
}
