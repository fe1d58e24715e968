package encoder

import (
	"fmt"

	"github.com/anthony94polson/smart-toolpath-ai/checkpoint"
	"github.com/anthony94polson/smart-toolpath-ai/tensor"
	"github.com/anthony94polson/smart-toolpath-ai/util"
)

// mlp is a two-layer perceptron with a ReLU between the layers.
type mlp struct {
	hidden tensor.Linear
	out    tensor.Linear
}

func (m mlp) forward(x tensor.Matrix) tensor.Matrix {
	h := m.hidden.Forward(x)
	tensor.ReLUInPlace(h)
	return m.out.Forward(h)
}

func (m mlp) forwardVec(x []float32) []float32 {
	h := m.hidden.ForwardVec(x)
	for i, v := range h {
		if v < 0 {
			h[i] = 0
		}
	}
	return m.out.ForwardVec(h)
}

// block is one self-attention block: single-head scaled dot-product
// attention with a residual connection and layer norm, followed by a
// feed-forward sublayer with its own residual connection.
type block struct {
	query, key, value, attnOut tensor.Linear
	norm                       tensor.LayerNorm
	ffn1, ffn2                 tensor.Linear
}

// Model holds the weights of the graph encoder and its three heads.
type Model struct {
	cfg Config

	attrEmbed tensor.Linear
	gridEmbed *tensor.Linear
	blocks    []block

	segHead    mlp
	instHead   mlp
	bottomHead mlp
}

// Config returns the architecture the model was built with.
func (m *Model) Config() Config { return m.cfg }

// FromStateDict assembles a Model from checkpoint weights. The tensor
// shapes must agree with cfg; a mismatch yields a checkpoint format
// error.
func FromStateDict(sd checkpoint.StateDict, cfg Config) (*Model, error) {
	m := &Model{cfg: cfg}

	var err error
	if m.attrEmbed, err = sd.Linear("attr_embed"); err != nil {
		return nil, err
	}
	if err := checkLinear(m.attrEmbed, "attr_embed", cfg.EmbedWidth, cfg.AttrDim); err != nil {
		return nil, err
	}

	if cfg.GridDim > 0 {
		ge, err := sd.Linear("grid_embed")
		if err != nil {
			return nil, err
		}
		if err := checkLinear(ge, "grid_embed", cfg.GridWidth, cfg.GridDim); err != nil {
			return nil, err
		}
		m.gridEmbed = &ge
	}

	w := cfg.Width()
	m.blocks = make([]block, cfg.Blocks)
	for i := range m.blocks {
		b := &m.blocks[i]
		prefix := fmt.Sprintf("blocks.%d", i)
		for _, p := range []struct {
			dst  *tensor.Linear
			name string
		}{
			{&b.query, prefix + ".attn.query"},
			{&b.key, prefix + ".attn.key"},
			{&b.value, prefix + ".attn.value"},
			{&b.attnOut, prefix + ".attn.out"},
		} {
			if *p.dst, err = sd.Linear(p.name); err != nil {
				return nil, err
			}
			if err := checkLinear(*p.dst, p.name, w, w); err != nil {
				return nil, err
			}
		}

		if b.norm.Gamma, err = sd.Vector(prefix + ".norm.weight"); err != nil {
			return nil, err
		}
		if b.norm.Beta, err = sd.Vector(prefix + ".norm.bias"); err != nil {
			return nil, err
		}
		if len(b.norm.Gamma) != w || len(b.norm.Beta) != w {
			return nil, &checkpoint.FormatError{
				Reason: fmt.Sprintf("%s.norm: want width %d, got %d/%d", prefix, w, len(b.norm.Gamma), len(b.norm.Beta)),
			}
		}
		b.norm.Eps = tensor.DefaultLayerNormEps

		if b.ffn1, err = sd.Linear(prefix + ".ffn.0"); err != nil {
			return nil, err
		}
		if err := checkLinear(b.ffn1, prefix+".ffn.0", w*cfg.FFNRatio, w); err != nil {
			return nil, err
		}
		if b.ffn2, err = sd.Linear(prefix + ".ffn.1"); err != nil {
			return nil, err
		}
		if err := checkLinear(b.ffn2, prefix+".ffn.1", w, w*cfg.FFNRatio); err != nil {
			return nil, err
		}
	}

	for _, h := range []struct {
		dst    *mlp
		name   string
		inDim  int
		outDim int
	}{
		{&m.segHead, "seg_head", w, cfg.Classes},
		{&m.instHead, "inst_head", 2 * w, 1},
		{&m.bottomHead, "bottom_head", w, 1},
	} {
		if h.dst.hidden, err = sd.Linear(h.name + ".0"); err != nil {
			return nil, err
		}
		if h.dst.out, err = sd.Linear(h.name + ".1"); err != nil {
			return nil, err
		}
		if h.dst.hidden.InFeatures() != h.inDim {
			return nil, &checkpoint.FormatError{
				Reason: fmt.Sprintf("%s.0: want %d input features, got %d", h.name, h.inDim, h.dst.hidden.InFeatures()),
			}
		}
		if h.dst.out.InFeatures() != h.dst.hidden.OutFeatures() {
			return nil, &checkpoint.FormatError{
				Reason: fmt.Sprintf("%s: hidden width %d does not match output input width %d", h.name, h.dst.hidden.OutFeatures(), h.dst.out.InFeatures()),
			}
		}
		if h.dst.out.OutFeatures() != h.outDim {
			return nil, &checkpoint.FormatError{
				Reason: fmt.Sprintf("%s.1: want %d output features, got %d", h.name, h.outDim, h.dst.out.OutFeatures()),
			}
		}
	}

	return m, nil
}

func checkLinear(l tensor.Linear, name string, out, in int) error {
	if l.OutFeatures() != out || l.InFeatures() != in {
		return &checkpoint.FormatError{
			Reason: fmt.Sprintf("%s: want shape (%d,%d), got (%d,%d)", name, out, in, l.OutFeatures(), l.InFeatures()),
		}
	}
	return nil
}

// NewRandom builds a model with small random weights. Intended for
// tests and benchmarks; identical seeds yield identical models.
func NewRandom(cfg Config, seed int64) *Model {
	rng := util.NewRNG(seed)
	const scale = 0.1

	randLinear := func(out, in int) tensor.Linear {
		return tensor.Linear{
			Weight: rng.RandomMatrix(out, in, scale),
			Bias:   rng.RandomVector(out, scale),
		}
	}

	m := &Model{cfg: cfg}
	m.attrEmbed = randLinear(cfg.EmbedWidth, cfg.AttrDim)
	if cfg.GridDim > 0 {
		ge := randLinear(cfg.GridWidth, cfg.GridDim)
		m.gridEmbed = &ge
	}

	w := cfg.Width()
	m.blocks = make([]block, cfg.Blocks)
	for i := range m.blocks {
		b := &m.blocks[i]
		b.query = randLinear(w, w)
		b.key = randLinear(w, w)
		b.value = randLinear(w, w)
		b.attnOut = randLinear(w, w)
		b.norm = tensor.LayerNorm{
			Gamma: ones(w),
			Beta:  make([]float32, w),
			Eps:   tensor.DefaultLayerNormEps,
		}
		b.ffn1 = randLinear(w*cfg.FFNRatio, w)
		b.ffn2 = randLinear(w, w*cfg.FFNRatio)
	}

	m.segHead = mlp{hidden: randLinear(w, w), out: randLinear(cfg.Classes, w)}
	m.instHead = mlp{hidden: randLinear(w, 2*w), out: randLinear(1, w)}
	m.bottomHead = mlp{hidden: randLinear(w, w), out: randLinear(1, w)}

	return m
}

func ones(n int) []float32 {
	v := make([]float32, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

// StateDict exports the model weights in checkpoint form. Round trips
// through FromStateDict reproduce the model exactly.
func (m *Model) StateDict() checkpoint.StateDict {
	sd := checkpoint.StateDict{}

	put := func(name string, l tensor.Linear) {
		sd[name+".weight"] = checkpoint.Tensor{
			Shape: []int{l.Weight.Rows, l.Weight.Cols},
			Data:  l.Weight.Data,
		}
		sd[name+".bias"] = checkpoint.Tensor{Shape: []int{len(l.Bias)}, Data: l.Bias}
	}

	put("attr_embed", m.attrEmbed)
	if m.gridEmbed != nil {
		put("grid_embed", *m.gridEmbed)
	}
	for i := range m.blocks {
		b := &m.blocks[i]
		prefix := fmt.Sprintf("blocks.%d", i)
		put(prefix+".attn.query", b.query)
		put(prefix+".attn.key", b.key)
		put(prefix+".attn.value", b.value)
		put(prefix+".attn.out", b.attnOut)
		sd[prefix+".norm.weight"] = checkpoint.Tensor{Shape: []int{len(b.norm.Gamma)}, Data: b.norm.Gamma}
		sd[prefix+".norm.bias"] = checkpoint.Tensor{Shape: []int{len(b.norm.Beta)}, Data: b.norm.Beta}
		put(prefix+".ffn.0", b.ffn1)
		put(prefix+".ffn.1", b.ffn2)
	}
	put("seg_head.0", m.segHead.hidden)
	put("seg_head.1", m.segHead.out)
	put("inst_head.0", m.instHead.hidden)
	put("inst_head.1", m.instHead.out)
	put("bottom_head.0", m.bottomHead.hidden)
	put("bottom_head.1", m.bottomHead.out)

	return sd
}
