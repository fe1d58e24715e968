package geometry

import (
	"github.com/anthony94polson/smart-toolpath-ai/tensor"
)

// Attribute vector widths. These are fixed contract values: the encoder's
// input projection and any trained checkpoint depend on them.
const (
	NodeAttrDim = 10
	EdgeAttrDim = 12
)

// Placeholder attribute values used when a quantity is not derivable from a
// plain triangle mesh.
const (
	DefaultCurvature float32 = 0   // triangles carry no curvature
	DefaultConvexity float32 = 0.5 // unknown, midpoint of [0,1]
	DefaultPlanarity float32 = 1   // triangles are exactly planar

	DefaultDihedralAngle float32 = 0
	DefaultEdgeType      float32 = 0
	DefaultEdgeLength    float32 = 0
)

// AttributeVector returns the 10-float node attribute vector:
// {area, normal xyz, center xyz, curvature, convexity, planarity}.
func (f Face) AttributeVector() []float32 {
	return []float32{
		f.Area,
		f.Normal[0], f.Normal[1], f.Normal[2],
		f.Center[0], f.Center[1], f.Center[2],
		f.Curvature,
		f.Convexity,
		f.Planarity,
	}
}

// NodeAttributes returns the N×10 node attribute matrix in face-id order.
func NodeAttributes(g *Graph) tensor.Matrix {
	m := tensor.New(g.Len(), NodeAttrDim)
	for i, f := range g.Faces {
		copy(m.Row(i), f.AttributeVector())
	}
	return m
}

// EdgeAttributes returns the M×12 edge attribute matrix and the aligned
// M×2 index list, one entry per adjacent unordered pair (i, j) with i < j in
// upper-triangular order. Only pairs the graph already marks adjacent are
// attributed; adjacency is never fabricated here.
func EdgeAttributes(g *Graph) (tensor.Matrix, [][2]int) {
	var pairs [][2]int
	for i, j := range tensor.UpperPairs(g.Len()) {
		if g.Adjacent(i, j) {
			pairs = append(pairs, [2]int{i, j})
		}
	}

	m := tensor.New(len(pairs), EdgeAttrDim)
	for row, p := range pairs {
		copy(m.Row(row), edgeAttributeVector(g.Faces[p[0]], g.Faces[p[1]]))
	}
	return m, pairs
}

// edgeAttributeVector derives the 12-float relational vector for one adjacent
// face pair: absolute normal deltas (3), absolute center deltas (3), min
// area, max area, area sum, then the three placeholder relational fields.
func edgeAttributeVector(a, b Face) []float32 {
	minArea, maxArea := a.Area, b.Area
	if minArea > maxArea {
		minArea, maxArea = maxArea, minArea
	}
	return []float32{
		abs32(a.Normal[0] - b.Normal[0]),
		abs32(a.Normal[1] - b.Normal[1]),
		abs32(a.Normal[2] - b.Normal[2]),
		abs32(a.Center[0] - b.Center[0]),
		abs32(a.Center[1] - b.Center[1]),
		abs32(a.Center[2] - b.Center[2]),
		minArea,
		maxArea,
		a.Area + b.Area,
		DefaultDihedralAngle,
		DefaultEdgeType,
		DefaultEdgeLength,
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
