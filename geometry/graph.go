package geometry

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// normalEps guards the normalization of degenerate (near zero-area) faces.
const normalEps = 1e-12

// Face is one node of the attributed adjacency graph. The fields mirror the
// 10-float attribute vector plus Extent, which the feature assembler uses to
// derive a representative dimension.
type Face struct {
	ID        int
	Area      float32
	Normal    Vec3
	Center    Vec3
	Curvature float32
	Convexity float32
	Planarity float32
	Extent    float32
}

// Graph is the attributed adjacency graph: faces plus a symmetric,
// self-loop-free adjacency relation.
type Graph struct {
	Faces []Face

	adj []*roaring.Bitmap
}

// NewGraph returns a graph over the given faces with no adjacencies yet.
func NewGraph(faces []Face) *Graph {
	adj := make([]*roaring.Bitmap, len(faces))
	for i := range adj {
		adj[i] = roaring.New()
	}
	return &Graph{Faces: faces, adj: adj}
}

// Len returns the number of faces.
func (g *Graph) Len() int { return len(g.Faces) }

// AddAdjacency marks faces i and j as topologically adjacent.
// The relation is stored symmetrically; self loops are ignored.
func (g *Graph) AddAdjacency(i, j int) {
	if i == j {
		return
	}
	g.adj[i].Add(uint32(j))
	g.adj[j].Add(uint32(i))
}

// Adjacent reports whether faces i and j are adjacent.
func (g *Graph) Adjacent(i, j int) bool {
	if i == j {
		return false
	}
	return g.adj[i].Contains(uint32(j))
}

// Degree returns the number of faces adjacent to i.
func (g *Graph) Degree(i int) int {
	return int(g.adj[i].GetCardinality())
}

// meshEdge identifies an undirected mesh edge by its endpoint coordinates.
// STL records do not weld vertices, so identity is positional.
type meshEdge struct {
	a, b Vec3
}

func newMeshEdge(a, b Vec3) meshEdge {
	if lessVec(b, a) {
		a, b = b, a
	}
	return meshEdge{a: a, b: b}
}

func lessVec(a, b Vec3) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// BuildGraph validates the mesh and derives the attributed adjacency graph.
// Faces sharing an undirected edge (both endpooints coordinate-identical)
// become adjacent. Returns a ParseError for faces with fewer than three
// vertices or out-of-range vertex references.
func BuildGraph(m *Mesh) (*Graph, error) {
	faces := make([]Face, len(m.Faces))

	for i, idx := range m.Faces {
		if len(idx) < 3 {
			return nil, parseErrorf(i, "face has %d vertices, need at least 3", len(idx))
		}
		for _, vi := range idx {
			if vi < 0 || vi >= len(m.Vertices) {
				return nil, parseErrorf(i, "vertex index %d out of range [0,%d)", vi, len(m.Vertices))
			}
		}

		v1, v2, v3 := m.Vertices[idx[0]], m.Vertices[idx[1]], m.Vertices[idx[2]]
		cross := v2.Sub(v1).Cross(v3.Sub(v1))

		f := Face{
			ID:        i,
			Area:      cross.Norm() / 2,
			Center:    v1.Add(v2).Add(v3).Scale(1.0 / 3.0),
			Curvature: DefaultCurvature,
			Convexity: DefaultConvexity,
			Planarity: DefaultPlanarity,
			Extent:    maxEdgeLength(v1, v2, v3),
		}

		// Prefer the source normal when present; recompute otherwise.
		if i < len(m.Normals) && !m.Normals[i].IsZero() {
			if n, ok := m.Normals[i].Normalized(normalEps); ok {
				f.Normal = n
			}
		}
		if f.Normal.IsZero() {
			if n, ok := cross.Normalized(normalEps); ok {
				f.Normal = n
			}
		}

		faces[i] = f
	}

	g := NewGraph(faces)

	// Faces sharing an undirected boundary edge are adjacent.
	edges := make(map[meshEdge][]int, len(m.Faces)*2)
	for i, idx := range m.Faces {
		for k := range idx {
			a := m.Vertices[idx[k]]
			b := m.Vertices[idx[(k+1)%len(idx)]]
			e := newMeshEdge(a, b)
			edges[e] = append(edges[e], i)
		}
	}
	for _, members := range edges {
		for x := 0; x < len(members); x++ {
			for y := x + 1; y < len(members); y++ {
				g.AddAdjacency(members[x], members[y])
			}
		}
	}

	return g, nil
}

func maxEdgeLength(v1, v2, v3 Vec3) float32 {
	e1 := v2.Sub(v1).Norm()
	e2 := v3.Sub(v2).Norm()
	e3 := v1.Sub(v3).Norm()
	max := e1
	if e2 > max {
		max = e2
	}
	if e3 > max {
		max = e3
	}
	return max
}
