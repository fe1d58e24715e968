package geometry

import (
	"encoding/binary"
	"math"
)

// Mesh is a triangle soup read from a solid-model file or supplied by an
// external geometry source. Faces index into Vertices; a face needs at least
// three vertex references (the first three form the attribute triple).
// Normals is optional and, when present, aligned with Faces.
type Mesh struct {
	Vertices []Vec3
	Faces    [][]int
	Normals  []Vec3
}

const (
	stlHeaderSize = 80
	stlRecordSize = 50 // normal (12) + 3 vertices (36) + attribute bytes (2)
)

// ParseSTL parses a binary STL blob: an 80-byte header, a uint32 triangle
// count and one 50-byte record per triangle. Each triangle contributes three
// fresh vertices; vertices are not welded here (BuildGraph joins faces by
// coordinate-identical edges).
func ParseSTL(data []byte) (*Mesh, error) {
	if len(data) < stlHeaderSize+4 {
		return nil, parseErrorf(-1, "blob too short for STL header: %d bytes", len(data))
	}

	count := binary.LittleEndian.Uint32(data[stlHeaderSize : stlHeaderSize+4])
	need := uint64(stlHeaderSize) + 4 + uint64(count)*stlRecordSize
	if uint64(len(data)) < need {
		return nil, parseErrorf(-1, "truncated STL: %d triangles need %d bytes, have %d", count, need, len(data))
	}

	mesh := &Mesh{
		Vertices: make([]Vec3, 0, int(count)*3),
		Faces:    make([][]int, 0, count),
		Normals:  make([]Vec3, 0, count),
	}

	for i := 0; i < int(count); i++ {
		rec := data[stlHeaderSize+4+i*stlRecordSize:]

		normal := readVec3(rec)
		v1 := readVec3(rec[12:])
		v2 := readVec3(rec[24:])
		v3 := readVec3(rec[36:])

		if hasNonFiniteVec(normal) || hasNonFiniteVec(v1) || hasNonFiniteVec(v2) || hasNonFiniteVec(v3) {
			return nil, parseErrorf(i, "non-finite coordinate")
		}

		base := len(mesh.Vertices)
		mesh.Vertices = append(mesh.Vertices, v1, v2, v3)
		mesh.Faces = append(mesh.Faces, []int{base, base + 1, base + 2})
		mesh.Normals = append(mesh.Normals, normal)
	}

	return mesh, nil
}

func readVec3(b []byte) Vec3 {
	return Vec3{
		math.Float32frombits(binary.LittleEndian.Uint32(b)),
		math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}
}

func hasNonFiniteVec(v Vec3) bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return true
		}
	}
	return false
}
