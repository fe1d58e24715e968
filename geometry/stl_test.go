package geometry

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSTL serializes triangles into the binary STL layout.
// Each triangle is [normal, v1, v2, v3].
func buildSTL(t *testing.T, tris [][4]Vec3) []byte {
	t.Helper()

	buf := make([]byte, stlHeaderSize+4+len(tris)*stlRecordSize)
	binary.LittleEndian.PutUint32(buf[stlHeaderSize:], uint32(len(tris)))

	for i, tri := range tris {
		rec := buf[stlHeaderSize+4+i*stlRecordSize:]
		for vi, v := range tri {
			for c := 0; c < 3; c++ {
				binary.LittleEndian.PutUint32(rec[vi*12+c*4:], math.Float32bits(v[c]))
			}
		}
	}
	return buf
}

func twoTriangles() [][4]Vec3 {
	return [][4]Vec3{
		{{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		{{0, 0, 1}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
	}
}

func TestParseSTL(t *testing.T) {
	data := buildSTL(t, twoTriangles())

	mesh, err := ParseSTL(data)
	require.NoError(t, err)

	assert.Len(t, mesh.Faces, 2)
	assert.Len(t, mesh.Vertices, 6)
	assert.Len(t, mesh.Normals, 2)
	assert.Equal(t, Vec3{0, 0, 1}, mesh.Normals[0])
	assert.Equal(t, Vec3{1, 0, 0}, mesh.Vertices[1])
	assert.Equal(t, []int{3, 4, 5}, mesh.Faces[1])
}

func TestParseSTLErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"Empty", nil},
		{"ShortHeader", make([]byte, 40)},
		{"TruncatedRecords", func() []byte {
			data := buildSTL(t, twoTriangles())
			return data[:len(data)-10]
		}()},
		{"CountOverflow", func() []byte {
			data := buildSTL(t, twoTriangles())
			binary.LittleEndian.PutUint32(data[stlHeaderSize:], math.MaxUint32)
			return data
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSTL(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedGeometry)
		})
	}
}

func TestParseSTLNonFinite(t *testing.T) {
	tris := twoTriangles()
	tris[1][2][0] = float32(math.NaN())

	_, err := ParseSTL(buildSTL(t, tris))
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Face)
}
