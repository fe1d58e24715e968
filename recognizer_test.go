package aagnet

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthony94polson/smart-toolpath-ai/blobstore"
	"github.com/anthony94polson/smart-toolpath-ai/checkpoint"
	"github.com/anthony94polson/smart-toolpath-ai/codec"
	"github.com/anthony94polson/smart-toolpath-ai/encoder"
	"github.com/anthony94polson/smart-toolpath-ai/feature"
)

type tri struct {
	normal     [3]float32
	v1, v2, v3 [3]float32
}

// buildSTL serializes triangles into the binary STL layout: 80-byte
// header, uint32 count, 50-byte records.
func buildSTL(t *testing.T, tris []tri) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(len(tris))))
	for _, tr := range tris {
		for _, v := range [][3]float32{tr.normal, tr.v1, tr.v2, tr.v3} {
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
		}
		buf.Write([]byte{0, 0})
	}
	return buf.Bytes()
}

// tetrahedron is the smallest closed mesh: four triangles, every face
// adjacent to every other.
func tetrahedron(t *testing.T) string {
	a := [3]float32{0, 0, 0}
	b := [3]float32{1, 0, 0}
	c := [3]float32{0, 1, 0}
	d := [3]float32{0, 0, 1}

	data := buildSTL(t, []tri{
		{v1: a, v2: b, v3: c},
		{v1: a, v2: b, v3: d},
		{v1: a, v2: c, v3: d},
		{v1: b, v2: c, v3: d},
	})
	return base64.StdEncoding.EncodeToString(data)
}

func testRecognizer(seed int64, optFns ...Option) *Recognizer {
	return New(encoder.NewRandom(encoder.DefaultConfig, seed), optFns...)
}

func TestAnalyze(t *testing.T) {
	rec := testRecognizer(1)

	resp, err := rec.Analyze(context.Background(), &AnalyzeRequest{
		GeometryData: tetrahedron(t),
		FileName:     "tetra.stl",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, resp.Status)
	assert.NotEmpty(t, resp.AnalysisID)
	assert.Equal(t, modelType, resp.Metadata.ModelType)
	assert.Equal(t, 4, resp.Metadata.TotalFaces)
	assert.Equal(t, len(resp.Features), resp.Metadata.DetectedFeatures)
	assert.Equal(t, len(resp.Features), resp.Statistics.TotalFeatures)

	seen := map[int]bool{}
	for _, f := range resp.Features {
		assert.NotEqual(t, feature.Background.String(), f.Type)
		_, ok := feature.ParseClass(f.Type)
		assert.True(t, ok, "unknown type %q", f.Type)

		require.NotEmpty(t, f.Faces)
		members := map[int]bool{}
		for _, id := range f.Faces {
			assert.False(t, seen[id], "face %d in two features", id)
			seen[id] = true
			members[id] = true
		}
		for _, id := range f.Bottoms {
			assert.True(t, members[id], "bottom %d outside members", id)
		}

		assert.Equal(t, f.Dimensions.Width, f.Dimensions.Height)
		assert.InDelta(t, f.Dimensions.Width*0.5, f.Dimensions.Depth, 1e-9)
		if f.MachiningParams.ToolType == "drill" {
			require.NotNil(t, f.Dimensions.Diameter)
			assert.Equal(t, f.Dimensions.Width, *f.Dimensions.Diameter)
		} else {
			assert.Nil(t, f.Dimensions.Diameter)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	rec := testRecognizer(2)
	req := &AnalyzeRequest{GeometryData: tetrahedron(t), FileName: "tetra.stl"}

	a, err := rec.Analyze(context.Background(), req)
	require.NoError(t, err)
	b, err := rec.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, a.Features, b.Features)
	assert.Equal(t, a.Statistics, b.Statistics)
	assert.NotEqual(t, a.AnalysisID, b.AnalysisID)
}

func TestAnalyzeEmptyMesh(t *testing.T) {
	rec := testRecognizer(1)

	resp, err := rec.Analyze(context.Background(), &AnalyzeRequest{
		GeometryData: base64.StdEncoding.EncodeToString(buildSTL(t, nil)),
		FileName:     "empty.stl",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, resp.Status)
	assert.Empty(t, resp.Features)
	assert.Zero(t, resp.Metadata.TotalFaces)
	assert.Zero(t, resp.Statistics.AverageConfidence)
}

func TestAnalyzeMalformedGeometry(t *testing.T) {
	rec := testRecognizer(1)

	t.Run("BadBase64", func(t *testing.T) {
		_, err := rec.Analyze(context.Background(), &AnalyzeRequest{GeometryData: "not-base64!!"})
		assert.ErrorIs(t, err, ErrMalformedGeometry)
	})

	t.Run("Truncated", func(t *testing.T) {
		data := buildSTL(t, nil)[:40]
		_, err := rec.Analyze(context.Background(), &AnalyzeRequest{
			GeometryData: base64.StdEncoding.EncodeToString(data),
		})
		assert.ErrorIs(t, err, ErrMalformedGeometry)
	})
}

func putCheckpoint(t *testing.T, store blobstore.BlobStore, name string, m *encoder.Model) {
	t.Helper()

	data, err := checkpoint.Encode(m.StateDict(), codec.Default, checkpoint.CompressionZSTD)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), name, data))
}

func TestOpen(t *testing.T) {
	store := blobstore.NewMemoryStore()
	putCheckpoint(t, store, "models/model-001.ckpt", encoder.NewRandom(encoder.DefaultConfig, 5))

	rec, err := Open(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, "models/model-001.ckpt", rec.ModelName())

	resp, err := rec.Analyze(context.Background(), &AnalyzeRequest{GeometryData: tetrahedron(t)})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, resp.Status)
}

func TestOpenEmptyStore(t *testing.T) {
	_, err := Open(context.Background(), blobstore.NewMemoryStore())
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestOpenBadCheckpoint(t *testing.T) {
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "models/junk.ckpt", []byte("not json")))

	_, err := Open(context.Background(), store)
	assert.ErrorIs(t, err, ErrCheckpointFormat)
}

func TestReload(t *testing.T) {
	store := blobstore.NewMemoryStore()
	putCheckpoint(t, store, "models/model-001.ckpt", encoder.NewRandom(encoder.DefaultConfig, 5))

	rec, err := Open(context.Background(), store, WithReloadLimit(time.Hour, 1))
	require.NoError(t, err)

	// A newer checkpoint sorts after the old one and wins the scan.
	putCheckpoint(t, store, "models/model-002.ckpt", encoder.NewRandom(encoder.DefaultConfig, 6))

	require.NoError(t, rec.Reload(context.Background()))
	assert.Equal(t, "models/model-002.ckpt", rec.ModelName())

	assert.ErrorIs(t, rec.Reload(context.Background()), ErrReloadThrottled)
	assert.Equal(t, "models/model-002.ckpt", rec.ModelName())
}

func TestReloadWithoutStore(t *testing.T) {
	rec := testRecognizer(1)
	assert.ErrorIs(t, rec.Reload(context.Background()), ErrModelNotFound)
}

func TestMetricsCollection(t *testing.T) {
	var mc BasicMetricsCollector
	rec := testRecognizer(1, WithMetricsCollector(&mc))

	_, err := rec.Analyze(context.Background(), &AnalyzeRequest{GeometryData: tetrahedron(t)})
	require.NoError(t, err)
	_, err = rec.Analyze(context.Background(), &AnalyzeRequest{GeometryData: "%%%"})
	require.Error(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.AnalyzeCount)
	assert.Equal(t, int64(1), stats.AnalyzeErrors)
	assert.Equal(t, int64(4), stats.FacesTotal)
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(ErrMalformedGeometry)
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "malformed geometry", resp.Error)
}
