package checkpoint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthony94polson/smart-toolpath-ai/blobstore"
)

func putCheckpoint(t *testing.T, store blobstore.BlobStore, name string, sd StateDict) {
	t.Helper()
	blob, err := Encode(sd, nil, CompressionZSTD)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), name, blob))
}

func TestLoaderResolvesNewestBySuffix(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	putCheckpoint(t, store, "models/2024-01-01.ckpt", StateDict{"a": {Shape: []int{1}, Data: []float32{1}}})
	putCheckpoint(t, store, "models/2024-06-01.ckpt", sampleDict())
	require.NoError(t, store.Put(ctx, "models/readme.txt", []byte("not a checkpoint")))

	loader := NewLoader(store)

	name, err := loader.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "models/2024-06-01.ckpt", name)

	sd, loaded, err := loader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "models/2024-06-01.ckpt", loaded)
	assert.Equal(t, sampleDict(), sd)
}

func TestLoaderHonorsActivePointer(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	putCheckpoint(t, store, "models/2024-01-01.ckpt", sampleDict())
	putCheckpoint(t, store, "models/2024-06-01.ckpt", StateDict{"b": {Shape: []int{1}, Data: []float32{2}}})
	require.NoError(t, store.Put(ctx, ActiveName, []byte("models/2024-01-01.ckpt\n")))

	loader := NewLoader(store)

	name, err := loader.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "models/2024-01-01.ckpt", name, "pointer beats suffix scan")
}

func TestLoaderMissingModelFile(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "models/notes.md", []byte("x")))

	loader := NewLoader(store)

	_, err := loader.Resolve(ctx)
	assert.ErrorIs(t, err, ErrMissingModelFile)

	_, _, err = loader.Load(ctx)
	assert.ErrorIs(t, err, ErrMissingModelFile)
}

func TestLoaderCustomConvention(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	putCheckpoint(t, store, "weights/net.bin", sampleDict())

	loader := NewLoader(store, func(o *LoaderOptions) {
		o.Prefix = "weights/"
		o.Suffix = ".bin"
	})

	name, err := loader.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "weights/net.bin", name)
}

func TestLoaderDecodeFailure(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "models/bad.ckpt", []byte("not json")))

	loader := NewLoader(store)

	_, _, err := loader.Load(ctx)
	assert.ErrorIs(t, err, ErrBadFormat)
}
