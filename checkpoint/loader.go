package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthony94polson/smart-toolpath-ai/blobstore"
	"github.com/anthony94polson/smart-toolpath-ai/codec"
)

// ActiveName is the optional pointer blob naming the checkpoint to load.
const ActiveName = "ACTIVE"

// LoaderOptions configures checkpoint resolution.
type LoaderOptions struct {
	// Prefix restricts the scan to blob names under this prefix.
	Prefix string
	// Suffix is the checkpoint naming convention. Default ".ckpt".
	Suffix string
	// Codec decodes the blob. Nil means codec.Default.
	Codec codec.Codec
}

// DefaultLoaderOptions are the stock resolution settings.
var DefaultLoaderOptions = LoaderOptions{
	Prefix: "models/",
	Suffix: ".ckpt",
}

// Loader resolves and loads model checkpoints from a blob store.
type Loader struct {
	store blobstore.BlobStore
	opts  LoaderOptions
}

// NewLoader creates a Loader over the given store.
func NewLoader(store blobstore.BlobStore, optFns ...func(o *LoaderOptions)) *Loader {
	opts := DefaultLoaderOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Suffix == "" {
		opts.Suffix = DefaultLoaderOptions.Suffix
	}
	return &Loader{store: store, opts: opts}
}

// Resolve returns the name of the checkpoint blob to load: the ACTIVE
// pointer target when a pointer exists, otherwise the lexicographically last
// blob matching the suffix convention under the prefix (timestamped names
// make that the most recent upload). Returns ErrMissingModelFile when
// nothing matches.
func (l *Loader) Resolve(ctx context.Context) (string, error) {
	if target, err := l.resolveActive(ctx); err != nil {
		return "", err
	} else if target != "" {
		return target, nil
	}

	names, err := l.store.List(ctx, l.opts.Prefix)
	if err != nil {
		return "", fmt.Errorf("list checkpoints: %w", err)
	}

	best := ""
	for _, name := range names {
		if strings.HasSuffix(name, l.opts.Suffix) && name > best {
			best = name
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w: no %q blob under %q", ErrMissingModelFile, l.opts.Suffix, l.opts.Prefix)
	}
	return best, nil
}

func (l *Loader) resolveActive(ctx context.Context) (string, error) {
	data, err := blobstore.ReadAll(ctx, l.store, ActiveName)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("read %s pointer: %w", ActiveName, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Load resolves, downloads and decodes the checkpoint.
// Returns the state dict and the blob name it came from.
func (l *Loader) Load(ctx context.Context) (StateDict, string, error) {
	name, err := l.Resolve(ctx)
	if err != nil {
		return nil, "", err
	}

	data, err := blobstore.ReadAll(ctx, l.store, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: %q vanished after resolution", ErrMissingModelFile, name)
		}
		return nil, "", fmt.Errorf("read checkpoint %q: %w", name, err)
	}

	sd, err := Decode(data, l.opts.Codec)
	if err != nil {
		return nil, "", fmt.Errorf("checkpoint %q: %w", name, err)
	}
	return sd, name, nil
}
