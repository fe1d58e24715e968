package aagnet

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/anthony94polson/smart-toolpath-ai/blobstore"
	"github.com/anthony94polson/smart-toolpath-ai/checkpoint"
	"github.com/anthony94polson/smart-toolpath-ai/cluster"
	"github.com/anthony94polson/smart-toolpath-ai/encoder"
	"github.com/anthony94polson/smart-toolpath-ai/feature"
	"github.com/anthony94polson/smart-toolpath-ai/geometry"
	"github.com/anthony94polson/smart-toolpath-ai/tensor"
)

// ErrReloadThrottled is returned when Reload is called faster than the
// configured reload limit allows. The active model stays in place.
var ErrReloadThrottled = errors.New("reload throttled")

// loadedModel pairs a model with the checkpoint name it came from.
type loadedModel struct {
	model *encoder.Model
	name  string
}

// Recognizer runs the full recognition pipeline: STL parsing, graph
// construction, encoder inference, clustering and feature assembly.
//
// The model handle is swapped atomically on reload; analyses never
// block each other and each request keeps the model it started with.
type Recognizer struct {
	opts    options
	loader  *checkpoint.Loader
	limiter *rate.Limiter
	model   atomic.Pointer[loadedModel]
	seq     atomic.Uint64
}

// New creates a Recognizer around an already-constructed model.
// Reload is unavailable without a weight store; use Open for
// store-backed deployments.
func New(model *encoder.Model, optFns ...Option) *Recognizer {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	r := &Recognizer{opts: o, limiter: o.reloadLimiter()}
	r.model.Store(&loadedModel{model: model, name: "direct"})
	return r
}

// Open creates a Recognizer that loads its model from a weight store:
// the newest checkpoint under the configured naming convention, or the
// one the ACTIVE pointer names when the store carries one.
func Open(ctx context.Context, store blobstore.BlobStore, optFns ...Option) (*Recognizer, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	loaderOpts := append([]func(*checkpoint.LoaderOptions){
		func(lo *checkpoint.LoaderOptions) { lo.Codec = o.codec },
	}, o.loaderOptions...)

	r := &Recognizer{
		opts:    o,
		loader:  checkpoint.NewLoader(store, loaderOpts...),
		limiter: o.reloadLimiter(),
	}
	if err := r.load(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Model returns the currently active model.
func (r *Recognizer) Model() *encoder.Model {
	return r.model.Load().model
}

// ModelName returns the checkpoint name of the currently active model,
// or "direct" when the model was passed to New.
func (r *Recognizer) ModelName() string {
	return r.model.Load().name
}

func (r *Recognizer) load(ctx context.Context) error {
	start := time.Now()

	sd, name, err := r.loader.Load(ctx)
	if err == nil {
		var m *encoder.Model
		if m, err = encoder.FromStateDict(sd, r.opts.encoderConfig); err == nil {
			r.model.Store(&loadedModel{model: m, name: name})
		}
	}
	err = translateError(err)

	r.opts.metricsCollector.RecordReload(time.Since(start), err)
	r.opts.logger.LogLoadModel(ctx, name, err)
	return err
}

// Reload re-resolves the weight store and swaps in the newest
// checkpoint. Most recent load wins; in-flight analyses are not
// interrupted. Calls beyond the configured reload limit return
// ErrReloadThrottled without touching the store.
func (r *Recognizer) Reload(ctx context.Context) error {
	if r.loader == nil {
		return fmt.Errorf("%w: recognizer has no weight store", ErrModelNotFound)
	}
	if !r.limiter.Allow() {
		r.opts.logger.LogReload(ctx, r.ModelName(), true, nil)
		return ErrReloadThrottled
	}

	err := r.load(ctx)
	r.opts.logger.LogReload(ctx, r.ModelName(), false, err)
	return err
}

// Analyze runs the recognition pipeline over one part. A part that
// parses to zero faces is not an error: the response carries zero
// features. Any failure aborts the whole request; partial feature
// lists are never returned.
func (r *Recognizer) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResponse, error) {
	start := time.Now()

	resp, faces, err := r.analyze(ctx, req, start)

	featureCount := 0
	if resp != nil {
		featureCount = len(resp.Features)
	}
	r.opts.metricsCollector.RecordAnalyze(faces, featureCount, time.Since(start), err)
	r.opts.logger.LogAnalyze(ctx, req.FileName, faces, featureCount, err)

	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (r *Recognizer) analyze(ctx context.Context, req *AnalyzeRequest, start time.Time) (*AnalyzeResponse, int, error) {
	active := r.model.Load()

	raw, err := base64.StdEncoding.DecodeString(req.GeometryData)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: invalid base64 payload: %w", ErrMalformedGeometry, err)
	}

	mesh, err := geometry.ParseSTL(raw)
	if err != nil {
		return nil, 0, translateError(err)
	}
	g, err := geometry.BuildGraph(mesh)
	if err != nil {
		return nil, 0, translateError(err)
	}

	out, err := active.model.Infer(ctx, geometry.NodeAttributes(g), tensor.Matrix{})
	if err != nil {
		return nil, g.Len(), translateError(err)
	}
	if out.ClassLogits.Cols != feature.NumClasses {
		return nil, g.Len(), fmt.Errorf("%w: class logits width %d, want %d",
			ErrInference, out.ClassLogits.Cols, feature.NumClasses)
	}

	proposals := cluster.FromLogits(out.Affinity).Proposals()
	feats := feature.Assemble(g.Faces, proposals, out.ClassLogits, out.BottomLogits)

	id := fmt.Sprintf("aagnet_%d_%d", start.UnixMilli(), r.seq.Add(1))
	return newAnalyzeResponse(id, feats, g.Len(), time.Since(start)), g.Len(), nil
}
