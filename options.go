package aagnet

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/anthony94polson/smart-toolpath-ai/checkpoint"
	"github.com/anthony94polson/smart-toolpath-ai/codec"
	"github.com/anthony94polson/smart-toolpath-ai/encoder"
)

type options struct {
	codec            codec.Codec
	logger           *Logger
	metricsCollector MetricsCollector
	encoderConfig    encoder.Config
	loaderOptions    []func(*checkpoint.LoaderOptions)
	reloadInterval   time.Duration
	reloadBurst      int
}

// Option configures Recognizer constructor behavior.
type Option func(*options)

func defaultOptions() options {
	return options{
		codec:            codec.Default,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		encoderConfig:    encoder.DefaultConfig,
		reloadInterval:   time.Minute,
		reloadBurst:      1,
	}
}

// WithCodec configures the codec used for decoding checkpoint payloads.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithLogger configures structured logging. If nil is passed, logging
// is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures operational metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithEncoderConfig overrides the model architecture the checkpoint is
// expected to match. Only needed for non-default checkpoints.
func WithEncoderConfig(cfg encoder.Config) Option {
	return func(o *options) {
		o.encoderConfig = cfg
	}
}

// WithLoaderOptions configures how checkpoints are resolved in the
// weight store (key prefix, name suffix, payload codec).
func WithLoaderOptions(optFns ...func(*checkpoint.LoaderOptions)) Option {
	return func(o *options) {
		o.loaderOptions = append(o.loaderOptions, optFns...)
	}
}

// WithReloadLimit throttles explicit weight reloads: at most burst
// reloads per interval reach the store. A non-positive interval
// disables throttling.
func WithReloadLimit(interval time.Duration, burst int) Option {
	return func(o *options) {
		o.reloadInterval = interval
		if burst < 1 {
			burst = 1
		}
		o.reloadBurst = burst
	}
}

func (o options) reloadLimiter() *rate.Limiter {
	if o.reloadInterval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(o.reloadInterval), o.reloadBurst)
}
