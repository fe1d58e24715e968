package aagnet

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    analyzeCounter   prometheus.Counter
//	    analyzeHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordAnalyze(faces, features int, duration time.Duration, err error) {
//	    p.analyzeCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordAnalyze is called after each analysis request.
	// faces is the size of the analyzed face set, features the number
	// of detected features, duration the total time taken; err is nil
	// if successful.
	RecordAnalyze(faces, features int, duration time.Duration, err error)

	// RecordReload is called after each model load or reload,
	// including throttled attempts.
	RecordReload(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAnalyze(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordReload(time.Duration, error)            {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AnalyzeCount      atomic.Int64
	AnalyzeErrors     atomic.Int64
	AnalyzeTotalNanos atomic.Int64
	FacesTotal        atomic.Int64
	FeaturesTotal     atomic.Int64
	ReloadCount       atomic.Int64
	ReloadErrors      atomic.Int64
}

// RecordAnalyze implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAnalyze(faces, features int, duration time.Duration, err error) {
	b.AnalyzeCount.Add(1)
	b.AnalyzeTotalNanos.Add(duration.Nanoseconds())
	b.FacesTotal.Add(int64(faces))
	b.FeaturesTotal.Add(int64(features))
	if err != nil {
		b.AnalyzeErrors.Add(1)
	}
}

// RecordReload implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReload(duration time.Duration, err error) {
	b.ReloadCount.Add(1)
	if err != nil {
		b.ReloadErrors.Add(1)
	}
}

// BasicMetricsStats is a point-in-time snapshot of a BasicMetricsCollector.
type BasicMetricsStats struct {
	AnalyzeCount    int64
	AnalyzeErrors   int64
	AnalyzeAvgNanos int64
	FacesTotal      int64
	FeaturesTotal   int64
	ReloadCount     int64
	ReloadErrors    int64
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AnalyzeCount:    b.AnalyzeCount.Load(),
		AnalyzeErrors:   b.AnalyzeErrors.Load(),
		AnalyzeAvgNanos: b.getAvgAnalyzeNanos(),
		FacesTotal:      b.FacesTotal.Load(),
		FeaturesTotal:   b.FeaturesTotal.Load(),
		ReloadCount:     b.ReloadCount.Load(),
		ReloadErrors:    b.ReloadErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgAnalyzeNanos() int64 {
	count := b.AnalyzeCount.Load()
	if count == 0 {
		return 0
	}
	return b.AnalyzeTotalNanos.Load() / count
}
