package vecdot

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
//	    reductions *prometheus.CounterVec
//	    latency    *prometheus.HistogramVec
//	}
//
//	func (p *PrometheusCollector) RecordReduction(op string, n, batch int, d time.Duration, err error) {
//	    p.reductions.WithLabelValues(op).Inc()
//	    p.latency.WithLabelValues(op).Observe(d.Seconds())
//	}
type MetricsCollector interface {
	// RecordReduction is called after each reduction call.
	// n and batch are the call's sizes, duration is the time until the call
	// returned (device results may still be in flight), err is nil if
	// successful.
	RecordReduction(op string, n, batch int, duration time.Duration, err error)

	// RecordNumerics is called when numerics checking finds batch entries
	// holding NaN or infinite elements.
	RecordNumerics(found int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordReduction(string, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordNumerics(int)                                    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ReductionCount      atomic.Int64
	ReductionErrors     atomic.Int64
	ReductionTotalNanos atomic.Int64
	ElementsReduced     atomic.Int64
	BatchEntries        atomic.Int64
	NumericsFindings    atomic.Int64
}

// RecordReduction implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReduction(_ string, n, batch int, duration time.Duration, err error) {
	b.ReductionCount.Add(1)
	b.ReductionTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ReductionErrors.Add(1)
		return
	}
	if n > 0 && batch > 0 {
		b.ElementsReduced.Add(int64(n) * int64(batch))
		b.BatchEntries.Add(int64(batch))
	}
}

// RecordNumerics implements MetricsCollector.
func (b *BasicMetricsCollector) RecordNumerics(found int) {
	b.NumericsFindings.Add(int64(found))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ReductionCount:    b.ReductionCount.Load(),
		ReductionErrors:   b.ReductionErrors.Load(),
		ReductionAvgNanos: b.getAvgReductionNanos(),
		ElementsReduced:   b.ElementsReduced.Load(),
		BatchEntries:      b.BatchEntries.Load(),
		NumericsFindings:  b.NumericsFindings.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgReductionNanos() int64 {
	count := b.ReductionCount.Load()
	if count == 0 {
		return 0
	}
	return b.ReductionTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ReductionCount    int64
	ReductionErrors   int64
	ReductionAvgNanos int64
	ElementsReduced   int64
	BatchEntries      int64
	NumericsFindings  int64
}
