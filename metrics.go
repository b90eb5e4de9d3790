package ipheat

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordPaint is called after each paint operation with the number
	// of pixels the operation touched.
	RecordPaint(pixels int)

	// RecordIngest is called after each ingestion pass. lines is the
	// number of input lines consumed, skipped the number dropped by
	// recoverable parse failures, err nil on success.
	RecordIngest(lines, skipped int, duration time.Duration, err error)

	// RecordRender is called after each render pass.
	RecordRender(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPaint(int)                             {}
func (NoopMetricsCollector) RecordIngest(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRender(time.Duration, error)           {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	PaintOps         atomic.Int64
	PaintedPixels    atomic.Int64
	IngestLines      atomic.Int64
	IngestSkipped    atomic.Int64
	IngestErrors     atomic.Int64
	IngestTotalNanos atomic.Int64
	RenderCount      atomic.Int64
	RenderErrors     atomic.Int64
	RenderTotalNanos atomic.Int64
}

func (m *BasicMetricsCollector) RecordPaint(pixels int) {
	m.PaintOps.Add(1)
	m.PaintedPixels.Add(int64(pixels))
}

func (m *BasicMetricsCollector) RecordIngest(lines, skipped int, duration time.Duration, err error) {
	m.IngestLines.Add(int64(lines))
	m.IngestSkipped.Add(int64(skipped))
	m.IngestTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		m.IngestErrors.Add(1)
	}
}

func (m *BasicMetricsCollector) RecordRender(duration time.Duration, err error) {
	m.RenderCount.Add(1)
	m.RenderTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		m.RenderErrors.Add(1)
	}
}
