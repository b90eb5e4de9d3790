package ipheat

import (
	"log/slog"

	"github.com/ties/ipheat/gradient"
	"github.com/ties/ipheat/scale"
)

type options struct {
	mode       ValueMode
	accumulate bool
	kind       scale.Kind
	minValue   *float64
	maxValue   *float64
	grad       *gradient.Gradient
	palette    *gradient.Palette
	logger     *Logger
	metrics    MetricsCollector
	shards     int
	progress   int
}

// Option configures a rendering session at construction. The mode,
// accumulate flag and colour capabilities are fixed for the session's
// lifetime; there is no way to change them after New.
type Option func(*options)

// WithValueMode selects how input weights are written to cells.
// The default is ModeScaled.
func WithValueMode(mode ValueMode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// WithAccumulate makes writes add to the existing cell value instead of
// overwriting it (last write wins, the default).
//
// In categorical mode accumulation sums category ids. That combination
// is preserved for compatibility with existing outputs; it is rarely
// what you want.
func WithAccumulate(accumulate bool) Option {
	return func(o *options) {
		o.accumulate = accumulate
	}
}

// WithDomain selects the value-to-intensity mapping kind for continuous
// modes. The default is scale.Linear.
func WithDomain(kind scale.Kind) Option {
	return func(o *options) {
		o.kind = kind
	}
}

// WithMinValue fixes the lower colour-scale bound. Without it, the true
// dataset minimum is computed over the finished buffer at render time.
func WithMinValue(min float64) Option {
	return func(o *options) {
		v := min
		o.minValue = &v
	}
}

// WithMaxValue fixes the upper colour-scale bound. Without it, the true
// dataset maximum is computed over the finished buffer at render time.
func WithMaxValue(max float64) Option {
	return func(o *options) {
		v := max
		o.maxValue = &v
	}
}

// WithGradient injects the continuous colour gradient. The default is
// gradient.Magma. Ignored in categorical mode.
func WithGradient(g *gradient.Gradient) Option {
	return func(o *options) {
		if g == nil {
			g = gradient.Magma
		}
		o.grad = g
	}
}

// WithPalette injects the categorical palette. The default is
// gradient.Accent. Ignored in continuous modes.
func WithPalette(p *gradient.Palette) Option {
	return func(o *options) {
		if p == nil {
			p = gradient.Accent
		}
		o.palette = p
	}
}

// WithLogger configures structured logging for the session.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetrics configures a metrics collector for the session.
// Pass nil to disable metrics collection.
func WithMetrics(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithShards splits ingestion across n workers, each painting a private
// buffer, merged by cell-wise addition afterwards. Requires accumulate
// mode: overwrite semantics depend on input order, which fan-out does
// not preserve. n <= 1 disables sharding.
//
// Memory grows by one buffer per shard; at 8 bits per pixel that is
// 64 MiB each.
func WithShards(n int) Option {
	return func(o *options) {
		o.shards = n
	}
}

// WithProgressInterval emits a debug log every n ingested lines,
// throttled to at most one per second. n <= 0 (the default) disables
// progress logging.
func WithProgressInterval(n int) Option {
	return func(o *options) {
		o.progress = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		mode:    ModeScaled,
		kind:    scale.Linear,
		grad:    gradient.Magma,
		palette: gradient.Accent,
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
		shards:  1,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
