package vecdot

import (
	"log/slog"

	"github.com/hupe1980/vecdot/device"
)

// DefaultBlockSize is the number of workers per block used unless
// WithBlockSize overrides it.
const DefaultBlockSize = 512

// NumericsMode selects how inputs are checked for NaN and Inf before a
// reduction.
type NumericsMode int

const (
	// NumericsOff disables checking.
	NumericsOff NumericsMode = iota
	// NumericsInfo logs findings at info level.
	NumericsInfo
	// NumericsWarn logs findings at warn level.
	NumericsWarn
	// NumericsFail rejects calls with NaN or Inf inputs with a *NumericsError.
	NumericsFail
)

func (m NumericsMode) String() string {
	switch m {
	case NumericsOff:
		return "off"
	case NumericsInfo:
		return "info"
	case NumericsWarn:
		return "warn"
	case NumericsFail:
		return "fail"
	default:
		return "unknown"
	}
}

type options struct {
	device           *device.Device
	deviceConfig     device.Config
	blockSize        int
	metricsCollector MetricsCollector
	logger           *Logger
	numerics         NumericsMode
	wide             bool
}

// Option configures a Handle.
type Option func(*options)

// WithDevice runs the handle on an existing device. The handle does not
// close a device it did not create.
func WithDevice(d *device.Device) Option {
	return func(o *options) {
		o.device = d
	}
}

// WithDeviceConfig configures the device the handle creates.
// Ignored when WithDevice is given.
func WithDeviceConfig(cfg device.Config) Option {
	return func(o *options) {
		o.deviceConfig = cfg
	}
}

// WithBlockSize sets the number of workers per block.
//
// The value is rounded to a multiple of the device lane width, raised to
// hold at least one unrolled step of every element type and capped at the
// device's maximum block size. Small blocks force the two-phase path for
// short vectors.
func WithBlockSize(nb int) Option {
	return func(o *options) {
		o.blockSize = nb
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &vecdot.BasicMetricsCollector{}
//	h, _ := vecdot.New(vecdot.WithMetricsCollector(metrics))
//	// ... use h ...
//	stats := metrics.GetStats()
//	fmt.Printf("Reductions: %d, Avg latency: %dns\n", stats.ReductionCount, stats.ReductionAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := vecdot.NewJSONLogger(slog.LevelDebug)
//	h, _ := vecdot.New(vecdot.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
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

// WithCheckNumerics enables checking of inputs for NaN and Inf.
func WithCheckNumerics(mode NumericsMode) Option {
	return func(o *options) {
		o.numerics = mode
	}
}

// WithWideAccumulation accumulates float32, complex64 and half precision
// inputs in float64 (complex128). It can be changed per call with
// Handle.SetWideAccumulation.
func WithWideAccumulation() Option {
	return func(o *options) {
		o.wide = true
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		deviceConfig:     device.DefaultConfig(),
		blockSize:        DefaultBlockSize,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
