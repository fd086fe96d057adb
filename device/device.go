package device

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/hupe1980/vecdot/internal/lanes"
	"github.com/hupe1980/vecdot/internal/resource"
)

// DefaultMaxBlockSize is the largest block accepted by DefaultConfig devices.
const DefaultMaxBlockSize = 1024

// Config describes a simulated device.
type Config struct {
	// LaneWidth is the number of lanes executing in lockstep (G).
	// Must be a power of two. If 0, the width of the active ISA is used.
	LaneWidth int

	// MaxBlockSize is the largest number of workers per block.
	// If 0, defaults to DefaultMaxBlockSize.
	MaxBlockSize int

	// MaxConcurrentBlocks bounds the number of blocks executing at once
	// across all streams. If 0, defaults to GOMAXPROCS.
	MaxConcurrentBlocks int

	// MemoryLimitBytes caps the total size of live buffers. 0 means unlimited.
	MemoryLimitBytes int64

	// CopyBytesPerSec caps device-to-host copy bandwidth. 0 means unlimited.
	CopyBytesPerSec int64

	// Logger receives launch failures. If nil, nothing is logged.
	Logger *slog.Logger
}

// DefaultConfig returns a configuration sized for the host CPU.
func DefaultConfig() Config {
	return Config{
		LaneWidth:           lanes.Width(),
		MaxBlockSize:        DefaultMaxBlockSize,
		MaxConcurrentBlocks: runtime.GOMAXPROCS(0),
	}
}

// Device is a simulated accelerator.
type Device struct {
	cfg    Config
	rc     *resource.Controller
	logger *slog.Logger

	mu      sync.Mutex
	streams map[*Stream]struct{}
	closed  bool
}

// New creates a device.
func New(cfg Config) (*Device, error) {
	if cfg.LaneWidth == 0 {
		cfg.LaneWidth = lanes.Width()
	}
	if cfg.MaxBlockSize == 0 {
		cfg.MaxBlockSize = DefaultMaxBlockSize
	}
	if cfg.MaxConcurrentBlocks <= 0 {
		cfg.MaxConcurrentBlocks = runtime.GOMAXPROCS(0)
	}

	if !lanes.IsPowerOfTwo(cfg.LaneWidth) {
		return nil, fmt.Errorf("%w: lane width %d is not a power of two", ErrInvalidConfig, cfg.LaneWidth)
	}
	if cfg.MaxBlockSize < cfg.LaneWidth || cfg.MaxBlockSize%cfg.LaneWidth != 0 {
		return nil, fmt.Errorf("%w: max block size %d is not a multiple of lane width %d",
			ErrInvalidConfig, cfg.MaxBlockSize, cfg.LaneWidth)
	}
	if cfg.MemoryLimitBytes < 0 || cfg.CopyBytesPerSec < 0 {
		return nil, fmt.Errorf("%w: negative resource limit", ErrInvalidConfig)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("device created",
		"isa", lanes.ISA(),
		"lane_width", cfg.LaneWidth,
		"max_block_size", cfg.MaxBlockSize,
		"max_concurrent_blocks", cfg.MaxConcurrentBlocks)

	return &Device{
		cfg: cfg,
		rc: resource.NewController(resource.Config{
			MemoryLimitBytes: cfg.MemoryLimitBytes,
			ComputeUnits:     int64(cfg.MaxConcurrentBlocks),
			CopyBytesPerSec:  cfg.CopyBytesPerSec,
		}),
		logger:  logger,
		streams: make(map[*Stream]struct{}),
	}, nil
}

// LaneWidth returns the number of lanes per group.
func (d *Device) LaneWidth() int { return d.cfg.LaneWidth }

// MaxBlockSize returns the largest accepted block size.
func (d *Device) MaxBlockSize() int { return d.cfg.MaxBlockSize }

// MemoryUsage returns the bytes held by live buffers.
func (d *Device) MemoryUsage() int64 { return d.rc.MemoryUsage() }

// NewStream creates an execution queue on the device.
// Streams created after Close are already closed.
func (d *Device) NewStream() *Stream {
	s := newStream(d)

	d.mu.Lock()
	closed := d.closed
	if !closed {
		d.streams[s] = struct{}{}
	}
	d.mu.Unlock()

	// Close takes d.mu through forget.
	if closed {
		s.Close()
	}
	return s
}

func (d *Device) forget(s *Stream) {
	d.mu.Lock()
	delete(d.streams, s)
	d.mu.Unlock()
}

// Close drains and closes every stream of the device. It is idempotent.
func (d *Device) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	streams := make([]*Stream, 0, len(d.streams))
	for s := range d.streams {
		streams = append(streams, s)
	}
	d.mu.Unlock()

	for _, s := range streams {
		s.Close()
	}
	return nil
}
