package vecdot

import (
	"fmt"
	"sync"

	"github.com/hupe1980/vecdot/device"
)

// maxUnroll is the largest per-worker unroll factor of any element type.
// Blocks must hold at least one unrolled step for tail handling.
const maxUnroll = 8

// Handle owns an execution queue on a device and the settings reductions
// run with. Calls on one handle are serialised; use one handle per
// goroutine for concurrent reductions.
type Handle struct {
	mu sync.Mutex

	dev       *device.Device
	ownsDev   bool
	stream    *device.Stream
	blockSize int
	wide      bool
	numerics  NumericsMode

	logger  *Logger
	metrics MetricsCollector

	sizeQuery bool
	sizeBytes int64

	closed bool
}

// New creates a handle.
func New(optFns ...Option) (*Handle, error) {
	o := applyOptions(optFns)

	dev := o.device
	owns := false
	if dev == nil {
		cfg := o.deviceConfig
		if cfg.Logger == nil {
			cfg.Logger = o.logger.Logger
		}

		var err error
		dev, err = device.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		owns = true
	}

	nb, err := normalizeBlockSize(o.blockSize, dev.LaneWidth(), dev.MaxBlockSize())
	if err != nil {
		if owns {
			_ = dev.Close()
		}
		return nil, err
	}

	return &Handle{
		dev:       dev,
		ownsDev:   owns,
		stream:    dev.NewStream(),
		blockSize: nb,
		wide:      o.wide,
		numerics:  o.numerics,
		logger:    o.logger,
		metrics:   o.metricsCollector,
	}, nil
}

func normalizeBlockSize(nb, lanes, maxNB int) (int, error) {
	minNB := lanes * ((maxUnroll + lanes - 1) / lanes)
	if maxNB < minNB {
		return 0, fmt.Errorf("%w: device max block size %d below %d", ErrInvalidArgument, maxNB, minNB)
	}

	nb -= nb % lanes
	return min(max(nb, minNB), maxNB-maxNB%lanes), nil
}

// Close drains the handle's stream and closes the device if the handle
// created it. It is idempotent.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	h.stream.Close()
	if h.ownsDev {
		return h.dev.Close()
	}
	return nil
}

// Device returns the device the handle runs on.
func (h *Handle) Device() *device.Device { return h.dev }

// Stream returns the handle's execution queue.
func (h *Handle) Stream() *device.Stream { return h.stream }

// BlockSize returns the number of workers per block.
func (h *Handle) BlockSize() int { return h.blockSize }

// Synchronize waits for all work issued on the handle and returns the first
// asynchronous failure.
func (h *Handle) Synchronize() error {
	return translateError(h.stream.Synchronize())
}

// SetWideAccumulation selects float64 (complex128) accumulators for single
// and half precision inputs of subsequent calls.
func (h *Handle) SetWideAccumulation(wide bool) {
	h.mu.Lock()
	h.wide = wide
	h.mu.Unlock()
}

// StartSizeQuery switches the handle to size query mode. Reductions return
// ErrSizeQuery without doing any work and record the workspace they need.
func (h *Handle) StartSizeQuery() {
	h.mu.Lock()
	h.sizeQuery = true
	h.sizeBytes = 0
	h.mu.Unlock()
}

// StopSizeQuery leaves size query mode and returns the largest workspace,
// in bytes, recorded since StartSizeQuery.
func (h *Handle) StopSizeQuery() (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.sizeQuery {
		return 0, fmt.Errorf("%w: handle is not querying sizes", ErrInvalidArgument)
	}
	h.sizeQuery = false
	return h.sizeBytes, nil
}

// IsSizeQuery reports whether the handle is in size query mode.
func (h *Handle) IsSizeQuery() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sizeQuery
}

func (h *Handle) isWide() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.wide
}
