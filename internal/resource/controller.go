package resource

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned when an allocation would exceed the budget.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for device allocations.
	// If 0, usage is tracked but not limited.
	MemoryLimitBytes int64

	// ComputeUnits is the number of blocks that may execute concurrently.
	// If 0, defaults to GOMAXPROCS.
	ComputeUnits int64

	// CopyBytesPerSec caps device-to-host copy throughput.
	// If 0, copies are not paced.
	CopyBytesPerSec int64
}

// Controller tracks memory, compute units and copy bandwidth of one device.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	units *semaphore.Weighted

	copyLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.ComputeUnits <= 0 {
		cfg.ComputeUnits = int64(runtime.GOMAXPROCS(0))
	}

	c := &Controller{
		cfg:   cfg,
		units: semaphore.NewWeighted(cfg.ComputeUnits),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.CopyBytesPerSec > 0 {
		c.copyLimiter = rate.NewLimiter(rate.Limit(cfg.CopyBytesPerSec), int(cfg.CopyBytesPerSec))
	}

	return c
}

// AcquireMemory reserves bytes of device memory.
// Non-blocking: returns ErrMemoryLimitExceeded if the budget is exhausted.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return ErrMemoryLimitExceeded
	}

	c.memUsed.Add(bytes)
	return nil
}

// ReleaseMemory returns bytes previously reserved with AcquireMemory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// MemoryLimit returns the configured memory limit in bytes (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// ComputeUnits returns the number of concurrently executing blocks allowed.
func (c *Controller) ComputeUnits() int {
	if c == nil {
		return runtime.GOMAXPROCS(0)
	}
	return int(c.cfg.ComputeUnits)
}

// AcquireUnit blocks until a compute unit is free.
func (c *Controller) AcquireUnit(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.units.Acquire(ctx, 1)
}

// ReleaseUnit frees a compute unit.
func (c *Controller) ReleaseUnit() {
	if c == nil {
		return
	}
	c.units.Release(1)
}

// AcquireCopy waits until the copy budget allows bytes to be transferred.
// Transfers larger than one second of bandwidth are paced in bursts.
func (c *Controller) AcquireCopy(ctx context.Context, bytes int64) error {
	if c == nil || c.copyLimiter == nil {
		return nil
	}

	burst := int64(c.copyLimiter.Burst())
	for bytes > 0 {
		n := min(bytes, burst)
		if err := c.copyLimiter.WaitN(ctx, int(n)); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}
