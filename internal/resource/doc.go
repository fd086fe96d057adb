// Package resource governs the shared resources of one simulated device.
//
//   - Memory: device allocations are charged against a hard budget
//     (non-blocking, fail-fast).
//   - Compute units: every executing block holds one unit; the number of units
//     bounds how many blocks run at once across all streams of the device.
//   - Copy bandwidth: device-to-host copies are paced by a token bucket.
//
// Example:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30,
//	    ComputeUnits:     8,
//	})
//
//	if err := rc.AcquireMemory(4096); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(4096)
//
// All methods are safe for concurrent use, and a nil *Controller is valid:
// every method becomes a no-op.
package resource
