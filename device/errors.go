package device

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned by New for unusable device configurations.
	ErrInvalidConfig = errors.New("device: invalid config")

	// ErrInvalidLaunch is returned when a launch configuration is rejected.
	ErrInvalidLaunch = errors.New("device: invalid launch configuration")

	// ErrStreamClosed is returned when enqueueing on a closed stream.
	ErrStreamClosed = errors.New("device: stream closed")

	// ErrOutOfMemory is returned when an allocation exceeds the memory budget.
	ErrOutOfMemory = errors.New("device: out of memory")

	// errBarrierBroken unwinds groups waiting on a barrier whose block failed.
	errBarrierBroken = errors.New("device: barrier broken")
)

// KernelError reports a failed launch.
//
// Err holds the original failure, typically a recovered panic.
type KernelError struct {
	Name      string
	Block     Dim
	Completed uint // blocks that finished before the launch was abandoned
	Total     uint
	Err       error
}

func (e *KernelError) Error() string {
	return fmt.Sprintf("device: kernel %q failed in block (%d,%d) after %d/%d blocks: %v",
		e.Name, e.Block.X, e.Block.Y, e.Completed, e.Total, e.Err)
}

func (e *KernelError) Unwrap() error { return e.Err }
