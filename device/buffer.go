package device

import (
	"errors"
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/hupe1980/vecdot/internal/conv"
	"github.com/hupe1980/vecdot/internal/mem"
	"github.com/hupe1980/vecdot/internal/resource"
)

// Buffer is a device allocation of n elements of T.
type Buffer[T any] struct {
	dev   *Device
	data  []T
	bytes int64
	freed atomic.Bool
}

// Alloc allocates a zeroed buffer of n elements on the device. The data
// starts on a mem.Alignment boundary.
func Alloc[T any](d *Device, n int) (*Buffer[T], error) {
	if n < 0 {
		return nil, fmt.Errorf("device: negative buffer length %d", n)
	}

	var zero T
	bytes, err := conv.ElemBytes(n, unsafe.Sizeof(zero))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutOfMemory, err)
	}

	if err := d.rc.AcquireMemory(bytes); err != nil {
		if errors.Is(err, resource.ErrMemoryLimitExceeded) {
			return nil, fmt.Errorf("%w: %d bytes requested, %d of %d in use",
				ErrOutOfMemory, bytes, d.rc.MemoryUsage(), d.rc.MemoryLimit())
		}
		return nil, err
	}

	return &Buffer[T]{
		dev:   d,
		data:  mem.Alloc[T](n),
		bytes: bytes,
	}, nil
}

// Device returns the device the buffer was allocated on.
func (b *Buffer[T]) Device() *Device { return b.dev }

// Len returns the number of elements.
func (b *Buffer[T]) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Data returns the device view of the buffer.
// Kernel writes are only visible after the writing stream is synchronised.
// A freed buffer returns nil.
func (b *Buffer[T]) Data() []T {
	if b == nil || b.freed.Load() {
		return nil
	}
	return b.data
}

// Free releases the buffer. It is safe to call more than once.
func (b *Buffer[T]) Free() {
	if b == nil || !b.freed.CompareAndSwap(false, true) {
		return
	}
	b.dev.rc.ReleaseMemory(b.bytes)
}

// FreeAsync releases the buffer once all work enqueued on s before it has
// executed.
func FreeAsync[T any](s *Stream, b *Buffer[T]) error {
	return s.enqueue(op{
		name:   "free",
		always: true,
		run: func() error {
			b.Free()
			return nil
		},
	})
}
