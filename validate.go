package vecdot

import (
	"fmt"

	"github.com/hupe1980/vecdot/internal/conv"
	"github.com/hupe1980/vecdot/internal/dot"
)

// span returns the number of elements one entry of n elements with
// increment inc occupies.
func span(n, inc int) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	step, err := conv.MulInt(n-1, max(inc, -inc))
	if err != nil {
		return 0, err
	}
	return step + 1, nil
}

// stridedVector validates a strided batch of n-element vectors.
func stridedVector[T any](data []T, n, inc, stride, batch int) (*dot.Vector[T], error) {
	if stride < 0 {
		return nil, fmt.Errorf("%w: negative stride %d", ErrInvalidSize, stride)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: nil vector", ErrInvalidPointer)
	}

	need, err := span(n, inc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}
	last, err := conv.MulInt(batch-1, stride)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}
	if len(data)-need < last {
		return nil, fmt.Errorf("%w: vector of %d elements, need %d", ErrInvalidPointer, len(data), last+need)
	}

	return &dot.Vector[T]{Data: data, Inc: inc, Stride: stride}, nil
}

// batchedVector validates an array of per-entry vectors.
func batchedVector[T any](data [][]T, n, inc, batch int) (*dot.Vector[T], error) {
	if data == nil || len(data) < batch {
		return nil, fmt.Errorf("%w: %d vectors for batch of %d", ErrInvalidPointer, len(data), batch)
	}

	need, err := span(n, inc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}
	for b, v := range data[:batch] {
		if v == nil || len(v) < need {
			return nil, fmt.Errorf("%w: entry %d has %d elements, need %d", ErrInvalidPointer, b, len(v), need)
		}
	}

	return &dot.Vector[T]{Batch: data, Inc: inc}, nil
}

// quick reports whether a call has no elements to reduce and validates
// the arguments shared by all operations.
func quick[O any](h *Handle, n, batch int, out Output[O]) (bool, error) {
	if h == nil {
		return false, ErrInvalidHandle
	}
	if n > 0 && batch < 0 {
		return false, fmt.Errorf("%w: batch count %d", ErrInvalidSize, batch)
	}
	if batch > 0 && !h.IsSizeQuery() && !out.check(h.dev, batch) {
		return false, fmt.Errorf("%w: output cannot hold %d results", ErrInvalidPointer, batch)
	}
	return n <= 0 || batch <= 0, nil
}
