package vecdot

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/vecdot/device"
	"github.com/hupe1980/vecdot/internal/dot"
)

var (
	// ErrInvalidHandle is returned when a nil or closed handle is used.
	ErrInvalidHandle = errors.New("invalid handle")

	// ErrInvalidPointer is returned for missing or too short inputs and outputs.
	ErrInvalidPointer = errors.New("invalid pointer")

	// ErrInvalidSize is returned for negative batch counts and strides.
	ErrInvalidSize = errors.New("invalid size")

	// ErrInvalidArgument is returned for unsupported type combinations and options.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrSizeQuery reports that the handle is querying workspace sizes and
	// no work was performed.
	ErrSizeQuery = errors.New("size query: no work performed")

	// ErrInvalidValue is returned when numerics checking finds NaN or Inf inputs.
	ErrInvalidValue = errors.New("invalid numeric value")

	// ErrOutOfMemory is returned when device memory for the workspace is exhausted.
	ErrOutOfMemory = errors.New("device out of memory")

	// ErrLaunchFailed is returned when a kernel, fill or copy fails.
	ErrLaunchFailed = errors.New("launch failed")
)

// NumericsError reports inputs holding NaN or infinite elements.
//
// It wraps ErrInvalidValue.
type NumericsError struct {
	Op string
	// Entries holds the offending batch entries.
	Entries *roaring.Bitmap
	// Elements counts the offending elements across all inputs.
	Elements int
}

func (e *NumericsError) Error() string {
	return fmt.Sprintf("%s: %d NaN or Inf elements in %d batch entries", e.Op, e.Elements, e.Entries.GetCardinality())
}

func (e *NumericsError) Unwrap() error { return ErrInvalidValue }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, dot.ErrSizeQuery):
		return ErrSizeQuery
	case errors.Is(err, device.ErrOutOfMemory):
		return fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	case errors.Is(err, device.ErrStreamClosed):
		return fmt.Errorf("%w: %w", ErrInvalidHandle, err)
	case errors.Is(err, dot.ErrInvalidBlockSize):
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	var kerr *device.KernelError
	if errors.As(err, &kerr) || errors.Is(err, device.ErrInvalidLaunch) {
		return fmt.Errorf("%w: %w", ErrLaunchFailed, err)
	}

	return err
}
