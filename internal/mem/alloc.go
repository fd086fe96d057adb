package mem

import (
	"unsafe"
)

// Alignment is the byte alignment of device buffers.
const Alignment = 64

// Alloc returns a zeroed slice of n elements of T whose first element
// starts at an address divisible by Alignment.
//
// Alignment is best effort for element sizes that do not divide the
// initial misalignment; such slices are returned unaligned. The capacity of
// the returned slice equals its length.
func Alloc[T any](n int) []T {
	if n <= 0 {
		return make([]T, 0)
	}

	var zero T
	size := unsafe.Sizeof(zero)
	if size == 0 || size > Alignment {
		return make([]T, n)
	}

	// Over-allocate so the start can be shifted by up to Alignment-1 bytes.
	pad := int((Alignment + size - 1) / size)
	buf := make([]T, n+pad)

	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf))) //nolint:gosec // unsafe is required for memory alignment
	off := (Alignment - addr%Alignment) % Alignment
	if off%size != 0 {
		return buf[:n:n]
	}

	i := int(off / size)
	return buf[i : i+n : i+n]
}

// IsAligned reports whether s starts on an Alignment boundary.
func IsAligned[T any](s []T) bool {
	if len(s) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(s)))%Alignment == 0 //nolint:gosec // unsafe is required for memory alignment
}
