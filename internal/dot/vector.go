package dot

import "unsafe"

// Vector describes one operand of a batched reduction.
//
// Entries are either laid out in one slice at a fixed Stride (Data) or
// supplied as one slice per entry (Batch). Element i of entry b is read at
// Offset + i*Inc relative to the entry base, after normalisation of negative
// increments.
type Vector[T any] struct {
	Data   []T
	Batch  [][]T
	Offset int
	Inc    int
	Stride int
}

// Base returns the storage of batch entry b and the index of its first element.
func (v *Vector[T]) Base(b int) ([]T, int) {
	if v.Batch != nil {
		return v.Batch[b], 0
	}
	return v.Data, b * v.Stride
}

// Shift returns the normalised offset of the vector for n elements: with a
// negative increment the walk starts at the logical end of the vector.
func (v *Vector[T]) Shift(n int) int {
	if v.Inc < 0 {
		return v.Offset - v.Inc*(n-1)
	}
	return v.Offset
}

// Same reports whether two descriptors address the same elements.
func (v *Vector[T]) Same(o *Vector[T]) bool {
	if v == o {
		return true
	}
	if v == nil || o == nil {
		return false
	}
	if v.Inc != o.Inc || v.Offset != o.Offset || v.Stride != o.Stride {
		return false
	}

	switch {
	case v.Batch != nil && o.Batch != nil:
		return unsafe.SliceData(v.Batch) == unsafe.SliceData(o.Batch)
	case v.Batch == nil && o.Batch == nil:
		return unsafe.SliceData(v.Data) == unsafe.SliceData(o.Data)
	default:
		return false
	}
}
