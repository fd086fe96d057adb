package conv

import (
	"fmt"
	"math"
)

// MulInt returns a*b for non-negative operands, failing on overflow.
func MulInt(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("integer overflow: %d * %d (negative operand)", a, b)
	}
	if a != 0 && b > math.MaxInt/a {
		return 0, fmt.Errorf("integer overflow: %d * %d exceeds int", a, b)
	}
	return a * b, nil
}

// ElemBytes returns the byte size of n elements of the given width.
func ElemBytes(n int, size uintptr) (int64, error) {
	if n < 0 {
		return 0, fmt.Errorf("integer overflow: negative element count %d", n)
	}
	if size > math.MaxInt64 {
		return 0, fmt.Errorf("integer overflow: element size %d too large", size)
	}
	s := int64(size)
	if s != 0 && int64(n) > math.MaxInt64/s {
		return 0, fmt.Errorf("integer overflow: %d elements of %d bytes exceed int64", n, size)
	}
	return int64(n) * s, nil
}
