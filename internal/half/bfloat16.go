package half

import "math"

// BFloat16 is a brain-float: float32 with the low 16 mantissa bits dropped.
//
// Layout:
//
//	sign: 1 bit
//	exp:  8 bits (bias 127)
//	frac: 7 bits
type BFloat16 uint16

// Float32 widens b to float32. The conversion is exact.
func (b BFloat16) Float32() float32 {
	return math.Float32frombits(uint32(b) << 16)
}

// Float64 widens b to float64.
func (b BFloat16) Float64() float64 {
	return float64(b.Float32())
}

// IsNaN reports whether b is a NaN.
func (b BFloat16) IsNaN() bool {
	return (b>>7)&0xFF == 0xFF && b&0x7F != 0
}

// IsInf reports whether b is positive or negative infinity.
func (b BFloat16) IsInf() bool {
	return (b>>7)&0xFF == 0xFF && b&0x7F == 0
}

// IsDenormal reports whether b is a non-zero subnormal.
func (b BFloat16) IsDenormal() bool {
	return (b>>7)&0xFF == 0 && b&0x7F != 0
}

// NewBFloat16 narrows f to bfloat16 with round-to-nearest-even.
func NewBFloat16(f float32) BFloat16 {
	bits := math.Float32bits(f)
	if bits&0x7FFFFFFF > 0x7F800000 {
		// Quiet NaN, sign preserved.
		return BFloat16((bits >> 16) | 0x0040)
	}
	bits += 0x7FFF + ((bits >> 16) & 1)
	return BFloat16(bits >> 16)
}

// NewBFloat16FromFloat64 narrows f to bfloat16 via float32.
func NewBFloat16FromFloat64(f float64) BFloat16 {
	return NewBFloat16(float32(f))
}

// BFloat16s converts src to bfloat16. dst must have length >= len(src).
func BFloat16s(dst []BFloat16, src []float32) {
	for i := range src {
		dst[i] = NewBFloat16(src[i])
	}
}
