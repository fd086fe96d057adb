package half

import "math"

// Float16 is the raw IEEE-754 binary16 bit-pattern.
//
// Layout:
//
//	sign: 1 bit
//	exp:  5 bits (bias 15)
//	frac: 10 bits
type Float16 uint16

const (
	f16SignMask Float16 = 0x8000
	f16ExpMask  Float16 = 0x7C00
	f16FracMask Float16 = 0x03FF

	f32ExpMask  uint32 = 0x7F800000
	f32FracMask uint32 = 0x007FFFFF
)

// Float32 widens h to float32. The conversion is exact.
func (h Float16) Float32() float32 {
	sign := uint32(h&f16SignMask) << 16
	exp := uint32(h&f16ExpMask) >> 10
	frac := uint32(h & f16FracMask)

	switch exp {
	case 0:
		if frac == 0 {
			return math.Float32frombits(sign)
		}
		// Subnormal: exponent -14 and no implicit leading 1; renormalize.
		e := int32(-14)
		m := frac
		for (m & 0x0400) == 0 {
			m <<= 1
			e--
		}
		m &= 0x03FF
		return math.Float32frombits(sign | uint32(int32(127)+e)<<23 | m<<13)
	case 0x1F:
		if frac == 0 {
			return math.Float32frombits(sign | f32ExpMask)
		}
		return math.Float32frombits(sign | f32ExpMask | (frac << 13))
	default:
		return math.Float32frombits(sign | uint32(int32(exp)-15+127)<<23 | frac<<13)
	}
}

// Float64 widens h to float64.
func (h Float16) Float64() float64 {
	return float64(h.Float32())
}

// IsNaN reports whether h is a NaN.
func (h Float16) IsNaN() bool {
	return h&f16ExpMask == f16ExpMask && h&f16FracMask != 0
}

// IsInf reports whether h is positive or negative infinity.
func (h Float16) IsInf() bool {
	return h&f16ExpMask == f16ExpMask && h&f16FracMask == 0
}

// IsDenormal reports whether h is a non-zero subnormal.
func (h Float16) IsDenormal() bool {
	return h&f16ExpMask == 0 && h&f16FracMask != 0
}

// NewFloat16 narrows f to binary16, rounding to nearest with ties to even.
// Values beyond the binary16 range become infinities.
func NewFloat16(f float32) Float16 {
	bits := math.Float32bits(f)
	sign := Float16((bits >> 16) & uint32(f16SignMask))
	exp := int32((bits & f32ExpMask) >> 23)
	frac := bits & f32FracMask

	if exp == 0xFF {
		if frac == 0 {
			return sign | f16ExpMask
		}
		// Keep part of the payload and force a quiet, non-zero NaN.
		payload := Float16(frac>>13) | 0x0200
		return sign | f16ExpMask | (payload & f16FracMask)
	}

	// float32 subnormals are far below the binary16 range.
	if exp == 0 {
		return sign
	}

	e16 := exp - 127 + 15
	if e16 >= 0x1F {
		return sign | f16ExpMask
	}

	if e16 <= 0 {
		if e16 < -10 {
			return sign
		}
		mant := frac | 0x00800000
		shift := uint32(1-e16) + 13
		m := mant >> shift
		rem := mant & ((uint32(1) << shift) - 1)
		halfway := uint32(1) << (shift - 1)
		if rem > halfway || (rem == halfway && m&1 == 1) {
			m++
		}
		return sign | Float16(m)
	}

	m := frac >> 13
	rem := frac & 0x1FFF
	if rem > 0x1000 || (rem == 0x1000 && m&1 == 1) {
		m++
		if m == 0x0400 {
			m = 0
			e16++
			if e16 >= 0x1F {
				return sign | f16ExpMask
			}
		}
	}

	return sign | Float16(uint32(e16)<<10) | Float16(m)
}

// NewFloat16FromFloat64 narrows f to binary16 via float32.
func NewFloat16FromFloat64(f float64) Float16 {
	return NewFloat16(float32(f))
}

// Float16s converts src to binary16. dst must have length >= len(src).
func Float16s(dst []Float16, src []float32) {
	for i := range src {
		dst[i] = NewFloat16(src[i])
	}
}
