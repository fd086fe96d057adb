// Package scalar describes the element and accumulation types of the
// reduction kernels.
package scalar

import (
	"math"
	"math/cmplx"

	"github.com/hupe1980/vecdot/internal/half"
)

// Accum is the set of types partial sums are accumulated in.
type Accum interface {
	~float32 | ~float64 | ~complex64 | ~complex128
}

// Element is the set of supported vector element types.
type Element interface {
	float32 | float64 | complex64 | complex128 | half.Float16 | half.BFloat16
}

// Real is the set of supported norm result types.
type Real interface {
	float32 | float64 | half.Float16 | half.BFloat16
}

// Info binds an element type T to the accumulation type V.
type Info[T any, V Accum] struct {
	Name    string
	Size    uintptr // bytes per element of T
	Complex bool

	Widen  func(T) V
	Narrow func(V) T
	Conj   func(V) V

	// Bad reports NaN or infinite elements.
	Bad func(T) bool
	// Denormal reports subnormal elements.
	Denormal func(T) bool
}

// WIN returns the per-worker unroll factor for an element width.
func WIN(size uintptr) int {
	switch {
	case size >= 8:
		return 2
	case size >= 4:
		return 4
	default:
		return 8
	}
}

// Descriptors of every supported element and accumulation pairing.
var (
	// Float32 reduces float32 in float32.
	Float32 = Info[float32, float32]{
		Name:     "float32",
		Size:     4,
		Widen:    ident[float32],
		Narrow:   ident[float32],
		Conj:     ident[float32],
		Bad:      func(v float32) bool { return badFloat(float64(v)) },
		Denormal: func(v float32) bool { return v != 0 && math.Abs(float64(v)) < 0x1p-126 },
	}

	// Float32Wide reduces float32 in float64.
	Float32Wide = Info[float32, float64]{
		Name:     "float32",
		Size:     4,
		Widen:    func(v float32) float64 { return float64(v) },
		Narrow:   func(v float64) float32 { return float32(v) },
		Conj:     ident[float64],
		Bad:      Float32.Bad,
		Denormal: Float32.Denormal,
	}

	// Float64 reduces float64 in float64.
	Float64 = Info[float64, float64]{
		Name:     "float64",
		Size:     8,
		Widen:    ident[float64],
		Narrow:   ident[float64],
		Conj:     ident[float64],
		Bad:      badFloat,
		Denormal: func(v float64) bool { return v != 0 && math.Abs(v) < 0x1p-1022 },
	}

	// Complex64 reduces complex64 in complex64.
	Complex64 = Info[complex64, complex64]{
		Name:    "complex64",
		Size:    8,
		Complex: true,
		Widen:   ident[complex64],
		Narrow:  ident[complex64],
		Conj:    func(v complex64) complex64 { return complex(real(v), -imag(v)) },
		Bad: func(v complex64) bool {
			return Float32.Bad(real(v)) || Float32.Bad(imag(v))
		},
		Denormal: func(v complex64) bool {
			return Float32.Denormal(real(v)) || Float32.Denormal(imag(v))
		},
	}

	// Complex64Wide reduces complex64 in complex128.
	Complex64Wide = Info[complex64, complex128]{
		Name:     "complex64",
		Size:     8,
		Complex:  true,
		Widen:    func(v complex64) complex128 { return complex128(v) },
		Narrow:   func(v complex128) complex64 { return complex64(v) },
		Conj:     cmplx.Conj,
		Bad:      Complex64.Bad,
		Denormal: Complex64.Denormal,
	}

	// Complex128 reduces complex128 in complex128.
	Complex128 = Info[complex128, complex128]{
		Name:    "complex128",
		Size:    16,
		Complex: true,
		Widen:   ident[complex128],
		Narrow:  ident[complex128],
		Conj:    cmplx.Conj,
		Bad: func(v complex128) bool {
			return badFloat(real(v)) || badFloat(imag(v))
		},
		Denormal: func(v complex128) bool {
			return Float64.Denormal(real(v)) || Float64.Denormal(imag(v))
		},
	}

	// Float16 reduces binary16 values in float32.
	Float16 = Info[half.Float16, float32]{
		Name:     "float16",
		Size:     2,
		Widen:    half.Float16.Float32,
		Narrow:   half.NewFloat16,
		Conj:     ident[float32],
		Bad:      func(v half.Float16) bool { return v.IsNaN() || v.IsInf() },
		Denormal: half.Float16.IsDenormal,
	}

	// Float16Wide reduces binary16 values in float64.
	Float16Wide = Info[half.Float16, float64]{
		Name:     "float16",
		Size:     2,
		Widen:    half.Float16.Float64,
		Narrow:   half.NewFloat16FromFloat64,
		Conj:     ident[float64],
		Bad:      Float16.Bad,
		Denormal: Float16.Denormal,
	}

	// BFloat16 reduces bfloat16 values in float32.
	BFloat16 = Info[half.BFloat16, float32]{
		Name:     "bfloat16",
		Size:     2,
		Widen:    half.BFloat16.Float32,
		Narrow:   half.NewBFloat16,
		Conj:     ident[float32],
		Bad:      func(v half.BFloat16) bool { return v.IsNaN() || v.IsInf() },
		Denormal: half.BFloat16.IsDenormal,
	}

	// BFloat16Wide reduces bfloat16 values in float64.
	BFloat16Wide = Info[half.BFloat16, float64]{
		Name:     "bfloat16",
		Size:     2,
		Widen:    half.BFloat16.Float64,
		Narrow:   half.NewBFloat16FromFloat64,
		Conj:     ident[float64],
		Bad:      BFloat16.Bad,
		Denormal: BFloat16.Denormal,
	}
)

func ident[V any](v V) V { return v }

func badFloat(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }

// RealPart returns the real component of an accumulated value.
func RealPart[V Accum](v V) float64 {
	switch x := any(v).(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	case complex64:
		return float64(real(x))
	case complex128:
		return real(x)
	default:
		panic("scalar: unsupported accumulation type")
	}
}

// Sqrt returns a norm finalizer: the square root of the real part of an
// accumulated sum of squares, converted to R.
func Sqrt[V Accum, R any](to func(float64) R) func(V) R {
	return func(v V) R {
		return to(math.Sqrt(RealPart(v)))
	}
}
