package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/vecdot/internal/half"
	"github.com/hupe1980/vecdot/internal/scalar"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float64, minVal, maxVal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float64()*span
	}
}

// FillIntegers fills dst with random integers in [1, maxVal].
// Integer data keeps reductions exact in every precision for small n.
func (r *RNG) FillIntegers(dst []float64, maxVal int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = float64(1 + r.rand.Intn(maxVal))
	}
}

// Fill fills dst with values whose components are uniform in [0, 1).
// Non-negative data keeps reference sums away from cancellation.
// Locks only once per call.
func Fill[T scalar.Element](r *RNG, dst []T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range dst {
		re := r.rand.Float64()
		im := r.rand.Float64()
		dst[i] = FromComplex[T](complex(re, im))
	}
}

// Vectors generates num vectors of n elements backed by one array.
func Vectors[T scalar.Element](r *RNG, num, n int) [][]T {
	data := make([]T, num*n)
	Fill(r, data)

	vectors := make([][]T, num)
	for i := range num {
		vectors[i] = data[i*n : (i+1)*n : (i+1)*n]
	}
	return vectors
}

// FromComplex converts v to T, dropping the imaginary part for real types.
func FromComplex[T scalar.Element](v complex128) T {
	var out T
	switch p := any(&out).(type) {
	case *float32:
		*p = float32(real(v))
	case *float64:
		*p = real(v)
	case *complex64:
		*p = complex64(v)
	case *complex128:
		*p = v
	case *half.Float16:
		*p = half.NewFloat16FromFloat64(real(v))
	case *half.BFloat16:
		*p = half.NewBFloat16FromFloat64(real(v))
	}
	return out
}

// ToComplex widens v to complex128.
func ToComplex[T scalar.Element](v T) complex128 {
	switch x := any(v).(type) {
	case float32:
		return complex(float64(x), 0)
	case float64:
		return complex(x, 0)
	case complex64:
		return complex128(x)
	case complex128:
		return x
	case half.Float16:
		return complex(x.Float64(), 0)
	case half.BFloat16:
		return complex(x.Float64(), 0)
	}
	return 0
}

// Digits10 returns the number of decimal digits T represents exactly.
func Digits10[T scalar.Element]() int {
	var zero T
	switch any(zero).(type) {
	case float32, complex64:
		return 6
	case float64, complex128:
		return 15
	case half.Float16:
		return 3
	default:
		return 2
	}
}

// Tolerance returns the accepted absolute error for a reduction over T
// whose reference result is ref: 2 * 10^(-digits10/2) * |ref|.
func Tolerance[T scalar.Element](ref float64) float64 {
	return 2 * math.Pow(10, -float64(Digits10[T]()/2)) * math.Abs(ref)
}

// Index returns the storage index of logical element i of a vector of n
// elements with increment inc, starting at offset.
// Negative increments walk the storage from its end.
func Index(n, inc, offset, i int) int {
	if inc < 0 {
		return offset + (n-1-i)*(-inc)
	}
	return offset + i*inc
}

// RefDot computes sum(y[i] * x[i]) sequentially in complex128, conjugating
// x when conj is set.
func RefDot[T scalar.Element](n int, x []T, incx int, y []T, incy int, conj bool) complex128 {
	var sum complex128
	for i := range max(n, 0) {
		a := ToComplex(x[Index(n, incx, 0, i)])
		if conj {
			a = complex(real(a), -imag(a))
		}
		sum += ToComplex(y[Index(n, incy, 0, i)]) * a
	}
	return sum
}

// RefNrm2 computes the Euclidean norm of x sequentially in float64.
// It returns 0 for n <= 0 or incx <= 0.
func RefNrm2[T scalar.Element](n int, x []T, incx int) float64 {
	if n <= 0 || incx <= 0 {
		return 0
	}

	var sum float64
	for i := range n {
		v := ToComplex(x[i*incx])
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return math.Sqrt(sum)
}
