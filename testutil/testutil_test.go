package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/vecdot/internal/half"
)

func TestFill(t *testing.T) {
	rng := NewRNG(4711)

	x := make([]complex64, 64)
	Fill(rng, x)
	for _, v := range x {
		assert.GreaterOrEqual(t, real(v), float32(0))
		assert.Less(t, imag(v), float32(1))
	}

	h := make([]half.Float16, 16)
	Fill(rng, h)
	for _, v := range h {
		assert.LessOrEqual(t, math.Abs(v.Float64()), 1.0)
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := Vectors[float32](rng, 1, 10)

	rng.Reset()
	v2 := Vectors[float32](rng, 1, 10)

	assert.Equal(t, v1, v2)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestVectors(t *testing.T) {
	v := Vectors[float64](NewRNG(1), 3, 8)
	assert.Len(t, v, 3)
	for _, e := range v {
		assert.Len(t, e, 8)
		assert.Equal(t, 8, cap(e))
	}
}

func TestIndex(t *testing.T) {
	assert.Equal(t, []int{0, 2, 4}, []int{Index(3, 2, 0, 0), Index(3, 2, 0, 1), Index(3, 2, 0, 2)})
	assert.Equal(t, []int{4, 2, 0}, []int{Index(3, -2, 0, 0), Index(3, -2, 0, 1), Index(3, -2, 0, 2)})
	assert.Equal(t, 7, Index(3, -1, 5, 0))
}

func TestRefDot(t *testing.T) {
	x := []complex128{complex(1, 2), complex(3, -1)}
	y := []complex128{complex(2, 0), complex(0, 1)}

	assert.Equal(t, complex(2, 4)+complex(1, 3), RefDot(2, x, 1, y, 1, false))
	assert.Equal(t, complex(2, -4)+complex(-1, 3), RefDot(2, x, 1, y, 1, true))

	r := []float64{1, 2, 3}
	assert.Equal(t, complex(14, 0), RefDot(3, r, 1, r, 1, false))
	assert.Equal(t, complex(10, 0), RefDot(3, r, 1, r, -1, false))
}

func TestRefNrm2(t *testing.T) {
	assert.InDelta(t, 5.0, RefNrm2(2, []float32{3, 4}, 1), 1e-12)
	assert.InDelta(t, 5.0, RefNrm2(2, []complex64{complex(3, 0), complex(0, 4)}, 1), 1e-12)
	assert.Zero(t, RefNrm2(2, []float32{3, 4}, -1))
	assert.Zero(t, RefNrm2(0, []float32{3, 4}, 1))
}

func TestTolerance(t *testing.T) {
	assert.InDelta(t, 2e-3*10, Tolerance[float32](-10), 1e-15)
	assert.InDelta(t, 2e-7, Tolerance[float64](1), 1e-20)
	assert.InDelta(t, 0.2, Tolerance[half.Float16](1), 1e-15)
}
