package vecdot

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecdot/device"
	"github.com/hupe1980/vecdot/testutil"
)

// checkDot runs DotStridedBatched (or its conjugating variant) under both
// result placements and compares every entry with the CPU reference.
func checkDot[T Element](t *testing.T, h *Handle, n, incx, incy, batch int, conj bool) {
	t.Helper()
	ctx := context.Background()

	rng := testutil.NewRNG(int64(1 + n + 3*incx + 5*incy + 7*batch))
	stridex := (n-1)*max(incx, -incx) + 2
	stridey := (n-1)*max(incy, -incy) + 1
	x := make([]T, stridex*batch)
	y := make([]T, stridey*batch)
	testutil.Fill(rng, x)
	testutil.Fill(rng, y)

	run := DotStridedBatched[T]
	if conj {
		run = DotcStridedBatched[T]
	}

	host := make([]T, batch)
	require.NoError(t, run(ctx, h, n, x, incx, stridex, y, incy, stridey, batch, Host(host)))

	buf, err := device.Alloc[T](h.Device(), batch)
	require.NoError(t, err)
	defer buf.Free()
	require.NoError(t, run(ctx, h, n, x, incx, stridex, y, incy, stridey, batch, OnDevice(buf)))
	require.NoError(t, h.Synchronize())

	assert.Equal(t, host, buf.Data(), "placements must agree exactly")

	for b := range batch {
		want := testutil.RefDot(n, x[b*stridex:], incx, y[b*stridey:], incy, conj)
		got := testutil.ToComplex(host[b])
		tol := testutil.Tolerance[T](cmplx.Abs(want))
		assert.InDelta(t, real(want), real(got), tol, "entry %d", b)
		assert.InDelta(t, imag(want), imag(got), tol, "entry %d", b)
	}
}

func TestDotStridedBatched(t *testing.T) {
	for _, nb := range []int{8, 512} {
		h := newTestHandle(t, WithDeviceConfig(device.Config{LaneWidth: 8}), WithBlockSize(nb))

		for _, n := range []int{1, 3, 100, 1025, 10000} {
			for _, inc := range [][2]int{{1, 1}, {-1, 1}, {2, -3}} {
				t.Run(fmt.Sprintf("nb=%d/n=%d/incx=%d/incy=%d", nb, n, inc[0], inc[1]), func(t *testing.T) {
					checkDot[float32](t, h, n, inc[0], inc[1], 3, false)
					checkDot[float64](t, h, n, inc[0], inc[1], 2, false)
					checkDot[complex64](t, h, n, inc[0], inc[1], 2, false)
					checkDot[complex64](t, h, n, inc[0], inc[1], 2, true)
					checkDot[complex128](t, h, n, inc[0], inc[1], 1, true)
					checkDot[Float16](t, h, n, inc[0], inc[1], 2, false)
					checkDot[BFloat16](t, h, n, inc[0], inc[1], 1, false)
				})
			}
		}
	}
}

func TestDotWideAccumulation(t *testing.T) {
	h := newTestHandle(t, WithDeviceConfig(device.Config{LaneWidth: 4}), WithWideAccumulation())
	checkDot[float32](t, h, 5000, 1, 1, 2, false)
	checkDot[complex64](t, h, 777, -2, 1, 1, true)

	h.SetWideAccumulation(false)
	checkDot[Float16](t, h, 300, 1, 1, 1, false)
}

func TestDot(t *testing.T) {
	ctx := context.Background()
	h := newTestHandle(t, WithDeviceConfig(device.Config{LaneWidth: 4}))

	x := []complex128{complex(1, 2), complex(3, 4)}
	y := []complex128{complex(5, 6), complex(7, 8)}
	out := make([]complex128, 1)

	require.NoError(t, Dot(ctx, h, 2, x, 1, y, 1, Host(out)))
	assert.Equal(t, complex(1, 2)*complex(5, 6)+complex(3, 4)*complex(7, 8), out[0])

	require.NoError(t, Dotc(ctx, h, 2, x, 1, y, 1, Host(out)))
	assert.Equal(t, complex(1, -2)*complex(5, 6)+complex(3, -4)*complex(7, 8), out[0])

	r := []float32{1, 2, 3}
	rout := make([]float32, 1)
	require.NoError(t, Dotc(ctx, h, 3, r, 1, r, -1, Host(rout)))
	assert.Equal(t, float32(10), rout[0])
}

func TestDotBatched(t *testing.T) {
	ctx := context.Background()
	h := newTestHandle(t, WithDeviceConfig(device.Config{LaneWidth: 4}), WithBlockSize(8))

	const n, batch = 333, 4
	rng := testutil.NewRNG(42)
	xs := testutil.Vectors[complex64](rng, batch, n)
	ys := testutil.Vectors[complex64](rng, batch, n)

	out := make([]complex64, batch)
	require.NoError(t, DotcBatched(ctx, h, n, xs, 1, ys, 1, batch, Host(out)))

	for b := range batch {
		want := testutil.RefDot(n, xs[b], 1, ys[b], 1, true)
		tol := testutil.Tolerance[complex64](cmplx.Abs(want))
		assert.InDelta(t, real(want), real(out[b]), tol)
		assert.InDelta(t, imag(want), imag(out[b]), tol)
	}

	plain := make([]complex64, batch)
	require.NoError(t, DotBatched(ctx, h, n, xs, 1, ys, 1, batch, Host(plain)))
	want := testutil.RefDot(n, xs[0], 1, ys[0], 1, false)
	assert.InDelta(t, imag(want), imag(plain[0]), testutil.Tolerance[complex64](cmplx.Abs(want)))
}

func TestDotSelfProduct(t *testing.T) {
	ctx := context.Background()
	h := newTestHandle(t, WithDeviceConfig(device.Config{LaneWidth: 4}), WithBlockSize(8))

	const n = 1000
	x := make([]float64, n)
	testutil.Fill(testutil.NewRNG(5), x)
	xCopy := append([]float64(nil), x...)

	self := make([]float64, 1)
	dual := make([]float64, 1)
	require.NoError(t, Dot(ctx, h, n, x, 1, x, 1, Host(self)))
	require.NoError(t, Dot(ctx, h, n, x, 1, xCopy, 1, Host(dual)))

	assert.InDelta(t, dual[0], self[0], testutil.Tolerance[float64](dual[0]))
}

func TestDotQuickReturn(t *testing.T) {
	ctx := context.Background()
	h := newTestHandle(t, WithDeviceConfig(device.Config{LaneWidth: 4}))

	out := []float32{7, 7}
	require.NoError(t, DotStridedBatched(ctx, h, 0, nil, 1, 0, nil, 1, 0, 2, Host(out)))
	assert.Equal(t, []float32{0, 0}, out)

	buf, err := device.Alloc[float32](h.Device(), 2)
	require.NoError(t, err)
	defer buf.Free()
	buf.Data()[0] = 9
	require.NoError(t, DotStridedBatched(ctx, h, -5, nil, 1, 0, nil, 1, 0, 2, OnDevice(buf)))
	require.NoError(t, h.Synchronize())
	assert.Equal(t, []float32{0, 0}, buf.Data())

	out = []float32{7}
	require.NoError(t, DotStridedBatched(ctx, h, 10, nil, 1, 10, nil, 1, 10, 0, Host(out)))
	assert.Equal(t, []float32{7}, out, "an empty batch touches nothing")

	require.NoError(t, DotStridedBatched(ctx, h, 0, nil, 1, 0, nil, 1, 0, -1, Host[float32](nil)))
}

func TestDotInvalidArguments(t *testing.T) {
	ctx := context.Background()
	h := newTestHandle(t, WithDeviceConfig(device.Config{LaneWidth: 4}))

	x := make([]float32, 10)
	out := make([]float32, 2)

	tests := []struct {
		name string
		err  error
		call func() error
	}{
		{name: "negative batch", err: ErrInvalidSize, call: func() error {
			return DotStridedBatched(ctx, h, 5, x, 1, 5, x, 1, 5, -1, Host(out))
		}},
		{name: "negative stride", err: ErrInvalidSize, call: func() error {
			return DotStridedBatched(ctx, h, 5, x, 1, -5, x, 1, 5, 2, Host(out))
		}},
		{name: "nil x", err: ErrInvalidPointer, call: func() error {
			return Dot(ctx, h, 5, nil, 1, x, 1, Host(out))
		}},
		{name: "short y", err: ErrInvalidPointer, call: func() error {
			return Dot(ctx, h, 6, x, 1, x, 2, Host(out))
		}},
		{name: "short batch", err: ErrInvalidPointer, call: func() error {
			return DotStridedBatched(ctx, h, 5, x, 1, 6, x, 1, 5, 2, Host(out))
		}},
		{name: "short output", err: ErrInvalidPointer, call: func() error {
			return DotStridedBatched(ctx, h, 5, x, 1, 5, x, 1, 5, 2, Host(out[:1]))
		}},
		{name: "nil output", err: ErrInvalidPointer, call: func() error {
			return Dot(ctx, h, 0, x, 1, x, 1, Host[float32](nil))
		}},
		{name: "missing batch entry", err: ErrInvalidPointer, call: func() error {
			return DotBatched(ctx, h, 5, [][]float32{x, nil}, 1, [][]float32{x, x}, 1, 2, Host(out))
		}},
		{name: "short batch array", err: ErrInvalidPointer, call: func() error {
			return DotBatched(ctx, h, 5, [][]float32{x}, 1, [][]float32{x, x}, 1, 2, Host(out))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), tt.err)
		})
	}

	t.Run("foreign device buffer", func(t *testing.T) {
		other, err := device.New(device.Config{LaneWidth: 4})
		require.NoError(t, err)
		defer other.Close()

		buf, err := device.Alloc[float32](other, 1)
		require.NoError(t, err)
		assert.ErrorIs(t, Dot(ctx, h, 5, x, 1, x, 1, OnDevice(buf)), ErrInvalidPointer)
	})
}

func TestDotCanceledContext(t *testing.T) {
	h := newTestHandle(t, WithDeviceConfig(device.Config{LaneWidth: 4}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := []float32{3}
	err := Dot(ctx, h, 2, []float32{1, 2}, 1, []float32{1, 2}, 1, Host(out))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []float32{3}, out)
}

func TestDotMetrics(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}
	h := newTestHandle(t, WithDeviceConfig(device.Config{LaneWidth: 4}), WithMetricsCollector(metrics))

	x := []float64{1, 2, 3, 4}
	out := make([]float64, 2)
	require.NoError(t, DotStridedBatched(ctx, h, 2, x, 1, 2, x, 1, 2, 2, Host(out)))
	assert.Equal(t, []float64{5, 25}, out)

	err := DotStridedBatched(ctx, h, 3, x, 1, 2, x, 1, 2, 2, Host(out))
	require.ErrorIs(t, err, ErrInvalidPointer)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.ReductionCount, "validation failures are not reductions")
	assert.Equal(t, int64(4), stats.ElementsReduced)
	assert.Equal(t, int64(2), stats.BatchEntries)
	assert.Zero(t, stats.ReductionErrors)
}

func TestDotNumerics(t *testing.T) {
	ctx := context.Background()
	nan := math.NaN()

	x := []float64{1, 2, 3, nan, 1, 1}
	y := []float64{1, 1, 1, 1, 1, 1}
	out := make([]float64, 3)

	t.Run("fail", func(t *testing.T) {
		metrics := &BasicMetricsCollector{}
		h := newTestHandle(t, WithDeviceConfig(device.Config{LaneWidth: 4}),
			WithCheckNumerics(NumericsFail), WithMetricsCollector(metrics))

		err := DotStridedBatched(ctx, h, 2, x, 1, 2, y, 1, 2, 3, Host(out))
		require.ErrorIs(t, err, ErrInvalidValue)

		var nerr *NumericsError
		require.ErrorAs(t, err, &nerr)
		assert.Equal(t, []uint32{1}, nerr.Entries.ToArray())
		assert.Equal(t, 1, nerr.Elements)
		assert.Equal(t, int64(1), metrics.GetStats().NumericsFindings)
	})

	for _, mode := range []NumericsMode{NumericsOff, NumericsInfo, NumericsWarn} {
		t.Run(mode.String(), func(t *testing.T) {
			h := newTestHandle(t, WithDeviceConfig(device.Config{LaneWidth: 4}), WithCheckNumerics(mode))

			require.NoError(t, DotStridedBatched(ctx, h, 2, x, 1, 2, y, 1, 2, 3, Host(out)))
			assert.Equal(t, 3.0, out[0])
			assert.True(t, math.IsNaN(out[1]))
			assert.Equal(t, 2.0, out[2])
		})
	}
}

// TestNormSquaredScenario reduces a seeded vector of 100 elements with
// itself under both placements and both single and two-phase execution.
func TestNormSquaredScenario(t *testing.T) {
	ctx := context.Background()

	const n = 100
	x := make([]float32, n)
	testutil.Fill(testutil.NewRNG(1234), x)

	var want float64
	for _, v := range x {
		want += float64(v) * float64(v)
	}
	tol := testutil.Tolerance[float32](want)

	for _, nb := range []int{8, 512} {
		h := newTestHandle(t, WithDeviceConfig(device.Config{LaneWidth: 8}), WithBlockSize(nb))

		host := make([]float32, 1)
		require.NoError(t, Dot(ctx, h, n, x, 1, x, 1, Host(host)))
		assert.InDelta(t, want, host[0], tol, "nb=%d host", nb)

		buf, err := device.Alloc[float32](h.Device(), 1)
		require.NoError(t, err)
		require.NoError(t, Dot(ctx, h, n, x, 1, x, 1, OnDevice(buf)))
		require.NoError(t, h.Synchronize())
		assert.Equal(t, host[0], buf.Data()[0], "nb=%d device", nb)
		buf.Free()
	}
}
