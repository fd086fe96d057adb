package vecdot

import (
	"context"
	"fmt"
	"testing"

	"github.com/hupe1980/vecdot/device"
	"github.com/hupe1980/vecdot/testutil"
)

func BenchmarkDot(b *testing.B) {
	ctx := context.Background()

	for _, n := range []int{1 << 10, 1 << 16, 1 << 20} {
		b.Run(fmt.Sprintf("float32/n=%d", n), func(b *testing.B) {
			h, err := New()
			if err != nil {
				b.Fatal(err)
			}
			defer h.Close()

			x := make([]float32, n)
			y := make([]float32, n)
			rng := testutil.NewRNG(1)
			testutil.Fill(rng, x)
			testutil.Fill(rng, y)
			out := make([]float32, 1)

			b.SetBytes(int64(8 * n))
			b.ReportAllocs()
			for b.Loop() {
				if err := Dot(ctx, h, n, x, 1, y, 1, Host(out)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDotStridedBatchedOnDevice(b *testing.B) {
	ctx := context.Background()

	const n, batch = 4096, 64

	h, err := New()
	if err != nil {
		b.Fatal(err)
	}
	defer h.Close()

	x := make([]complex64, n*batch)
	testutil.Fill(testutil.NewRNG(2), x)

	buf, err := device.Alloc[complex64](h.Device(), batch)
	if err != nil {
		b.Fatal(err)
	}
	defer buf.Free()

	b.SetBytes(int64(8 * n * batch))
	for b.Loop() {
		if err := DotcStridedBatched(ctx, h, n, x, 1, n, x, 1, n, batch, OnDevice(buf)); err != nil {
			b.Fatal(err)
		}
	}
	if err := h.Synchronize(); err != nil {
		b.Fatal(err)
	}
}
