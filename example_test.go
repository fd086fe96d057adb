package vecdot_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/vecdot"
	"github.com/hupe1980/vecdot/device"
)

func Example() {
	h, err := vecdot.New()
	if err != nil {
		log.Fatal(err)
	}
	defer h.Close()

	x := []float32{1, 2, 3, 4}
	y := []float32{4, 3, 2, 1}

	out := make([]float32, 1)
	if err := vecdot.Dot(context.Background(), h, len(x), x, 1, y, 1, vecdot.Host(out)); err != nil {
		log.Fatal(err)
	}

	fmt.Println(out[0])
	// Output: 20
}

func ExampleDotcStridedBatched() {
	h, err := vecdot.New()
	if err != nil {
		log.Fatal(err)
	}
	defer h.Close()

	// Two entries of two elements each.
	x := []complex128{1i, 2, 3, 4i}
	y := []complex128{1i, 1, 1, 1}

	out := make([]complex128, 2)
	err = vecdot.DotcStridedBatched(context.Background(), h, 2, x, 1, 2, y, 1, 2, 2, vecdot.Host(out))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(out)
	// Output: [(3+0i) (3-4i)]
}

func ExampleNrm2() {
	h, err := vecdot.New()
	if err != nil {
		log.Fatal(err)
	}
	defer h.Close()

	x := []complex64{3, 4i}

	out := make([]float32, 1)
	if err := vecdot.Nrm2(context.Background(), h, len(x), x, 1, vecdot.Host(out)); err != nil {
		log.Fatal(err)
	}

	fmt.Println(out[0])
	// Output: 5
}

func ExampleOnDevice() {
	h, err := vecdot.New()
	if err != nil {
		log.Fatal(err)
	}
	defer h.Close()

	res, err := device.Alloc[float64](h.Device(), 1)
	if err != nil {
		log.Fatal(err)
	}
	defer res.Free()

	x := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1}
	if err := vecdot.Dot(context.Background(), h, len(x), x, 1, x, 1, vecdot.OnDevice(res)); err != nil {
		log.Fatal(err)
	}

	// Results land asynchronously.
	if err := h.Synchronize(); err != nil {
		log.Fatal(err)
	}

	fmt.Println(res.Data()[0])
	// Output: 9
}

func ExampleHandle_StartSizeQuery() {
	h, err := vecdot.New(vecdot.WithDeviceConfig(device.Config{LaneWidth: 8}), vecdot.WithBlockSize(64))
	if err != nil {
		log.Fatal(err)
	}
	defer h.Close()

	x := make([]float64, 1000)

	h.StartSizeQuery()
	_ = vecdot.Dot(context.Background(), h, len(x), x, 1, x, 1, vecdot.Host[float64](nil))
	size, err := h.StopSizeQuery()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(size)
	// Output: 72
}
