// Package testutil provides testing utilities for vecdot.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded random vectors for every element type, sequential
// CPU reference reductions and the tolerance the parallel reductions are
// checked against.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	x := make([]complex64, 1024)
//	testutil.Fill(rng, x) // components uniform in [0, 1)
//
// # Reference Results
//
//	want := testutil.RefDot(n, x, incx, y, incy, false)
//	assert.InDelta(t, real(want), got, testutil.Tolerance[float32](real(want)))
package testutil
