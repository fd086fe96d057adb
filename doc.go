// Package vecdot computes batched, strided dot products and Euclidean norms
// with a two-phase block reduction on a simulated accelerator.
//
// # Quick Start
//
//	h, _ := vecdot.New()
//	defer h.Close()
//
//	out := make([]float32, 1)
//	err := vecdot.Dot(ctx, h, n, x, 1, y, 1, vecdot.Host(out))
//
// # Batches
//
// Strided batches keep all entries in one slice, entry b starting at
// b*stride. Pointer batches pass one slice per entry:
//
//	err := vecdot.DotStridedBatched(ctx, h, n, x, 1, n, y, 1, n, batch, vecdot.Host(out))
//	err := vecdot.DotBatched(ctx, h, n, xs, 1, ys, 1, batch, vecdot.Host(out))
//
// Negative increments walk each vector from its end. The conjugating
// variants (Dotc*) negate the imaginary part of x and equal the plain
// variants for real element types.
//
// # Result Placement
//
// Every call names where its results go. Host results are available when
// the call returns. Device results are written by the kernels into a device
// buffer and become readable after Synchronize:
//
//	buf, _ := device.Alloc[float32](h.Device(), batch)
//	_ = vecdot.Nrm2StridedBatched(ctx, h, n, x, 1, n, batch, vecdot.OnDevice(buf))
//	_ = h.Synchronize()
//	norms := buf.Data()
//
// # Workspace Size Queries
//
// Between StartSizeQuery and StopSizeQuery no work is performed. Every call
// returns ErrSizeQuery and records the scratch memory it would need:
//
//	h.StartSizeQuery()
//	_ = vecdot.Dot(ctx, h, n, x, 1, y, 1, vecdot.Host(out))
//	bytes, _ := h.StopSizeQuery()
//
// # Element Types
//
// float32, float64, complex64, complex128, Float16 and BFloat16. Half
// precision types accumulate in float32; WithWideAccumulation selects
// float64 (complex128) accumulators for single precision inputs.
package vecdot
