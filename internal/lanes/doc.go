// Package lanes selects the width of a lockstep worker group.
//
// A group is the unit the reduction kernels treat as executing in lockstep:
// its lanes exchange values directly, without a barrier. On this CPU target
// a group maps onto one SIMD register of float32 lanes, so the width follows
// the detected instruction set:
//
//   - x86-64: AVX-512 (16), AVX2 (8)
//   - ARM64: SVE2 (8), NEON (4)
//   - anything else: 8
//
// Set VECDOT_ISA to one of generic, neon, sve2, avx2 or avx512 to force a
// specific choice. Unavailable overrides are ignored.
package lanes
