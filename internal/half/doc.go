// Package half implements the two 16-bit floating point storage formats the
// reduction kernels accept as element types: IEEE-754 binary16 (Float16) and
// bfloat16 (BFloat16).
//
// Neither type supports arithmetic. Kernels widen elements to an accumulation
// type (float32 or float64) on load and narrow the final value on store.
package half
