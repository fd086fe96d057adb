// Package conv provides overflow-checked size arithmetic.
//
// Element counts arrive as Go ints from callers; byte sizes for device
// allocations and workspace queries are int64. These helpers reject products
// that would wrap instead of silently producing a small allocation.
package conv
