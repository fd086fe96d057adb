// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Device buffers start on a 64-byte boundary, the granularity lane loads
// are issued at.
package mem
