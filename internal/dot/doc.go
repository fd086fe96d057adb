// Package dot implements the two-phase batched reduction behind the dot
// product and norm operations.
//
// Phase 1 partitions every batch entry across a grid of blocks. Each worker
// accumulates a strided run of elements, unrolled by WIN, and each block
// reduces its workers into one partial that is written to the workspace.
// When an entry fits in one block the partial is already the result and is
// written to the output directly. Otherwise phase 2 launches one block per
// entry that reduces the entry's partials.
//
// Host-visible results are staged in the workspace and copied back with one
// batched copy; device-resident results are written straight into the
// caller's buffer.
package dot
