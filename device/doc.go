// Package device simulates the execution model of a SIMT accelerator on the
// host CPU.
//
// # Execution model
//
// Work is launched as a grid of blocks. A block holds BlockSize workers,
// split into groups of LaneWidth lanes. The lanes of a group execute in
// lockstep: a Kernel is invoked once per group and processes all of its lanes,
// so lane values can be exchanged without synchronisation. The groups of one
// block run concurrently on separate goroutines and coordinate through
// Group.Sync, a block-wide barrier, and a block-local staging area
// (Group.Shared). Blocks never synchronise with each other within a launch.
//
//	dev, _ := device.New(device.DefaultConfig())
//	defer dev.Close()
//
//	s := dev.NewStream()
//	err := s.Launch(device.LaunchConfig{
//	    Name:      "fill",
//	    Grid:      device.Dim{X: blocks, Y: 1},
//	    BlockSize: 256,
//	}, func(g *device.Group) {
//	    for lane := range g.Lanes() {
//	        i := g.BlockIdx().X*g.BlockDim() + g.ThreadIdx(lane)
//	        ...
//	    }
//	})
//
// # Streams
//
// A Stream is an ordered, asynchronous execution queue. Launches, fills and
// copies return once enqueued; they execute in order on a dedicated goroutine.
// Configuration errors are reported by the enqueueing call. Execution errors
// are sticky: the first one is returned by Synchronize and every later
// operation on the stream is skipped.
//
// # Memory
//
// Buffers allocated with Alloc are charged against the device memory budget.
// Their contents written by kernels are only meaningful to the host after the
// writing stream has been synchronised.
package device
