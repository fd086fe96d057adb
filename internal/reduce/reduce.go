// Package reduce implements the group and block reducers of the reduction
// kernels.
//
// A group is a set of lanes executing in lockstep and is represented as a
// slice with one value per lane. Exchanges between lanes are plain slice
// accesses; only exchanges between groups need the block barrier.
package reduce

import (
	"fmt"

	"github.com/hupe1980/vecdot/device"
	"github.com/hupe1980/vecdot/internal/lanes"
	"github.com/hupe1980/vecdot/internal/scalar"
)

// Wavefront sums the lanes of one group in log2(len(vals)) exchange-and-add
// rounds with halving offsets. Every lane ends with the group total.
func Wavefront[V scalar.Accum](vals []V) {
	w := len(vals)
	if !lanes.IsPowerOfTwo(w) {
		panic(fmt.Sprintf("reduce: group width %d is not a power of two", w))
	}

	for off := w / 2; off > 0; off >>= 1 {
		for l := range w {
			if l&off != 0 {
				continue
			}
			s := vals[l] + vals[l|off]
			vals[l], vals[l|off] = s, s
		}
	}
}

// Block sums vals across all groups of the block. vals holds the per-lane
// values of the calling group and is overwritten.
//
// Every group of the block must call Block. The result is the block total
// in the first group (and so for worker 0); other groups receive their own
// group total.
func Block[V scalar.Accum](g *device.Group, vals []V) V {
	slots := g.Shared().([]V)
	gi := g.GroupIdx()

	if gi == 0 {
		clear(slots)
	}
	g.Sync()

	Wavefront(vals)
	slots[gi] = vals[0]
	g.Sync()

	if gi != 0 {
		return vals[0]
	}

	w := len(vals)
	for l := range w {
		var acc V
		for s := l; s < len(slots); s += w {
			acc += slots[s]
		}
		vals[l] = acc
	}
	Wavefront(vals)
	return vals[0]
}

// NewStaging returns the LaunchConfig.Shared allocator for Block:
// one slot per group of a block of blockSize workers.
func NewStaging[V scalar.Accum](blockSize, laneWidth int) func() any {
	groups := blockSize / laneWidth
	return func() any {
		return make([]V, groups)
	}
}
