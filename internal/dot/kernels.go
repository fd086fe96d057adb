package dot

import (
	"github.com/hupe1980/vecdot/device"
	"github.com/hupe1980/vecdot/internal/reduce"
	"github.com/hupe1980/vecdot/internal/scalar"
)

// Kernel names as reported in plans, logs and launch errors.
const (
	KernelInc1    = "dot_kernel_inc1"
	KernelStrided = "dot_kernel_strided"
	KernelMagSq   = "dot_kernel_magsq"
	KernelReduce  = "dot_kernel_reduce"
)

// launch carries the arguments shared by the kernels of one reduction.
type launch[T any, V scalar.Accum, O any] struct {
	n      int
	x, y   *Vector[T]
	shiftx int
	shifty int
	conj   bool
	win    int

	info  scalar.Info[T, V]
	store func(V) O

	partials []V // blocks partials per entry, entry-major
	out      []O // final values, caller buffer or staging
}

func (l *launch[T, V, O]) mul(y, x T) V {
	a := l.info.Widen(x)
	if l.conj {
		a = l.info.Conj(a)
	}
	return l.info.Widen(y) * a
}

// kernelInc1 reduces two unit-stride vectors. Workers read WIN contiguous
// elements per step; block 0 picks up the n%WIN tail elements.
func (l *launch[T, V, O]) kernelInc1(g *device.Group) {
	blk := g.BlockIdx()
	nb, grid := g.BlockDim(), g.GridDim().X

	xs, xb := l.x.Base(blk.Y)
	ys, yb := l.y.Base(blk.Y)
	xb += l.shiftx
	yb += l.shifty

	win := l.win
	step := nb * grid * win
	rem := l.n % win
	end := l.n - rem

	sums := make([]V, g.Lanes())
	for lane := range sums {
		tid := g.ThreadIdx(lane)

		var acc V
		for i := (blk.X*nb + tid) * win; i < end; i += step {
			for j := range win {
				acc += l.mul(ys[yb+i+j], xs[xb+i+j])
			}
		}
		if blk.X == 0 && tid < rem {
			i := l.n - 1 - tid
			acc += l.mul(ys[yb+i], xs[xb+i])
		}
		sums[lane] = acc
	}

	l.finish(g, sums)
}

// kernelStrided reduces two vectors with arbitrary increments. Each worker
// handles up to WIN elements spaced one grid width apart.
func (l *launch[T, V, O]) kernelStrided(g *device.Group) {
	blk := g.BlockIdx()
	nb, grid := g.BlockDim(), g.GridDim().X

	xs, xb := l.x.Base(blk.Y)
	ys, yb := l.y.Base(blk.Y)
	xb += l.shiftx
	yb += l.shifty
	incx, incy := l.x.Inc, l.y.Inc
	step := nb * grid

	sums := make([]V, g.Lanes())
	for lane := range sums {
		var acc V
		i := blk.X*nb + g.ThreadIdx(lane)
		for j := 0; j < l.win && i < l.n; j++ {
			acc += l.mul(ys[yb+i*incy], xs[xb+i*incx])
			i += step
		}
		sums[lane] = acc
	}

	l.finish(g, sums)
}

// kernelMagSq is kernelStrided for x == y: one load per element.
func (l *launch[T, V, O]) kernelMagSq(g *device.Group) {
	blk := g.BlockIdx()
	nb, grid := g.BlockDim(), g.GridDim().X

	xs, xb := l.x.Base(blk.Y)
	xb += l.shiftx
	incx := l.x.Inc
	step := nb * grid

	sums := make([]V, g.Lanes())
	for lane := range sums {
		var acc V
		i := blk.X*nb + g.ThreadIdx(lane)
		for j := 0; j < l.win && i < l.n; j++ {
			v := l.info.Widen(xs[xb+i*incx])
			if l.conj {
				acc += v * l.info.Conj(v)
			} else {
				acc += v * v
			}
			i += step
		}
		sums[lane] = acc
	}

	l.finish(g, sums)
}

// finish reduces the block and lets worker 0 publish the partial, and the
// final value when the entry was covered by a single block.
func (l *launch[T, V, O]) finish(g *device.Group, sums []V) {
	total := reduce.Block(g, sums)
	if g.GroupIdx() != 0 {
		return
	}

	blk := g.BlockIdx()
	grid := g.GridDim().X
	l.partials[blk.X+blk.Y*grid] = total
	if grid == 1 {
		l.out[blk.Y] = l.store(total)
	}
}

// kernelReduce sums the nSums partials of each entry. It runs on a grid of
// one block per batch entry.
func (l *launch[T, V, O]) kernelReduce(nSums int) device.Kernel {
	return func(g *device.Group) {
		by := g.BlockIdx().Y
		in := l.partials[by*nSums : (by+1)*nSums]

		win := l.win
		step := g.BlockDim() * win
		rem := nSums % win
		end := nSums - rem

		sums := make([]V, g.Lanes())
		for lane := range sums {
			tid := g.ThreadIdx(lane)

			var acc V
			for i := tid * win; i < end; i += step {
				for j := range win {
					acc += in[i+j]
				}
			}
			if tid < rem {
				acc += in[nSums-1-tid]
			}
			sums[lane] = acc
		}

		total := reduce.Block(g, sums)
		if g.GroupIdx() == 0 {
			l.out[by] = l.store(total)
		}
	}
}
