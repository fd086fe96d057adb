package dot

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vecdot/device"
	"github.com/hupe1980/vecdot/internal/reduce"
	"github.com/hupe1980/vecdot/internal/scalar"
)

var (
	// ErrSizeQuery reports that no work was performed because the caller
	// only queried the workspace size.
	ErrSizeQuery = errors.New("dot: size query")

	// ErrWorkspaceTooSmall is returned when the workspace cannot hold the
	// partials or the staged results.
	ErrWorkspaceTooSmall = errors.New("dot: workspace too small")

	// ErrInvalidBlockSize is returned for block sizes the kernels cannot use.
	ErrInvalidBlockSize = errors.New("dot: invalid block size")
)

// Placement selects where final results become visible.
type Placement int

const (
	// OnDevice writes results straight into the caller's device buffer.
	OnDevice Placement = iota
	// OnHost stages results in the workspace and copies them back before
	// Run returns.
	OnHost
)

func (p Placement) String() string {
	if p == OnHost {
		return "host"
	}
	return "device"
}

// Output is the destination of a reduction.
type Output[O any] struct {
	Dst       []O
	Placement Placement
}

// Workspace is the scratch memory of one reduction.
type Workspace[V scalar.Accum, O any] struct {
	Partials []V // at least BlockCount * batch elements
	Staging  []O // at least batch elements for host-visible results
}

// Params describes one batched reduction.
type Params[T any, V scalar.Accum, O any] struct {
	N     int
	X     *Vector[T]
	Y     *Vector[T] // nil reduces X with itself
	Batch int
	Conj  bool

	// BlockSize is the number of workers per block (NB).
	BlockSize int

	Info  scalar.Info[T, V]
	Store func(V) O
}

// Plan describes how a reduction was executed.
type Plan struct {
	Kernel string
	Blocks int // blocks per batch entry
	WIN    int
}

// TwoPhase reports whether the cross-block kernel was needed.
func (p Plan) TwoPhase() bool { return p.Blocks > 1 }

// BlockCount returns the number of blocks per batch entry.
func BlockCount(n, nb, win int) int {
	if n <= 0 {
		return 1
	}
	per := nb * win
	return max(1, (n-1)/per+1)
}

// WorkspaceLen returns the workspace capacity, in accumulation elements,
// required for a reduction of batch entries of n elements.
func WorkspaceLen(n, batch, nb, win int) int {
	return (BlockCount(n, nb, win) + 1) * max(batch, 1)
}

// Run issues a reduction on q.
//
// Degenerate reductions (n <= 0 or batch == 0) launch nothing and zero the
// output, or return ErrSizeQuery when sizeQuery is set. Device-resident
// results are only complete once q has been synchronised; host-visible
// results are in out.Dst when Run returns.
func Run[T any, V scalar.Accum, O any](q Queue[O], p Params[T, V, O], out Output[O], ws Workspace[V, O], sizeQuery bool) (Plan, error) {
	if p.N <= 0 || p.Batch == 0 {
		if sizeQuery {
			return Plan{}, ErrSizeQuery
		}
		return Plan{}, zeroFill(q, out, p.Batch)
	}

	win := scalar.WIN(p.Info.Size)
	nb := p.BlockSize
	if nb < win || nb%q.LaneWidth() != 0 {
		return Plan{}, fmt.Errorf("%w: %d (lane width %d, unroll %d)", ErrInvalidBlockSize, nb, q.LaneWidth(), win)
	}

	blocks := BlockCount(p.N, nb, win)
	if len(ws.Partials) < blocks*p.Batch {
		return Plan{}, fmt.Errorf("%w: %d partials, need %d", ErrWorkspaceTooSmall, len(ws.Partials), blocks*p.Batch)
	}

	l := &launch[T, V, O]{
		n:        p.N,
		x:        p.X,
		y:        p.Y,
		conj:     p.Conj && p.Info.Complex,
		win:      win,
		info:     p.Info,
		store:    p.Store,
		partials: ws.Partials[:blocks*p.Batch],
	}

	switch out.Placement {
	case OnHost:
		if len(ws.Staging) < p.Batch {
			return Plan{}, fmt.Errorf("%w: %d staging slots, need %d", ErrWorkspaceTooSmall, len(ws.Staging), p.Batch)
		}
		l.out = ws.Staging[:p.Batch]
	default:
		l.out = out.Dst[:p.Batch]
	}

	self := p.Y == nil || p.X.Same(p.Y)
	if self {
		l.y = p.X
	}
	l.shiftx = l.x.Shift(p.N)
	l.shifty = l.y.Shift(p.N)

	plan := Plan{Blocks: blocks, WIN: win}

	var k device.Kernel
	switch {
	case self:
		plan.Kernel, k = KernelMagSq, l.kernelMagSq
	case l.x.Inc == 1 && l.y.Inc == 1 && p.Info.Size >= 8:
		plan.Kernel, k = KernelInc1, l.kernelInc1
	default:
		plan.Kernel, k = KernelStrided, l.kernelStrided
	}

	lanes := q.LaneWidth()
	if err := q.Launch(device.LaunchConfig{
		Name:      plan.Kernel,
		Grid:      device.Dim{X: blocks, Y: p.Batch},
		BlockSize: nb,
		Shared:    reduce.NewStaging[V](nb, lanes),
	}, k); err != nil {
		return plan, err
	}

	if blocks > 1 {
		if err := q.Launch(device.LaunchConfig{
			Name:      KernelReduce,
			Grid:      device.Dim{X: 1, Y: p.Batch},
			BlockSize: nb,
			Shared:    reduce.NewStaging[V](nb, lanes),
		}, l.kernelReduce(blocks)); err != nil {
			return plan, err
		}
	}

	if out.Placement == OnHost {
		if err := q.CopyToHost(out.Dst[:p.Batch], l.out); err != nil {
			return plan, err
		}
		if err := q.Synchronize(); err != nil {
			return plan, err
		}
	}

	return plan, nil
}

func zeroFill[O any](q Queue[O], out Output[O], batch int) error {
	if batch <= 0 {
		return nil
	}

	dst := out.Dst[:batch]
	if out.Placement == OnDevice {
		return q.Zero(dst)
	}

	var zero O
	for i := range dst {
		dst[i] = zero
	}
	return nil
}
