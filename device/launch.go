package device

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"
)

// Dim is a two-dimensional grid coordinate or extent.
type Dim struct {
	X, Y int
}

// LaunchConfig describes a kernel launch.
type LaunchConfig struct {
	// Name identifies the kernel in errors and logs.
	Name string

	// Grid is the number of blocks. A grid with Y == 0 launches nothing.
	Grid Dim

	// BlockSize is the number of workers per block, a multiple of the lane width.
	BlockSize int

	// Shared allocates the block-local staging area. Called once per block.
	Shared func() any
}

// Kernel is executed once per group of every block.
type Kernel func(g *Group)

// Launch validates cfg and enqueues the kernel.
func (s *Stream) Launch(cfg LaunchConfig, k Kernel) error {
	if err := s.dev.validate(cfg); err != nil {
		return err
	}
	if k == nil {
		return fmt.Errorf("%w: nil kernel %q", ErrInvalidLaunch, cfg.Name)
	}
	if cfg.Grid.Y == 0 {
		return nil
	}

	return s.enqueue(op{
		name: cfg.Name,
		run: func() error {
			return s.dev.execute(cfg, k)
		},
	})
}

func (d *Device) validate(cfg LaunchConfig) error {
	w := d.cfg.LaneWidth
	switch {
	case cfg.Grid.X < 1 || cfg.Grid.Y < 0:
		return fmt.Errorf("%w: %q grid (%d,%d)", ErrInvalidLaunch, cfg.Name, cfg.Grid.X, cfg.Grid.Y)
	case cfg.BlockSize < w || cfg.BlockSize%w != 0:
		return fmt.Errorf("%w: %q block size %d is not a multiple of lane width %d",
			ErrInvalidLaunch, cfg.Name, cfg.BlockSize, w)
	case cfg.BlockSize > d.cfg.MaxBlockSize:
		return fmt.Errorf("%w: %q block size %d exceeds %d",
			ErrInvalidLaunch, cfg.Name, cfg.BlockSize, d.cfg.MaxBlockSize)
	}
	return nil
}

// execute runs every block of a launch and waits for completion.
func (d *Device) execute(cfg LaunchConfig, k Kernel) error {
	total := uint(cfg.Grid.X * cfg.Grid.Y)

	var (
		mu   sync.Mutex
		done = bitset.New(total)
	)

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(d.rc.ComputeUnits())

issue:
	for by := range cfg.Grid.Y {
		for bx := range cfg.Grid.X {
			if ctx.Err() != nil {
				break issue
			}

			idx := Dim{X: bx, Y: by}
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := d.rc.AcquireUnit(ctx); err != nil {
					return err
				}
				defer d.rc.ReleaseUnit()

				if err := d.runBlock(cfg, k, idx); err != nil {
					return &KernelError{Name: cfg.Name, Block: idx, Err: err}
				}

				mu.Lock()
				done.Set(uint(idx.Y*cfg.Grid.X + idx.X))
				mu.Unlock()
				return nil
			})
		}
	}

	err := g.Wait()
	if err == nil {
		return nil
	}

	var kerr *KernelError
	if !errors.As(err, &kerr) {
		return err
	}
	kerr.Completed = done.Count()
	kerr.Total = total

	d.logger.Error("kernel launch failed",
		"kernel", cfg.Name,
		"block_x", kerr.Block.X,
		"block_y", kerr.Block.Y,
		"completed", kerr.Completed,
		"total", kerr.Total,
		"error", kerr.Err)

	return kerr
}

// runBlock executes one block: one goroutine per group sharing a barrier.
func (d *Device) runBlock(cfg LaunchConfig, k Kernel, idx Dim) error {
	width := d.cfg.LaneWidth
	groups := cfg.BlockSize / width

	blk := &block{
		idx:  idx,
		grid: cfg.Grid,
		size: cfg.BlockSize,
		bar:  newBarrier(groups),
	}
	if cfg.Shared != nil {
		blk.shared = cfg.Shared()
	}

	if groups == 1 {
		return runGroup(k, &Group{blk: blk, width: width})
	}

	errs := make([]error, groups)

	var wg sync.WaitGroup
	for i := range groups {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = runGroup(k, &Group{blk: blk, idx: i, width: width})
		}()
	}
	wg.Wait()

	// Report the root failure, not the groups it unwound.
	var unwound error
	for _, err := range errs {
		switch {
		case err == nil:
		case errors.Is(err, errBarrierBroken):
			unwound = err
		default:
			return err
		}
	}
	return unwound
}

func runGroup(k Kernel, g *Group) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			g.blk.bar.leave()
			return
		}
		e, isErr := r.(error)
		if isErr && errors.Is(e, errBarrierBroken) {
			err = errBarrierBroken
			return
		}
		g.blk.bar.breakAll()
		if isErr {
			err = fmt.Errorf("group %d panicked: %w", g.idx, e)
		} else {
			err = fmt.Errorf("group %d panicked: %v", g.idx, r)
		}
	}()

	k(g)
	return nil
}
