package device

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecdot/internal/mem"
)

func newTestDevice(t *testing.T, cfg Config) *Device {
	t.Helper()

	d, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults", cfg: Config{}},
		{name: "explicit", cfg: Config{LaneWidth: 4, MaxBlockSize: 64}},
		{name: "non power of two lanes", cfg: Config{LaneWidth: 6}, wantErr: true},
		{name: "block not multiple of lanes", cfg: Config{LaneWidth: 8, MaxBlockSize: 20}, wantErr: true},
		{name: "negative memory limit", cfg: Config{LaneWidth: 4, MemoryLimitBytes: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.cfg)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			defer d.Close()

			assert.Positive(t, d.LaneWidth())
			assert.Zero(t, d.MaxBlockSize()%d.LaneWidth())
		})
	}
}

func TestAlloc(t *testing.T) {
	d := newTestDevice(t, Config{LaneWidth: 4, MemoryLimitBytes: 64})

	a, err := Alloc[float64](d, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, a.Len())
	assert.Equal(t, int64(32), d.MemoryUsage())
	assert.True(t, mem.IsAligned(a.Data()))

	_, err = Alloc[float64](d, 5)
	require.ErrorIs(t, err, ErrOutOfMemory)

	a.Free()
	a.Free()
	assert.Zero(t, d.MemoryUsage())
	assert.Nil(t, a.Data())

	b, err := Alloc[float64](d, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(64), d.MemoryUsage())
	b.Free()
}

func TestLaunchValidation(t *testing.T) {
	d := newTestDevice(t, Config{LaneWidth: 4, MaxBlockSize: 32})
	s := d.NewStream()
	noop := func(*Group) {}

	tests := []struct {
		name string
		cfg  LaunchConfig
	}{
		{name: "empty grid", cfg: LaunchConfig{Grid: Dim{X: 0, Y: 1}, BlockSize: 4}},
		{name: "negative batch", cfg: LaunchConfig{Grid: Dim{X: 1, Y: -1}, BlockSize: 4}},
		{name: "block below lanes", cfg: LaunchConfig{Grid: Dim{X: 1, Y: 1}, BlockSize: 2}},
		{name: "block not multiple", cfg: LaunchConfig{Grid: Dim{X: 1, Y: 1}, BlockSize: 6}},
		{name: "block too large", cfg: LaunchConfig{Grid: Dim{X: 1, Y: 1}, BlockSize: 64}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, s.Launch(tt.cfg, noop), ErrInvalidLaunch)
		})
	}

	require.NoError(t, s.Synchronize())
}

func TestLaunchCoversGrid(t *testing.T) {
	d := newTestDevice(t, Config{LaneWidth: 4, MaxConcurrentBlocks: 3})
	s := d.NewStream()

	grid := Dim{X: 5, Y: 3}
	const nb = 16

	hits := make([]atomic.Int32, grid.X*grid.Y*nb)
	err := s.Launch(LaunchConfig{Name: "cover", Grid: grid, BlockSize: nb}, func(g *Group) {
		assert.Equal(t, grid, g.GridDim())
		assert.Equal(t, nb/4, g.GroupsPerBlock())
		for lane := range g.Lanes() {
			b := g.BlockIdx()
			hits[(b.Y*grid.X+b.X)*nb+g.ThreadIdx(lane)].Add(1)
		}
	})
	require.NoError(t, err)
	require.NoError(t, s.Synchronize())

	for i := range hits {
		assert.Equal(t, int32(1), hits[i].Load(), "worker %d", i)
	}
}

func TestLaunchZeroBatchIsNoop(t *testing.T) {
	d := newTestDevice(t, Config{LaneWidth: 4})
	s := d.NewStream()

	var ran atomic.Bool
	err := s.Launch(LaunchConfig{Grid: Dim{X: 1, Y: 0}, BlockSize: 4}, func(*Group) { ran.Store(true) })
	require.NoError(t, err)
	require.NoError(t, s.Synchronize())
	assert.False(t, ran.Load())
}

func TestSyncOrdersSharedWrites(t *testing.T) {
	d := newTestDevice(t, Config{LaneWidth: 4})
	s := d.NewStream()

	const nb = 32
	out := make([]int, 8)

	err := s.Launch(LaunchConfig{
		Name:      "shared",
		Grid:      Dim{X: len(out), Y: 1},
		BlockSize: nb,
		Shared:    func() any { return make([]int, nb/4) },
	}, func(g *Group) {
		slots := g.Shared().([]int)
		slots[g.GroupIdx()] = g.GroupIdx() + 1
		g.Sync()
		if g.GroupIdx() == 0 {
			sum := 0
			for _, v := range slots {
				sum += v
			}
			out[g.BlockIdx().X] = sum
		}
	})
	require.NoError(t, err)
	require.NoError(t, s.Synchronize())

	for _, v := range out {
		assert.Equal(t, 36, v)
	}
}

func TestKernelPanic(t *testing.T) {
	d := newTestDevice(t, Config{LaneWidth: 4, MaxConcurrentBlocks: 1})
	s := d.NewStream()

	err := s.Launch(LaunchConfig{Name: "boom", Grid: Dim{X: 4, Y: 1}, BlockSize: 16}, func(g *Group) {
		if g.BlockIdx().X == 2 && g.GroupIdx() == 1 {
			panic("lane fault")
		}
		g.Sync()
		g.Sync()
	})
	require.NoError(t, err)

	var ran atomic.Bool
	require.NoError(t, s.Launch(LaunchConfig{Name: "after", Grid: Dim{X: 1, Y: 1}, BlockSize: 4},
		func(*Group) { ran.Store(true) }))

	err = s.Synchronize()
	var kerr *KernelError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, "boom", kerr.Name)
	assert.Equal(t, Dim{X: 2, Y: 0}, kerr.Block)
	assert.Equal(t, uint(4), kerr.Total)
	assert.Equal(t, uint(2), kerr.Completed)
	assert.Contains(t, kerr.Error(), "lane fault")
	assert.False(t, errors.Is(err, errBarrierBroken))

	assert.False(t, ran.Load(), "work after a failure must be skipped")
	assert.Equal(t, err, s.Synchronize(), "stream errors are sticky")
}

func TestEarlyReturnDoesNotDeadlock(t *testing.T) {
	d := newTestDevice(t, Config{LaneWidth: 4})
	s := d.NewStream()

	var synced atomic.Int32
	require.NoError(t, s.Launch(LaunchConfig{Grid: Dim{X: 1, Y: 1}, BlockSize: 16}, func(g *Group) {
		if g.GroupIdx() == 3 {
			return
		}
		g.Sync()
		synced.Add(1)
	}))
	require.NoError(t, s.Synchronize())
	assert.Equal(t, int32(3), synced.Load())
}
