package device

// Group is the execution context of one lockstep group of lanes.
type Group struct {
	blk   *block
	idx   int
	width int
}

// Lanes returns the number of lanes of the group.
func (g *Group) Lanes() int { return g.width }

// GroupIdx returns the index of the group within its block.
func (g *Group) GroupIdx() int { return g.idx }

// ThreadIdx returns the block-local worker index of a lane.
func (g *Group) ThreadIdx(lane int) int { return g.idx*g.width + lane }

// BlockIdx returns the coordinates of the block in the grid.
func (g *Group) BlockIdx() Dim { return g.blk.idx }

// GridDim returns the grid dimensions of the launch.
func (g *Group) GridDim() Dim { return g.blk.grid }

// BlockDim returns the number of workers per block.
func (g *Group) BlockDim() int { return g.blk.size }

// GroupsPerBlock returns the number of groups per block.
func (g *Group) GroupsPerBlock() int { return g.blk.size / g.width }

// Shared returns the block-local staging area created by LaunchConfig.Shared.
func (g *Group) Shared() any { return g.blk.shared }

// Sync waits until every group of the block reaches the same point.
func (g *Group) Sync() { g.blk.bar.wait() }

type block struct {
	idx    Dim
	grid   Dim
	size   int
	shared any
	bar    *barrier
}
