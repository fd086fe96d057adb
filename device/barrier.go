package device

import "sync"

// barrier is a cyclic barrier across the groups of one block.
type barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	parties    int
	waiting    int
	generation uint64
	broken     bool
}

func newBarrier(parties int) *barrier {
	b := &barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// wait blocks until every active party has arrived.
// It panics with errBarrierBroken if the block failed.
func (b *barrier) wait() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.broken {
		panic(errBarrierBroken)
	}

	gen := b.generation
	b.waiting++
	if b.waiting >= b.parties {
		b.trip()
		return
	}

	for gen == b.generation && !b.broken {
		b.cond.Wait()
	}
	if gen == b.generation {
		panic(errBarrierBroken)
	}
}

// leave removes a party that returned from the kernel, so groups that
// are still running do not wait for it.
func (b *barrier) leave() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.parties--
	if b.parties > 0 && b.waiting >= b.parties {
		b.trip()
	}
}

// breakAll releases every waiter with errBarrierBroken.
func (b *barrier) breakAll() {
	b.mu.Lock()
	b.broken = true
	b.mu.Unlock()
	b.cond.Broadcast()
}

func (b *barrier) trip() {
	b.waiting = 0
	b.generation++
	b.cond.Broadcast()
}
