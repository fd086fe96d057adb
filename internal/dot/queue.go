package dot

import "github.com/hupe1980/vecdot/device"

// Queue is the ordered execution queue a reduction is issued on.
type Queue[O any] interface {
	LaneWidth() int
	Launch(cfg device.LaunchConfig, k device.Kernel) error
	Zero(dst []O) error
	CopyToHost(dst, src []O) error
	Synchronize() error
}

// StreamQueue adapts a device stream to Queue.
type StreamQueue[O any] struct {
	S *device.Stream
}

func (q StreamQueue[O]) LaneWidth() int { return q.S.LaneWidth() }

func (q StreamQueue[O]) Launch(cfg device.LaunchConfig, k device.Kernel) error {
	return q.S.Launch(cfg, k)
}

func (q StreamQueue[O]) Zero(dst []O) error { return device.Zero(q.S, dst) }

func (q StreamQueue[O]) CopyToHost(dst, src []O) error { return device.CopyToHost(q.S, dst, src) }

func (q StreamQueue[O]) Synchronize() error { return q.S.Synchronize() }
