package vecdot

import (
	"github.com/hupe1980/vecdot/device"
	"github.com/hupe1980/vecdot/internal/dot"
	"github.com/hupe1980/vecdot/internal/half"
	"github.com/hupe1980/vecdot/internal/scalar"
)

// Float16 is an IEEE 754 binary16 value.
type Float16 = half.Float16

// BFloat16 is a bfloat16 value.
type BFloat16 = half.BFloat16

// Element is the set of supported element types.
type Element = scalar.Element

// Real is the set of norm result types.
type Real = scalar.Real

// Output is the destination of one result per batch entry.
type Output[T any] struct {
	host []T
	buf  *device.Buffer[T]
}

// Host returns a host-visible output. Results are in dst when the call
// returns.
func Host[T any](dst []T) Output[T] {
	return Output[T]{host: dst}
}

// OnDevice returns a device-resident output. Kernels write results straight
// into buf; read them with buf.Data() after Handle.Synchronize.
func OnDevice[T any](buf *device.Buffer[T]) Output[T] {
	return Output[T]{buf: buf}
}

func (o Output[T]) placement() dot.Placement {
	if o.buf != nil {
		return dot.OnDevice
	}
	return dot.OnHost
}

func (o Output[T]) slice() []T {
	if o.buf != nil {
		return o.buf.Data()
	}
	return o.host
}

// check reports whether the output holds batch results on dev.
func (o Output[T]) check(dev *device.Device, batch int) bool {
	if o.buf != nil && o.buf.Device() != dev {
		return false
	}
	s := o.slice()
	return s != nil && len(s) >= batch
}
