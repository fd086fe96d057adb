package vecdot

import (
	"context"

	"github.com/hupe1980/vecdot/internal/dot"
)

// Dot computes sum(y[i] * x[i]) for i in [0, n).
//
// Negative increments walk a vector from its end. n <= 0 writes a zero
// result.
func Dot[T Element](ctx context.Context, h *Handle, n int, x []T, incx int, y []T, incy int, out Output[T]) error {
	return dotStridedBatched(ctx, h, "dot", false, n, x, incx, 0, y, incy, 0, 1, out)
}

// Dotc computes sum(y[i] * conj(x[i])). For real types it equals Dot.
func Dotc[T Element](ctx context.Context, h *Handle, n int, x []T, incx int, y []T, incy int, out Output[T]) error {
	return dotStridedBatched(ctx, h, "dotc", true, n, x, incx, 0, y, incy, 0, 1, out)
}

// DotStridedBatched computes batch dot products. Entry b of x starts at
// x[b*stridex], entry b of y at y[b*stridey].
func DotStridedBatched[T Element](ctx context.Context, h *Handle, n int, x []T, incx, stridex int, y []T, incy, stridey int, batch int, out Output[T]) error {
	return dotStridedBatched(ctx, h, "dot_strided_batched", false, n, x, incx, stridex, y, incy, stridey, batch, out)
}

// DotcStridedBatched is DotStridedBatched with x conjugated.
func DotcStridedBatched[T Element](ctx context.Context, h *Handle, n int, x []T, incx, stridex int, y []T, incy, stridey int, batch int, out Output[T]) error {
	return dotStridedBatched(ctx, h, "dotc_strided_batched", true, n, x, incx, stridex, y, incy, stridey, batch, out)
}

// DotBatched computes batch dot products of x[b] and y[b].
func DotBatched[T Element](ctx context.Context, h *Handle, n int, x [][]T, incx int, y [][]T, incy int, batch int, out Output[T]) error {
	return dotBatched(ctx, h, "dot_batched", false, n, x, incx, y, incy, batch, out)
}

// DotcBatched is DotBatched with x conjugated.
func DotcBatched[T Element](ctx context.Context, h *Handle, n int, x [][]T, incx int, y [][]T, incy int, batch int, out Output[T]) error {
	return dotBatched(ctx, h, "dotc_batched", true, n, x, incx, y, incy, batch, out)
}

func dotStridedBatched[T Element](ctx context.Context, h *Handle, op string, conj bool, n int, x []T, incx, stridex int, y []T, incy, stridey int, batch int, out Output[T]) error {
	skip, err := quick(h, n, batch, out)
	if err != nil {
		return err
	}

	req := request[T]{op: op, n: n, batch: max(batch, 0), conj: conj}
	if skip {
		req.x = &dot.Vector[T]{Inc: 1}
	} else {
		if req.x, err = stridedVector(x, n, incx, stridex, batch); err != nil {
			return err
		}
		if req.y, err = stridedVector(y, n, incy, stridey, batch); err != nil {
			return err
		}
	}

	return engineFor[T](h.isWide()).dot(ctx, h, req, out)
}

func dotBatched[T Element](ctx context.Context, h *Handle, op string, conj bool, n int, x [][]T, incx int, y [][]T, incy int, batch int, out Output[T]) error {
	skip, err := quick(h, n, batch, out)
	if err != nil {
		return err
	}

	req := request[T]{op: op, n: n, batch: max(batch, 0), conj: conj}
	if skip {
		req.x = &dot.Vector[T]{Inc: 1}
	} else {
		if req.x, err = batchedVector(x, n, incx, batch); err != nil {
			return err
		}
		if req.y, err = batchedVector(y, n, incy, batch); err != nil {
			return err
		}
	}

	return engineFor[T](h.isWide()).dot(ctx, h, req, out)
}
