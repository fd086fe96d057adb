package vecdot

import (
	"context"

	"github.com/hupe1980/vecdot/internal/dot"
)

// Nrm2 computes the Euclidean norm sqrt(sum(|x[i]|^2)).
//
// The result type R is the real type of T: float32 for float32 and
// complex64, float64 for float64 and complex128, and T itself for the half
// precision types. n <= 0 or incx <= 0 writes a zero result.
func Nrm2[T Element, R Real](ctx context.Context, h *Handle, n int, x []T, incx int, out Output[R]) error {
	return nrm2StridedBatched(ctx, h, "nrm2", n, x, incx, 0, 1, out)
}

// Nrm2StridedBatched computes batch norms. Entry b starts at x[b*stridex].
func Nrm2StridedBatched[T Element, R Real](ctx context.Context, h *Handle, n int, x []T, incx, stridex int, batch int, out Output[R]) error {
	return nrm2StridedBatched(ctx, h, "nrm2_strided_batched", n, x, incx, stridex, batch, out)
}

// Nrm2Batched computes the norms of x[b].
func Nrm2Batched[T Element, R Real](ctx context.Context, h *Handle, n int, x [][]T, incx int, batch int, out Output[R]) error {
	if incx <= 0 {
		n = 0
	}

	eng, skip, err := nrm2Setup[T](h, n, batch, out)
	if err != nil {
		return err
	}

	req := request[T]{op: "nrm2_batched", n: n, batch: max(batch, 0), conj: true}
	if skip {
		req.x = &dot.Vector[T]{Inc: 1}
	} else if req.x, err = batchedVector(x, n, incx, batch); err != nil {
		return err
	}

	return eng.norm(ctx, h, req, out)
}

func nrm2StridedBatched[T Element, R Real](ctx context.Context, h *Handle, op string, n int, x []T, incx, stridex int, batch int, out Output[R]) error {
	if incx <= 0 {
		n = 0
	}

	eng, skip, err := nrm2Setup[T](h, n, batch, out)
	if err != nil {
		return err
	}

	req := request[T]{op: op, n: n, batch: max(batch, 0), conj: true}
	if skip {
		req.x = &dot.Vector[T]{Inc: 1}
	} else if req.x, err = stridedVector(x, n, incx, stridex, batch); err != nil {
		return err
	}

	return eng.norm(ctx, h, req, out)
}

func nrm2Setup[T Element, R Real](h *Handle, n, batch int, out Output[R]) (normEngine[T, R], bool, error) {
	skip, err := quick(h, n, batch, out)
	if err != nil {
		return nil, false, err
	}

	eng, err := normEngineFor[T, R](h.isWide())
	if err != nil {
		return nil, false, err
	}
	return eng, skip, nil
}
