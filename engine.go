package vecdot

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unsafe"

	"github.com/hupe1980/vecdot/device"
	"github.com/hupe1980/vecdot/internal/conv"
	"github.com/hupe1980/vecdot/internal/dot"
	"github.com/hupe1980/vecdot/internal/half"
	"github.com/hupe1980/vecdot/internal/numerics"
	"github.com/hupe1980/vecdot/internal/scalar"
)

// request is one validated reduction.
type request[T any] struct {
	op    string
	n     int
	x, y  *dot.Vector[T] // nil y reduces x with itself
	batch int
	conj  bool
}

// engine runs reductions of T with one accumulation type.
type engine[T any] interface {
	dot(ctx context.Context, h *Handle, req request[T], out Output[T]) error
	workspaceElems(n, batch, nb int) int
	workspaceBytes(n, batch, nb int) (int64, error)
}

// normEngine runs norms of T into the real type R.
type normEngine[T, R any] interface {
	norm(ctx context.Context, h *Handle, req request[T], out Output[R]) error
}

type typed[T any, V scalar.Accum] struct {
	info scalar.Info[T, V]
}

func (e typed[T, V]) dot(ctx context.Context, h *Handle, req request[T], out Output[T]) error {
	return execute(ctx, h, req, e.info, e.info.Narrow, out)
}

func (e typed[T, V]) workspaceElems(n, batch, nb int) int {
	return workspaceElems(e.info, n, batch, nb)
}

func (e typed[T, V]) workspaceBytes(n, batch, nb int) (int64, error) {
	return workspaceBytes(e.info, n, batch, nb)
}

type normer[T any, V scalar.Accum, R any] struct {
	info  scalar.Info[T, V]
	store func(V) R
}

func (e normer[T, V, R]) norm(ctx context.Context, h *Handle, req request[T], out Output[R]) error {
	return execute(ctx, h, req, e.info, e.store, out)
}

func engineFor[T Element](wide bool) engine[T] {
	var e any

	var zero T
	switch any(zero).(type) {
	case float32:
		if wide {
			e = typed[float32, float64]{scalar.Float32Wide}
		} else {
			e = typed[float32, float32]{scalar.Float32}
		}
	case float64:
		e = typed[float64, float64]{scalar.Float64}
	case complex64:
		if wide {
			e = typed[complex64, complex128]{scalar.Complex64Wide}
		} else {
			e = typed[complex64, complex64]{scalar.Complex64}
		}
	case complex128:
		e = typed[complex128, complex128]{scalar.Complex128}
	case half.Float16:
		if wide {
			e = typed[half.Float16, float64]{scalar.Float16Wide}
		} else {
			e = typed[half.Float16, float32]{scalar.Float16}
		}
	case half.BFloat16:
		if wide {
			e = typed[half.BFloat16, float64]{scalar.BFloat16Wide}
		} else {
			e = typed[half.BFloat16, float32]{scalar.BFloat16}
		}
	}

	return e.(engine[T])
}

func toFloat32(v float64) float32 { return float32(v) }
func toFloat64(v float64) float64 { return v }

func normEngineFor[T Element, R Real](wide bool) (normEngine[T, R], error) {
	var e any

	var zero T
	switch any(zero).(type) {
	case float32:
		if wide {
			e = normer[float32, float64, float32]{scalar.Float32Wide, scalar.Sqrt[float64](toFloat32)}
		} else {
			e = normer[float32, float32, float32]{scalar.Float32, scalar.Sqrt[float32](toFloat32)}
		}
	case float64:
		e = normer[float64, float64, float64]{scalar.Float64, scalar.Sqrt[float64](toFloat64)}
	case complex64:
		if wide {
			e = normer[complex64, complex128, float32]{scalar.Complex64Wide, scalar.Sqrt[complex128](toFloat32)}
		} else {
			e = normer[complex64, complex64, float32]{scalar.Complex64, scalar.Sqrt[complex64](toFloat32)}
		}
	case complex128:
		e = normer[complex128, complex128, float64]{scalar.Complex128, scalar.Sqrt[complex128](toFloat64)}
	case half.Float16:
		if wide {
			e = normer[half.Float16, float64, half.Float16]{scalar.Float16Wide, scalar.Sqrt[float64](half.NewFloat16FromFloat64)}
		} else {
			e = normer[half.Float16, float32, half.Float16]{scalar.Float16, scalar.Sqrt[float32](half.NewFloat16FromFloat64)}
		}
	case half.BFloat16:
		if wide {
			e = normer[half.BFloat16, float64, half.BFloat16]{scalar.BFloat16Wide, scalar.Sqrt[float64](half.NewBFloat16FromFloat64)}
		} else {
			e = normer[half.BFloat16, float32, half.BFloat16]{scalar.BFloat16, scalar.Sqrt[float32](half.NewBFloat16FromFloat64)}
		}
	}

	ne, ok := e.(normEngine[T, R])
	if !ok {
		var r R
		return nil, fmt.Errorf("%w: norm of %T has no %T result", ErrInvalidArgument, zero, r)
	}
	return ne, nil
}

func workspaceElems[T any, V scalar.Accum](info scalar.Info[T, V], n, batch, nb int) int {
	return dot.WorkspaceLen(n, batch, nb, scalar.WIN(info.Size))
}

func workspaceBytes[T any, V scalar.Accum](info scalar.Info[T, V], n, batch, nb int) (int64, error) {
	if n <= 0 || batch <= 0 {
		return 0, nil
	}
	var v V
	return conv.ElemBytes(workspaceElems(info, n, batch, nb), unsafe.Sizeof(v))
}

// execute runs one validated request on the handle's stream.
func execute[T any, V scalar.Accum, O any](ctx context.Context, h *Handle, req request[T], info scalar.Info[T, V], store func(V) O, out Output[O]) (err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrInvalidHandle
	}

	if h.sizeQuery {
		bytes, err := workspaceBytes(info, req.n, req.batch, h.blockSize)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSize, err)
		}
		h.sizeBytes = max(h.sizeBytes, bytes)
		h.logger.LogSizeQuery(ctx, req.op, bytes)
		return ErrSizeQuery
	}

	start := time.Now()
	plan := dot.Plan{}
	placement := out.placement()
	defer func() {
		h.metrics.RecordReduction(req.op, req.n, req.batch, time.Since(start), err)
		h.logger.LogReduction(ctx, req.op, req.n, req.batch, plan.Kernel, plan.Blocks, placement.String(), err)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := checkNumerics(ctx, h, req, info); err != nil {
		return err
	}

	ws, release, err := allocWorkspace[V, O](h, info, req, placement)
	if err != nil {
		return translateError(err)
	}

	params := dot.Params[T, V, O]{
		N:         req.n,
		X:         req.x,
		Y:         req.y,
		Batch:     req.batch,
		Conj:      req.conj,
		BlockSize: h.blockSize,
		Info:      info,
		Store:     store,
	}

	plan, err = dot.Run(dot.StreamQueue[O]{S: h.stream}, params,
		dot.Output[O]{Dst: out.slice(), Placement: placement}, ws, false)
	release()

	return translateError(err)
}

// allocWorkspace allocates the partials and, for host results, the staging
// slots of a reduction. release frees them once all work issued before it
// on the stream has executed.
func allocWorkspace[V scalar.Accum, O any, T any](h *Handle, info scalar.Info[T, V], req request[T], placement dot.Placement) (dot.Workspace[V, O], func(), error) {
	ws := dot.Workspace[V, O]{}
	if req.n <= 0 || req.batch <= 0 {
		return ws, func() {}, nil
	}

	blocks := dot.BlockCount(req.n, h.blockSize, scalar.WIN(info.Size))
	total, err := conv.MulInt(blocks, req.batch)
	if err != nil {
		return ws, nil, fmt.Errorf("%w: %w", device.ErrOutOfMemory, err)
	}

	partials, err := device.Alloc[V](h.dev, total)
	if err != nil {
		return ws, nil, err
	}
	ws.Partials = partials.Data()

	var staging *device.Buffer[O]
	if placement == dot.OnHost {
		staging, err = device.Alloc[O](h.dev, req.batch)
		if err != nil {
			partials.Free()
			return ws, nil, err
		}
		ws.Staging = staging.Data()
	}

	release := func() {
		if err := device.FreeAsync(h.stream, partials); err != nil {
			partials.Free()
		}
		if staging != nil {
			if err := device.FreeAsync(h.stream, staging); err != nil {
				staging.Free()
			}
		}
	}
	return ws, release, nil
}

// checkNumerics scans the inputs of req according to the handle's mode.
func checkNumerics[T any, V scalar.Accum](ctx context.Context, h *Handle, req request[T], info scalar.Info[T, V]) error {
	if h.numerics == NumericsOff || req.n <= 0 || req.batch <= 0 {
		return nil
	}

	report := numerics.Scan(req.n, req.batch, req.x, info.Bad, info.Denormal)
	if req.y != nil && !req.x.Same(req.y) {
		report.Merge(numerics.Scan(req.n, req.batch, req.y, info.Bad, info.Denormal))
	}
	if !report.HasInvalid() && report.Denormal.IsEmpty() {
		return nil
	}

	if report.HasInvalid() {
		h.metrics.RecordNumerics(int(report.Invalid.GetCardinality()))
	}

	level := slog.LevelInfo
	if h.numerics >= NumericsWarn {
		level = slog.LevelWarn
	}
	h.logger.LogNumerics(ctx, level, req.op,
		report.Invalid.GetCardinality(), uint64(report.BadElements), report.Denormal.GetCardinality())

	if h.numerics == NumericsFail && report.HasInvalid() {
		return &NumericsError{Op: req.op, Entries: report.Invalid, Elements: report.BadElements}
	}
	return nil
}
