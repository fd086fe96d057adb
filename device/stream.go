package device

import (
	"context"
	"sync"
	"unsafe"

	"github.com/hupe1980/vecdot/internal/conv"
)

// op is one unit of stream work.
type op struct {
	name string
	run  func() error

	// always marks bookkeeping that runs even after the stream has failed.
	always bool

	done chan struct{}
}

// Stream is an ordered, asynchronous execution queue.
type Stream struct {
	dev   *Device
	queue chan op

	sendMu sync.RWMutex // guards queue sends against Close
	closed bool

	errMu sync.Mutex
	err   error

	finished chan struct{}
}

const streamQueueDepth = 64

func newStream(d *Device) *Stream {
	s := &Stream{
		dev:      d,
		queue:    make(chan op, streamQueueDepth),
		finished: make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *Stream) loop() {
	defer close(s.finished)

	for o := range s.queue {
		if o.run != nil && (o.always || s.Err() == nil) {
			if err := o.run(); err != nil && !o.always {
				s.setErr(err)
			}
		}
		if o.done != nil {
			close(o.done)
		}
	}
}

func (s *Stream) setErr(err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()

	if s.err == nil {
		s.err = err
	}
}

// Err returns the first asynchronous error of the stream without waiting.
func (s *Stream) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

// Device returns the device the stream belongs to.
func (s *Stream) Device() *Device { return s.dev }

// LaneWidth returns the lane width of the stream's device.
func (s *Stream) LaneWidth() int { return s.dev.cfg.LaneWidth }

func (s *Stream) enqueue(o op) error {
	s.sendMu.RLock()
	defer s.sendMu.RUnlock()

	if s.closed {
		return ErrStreamClosed
	}
	s.queue <- o
	return nil
}

// Synchronize waits until all work enqueued so far has executed and returns
// the first asynchronous error of the stream, if any.
func (s *Stream) Synchronize() error {
	done := make(chan struct{})
	if err := s.enqueue(op{name: "sync", done: done}); err != nil {
		<-s.finished
		if asyncErr := s.Err(); asyncErr != nil {
			return asyncErr
		}
		return err
	}
	<-done
	return s.Err()
}

// Close drains the queue and stops the stream. It is idempotent.
func (s *Stream) Close() {
	s.sendMu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.sendMu.Unlock()

	<-s.finished
	s.dev.forget(s)
}

// Zero enqueues a fill of dst with zero values.
func Zero[T any](s *Stream, dst []T) error {
	return s.enqueue(op{
		name: "memset",
		run: func() error {
			clear(dst)
			return nil
		},
	})
}

// CopyToHost enqueues a device-to-host copy of src into dst.
// The copy is paced by the device's copy bandwidth.
func CopyToHost[T any](s *Stream, dst, src []T) error {
	var zero T
	bytes, err := conv.ElemBytes(min(len(dst), len(src)), unsafe.Sizeof(zero))
	if err != nil {
		return err
	}

	return s.enqueue(op{
		name: "copy",
		run: func() error {
			if err := s.dev.rc.AcquireCopy(context.Background(), bytes); err != nil {
				return err
			}
			copy(dst, src)
			return nil
		},
	})
}
