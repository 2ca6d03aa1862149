package bufferedstream

import (
	"fmt"

	"github.com/michipili/go-stream/stream"

	ringqueue "github.com/michipili/go-stream/ring-queue"
)

const __DefaultPendingQueueSize = 8

// MultiBufferedOutputStream decouples a fast producer from a slower
// sink by queueing whole completed buffers instead of blocking per
// element. Writes land in the underlying stream's buffer; when that
// buffer fills it is handed to the pending queue wholesale, cursors
// included, and a fresh buffer is installed, so write latency never
// depends on the sink's drain pace. Flush steps drain the queue head
// through the underlying transport one step at a time, oldest buffer
// first, before the underlying stream's own buffer is touched.
type MultiBufferedOutputStream[T any] struct {
	under   *OutputStream[T]
	pending *ringqueue.Queue[*stream.Buffer[T]]
	pool    *BufferPool[T]
	closed  bool
	guard   stream.Guard
}

// NewMultiBufferedOutputStream wraps an underlying buffered output
// stream. The wrapper takes ownership: callers must not flush or close
// the underlying stream themselves, or pending buffers would drain out
// of order.
func NewMultiBufferedOutputStream[T any](under *OutputStream[T]) *MultiBufferedOutputStream[T] {
	return &MultiBufferedOutputStream[T]{
		under: under,
		pool:  NewBufferPool[T](__DefaultPoolLimit),
	}
}

// BindOwner records the calling goroutine as the stream's owner.
func (s *MultiBufferedOutputStream[T]) BindOwner() {
	s.guard.Bind()
}

// PendingBuffers returns the number of completed buffers waiting to be
// drained by the underlying transport.
func (s *MultiBufferedOutputStream[T]) PendingBuffers() int {
	if s.pending == nil {
		return 0
	}
	return s.pending.Len()
}

func (s *MultiBufferedOutputStream[T]) queue() *ringqueue.Queue[*stream.Buffer[T]] {
	if s.pending == nil {
		s.pending = ringqueue.New[*stream.Buffer[T]](__DefaultPendingQueueSize, __DefaultPendingQueueSize)
	}
	return s.pending
}

// Write stores one element, never waiting on the sink. A full
// underlying buffer is enqueued as-is, drain cursor included, so an
// in-flight partial drain resumes where it stopped. A pooled buffer
// takes its place.
func (s *MultiBufferedOutputStream[T]) Write(v T) (stream.Outcome, error) {
	if err := s.guard.Check(); err != nil {
		return stream.Ok, err
	}
	if s.closed {
		return stream.Ok, stream.ErrClosed
	}

	buf := s.under.ensureBuffer()
	if buf.Length >= buf.Cap() {
		s.queue().Write(buf)
		buf = s.pool.Get(buf.Cap())
		s.under.buf = buf
	}
	buf.Data[buf.Length] = v
	buf.Length++
	return stream.Ok, nil
}

// WriteSequence writes src element by element. With a growing pending
// queue every write succeeds, so the count only falls short on error.
func (s *MultiBufferedOutputStream[T]) WriteSequence(src []T) (int, stream.Outcome, error) {
	n := 0
	for n < len(src) {
		out, err := s.Write(src[n])
		if err != nil {
			return n, out, err
		}
		if out != stream.Ok {
			return n, out, nil
		}
		n++
	}
	return n, stream.Ok, nil
}

// FlushStep performs exactly one drain step: against the oldest pending
// buffer when the queue is non-empty, otherwise against the underlying
// stream's own buffer. A fully drained pending buffer is popped and
// recycled. The outcome of the underlying drain step returns unchanged,
// making this the cooperative retry point for WouldBlock sinks.
func (s *MultiBufferedOutputStream[T]) FlushStep() (stream.Outcome, error) {
	if err := s.guard.Check(); err != nil {
		return stream.Ok, err
	}
	if s.closed {
		return stream.Ok, stream.ErrClosed
	}
	return s.flushStep()
}

func (s *MultiBufferedOutputStream[T]) flushStep() (stream.Outcome, error) {
	if s.pending == nil || s.pending.Len() == 0 {
		if s.under.buf == nil || s.under.buf.Length == 0 {
			return stream.Ok, nil
		}
		return s.under.drainBuffer(s.under.buf)
	}

	head, _ := s.pending.PeekFront()
	out, err := s.under.drainBuffer(head)
	if err == nil && out == stream.Ok && head.Length == 0 {
		s.pending.Read()
		s.pool.Put(head)
	}
	return out, err
}

func (s *MultiBufferedOutputStream[T]) drained() bool {
	queueEmpty := s.pending == nil || s.pending.Len() == 0
	bufEmpty := s.under.buf == nil || s.under.buf.Length == 0
	return queueEmpty && bufEmpty
}

// Flush drives flush steps until the pending queue and the underlying
// buffer are both empty, or a step reports a non-Ok outcome, which
// propagates unchanged.
func (s *MultiBufferedOutputStream[T]) Flush() (stream.Outcome, error) {
	if err := s.guard.Check(); err != nil {
		return stream.Ok, err
	}
	if s.closed {
		return stream.Ok, stream.ErrClosed
	}
	for !s.drained() {
		out, err := s.flushStep()
		if err != nil || out != stream.Ok {
			return out, err
		}
	}
	return stream.Ok, nil
}

// Close flushes pending buffers, closes the underlying stream and
// discards the queue and pool. As with OutputStream, an incomplete
// flush still closes the stream and surfaces through the returned
// error. Closing twice is a no-op.
func (s *MultiBufferedOutputStream[T]) Close() error {
	if s.closed {
		return nil
	}
	out, err := s.Flush()
	s.closed = true
	s.pending = nil
	s.pool = nil
	cerr := s.under.Close()
	if err != nil {
		return err
	}
	if out != stream.Ok {
		return fmt.Errorf("%w (drain reported %s)", stream.ErrUnflushedData, out)
	}
	return cerr
}
