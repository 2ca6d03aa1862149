package bufferedstream

import (
	"fmt"
	"reflect"

	"github.com/michipili/go-stream/stream"
)

// OutputStream serves element-at-a-time writes into an internal buffer,
// draining in bulk through the transport's Drain when full. The mirror
// of InputStream.
type OutputStream[T any] struct {
	drainer  stream.Drainer[T]
	buf      *stream.Buffer[T]
	capacity int
	closed   bool
	guard    stream.Guard
}

// NewOutputStream wraps a drain transport. A non-positive capacity
// falls back to the default buffer size.
func NewOutputStream[T any](drainer stream.Drainer[T], capacity int) *OutputStream[T] {
	if capacity <= 0 {
		capacity = __DefaultBufferSize
	}
	return &OutputStream[T]{
		drainer:  drainer,
		capacity: capacity,
	}
}

// BindOwner records the calling goroutine as the stream's owner.
func (s *OutputStream[T]) BindOwner() {
	s.guard.Bind()
}

// ElementType returns the element type tag of the stream.
func (s *OutputStream[T]) ElementType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (s *OutputStream[T]) ensureBuffer() *stream.Buffer[T] {
	if s.buf == nil {
		if m, ok := s.drainer.(stream.BufferMaker[T]); ok {
			s.buf = m.MakeBuffer(s.capacity)
		} else {
			s.buf = stream.NewBuffer[T](s.capacity)
		}
	}
	return s.buf
}

// drainBuffer runs one drain step against buf, validating the transport
// contract: an Ok step must consume at least one pending element. A
// fully drained buffer is rewound so its storage can be refilled.
func (s *OutputStream[T]) drainBuffer(buf *stream.Buffer[T]) (stream.Outcome, error) {
	before := buf.Pending()
	out, err := s.drainer.Drain(buf)
	if err != nil {
		return stream.Ok, err
	}
	switch out {
	case stream.Ok:
		if buf.Pending() >= before {
			return stream.Ok, stream.ErrNoProgress
		}
		if buf.Index >= buf.Length {
			buf.Reset()
		}
		return stream.Ok, nil
	case stream.EndOfData, stream.WouldBlock:
		return out, nil
	default:
		return stream.Ok, &stream.OutputError{Outcome: out}
	}
}

// Write stores one element. A write that finds the buffer still full
// from an earlier attempt triggers drain steps first; if a step does
// not report Ok the element is not stored and the caller retries the
// same element later. The write that fills the buffer attempts exactly
// one drain step right away; since the element is already stored, a
// non-Ok step leaves the backlog for the next write or flush and the
// write itself reports Ok. Space only opens up once the buffer drains
// completely, so a partially drained buffer keeps triggering drain
// steps.
func (s *OutputStream[T]) Write(v T) (stream.Outcome, error) {
	if err := s.guard.Check(); err != nil {
		return stream.Ok, err
	}
	if s.closed {
		return stream.Ok, stream.ErrClosed
	}

	buf := s.ensureBuffer()
	for buf.Length >= buf.Cap() {
		out, err := s.drainBuffer(buf)
		if err != nil {
			return stream.Ok, err
		}
		if out != stream.Ok {
			return out, nil
		}
	}
	buf.Data[buf.Length] = v
	buf.Length++
	if buf.Length >= buf.Cap() {
		if _, err := s.drainBuffer(buf); err != nil {
			return stream.Ok, err
		}
	}
	return stream.Ok, nil
}

// WriteSequence writes src element by element until it is exhausted or
// a non-Ok outcome appears, reporting partial progress in the count.
func (s *OutputStream[T]) WriteSequence(src []T) (int, stream.Outcome, error) {
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

// Flush drains until the buffer is empty. A non-Ok outcome from a
// drain step propagates unchanged; in particular a WouldBlock step
// makes Flush report WouldBlock, and the caller retries later.
func (s *OutputStream[T]) Flush() (stream.Outcome, error) {
	if err := s.guard.Check(); err != nil {
		return stream.Ok, err
	}
	if s.closed {
		return stream.Ok, stream.ErrClosed
	}
	for s.buf != nil && s.buf.Length > 0 {
		out, err := s.drainBuffer(s.buf)
		if err != nil || out != stream.Ok {
			return out, err
		}
	}
	return stream.Ok, nil
}

// Close flushes buffered data, then discards the buffer and marks the
// stream closed. When the flush cannot complete the stream is closed
// anyway and the condition surfaces as the returned error; callers that
// must not lose data keep calling Flush until Ok before closing.
// Closing twice is a no-op.
func (s *OutputStream[T]) Close() error {
	if s.closed {
		return nil
	}
	out, err := s.Flush()
	s.closed = true
	s.buf = nil
	if err != nil {
		return err
	}
	if out != stream.Ok {
		return fmt.Errorf("%w (drain reported %s)", stream.ErrUnflushedData, out)
	}
	return nil
}
