package bufferedstream

import (
	"reflect"

	"github.com/michipili/go-stream/stream"
)

const __DefaultBufferSize = 4096

// InputStream serves element-at-a-time reads from an internal buffer,
// refilling in bulk through the transport's Fill when exhausted. The
// buffer is created lazily on first read: from the transport when it
// implements stream.BufferMaker, otherwise a plain allocation of the
// configured capacity.
type InputStream[T any] struct {
	filler   stream.Filler[T]
	buf      *stream.Buffer[T]
	capacity int
	closed   bool
	guard    stream.Guard
}

// NewInputStream wraps a fill transport. A non-positive capacity falls
// back to the default buffer size.
func NewInputStream[T any](filler stream.Filler[T], capacity int) *InputStream[T] {
	if capacity <= 0 {
		capacity = __DefaultBufferSize
	}
	return &InputStream[T]{
		filler:   filler,
		capacity: capacity,
	}
}

// BindOwner records the calling goroutine as the stream's owner; any
// later use from another goroutine fails with ErrConcurrentAccess.
func (s *InputStream[T]) BindOwner() {
	s.guard.Bind()
}

// ElementType returns the element type tag of the stream.
func (s *InputStream[T]) ElementType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (s *InputStream[T]) ensureBuffer() *stream.Buffer[T] {
	if s.buf == nil {
		if m, ok := s.filler.(stream.BufferMaker[T]); ok {
			s.buf = m.MakeBuffer(s.capacity)
		} else {
			s.buf = stream.NewBuffer[T](s.capacity)
		}
	}
	return s.buf
}

// Read returns the next element. When the buffer is exhausted it asks
// the transport for a refill; EndOfData and WouldBlock from the
// transport propagate verbatim without consuming anything.
func (s *InputStream[T]) Read() (T, stream.Outcome, error) {
	var zero T
	if err := s.guard.Check(); err != nil {
		return zero, stream.Ok, err
	}
	if s.closed {
		return zero, stream.Ok, stream.ErrClosed
	}

	buf := s.ensureBuffer()
	for buf.Index >= buf.Length {
		buf.Reset()
		out, err := s.filler.Fill(buf)
		if err != nil {
			return zero, stream.Ok, err
		}
		switch out {
		case stream.Ok:
			if buf.Length == 0 {
				return zero, stream.Ok, stream.ErrNoProgress
			}
		case stream.EndOfData, stream.WouldBlock:
			return zero, out, nil
		default:
			return zero, stream.Ok, &stream.InputError{Outcome: out}
		}
	}

	v := buf.Data[buf.Index]
	buf.Index++
	return v, stream.Ok, nil
}

// ReadSequence fills dst element by element until it is full or a
// non-Ok outcome appears. The count reports partial progress; EndOfData
// and WouldBlock short-circuit without losing it.
func (s *InputStream[T]) ReadSequence(dst []T) (int, stream.Outcome, error) {
	n := 0
	for n < len(dst) {
		v, out, err := s.Read()
		if err != nil {
			return n, out, err
		}
		if out != stream.Ok {
			return n, out, nil
		}
		dst[n] = v
		n++
	}
	return n, stream.Ok, nil
}

// Close discards the buffer and marks the stream closed. Closing twice
// is a no-op; reads after Close fail with ErrClosed.
func (s *InputStream[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.buf = nil
	return nil
}
