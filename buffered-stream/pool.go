package bufferedstream

import (
	"github.com/gammazero/deque"

	"github.com/michipili/go-stream/stream"
)

const __DefaultPoolLimit = 16

// BufferPool is a free-list of drained buffers. The multi-buffered
// output stream cycles buffers between its pending queue and this pool
// so a steady producer stops allocating once the cycle warms up.
type BufferPool[T any] struct {
	q     deque.Deque
	limit int
}

// NewBufferPool creates a pool keeping at most limit idle buffers.
func NewBufferPool[T any](limit int) *BufferPool[T] {
	if limit <= 0 {
		limit = __DefaultPoolLimit
	}
	return &BufferPool[T]{limit: limit}
}

// Get returns an idle buffer of at least the requested capacity,
// allocating a fresh one when the pool has none. Undersized idle
// buffers are discarded.
func (p *BufferPool[T]) Get(capacity int) *stream.Buffer[T] {
	for p.q.Len() > 0 {
		b := p.q.PopFront().(*stream.Buffer[T])
		if b.Cap() >= capacity {
			return b
		}
	}
	return stream.NewBuffer[T](capacity)
}

// Put returns a buffer to the pool. Buffers beyond the limit are
// dropped for the collector.
func (p *BufferPool[T]) Put(b *stream.Buffer[T]) {
	if b == nil || p.q.Len() >= p.limit {
		return
	}
	b.Reset()
	p.q.PushBack(b)
}

// Len returns the number of idle buffers.
func (p *BufferPool[T]) Len() int {
	return p.q.Len()
}
