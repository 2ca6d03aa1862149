package throttle

import (
	"time"

	"github.com/juju/ratelimit"

	"github.com/michipili/go-stream/stream"
)

// Drainer caps the element rate of a wrapped drain transport. Instead
// of sleeping on an empty token bucket it reports WouldBlock, which is
// what a cooperatively retried stream expects from a slow sink.
type Drainer[T any] struct {
	next   stream.Drainer[T]
	bucket *ratelimit.Bucket
}

// NewDrainer wraps next with a budget of perSecond elements and a
// burst of the same size.
func NewDrainer[T any](next stream.Drainer[T], perSecond int) *Drainer[T] {
	return &Drainer[T]{
		next:   next,
		bucket: newBucket(perSecond),
	}
}

func (d *Drainer[T]) Drain(b *stream.Buffer[T]) (stream.Outcome, error) {
	pending := b.Pending()
	allowed := int(d.bucket.TakeAvailable(int64(pending)))
	if allowed == 0 {
		return stream.WouldBlock, nil
	}
	if allowed >= pending {
		return d.next.Drain(b)
	}

	// drain through a clamped view, then move the real cursor.
	// tokens spent on a step the inner transport refuses are forfeit.
	view := &stream.Buffer[T]{Data: b.Data, Index: b.Index, Length: b.Index + allowed}
	out, err := d.next.Drain(view)
	b.Index = view.Index
	return out, err
}

// Filler caps the element rate of a wrapped fill transport the same
// way: an empty bucket reports WouldBlock instead of waiting.
type Filler[T any] struct {
	next   stream.Filler[T]
	bucket *ratelimit.Bucket
}

// NewFiller wraps next with a budget of perSecond elements.
func NewFiller[T any](next stream.Filler[T], perSecond int) *Filler[T] {
	return &Filler[T]{
		next:   next,
		bucket: newBucket(perSecond),
	}
}

func (f *Filler[T]) Fill(b *stream.Buffer[T]) (stream.Outcome, error) {
	allowed := int(f.bucket.TakeAvailable(int64(b.Cap())))
	if allowed == 0 {
		return stream.WouldBlock, nil
	}
	if allowed >= b.Cap() {
		return f.next.Fill(b)
	}

	view := &stream.Buffer[T]{Data: b.Data[:allowed]}
	out, err := f.next.Fill(view)
	b.Length = view.Length
	return out, err
}

func newBucket(perSecond int) *ratelimit.Bucket {
	if perSecond <= 0 {
		perSecond = 1
	}
	interval := time.Second / time.Duration(perSecond)
	if interval <= 0 {
		interval = time.Nanosecond
	}
	return ratelimit.NewBucket(interval, int64(perSecond))
}
