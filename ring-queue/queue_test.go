package ringqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/michipili/go-stream/stream"
)

func TestEmptyQueueWouldBlock(t *testing.T) {
	q := New[int](4, 4)

	_, out := q.Read()
	assert.Equal(t, stream.WouldBlock, out)
	_, out = q.PeekFront()
	assert.Equal(t, stream.WouldBlock, out)
	assert.Equal(t, stream.WouldBlock, q.ReplaceFront(7))
	assert.Equal(t, 0, q.Len())
}

func TestFIFO(t *testing.T) {
	q := New[string](4, 4)
	for _, s := range []string{"a", "b", "c"} {
		assert.Equal(t, stream.Ok, q.Write(s))
	}
	assert.Equal(t, 3, q.Len())

	for _, want := range []string{"a", "b", "c"} {
		v, out := q.Read()
		assert.Equal(t, stream.Ok, out)
		assert.Equal(t, want, v)
	}
	_, out := q.Read()
	assert.Equal(t, stream.WouldBlock, out)
}

func TestPeekAndReplaceFront(t *testing.T) {
	q := New[int](4, 4)
	q.Write(1)
	q.Write(2)

	v, out := q.PeekFront()
	assert.Equal(t, stream.Ok, out)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, q.Len())

	assert.Equal(t, stream.Ok, q.ReplaceFront(10))
	v, _ = q.Read()
	assert.Equal(t, 10, v)
	v, _ = q.Read()
	assert.Equal(t, 2, v)
}

func TestGrowthPreservesOrder(t *testing.T) {
	q := New[int](4, 4)
	for i := 1; i <= 4; i++ {
		q.Write(i)
	}
	assert.Equal(t, 4, q.Cap())

	// next write must grow first
	q.Write(5)
	assert.Equal(t, 8, q.Cap())
	assert.Equal(t, 5, q.Len())

	for i := 1; i <= 5; i++ {
		v, out := q.Read()
		assert.Equal(t, stream.Ok, out)
		assert.Equal(t, i, v)
	}
}

func TestGrowthAfterWraparound(t *testing.T) {
	q := New[int](4, 4)
	// advance the cursors so the full state wraps
	q.Write(0)
	q.Write(0)
	q.Read()
	q.Read()
	for i := 1; i <= 4; i++ {
		q.Write(i)
	}
	// full with wr == rd == 2; the tail segment sits before the write index
	q.Write(5)
	assert.Equal(t, 8, q.Cap())

	for i := 1; i <= 5; i++ {
		v, out := q.Read()
		assert.Equal(t, stream.Ok, out)
		assert.Equal(t, i, v)
	}
	_, out := q.Read()
	assert.Equal(t, stream.WouldBlock, out)
}

func TestGrowthWithWideWrappedTail(t *testing.T) {
	// growth increment smaller than the wrapped segment forces the
	// flat relayout path
	q := New[int](8, 2)
	q.Write(0)
	q.Write(0)
	q.Write(0)
	q.Write(0)
	for i := 0; i < 4; i++ {
		q.Read()
	}
	for i := 1; i <= 8; i++ {
		q.Write(i)
	}
	q.Write(9)
	assert.Equal(t, 10, q.Cap())

	for i := 1; i <= 9; i++ {
		v, out := q.Read()
		assert.Equal(t, stream.Ok, out)
		assert.Equal(t, i, v)
	}
}

func TestInvariantsUnderChurn(t *testing.T) {
	q := New[int](3, 3)
	next, expect := 0, 0
	for round := 0; round < 200; round++ {
		for i := 0; i < round%5; i++ {
			q.Write(next)
			next++
		}
		assert.GreaterOrEqual(t, q.Len(), 0)
		assert.LessOrEqual(t, q.Len(), q.Cap())
		for i := 0; i < round%3; i++ {
			v, out := q.Read()
			if out != stream.Ok {
				break
			}
			assert.Equal(t, expect, v)
			expect++
		}
	}
	for {
		v, out := q.Read()
		if out != stream.Ok {
			break
		}
		assert.Equal(t, expect, v)
		expect++
	}
	assert.Equal(t, next, expect)
}

func TestQueueOfBuffers(t *testing.T) {
	q := New[*stream.Buffer[byte]](2, 2)
	a := stream.NewBufferFrom([]byte("aa"))
	b := stream.NewBufferFrom([]byte("bb"))
	q.Write(a)
	q.Write(b)

	head, out := q.PeekFront()
	assert.Equal(t, stream.Ok, out)
	assert.Same(t, a, head)

	// partial drain of the head mutates it in place
	head.Index = 1
	head, _ = q.PeekFront()
	assert.Equal(t, 1, head.Index)

	v, _ := q.Read()
	assert.Same(t, a, v)
	v, _ = q.Read()
	assert.Same(t, b, v)
}

func TestDefaultSizing(t *testing.T) {
	q := New[int](0, 0)
	assert.Equal(t, 1024, q.Cap())
	q.Write(1)
	v, out := q.Read()
	assert.Equal(t, stream.Ok, out)
	assert.Equal(t, 1, v)
}
