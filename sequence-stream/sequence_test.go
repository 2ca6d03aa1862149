package sequencestream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michipili/go-stream/stream"

	bufferedstream "github.com/michipili/go-stream/buffered-stream"
)

func TestRoundTrip(t *testing.T) {
	src := []byte("the quick brown fox jumps over the lazy dog")

	out, sink := NewOutput[byte](8)
	n, outc, err := out.WriteSequence(src)
	require.Empty(t, err)
	assert.Equal(t, stream.Ok, outc)
	assert.Equal(t, len(src), n)
	require.Empty(t, out.Close())

	assert.Equal(t, src, sink.Elements())

	// and back through a fixed source
	in := NewInput(sink.Elements())
	dst := make([]byte, len(src))
	n, outc, err = in.ReadSequence(dst)
	require.Empty(t, err)
	assert.Equal(t, stream.EndOfData, outc)
	assert.Equal(t, len(src), n)
	assert.Equal(t, src, dst)
}

func TestExhaustedSourceStaysExhausted(t *testing.T) {
	in := NewInput([]int{1})
	v, out, err := in.Read()
	require.Empty(t, err)
	assert.Equal(t, stream.Ok, out)
	assert.Equal(t, 1, v)

	for i := 0; i < 5; i++ {
		_, out, err := in.Read()
		assert.Empty(t, err)
		assert.Equal(t, stream.EndOfData, out)
	}
}

func TestEmptySource(t *testing.T) {
	in := NewInput([]string{})
	_, out, err := in.Read()
	assert.Empty(t, err)
	assert.Equal(t, stream.EndOfData, out)
}

func TestReadSequenceUntilTerminator(t *testing.T) {
	in := NewInput([]int{1, 2, 3})
	dst := make([]int, 8)

	n, out, err := bufferedstream.ReadSequenceUntil(in, 2, dst)
	require.Empty(t, err)
	assert.Equal(t, stream.Ok, out)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{1, 2}, dst[:n])
}

func TestSinkCollectsAcrossFlushes(t *testing.T) {
	out, sink := NewOutput[int](2)
	for i := 1; i <= 5; i++ {
		o, err := out.Write(i)
		require.Empty(t, err)
		assert.Equal(t, stream.Ok, o)
	}
	o, err := out.Flush()
	require.Empty(t, err)
	assert.Equal(t, stream.Ok, o)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, sink.Elements())
	assert.Equal(t, 5, sink.Len())

	// flush with nothing pending is a no-op
	o, _ = out.Flush()
	assert.Equal(t, stream.Ok, o)
	assert.Equal(t, 5, sink.Len())
}

func TestTypedElements(t *testing.T) {
	type record struct{ id int }
	out, sink := NewOutput[record](4)
	out.Write(record{1})
	out.Write(record{2})
	require.Empty(t, out.Close())
	assert.Equal(t, []record{{1}, {2}}, sink.Elements())
	assert.Equal(t, "sequencestream.record", out.ElementType().String())
}
