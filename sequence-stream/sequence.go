// Package sequencestream supplies the in-memory transports: a fixed
// source whose whole sequence is the buffer, handed over once, and a
// growable sink whose drain step appends to a backing slice instead of
// draining anywhere.
package sequencestream

import (
	"github.com/michipili/go-stream/stream"

	bufferedstream "github.com/michipili/go-stream/buffered-stream"
)

// Source is the fixed input transport. MakeBuffer supplies the whole
// sequence as an already-filled buffer, so Fill has nothing left to
// deliver and always reports EndOfData.
type Source[T any] struct {
	data []T
}

// NewSource wraps data as an input transport. The buffer aliases data;
// the caller must not mutate it while the stream is reading.
func NewSource[T any](data []T) *Source[T] {
	return &Source[T]{data: data}
}

func (s *Source[T]) MakeBuffer(capacity int) *stream.Buffer[T] {
	return stream.NewBufferFrom(s.data)
}

func (s *Source[T]) Fill(b *stream.Buffer[T]) (stream.Outcome, error) {
	return stream.EndOfData, nil
}

// NewInput builds a buffered input stream over a fixed sequence.
func NewInput[T any](data []T) *bufferedstream.InputStream[T] {
	capacity := len(data)
	if capacity == 0 {
		capacity = 1
	}
	return bufferedstream.NewInputStream[T](NewSource(data), capacity)
}

// Sink is the growable output transport. Drain consumes everything
// pending in one step by appending it to the backing slice, growing as
// needed; the data only ever needs to live in memory, so a flush never
// has real work beyond that single append.
type Sink[T any] struct {
	data []T
}

// NewSink creates an empty growable sink.
func NewSink[T any]() *Sink[T] {
	return &Sink[T]{}
}

func (k *Sink[T]) Drain(b *stream.Buffer[T]) (stream.Outcome, error) {
	k.data = append(k.data, b.Data[b.Index:b.Length]...)
	b.Index = b.Length
	return stream.Ok, nil
}

// Elements returns the collected sequence. The slice is the sink's
// backing storage; copy it before mutating.
func (k *Sink[T]) Elements() []T {
	return k.data
}

// Len returns the number of collected elements.
func (k *Sink[T]) Len() int {
	return len(k.data)
}

// NewOutput builds a buffered output stream over a fresh growable
// sink, returning both so the caller can harvest the elements.
func NewOutput[T any](capacity int) (*bufferedstream.OutputStream[T], *Sink[T]) {
	sink := NewSink[T]()
	return bufferedstream.NewOutputStream[T](sink, capacity), sink
}
