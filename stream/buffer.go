package stream

import "reflect"

// Buffer is fixed-capacity typed storage plus two cursors. For input
// streams Index is the read cursor and Length the valid length; for
// output streams Index is the drain cursor and Length the written length.
//
// A buffer belongs to exactly one stream stage at a time. Handing the
// *Buffer to another stage transfers ownership wholesale, contents and
// cursors included; nothing is copied.
type Buffer[T any] struct {
	Data   []T
	Index  int
	Length int
}

// NewBuffer allocates an empty buffer with the given capacity.
func NewBuffer[T any](capacity int) *Buffer[T] {
	return &Buffer[T]{Data: make([]T, capacity)}
}

// NewBufferFrom wraps data as an already-filled buffer. The buffer
// aliases data; this is how a fixed sequence source supplies its whole
// sequence as the buffer without copying.
func NewBufferFrom[T any](data []T) *Buffer[T] {
	return &Buffer[T]{Data: data, Length: len(data)}
}

// Cap returns the buffer capacity in elements.
func (b *Buffer[T]) Cap() int {
	return len(b.Data)
}

// Pending returns the number of elements between the cursors: unread
// elements for input, undrained elements for output.
func (b *Buffer[T]) Pending() int {
	return b.Length - b.Index
}

// Reset rewinds both cursors without touching the storage.
func (b *Buffer[T]) Reset() {
	b.Index = 0
	b.Length = 0
}

// ElementType returns the element type tag of the buffer.
func (b *Buffer[T]) ElementType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
