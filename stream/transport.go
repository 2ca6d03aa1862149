package stream

// Filler is the capability an input transport supplies: refill the
// buffer in bulk. On Ok the buffer holds at least one new element
// (Index reset by the caller, Length set by the transport).
type Filler[T any] interface {
	Fill(*Buffer[T]) (Outcome, error)
}

// Drainer is the capability an output transport supplies: consume some
// or all of the pending content in one step, advancing Index.
type Drainer[T any] interface {
	Drain(*Buffer[T]) (Outcome, error)
}

// BufferMaker lets a transport provide its own buffers. Transports that
// do not implement it get a plain NewBuffer of the engine's capacity.
type BufferMaker[T any] interface {
	MakeBuffer(capacity int) *Buffer[T]
}

// Blocker is implemented by transports whose blocking mode can be
// inspected and changed. Transports default to blocking.
type Blocker interface {
	Blocking() bool
	SetBlocking(bool) error
}

// FillerFunc adapts a function to the Filler interface.
type FillerFunc[T any] func(*Buffer[T]) (Outcome, error)

func (f FillerFunc[T]) Fill(b *Buffer[T]) (Outcome, error) { return f(b) }

// DrainerFunc adapts a function to the Drainer interface.
type DrainerFunc[T any] func(*Buffer[T]) (Outcome, error)

func (f DrainerFunc[T]) Drain(b *Buffer[T]) (Outcome, error) { return f(b) }
