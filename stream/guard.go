package stream

import (
	"sync/atomic"

	"github.com/petermattis/goid"
)

// Guard detects a stream being used outside its owning goroutine.
// Streams are single-owner by contract; the guard does not synchronize
// anything, it only turns accidental sharing into an explicit error.
//
// The zero Guard is unbound and all checks pass. Bind from the goroutine
// that owns the stream to start checking; Rebind to hand the stream over.
type Guard struct {
	owner int64
}

// Bind records the calling goroutine as the owner.
func (g *Guard) Bind() {
	atomic.StoreInt64(&g.owner, goid.Get())
}

// Rebind transfers ownership to the calling goroutine.
func (g *Guard) Rebind() {
	g.Bind()
}

// Check returns ErrConcurrentAccess when the guard is bound and the
// caller is not the owner.
func (g *Guard) Check() error {
	owner := atomic.LoadInt64(&g.owner)
	if owner != 0 && owner != goid.Get() {
		return ErrConcurrentAccess
	}
	return nil
}
