package stream

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "ok", Ok.String())
	assert.Equal(t, "end-of-data", EndOfData.String())
	assert.Equal(t, "would-block", WouldBlock.String())
	assert.Equal(t, "invalid-outcome", Outcome(42).String())

	assert.True(t, WouldBlock.Valid())
	assert.False(t, Outcome(42).Valid())
	assert.False(t, Outcome(-1).Valid())
}

func TestBufferCursors(t *testing.T) {
	b := NewBuffer[int](8)
	assert.Equal(t, 8, b.Cap())
	assert.Equal(t, 0, b.Pending())

	b.Length = 5
	b.Index = 2
	assert.Equal(t, 3, b.Pending())

	b.Reset()
	assert.Equal(t, 0, b.Index)
	assert.Equal(t, 0, b.Length)
	assert.Equal(t, "int", b.ElementType().String())
}

func TestBufferFrom(t *testing.T) {
	data := []byte("abc")
	b := NewBufferFrom(data)
	assert.Equal(t, 3, b.Length)
	assert.Equal(t, 0, b.Index)
	assert.Equal(t, 3, b.Pending())
}

type countingCloser struct {
	closes int
	err    error
}

func (c *countingCloser) Close() error {
	c.closes++
	return c.err
}

func TestWithClosesOnce(t *testing.T) {
	c := &countingCloser{}
	err := With(c, func() error { return nil })
	assert.Empty(t, err)
	assert.Equal(t, 1, c.closes)
}

func TestWithFnErrorWins(t *testing.T) {
	boom := errors.New("boom")
	c := &countingCloser{err: errors.New("close failed")}
	err := With(c, func() error { return boom })
	assert.Equal(t, boom, err)
	assert.Equal(t, 1, c.closes)
}

func TestWithCloseErrorSurfaces(t *testing.T) {
	closeErr := errors.New("close failed")
	c := &countingCloser{err: closeErr}
	err := With(c, func() error { return nil })
	assert.Equal(t, closeErr, err)
}

func TestWithClosesOnPanic(t *testing.T) {
	c := &countingCloser{}
	assert.Panics(t, func() {
		_ = With(c, func() error { panic("unwind") })
	})
	assert.Equal(t, 1, c.closes)
}

func TestGuardUnboundPasses(t *testing.T) {
	var g Guard
	assert.Empty(t, g.Check())
}

func TestGuardRejectsForeignGoroutine(t *testing.T) {
	var g Guard
	g.Bind()
	assert.Empty(t, g.Check())

	var wg sync.WaitGroup
	var foreign error
	wg.Add(1)
	go func() {
		defer wg.Done()
		foreign = g.Check()
	}()
	wg.Wait()
	assert.Equal(t, ErrConcurrentAccess, foreign)

	// handing the stream over makes the new goroutine the owner
	wg.Add(1)
	go func() {
		defer wg.Done()
		g.Rebind()
		foreign = g.Check()
	}()
	wg.Wait()
	assert.Empty(t, foreign)
	assert.Equal(t, ErrConcurrentAccess, g.Check())
}
