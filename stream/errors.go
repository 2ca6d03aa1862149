package stream

import (
	"errors"
	"fmt"
)

var (
	ErrClosed           = errors.New("stream: stream has been closed")
	ErrConcurrentAccess = errors.New("stream: stream used outside its owning goroutine")
	ErrNoProgress       = errors.New("stream: transport reported Ok without making progress")
	ErrUnflushedData    = errors.New("stream: stream closed with unflushed buffered data")
)

// InputError reports a fill transport that returned an outcome outside
// {Ok, EndOfData, WouldBlock}.
type InputError struct {
	Outcome Outcome
}

func (e *InputError) Error() string {
	return fmt.Sprintf("stream: fill transport returned invalid outcome %d", int(e.Outcome))
}

// OutputError reports a drain transport that returned an outcome outside
// {Ok, EndOfData, WouldBlock}.
type OutputError struct {
	Outcome Outcome
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("stream: drain transport returned invalid outcome %d", int(e.Outcome))
}
