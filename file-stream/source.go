package filestream

import (
	"errors"
	"io"
	"os"
	"syscall"

	"github.com/michipili/go-stream/stream"

	bufferedstream "github.com/michipili/go-stream/buffered-stream"
)

// Source fills byte buffers from a file descriptor. End of file maps to
// EndOfData; EAGAIN from a descriptor in non-blocking mode maps to
// WouldBlock, so a pipe or socket feeding the stream can be polled
// cooperatively.
type Source struct {
	f        *os.File
	blocking bool
}

// NewSource wraps an open file. The descriptor stays owned by the
// caller; the source never closes it.
func NewSource(f *os.File) *Source {
	return &Source{f: f, blocking: true}
}

func (s *Source) Fill(b *stream.Buffer[byte]) (stream.Outcome, error) {
	n, err := s.f.Read(b.Data)
	if n > 0 {
		b.Length = n
		return stream.Ok, nil
	}
	switch {
	case err == nil:
		// zero-byte read without an error: nothing ready
		return stream.WouldBlock, nil
	case errors.Is(err, io.EOF):
		return stream.EndOfData, nil
	case errors.Is(err, syscall.EAGAIN):
		return stream.WouldBlock, nil
	default:
		return stream.Ok, err
	}
}

// Blocking reports the descriptor's blocking mode as last set through
// this source.
func (s *Source) Blocking() bool {
	return s.blocking
}

// SetBlocking flips the descriptor between blocking and non-blocking
// mode. In non-blocking mode an empty pipe makes Fill report
// WouldBlock instead of waiting.
func (s *Source) SetBlocking(block bool) error {
	if err := syscall.SetNonblock(int(s.f.Fd()), !block); err != nil {
		return err
	}
	s.blocking = block
	return nil
}

// NewInput builds a buffered byte input stream over f.
func NewInput(f *os.File, capacity int) *bufferedstream.InputStream[byte] {
	return bufferedstream.NewInputStream[byte](NewSource(f), capacity)
}
