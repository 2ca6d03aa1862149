package filestream

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/michipili/go-stream/stream"

	bufferedstream "github.com/michipili/go-stream/buffered-stream"
)

// FileSink drains byte buffers into a temp file next to the target
// path and renames it into place on Close, so the target either keeps
// its old content or receives the complete new content, never a torn
// write. A file lock rejects a second sink on the same target.
type FileSink struct {
	flock     *FLock
	f         *os.File
	fn        string
	tmpSuffix string
	done      bool
}

// NewFileSink prepares an atomic sink for the target path, creating
// parent directories as needed.
func NewFileSink(fn string) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Dir(fn), 0750); err != nil {
		return nil, err
	}

	flock := NewFLock(fn)
	if err := flock.Acquire(); err != nil {
		return nil, err
	}

	tmpSuffix := fmt.Sprintf(".tmp%v", time.Now().UnixNano())

	f, err := os.OpenFile(fn+tmpSuffix, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		flock.Release() // nolint
		flock.Remove()  // nolint
		return nil, err
	}

	return &FileSink{
		flock:     flock,
		f:         f,
		fn:        fn,
		tmpSuffix: tmpSuffix,
	}, nil
}

func (s *FileSink) Drain(b *stream.Buffer[byte]) (stream.Outcome, error) {
	if s.done {
		return stream.Ok, stream.ErrClosed
	}
	n, err := s.f.Write(b.Data[b.Index:b.Length])
	b.Index += n
	if err != nil {
		if errors.Is(err, syscall.EAGAIN) {
			return stream.WouldBlock, nil
		}
		return stream.Ok, err
	}
	return stream.Ok, nil
}

// Close syncs the temp file and renames it over the target. A second
// Close is a no-op.
func (s *FileSink) Close() error {
	if s.done {
		return nil
	}
	defer s.exit()
	if err := s.f.Sync(); err != nil {
		return err
	}
	if err := os.Rename(s.fn+s.tmpSuffix, s.fn); err != nil {
		log.Error().Err(err).Str("target", s.fn).Msg("failed to commit file sink")
		return err
	}
	return nil
}

// Abort discards the temp file, leaving the target untouched.
func (s *FileSink) Abort() {
	if s.done {
		return
	}
	s.exit()
}

func (s *FileSink) exit() {
	s.done = true
	s.f.Close()                   // nolint
	s.flock.Release()             // nolint
	s.flock.Remove()              // nolint
	os.Remove(s.fn + s.tmpSuffix) // nolint
}

// NewOutput builds a buffered byte output stream over an atomic file
// sink, returning both; close the stream first (it flushes), then the
// sink (it commits).
func NewOutput(fn string, capacity int) (*bufferedstream.OutputStream[byte], *FileSink, error) {
	sink, err := NewFileSink(fn)
	if err != nil {
		return nil, nil, err
	}
	return bufferedstream.NewOutputStream[byte](sink, capacity), sink, nil
}
