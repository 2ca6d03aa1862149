package filestream

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michipili/go-stream/stream"
)

func TestFileSinkCommit(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "out.txt")

	out, sink, err := NewOutput(fn, 4)
	require.Empty(t, err)

	payload := []byte("hello buffered world")
	n, outc, err := out.WriteSequence(payload)
	require.Empty(t, err)
	assert.Equal(t, stream.Ok, outc)
	assert.Equal(t, len(payload), n)

	// nothing committed yet
	_, err = os.Stat(fn)
	assert.NotEmpty(t, err)

	require.Empty(t, out.Close())
	require.Empty(t, sink.Close())

	got, err := os.ReadFile(fn)
	require.Empty(t, err)
	assert.Equal(t, payload, got)
}

func TestFileSinkLockRejectsSecondWriter(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "out.txt")

	first, err := NewFileSink(fn)
	require.Empty(t, err)
	_, err = NewFileSink(fn)
	assert.NotEmpty(t, err)
	t.Log(err)

	first.Abort()
	_, err = os.Stat(fn)
	assert.NotEmpty(t, err)
}

func TestFileSinkAbortLeavesTargetUntouched(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "out.txt")
	require.Empty(t, os.WriteFile(fn, []byte("old"), 0644))

	out, sink, err := NewOutput(fn, 4)
	require.Empty(t, err)
	out.WriteSequence([]byte("new content"))
	out.Flush()
	sink.Abort()

	got, err := os.ReadFile(fn)
	require.Empty(t, err)
	assert.Equal(t, "old", string(got))
}

func TestLockSurfacesFlockFailure(t *testing.T) {
	l := NewFLock(filepath.Join(t.TempDir(), "out.txt"))
	require.Empty(t, os.WriteFile(l.File(), nil, 0600))

	// an O_PATH descriptor closes fine but flock rejects it with EBADF;
	// the caller must not be told it holds the lock
	const oPath = 0x200000
	fd, err := syscall.Open(l.File(), oPath, 0)
	require.Empty(t, err)
	l.fd = fd

	assert.Equal(t, syscall.EBADF, l.flock())
}

func TestSourceReadsFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "in.txt")
	require.Empty(t, os.WriteFile(fn, []byte("abc"), 0644))

	f, err := os.Open(fn)
	require.Empty(t, err)
	defer f.Close()

	in := NewInput(f, 2)
	var got []byte
	for {
		v, out, err := in.Read()
		require.Empty(t, err)
		if out == stream.EndOfData {
			break
		}
		require.Equal(t, stream.Ok, out)
		got = append(got, v)
	}
	assert.Equal(t, "abc", string(got))

	// exhausted stays exhausted
	_, out, err := in.Read()
	assert.Empty(t, err)
	assert.Equal(t, stream.EndOfData, out)
}

func TestNonBlockingPipeWouldBlock(t *testing.T) {
	r, w, err := os.Pipe()
	require.Empty(t, err)
	defer r.Close()
	defer w.Close()

	src := NewSource(r)
	assert.True(t, src.Blocking())
	require.Empty(t, src.SetBlocking(false))
	assert.False(t, src.Blocking())

	buf := stream.NewBuffer[byte](8)
	out, err := src.Fill(buf)
	require.Empty(t, err)
	assert.Equal(t, stream.WouldBlock, out)
	assert.Equal(t, 0, buf.Length)

	// data arrives, the retry succeeds
	_, err = w.Write([]byte("x"))
	require.Empty(t, err)
	out, err = src.Fill(buf)
	require.Empty(t, err)
	assert.Equal(t, stream.Ok, out)
	assert.Equal(t, 1, buf.Length)
	assert.Equal(t, byte('x'), buf.Data[0])
}
