package filestream

import (
	"errors"
	"os"
	"syscall"
)

// FLock guards a sink's target file so two writers cannot race the
// same path.
type FLock struct {
	fn string
	fd int
}

// NewFLock creates a lock for the given target path.
func NewFLock(fn string) *FLock {
	return &FLock{
		fn: fn + ".lock",
	}
}

// File returns the lock file path.
func (l *FLock) File() string {
	return l.fn
}

// Acquire takes the lock without blocking; a held lock is an error.
func (l *FLock) Acquire() error {
	if err := l.open(); err != nil {
		return err
	}
	return l.flock()
}

func (l *FLock) flock() error {
	if err := syscall.Flock(l.fd, syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		if _err := syscall.Close(l.fd); _err != nil {
			return _err
		}
		if err == syscall.EWOULDBLOCK {
			return errors.New("filestream: target is locked by another writer")
		}
		return err
	}
	return nil
}

func (l *FLock) open() error {
	fd, err := syscall.Open(l.fn, syscall.O_CREAT|syscall.O_RDONLY, 0600)
	if err != nil {
		return err
	}
	l.fd = fd
	return nil
}

// Release drops the lock.
func (l *FLock) Release() error {
	return syscall.Close(l.fd)
}

// Remove deletes the lock file.
func (l *FLock) Remove() error {
	return os.Remove(l.fn)
}
