package stream

import "io"

// With runs fn and guarantees exactly one Close on every exit path,
// including panics. When fn succeeds the close error, if any, is
// returned; when fn fails its error wins and the close error is dropped.
func With(c io.Closer, fn func() error) (err error) {
	defer func() {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}()
	return fn()
}
