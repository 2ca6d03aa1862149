package bufferedstream

import "github.com/michipili/go-stream/stream"

// ReadSequenceUntil fills dst like ReadSequence but stops with Ok
// immediately after writing an element equal to the terminator. The
// terminator is included in the count.
func ReadSequenceUntil[T comparable](s *InputStream[T], terminator T, dst []T) (int, stream.Outcome, error) {
	n := 0
	for n < len(dst) {
		v, out, err := s.Read()
		if err != nil {
			return n, out, err
		}
		if out != stream.Ok {
			return n, out, nil
		}
		dst[n] = v
		n++
		if v == terminator {
			return n, stream.Ok, nil
		}
	}
	return n, stream.Ok, nil
}

// ReadLine reads bytes up to a newline, which is consumed but not
// returned. EndOfData with a non-empty line returns the line; partial
// progress on WouldBlock is returned the same way, so the helper is
// meant for blocking transports.
func ReadLine(s *InputStream[byte]) ([]byte, stream.Outcome, error) {
	var line []byte
	for {
		v, out, err := s.Read()
		if err != nil {
			return line, out, err
		}
		if out != stream.Ok {
			return line, out, nil
		}
		if v == '\n' {
			return line, stream.Ok, nil
		}
		line = append(line, v)
	}
}
