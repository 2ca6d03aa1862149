package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	bufferedstream "github.com/michipili/go-stream/buffered-stream"
	filestream "github.com/michipili/go-stream/file-stream"
	"github.com/michipili/go-stream/stream"
	"github.com/michipili/go-stream/throttle"
)

const (
	__DefaultBufSize   = 4096
	__DefaultChunkSize = 512
	__RetryInterval    = 10 * time.Millisecond
)

// streamcat copies stdin into a file through a multi-buffered output
// stream, committing the target atomically on success.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		target  = flag.String("o", "", "target file path")
		bufSize = flag.Int("buf", __DefaultBufSize, "buffer capacity in bytes")
		rate    = flag.Int("rate", 0, "limit the sink to n bytes per second, 0 means unlimited")
	)
	flag.Parse()
	if *target == "" {
		flag.Usage()
		os.Exit(2)
	}

	sink, err := filestream.NewFileSink(*target)
	if err != nil {
		log.Fatal().Err(err).Str("target", *target).Msg("cannot open file sink")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		sink.Abort()
		log.Warn().Str("signal", sig.String()).Msg("interrupted, target left untouched")
		os.Exit(1)
	}()

	var drainer stream.Drainer[byte] = sink
	if *rate > 0 {
		drainer = throttle.NewDrainer[byte](sink, *rate)
	}

	in := filestream.NewInput(os.Stdin, *bufSize)
	out := bufferedstream.NewMultiBufferedOutputStream(
		bufferedstream.NewOutputStream[byte](drainer, *bufSize))

	copied, err := pump(in, out)
	if err != nil {
		sink.Abort()
		log.Fatal().Err(err).Msg("copy failed, target left untouched")
	}
	if err := sink.Close(); err != nil {
		log.Fatal().Err(err).Str("target", *target).Msg("commit failed")
	}
	log.Info().Int64("bytes", copied).Str("target", *target).Msg("copy committed")
}

// pump moves every element from in to out, retrying WouldBlock on
// either side until the input reports EndOfData and the output is
// fully flushed. Both streams are closed before it returns.
func pump(in *bufferedstream.InputStream[byte], out *bufferedstream.MultiBufferedOutputStream[byte]) (int64, error) {
	var copied int64
	err := stream.With(in, func() error {
		return stream.With(out, func() error {
			chunk := make([]byte, __DefaultChunkSize)
			for {
				n, outc, err := in.ReadSequence(chunk)
				if err != nil {
					return err
				}
				if n > 0 {
					if _, _, err := out.WriteSequence(chunk[:n]); err != nil {
						return err
					}
					copied += int64(n)
				}
				switch outc {
				case stream.EndOfData:
					return settle(out)
				case stream.WouldBlock:
					// Input stalled, spend the wait on the backlog.
					if _, err := out.FlushStep(); err != nil {
						return err
					}
					time.Sleep(__RetryInterval)
				}
			}
		})
	})
	return copied, err
}

// settle flushes until the backlog is gone so that the final Close
// cannot surface unflushed data.
func settle(out *bufferedstream.MultiBufferedOutputStream[byte]) error {
	for {
		outc, err := out.Flush()
		if err != nil {
			return err
		}
		switch outc {
		case stream.Ok:
			return nil
		case stream.WouldBlock:
			time.Sleep(__RetryInterval)
		default:
			return &stream.OutputError{Outcome: outc}
		}
	}
}
