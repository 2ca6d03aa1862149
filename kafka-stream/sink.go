package kafkastream

import (
	"github.com/Shopify/sarama"
	"github.com/rs/zerolog/log"

	"github.com/michipili/go-stream/stream"
)

// Sink drains byte buffers as Kafka messages: one produced message per
// drain step, carrying everything pending in the buffer. The async
// producer's input channel decides readiness: when it is full the
// step reports WouldBlock and consumes nothing, so a slow broker
// back-pressures the stream instead of stalling it.
type Sink struct {
	producer sarama.AsyncProducer
	topic    string
}

// NewSink connects an async producer from cfg.
func NewSink(cfg *Config) *Sink {
	conf := NewConfig(cfg)
	producer, err := sarama.NewAsyncProducer(cfg.Brokers, conf)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create kafka producer")
	}
	return &Sink{
		producer: producer,
		topic:    cfg.Topic,
	}
}

// NewSinkFromProducer wraps an existing producer; used by tests and by
// callers that manage the producer lifecycle themselves.
func NewSinkFromProducer(producer sarama.AsyncProducer, topic string) *Sink {
	return &Sink{
		producer: producer,
		topic:    topic,
	}
}

func (s *Sink) Drain(b *stream.Buffer[byte]) (stream.Outcome, error) {
	if s.producer == nil {
		return stream.Ok, stream.ErrClosed
	}
	pending := b.Data[b.Index:b.Length]
	if len(pending) == 0 {
		return stream.Ok, nil
	}

	// the producer retains the value after the buffer is recycled
	message := &sarama.ProducerMessage{
		Topic: s.topic,
		Value: sarama.ByteEncoder(append([]byte(nil), pending...)),
	}

	select {
	case s.producer.Input() <- message:
		b.Index = b.Length
		return stream.Ok, nil
	case err := <-s.producer.Errors():
		return stream.Ok, err
	default:
		return stream.WouldBlock, nil
	}
}

func (s *Sink) Close() error {
	if s.producer == nil {
		return nil
	}
	if err := s.producer.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close kafka producer")
		return err
	}
	s.producer = nil
	return nil
}
