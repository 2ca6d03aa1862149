package kafkastream

import (
	"github.com/Shopify/sarama"
	"github.com/rs/zerolog/log"

	"github.com/michipili/go-stream/stream"
)

// Source fills byte buffers from a partition consumer. A message that
// does not fit the buffer carries over to the next fill; no message
// ready means WouldBlock, a closed message channel means EndOfData.
type Source struct {
	consumer sarama.Consumer
	pc       sarama.PartitionConsumer
	leftover []byte
}

// NewSource connects a partition consumer from cfg. A negative offset
// starts from the oldest or newest message depending on cfg.FromOldest.
func NewSource(cfg *Config, offset int64) *Source {
	conf := NewConfig(cfg)
	client, err := sarama.NewClient(cfg.Brokers, conf)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to kafka")
	}
	consumer, err := sarama.NewConsumerFromClient(client)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create kafka consumer")
	}

	if offset < 0 {
		if cfg.FromOldest {
			offset = sarama.OffsetOldest
		} else {
			offset = sarama.OffsetNewest
		}
	}

	pc, err := consumer.ConsumePartition(cfg.Topic, cfg.Partition, offset)
	if err != nil {
		log.Fatal().Err(err).Msgf("failed to consume partition %v at offset %v", cfg.Partition, offset)
	}

	return &Source{
		consumer: consumer,
		pc:       pc,
	}
}

// NewSourceFromPartitionConsumer wraps an existing partition consumer;
// used by tests and by callers that manage the consumer themselves.
func NewSourceFromPartitionConsumer(pc sarama.PartitionConsumer) *Source {
	return &Source{pc: pc}
}

func (s *Source) Fill(b *stream.Buffer[byte]) (stream.Outcome, error) {
	for len(s.leftover) == 0 {
		select {
		case msg, ok := <-s.pc.Messages():
			if !ok {
				return stream.EndOfData, nil
			}
			// empty messages carry nothing for the buffer, skip them
			s.leftover = msg.Value
		default:
			return stream.WouldBlock, nil
		}
	}
	n := copy(b.Data, s.leftover)
	s.leftover = s.leftover[n:]
	b.Length = n
	return stream.Ok, nil
}

func (s *Source) Close() error {
	if s.pc != nil {
		if err := s.pc.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close partition consumer")
		}
		s.pc = nil
	}
	if s.consumer != nil {
		if err := s.consumer.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close kafka consumer")
		}
		s.consumer = nil
	}
	return nil
}
