// Package consumer reads tracking events off the Kafka stream and
// feeds each raw payload to an ingest sink. Decoding is the sink's
// job; the consumer only owns offsets.
package consumer

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/pagepulse/pagepulse/internal/config"
)

const defaultTopic = "pagepulse.events.raw"

// Sink receives raw event payloads from the stream. Flush is called
// once on shutdown, after the last payload.
type Sink interface {
	Process(ctx context.Context, payload []byte) error
	Flush()
}

// Consumer is a committing Kafka reader bound to one sink.
type Consumer struct {
	reader *kafka.Reader
	sink   Sink
}

// New creates a consumer for the configured events topic.
func New(cfg config.KafkaConfig, sink Sink) *Consumer {
	topic := cfg.Topics["events"]
	if topic == "" {
		topic = defaultTopic
	}

	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        cfg.Brokers,
			Topic:          topic,
			GroupID:        cfg.ConsumerGroup,
			MinBytes:       1e3,
			MaxBytes:       10e6,
			CommitInterval: 0, // commit synchronously, per message
			StartOffset:    kafka.LastOffset,
		}),
		sink: sink,
	}
}

// Start consumes until the context is canceled. Offsets are committed
// whether or not the sink accepted the payload, so a poison message
// cannot wedge the consumer group.
func (c *Consumer) Start(ctx context.Context) {
	cfg := c.reader.Config()
	log.Info().
		Str("topic", cfg.Topic).
		Str("group", cfg.GroupID).
		Msg("Kafka consumer started")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("Kafka consumer stopped")
				return
			}
			log.Error().Err(err).Msg("Failed to fetch message")
			continue
		}

		if err := c.sink.Process(ctx, msg.Value); err != nil {
			log.Error().
				Err(err).
				Int64("offset", msg.Offset).
				Msg("Failed to ingest event")
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			log.Error().Err(err).Int64("offset", msg.Offset).Msg("Failed to commit offset")
		}
	}
}

// Close flushes the sink and releases the reader.
func (c *Consumer) Close() error {
	c.sink.Flush()
	return c.reader.Close()
}
