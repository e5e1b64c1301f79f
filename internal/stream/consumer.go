// Package stream consumes ticket events from Kafka and hands each message to
// the ticket processor. Messages are committed whether or not processing
// succeeds so a poison message cannot stall the partition.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/respondo/internal/common"
)

// Handler processes one raw message value.
type Handler interface {
	ProcessMessage(ctx context.Context, value []byte) error
}

// Consumer reads from a consumer group one message at a time. Sequential
// fetch/process/commit keeps ordering within a partition and gives natural
// backpressure against the downstream HTTP calls.
type Consumer struct {
	reader  *kafka.Reader
	handler Handler
	logger  arbor.ILogger
}

// NewConsumer creates a Kafka consumer for the configured topic and group.
func NewConsumer(cfg *common.KafkaConfig, handler Handler, logger arbor.ILogger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.GroupID,
		Topic:   cfg.Topic,
		Dialer: &kafka.Dialer{
			ClientID:  cfg.ClientID,
			Timeout:   10 * time.Second,
			DualStack: true,
		},
	})

	return &Consumer{
		reader:  reader,
		handler: handler,
		logger:  logger,
	}
}

// Run consumes messages until ctx is cancelled or the reader is closed.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info().
		Str("topic", c.reader.Config().Topic).
		Str("group", c.reader.Config().GroupID).
		Msg("Kafka consumer started")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				c.logger.Info().Msg("Kafka consumer stopped")
				return nil
			}
			return fmt.Errorf("failed to fetch message: %w", err)
		}

		if err := c.handler.ProcessMessage(ctx, msg.Value); err != nil {
			c.logger.Error().
				Err(err).
				Str("topic", msg.Topic).
				Int("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Msg("Failed to process ticket event")
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("failed to commit message: %w", err)
		}
	}
}

// Close shuts down the underlying reader, unblocking any in-flight fetch.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
