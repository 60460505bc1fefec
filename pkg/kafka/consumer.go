// Package kafka publishes and consumes JSON events over segmentio/kafka-go.
// The directory uses it for search analytics: servers publish one event per
// search and aggregators consume the topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/config"
)

// MessageHandler processes one message. Returning an error leaves the message
// uncommitted.
type MessageHandler func(ctx context.Context, key []byte, value []byte) error

// HandleJSON adapts a typed callback to MessageHandler. Values that do not
// decode are logged and skipped so one bad message cannot stall the group.
func HandleJSON[T any](fn func(ctx context.Context, v T) error) MessageHandler {
	return func(ctx context.Context, key []byte, value []byte) error {
		v, err := DecodeJSON[T](value)
		if err != nil {
			slog.Error("skipping undecodable message", "key", string(key), "error", err)
			return nil
		}
		return fn(ctx, v)
	}
}

func DecodeJSON[T any](value []byte) (T, error) {
	var result T
	if err := json.Unmarshal(value, &result); err != nil {
		return result, fmt.Errorf("decoding kafka message: %w", err)
	}
	return result, nil
}

type Consumer struct {
	reader     *kafka.Reader
	handler    MessageHandler
	maxBackoff time.Duration
	logger     *slog.Logger
}

// NewConsumer joins cfg.ConsumerGroup on topic. New groups start at the latest
// offset; analytics only cares about searches made while it runs.
func NewConsumer(cfg config.KafkaConfig, topic string, handler MessageHandler) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       topic,
		GroupID:     cfg.ConsumerGroup,
		MinBytes:    1,
		MaxBytes:    1e6,
		MaxWait:     500 * time.Millisecond,
		StartOffset: kafka.LastOffset,
	})
	return &Consumer{
		reader:     r,
		handler:    handler,
		maxBackoff: 10 * time.Second,
		logger:     slog.Default().With("component", "kafka-consumer", "topic", topic),
	}
}

// Run consumes until ctx is cancelled and then closes the reader. Fetch
// errors back off exponentially so an unreachable broker is not hammered.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("consumer started")
	defer c.reader.Close()

	backoff := 100 * time.Millisecond
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopping", "reason", ctx.Err())
				return nil
			}
			c.logger.Error("failed to fetch message", "error", err, "retry_in", backoff)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, c.maxBackoff)
			continue
		}
		backoff = 100 * time.Millisecond

		log := c.logger.With("partition", msg.Partition, "offset", msg.Offset)
		if err := c.handler(ctx, msg.Key, msg.Value); err != nil {
			log.Error("failed to process message", "error", err)
			continue
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Error("failed to commit message", "error", err)
		}
	}
}
