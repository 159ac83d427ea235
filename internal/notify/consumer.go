package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seller-console/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// BackoffConfig is the consumer's explicit reconnect policy. MaxRetries of
// zero means retry forever.
type BackoffConfig struct {
	Min        time.Duration
	Max        time.Duration
	MaxRetries int
}

// ErrRetriesExhausted is returned when the consumer gives up reconnecting.
var ErrRetriesExhausted = errors.New("realtime consumer exhausted retries")

// Consumer wraps a Kafka reader on the store order event channel.
type Consumer struct {
	reader  *kafka.Reader
	backoff BackoffConfig
	logger  *zap.Logger
}

// NewConsumer creates a consumer for the given topic and group.
func NewConsumer(brokers []string, topic, groupID string, backoff BackoffConfig) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})

	if backoff.Min <= 0 {
		backoff.Min = 500 * time.Millisecond
	}
	if backoff.Max < backoff.Min {
		backoff.Max = backoff.Min
	}

	return &Consumer{reader: reader, backoff: backoff, logger: util.GetLogger()}
}

// MessageHandler is a function type for handling messages
type MessageHandler func(ctx context.Context, msg kafka.Message) error

// StartConsuming reads messages until the context is cancelled, retrying
// fetch failures with exponential backoff per the configured policy.
// Handler errors do not stop consumption: the event is only a refetch
// trigger, so a failed message is skipped, not replayed.
func (c *Consumer) StartConsuming(ctx context.Context, handler MessageHandler) error {
	c.logger.Info("Starting realtime consumer",
		zap.String("topic", c.reader.Config().Topic))

	delay := c.backoff.Min
	failures := 0

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Realtime consumer stopping")
			return ctx.Err()
		default:
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failures++
			if c.backoff.MaxRetries > 0 && failures > c.backoff.MaxRetries {
				return fmt.Errorf("%w after %d attempts: %v", ErrRetriesExhausted, failures-1, err)
			}
			c.logger.Warn("Fetch failed, backing off",
				zap.Duration("delay", delay),
				zap.Int("failures", failures),
				zap.Error(err))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
			if delay > c.backoff.Max {
				delay = c.backoff.Max
			}
			continue
		}

		failures = 0
		delay = c.backoff.Min

		if err := handler(ctx, msg); err != nil {
			c.logger.Error("Error handling message", zap.Error(err))
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("Error committing message", zap.Error(err))
		}
	}
}

// Close closes the consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}
