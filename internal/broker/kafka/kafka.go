// Package kafka implements the notification producer and subscriber on top of segmentio/kafka-go.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Config holds the Kafka connection settings.
type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer writes keyed messages to the notification topic. Messages with the same key land
// on the same partition.
type Producer struct {
	writer messageWriter
	topic  string
}

// NewProducer creates a Producer. Retries are left to the caller, so the writer makes a
// single attempt per message.
func NewProducer(config Config) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(config.Brokers...),
		Topic:                  config.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            1,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: writer, topic: config.Topic}
}

// Send writes one message keyed by key and waits for all in-sync replicas to acknowledge it.
func (p *Producer) Send(ctx context.Context, key string, value []byte) error {
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		return fmt.Errorf("failed to write message to topic %s: %w", p.topic, err)
	}
	return nil
}

// Close flushes pending writes and closes the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// Subscriber reads the notification topic as a member of a consumer group. Offsets are
// committed after the handler returns, whatever its result.
type Subscriber struct {
	reader messageReader
	logger *slog.Logger
}

// NewSubscriber creates a Subscriber.
func NewSubscriber(config Config, logger *slog.Logger) *Subscriber {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        config.Brokers,
		Topic:          config.Topic,
		GroupID:        config.GroupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
		StartOffset:    kafka.FirstOffset,
	})
	return &Subscriber{reader: reader, logger: logger}
}

// Subscribe blocks, handing each message to handle, until ctx is cancelled.
func (s *Subscriber) Subscribe(ctx context.Context, handle func(ctx context.Context, value []byte) error) error {
	for {
		msg, err := s.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("failed to fetch message: %w", err)
		}

		if err := handle(ctx, msg.Value); err != nil {
			s.logger.Error("notification handler failed",
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
				slog.Any("error", err),
			)
		}

		if err := s.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to commit offset %d: %w", msg.Offset, err)
		}
	}
}

// Close leaves the consumer group and closes the reader.
func (s *Subscriber) Close() error {
	return s.reader.Close()
}
