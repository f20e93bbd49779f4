// Package rabbitmq implements the notification producer and subscriber on a RabbitMQ topic
// exchange using amqp091-go.
package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// KeyHeader carries the event key, since routing keys are fixed per event type.
const KeyHeader = "x-event-key"

// Config holds the RabbitMQ connection and topology settings.
type Config struct {
	URL        string
	Exchange   string
	Queue      string
	RoutingKey string
}

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// Client owns one connection and channel, declares the topology on start and serves as both
// producer and subscriber. It does not reconnect: once the broker closes the connection every
// Send and Subscribe fails until the process is restarted.
type Client struct {
	conn    *amqp.Connection
	channel amqpChannel
	config  Config
	logger  *slog.Logger

	// amqp channels are not safe for concurrent publishing.
	publishMu sync.Mutex
}

// Dial connects to RabbitMQ and declares a durable topic exchange with a durable queue bound
// to the configured routing key.
func Dial(config Config, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch, config); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	go watchConnection(conn.NotifyClose(make(chan *amqp.Error, 1)), logger)

	logger.Info("rabbitmq connected",
		slog.String("exchange", config.Exchange),
		slog.String("queue", config.Queue),
		slog.String("routing_key", config.RoutingKey),
	)

	return &Client{conn: conn, channel: ch, config: config, logger: logger}, nil
}

// watchConnection logs an unexpected connection loss. The channel is closed without a value
// on a graceful Close.
func watchConnection(closed <-chan *amqp.Error, logger *slog.Logger) {
	amqpErr, ok := <-closed
	if !ok || amqpErr == nil {
		return
	}
	logger.Error("rabbitmq connection lost, restart required",
		slog.Int("code", amqpErr.Code),
		slog.String("reason", amqpErr.Reason),
		slog.Bool("server", amqpErr.Server),
	)
}

func declareTopology(ch *amqp.Channel, config Config) error {
	if err := ch.ExchangeDeclare(config.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", config.Exchange, err)
	}

	queue, err := ch.QueueDeclare(config.Queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", config.Queue, err)
	}

	if err := ch.QueueBind(queue.Name, config.RoutingKey, config.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", queue.Name, err)
	}
	return nil
}

// Send publishes a persistent JSON message to the exchange.
func (c *Client) Send(ctx context.Context, key string, value []byte) error {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	err := c.channel.PublishWithContext(ctx, c.config.Exchange, c.config.RoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Headers:      amqp.Table{KeyHeader: key},
		Body:         value,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to exchange %s: %w", c.config.Exchange, err)
	}
	return nil
}

// Subscribe consumes the queue with manual acknowledgements until ctx is cancelled. Every
// delivery is acked once handle returns.
func (c *Client) Subscribe(ctx context.Context, handle func(ctx context.Context, value []byte) error) error {
	deliveries, err := c.channel.Consume(c.config.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer on %s: %w", c.config.Queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("delivery channel for %s closed", c.config.Queue)
			}

			if err := handle(ctx, delivery.Body); err != nil {
				c.logger.Error("notification handler failed",
					slog.Uint64("delivery_tag", delivery.DeliveryTag),
					slog.Any("error", err),
				)
			}

			if err := delivery.Ack(false); err != nil {
				// The channel is closed during shutdown; the broker redelivers the message.
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("failed to ack delivery %d: %w", delivery.DeliveryTag, err)
			}
		}
	}
}

// Close closes the channel and the connection.
func (c *Client) Close() error {
	chErr := c.channel.Close()
	if c.conn == nil {
		return chErr
	}
	if err := c.conn.Close(); err != nil {
		return err
	}
	return chErr
}
