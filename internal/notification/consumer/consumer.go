// Package consumer turns notification events received from the broker into delivered emails.
package consumer

import (
	"context"
	"log/slog"
	"time"

	"github.com/allisson/barter/internal/metrics"
	"github.com/allisson/barter/internal/notification/domain"
	"github.com/allisson/barter/internal/notification/template"
)

const metricsDomain = "notifications"

// Channel delivers a rendered message to a recipient.
type Channel interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Subscriber feeds raw broker messages to handle until ctx is cancelled. A message counts as
// consumed once handle returns.
type Subscriber interface {
	Subscribe(ctx context.Context, handle func(ctx context.Context, value []byte) error) error
}

// Renderer renders a named template.
type Renderer interface {
	Render(id string, vars template.Vars) (template.Message, error)
}

// Consumer validates, renders and delivers notification events. Every message is treated as
// consumed after one attempt: failures are logged and counted, never retried, and duplicates
// delivered by the broker are sent again.
type Consumer struct {
	subscriber      Subscriber
	renderer        Renderer
	channel         Channel
	signature       string
	logger          *slog.Logger
	businessMetrics metrics.BusinessMetrics
}

// New creates a Consumer.
func New(
	subscriber Subscriber,
	renderer Renderer,
	channel Channel,
	signature string,
	logger *slog.Logger,
	businessMetrics metrics.BusinessMetrics,
) *Consumer {
	return &Consumer{
		subscriber:      subscriber,
		renderer:        renderer,
		channel:         channel,
		signature:       signature,
		logger:          logger,
		businessMetrics: businessMetrics,
	}
}

// Run consumes messages until ctx is cancelled or the subscription fails.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("notification consumer started")
	err := c.subscriber.Subscribe(ctx, c.Handle)
	c.logger.Info("notification consumer stopped")
	return err
}

// Handle processes one raw message. It always returns nil so the message is acknowledged.
func (c *Consumer) Handle(ctx context.Context, value []byte) error {
	start := time.Now()
	status := c.process(ctx, value)
	c.businessMetrics.RecordOperation(ctx, metricsDomain, "deliver", status)
	c.businessMetrics.RecordDuration(ctx, metricsDomain, "deliver", time.Since(start), status)
	return nil
}

func (c *Consumer) process(ctx context.Context, value []byte) string {
	msg, err := domain.DecodeMessage(value)
	if err != nil {
		c.logger.Error("discarding undecodable notification message", slog.Any("error", err))
		return metrics.StatusDropped
	}

	if err := msg.Validate(); err != nil {
		c.logger.Error("discarding invalid notification message",
			slog.String("event_id", msg.ID),
			slog.String("type", msg.Type),
			slog.Any("error", err),
		)
		return metrics.StatusDropped
	}

	rendered, err := c.renderer.Render(template.EmailLayout, template.Vars{
		"subject":   msg.Subject,
		"body":      msg.Body,
		"to":        msg.To,
		"event_id":  msg.ID,
		"signature": c.signature,
	})
	if err != nil {
		c.logger.Error("failed to render notification", slog.String("event_id", msg.ID), slog.Any("error", err))
		return metrics.StatusError
	}

	if err := c.channel.Send(ctx, msg.To, rendered.Subject, rendered.Body); err != nil {
		c.logger.Error("failed to deliver notification",
			slog.String("event_id", msg.ID),
			slog.String("to", msg.To),
			slog.Any("error", err),
		)
		return metrics.StatusError
	}

	c.logger.Info("notification delivered", slog.String("event_id", msg.ID), slog.String("to", msg.To))
	return metrics.StatusSuccess
}
