// Package channel provides the delivery channels used by the notification consumer.
package channel

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/allisson/barter/internal/errors"
)

// LogChannel writes notifications to the logger instead of delivering them.
type LogChannel struct {
	logger *slog.Logger
}

// NewLogChannel creates a LogChannel.
func NewLogChannel(logger *slog.Logger) *LogChannel {
	return &LogChannel{logger: logger}
}

// Send logs the notification at info level and never fails.
func (l *LogChannel) Send(ctx context.Context, to, subject, body string) error {
	l.logger.InfoContext(ctx, "notification",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}

// SendMailFunc matches net/smtp.SendMail.
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPConfig holds the SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPChannel delivers notifications as plain-text email through an SMTP relay.
type SMTPChannel struct {
	config   SMTPConfig
	sendMail SendMailFunc
	now      func() time.Time
}

// NewSMTPChannel creates an SMTPChannel that sends with net/smtp.
func NewSMTPChannel(config SMTPConfig) *SMTPChannel {
	return &SMTPChannel{config: config, sendMail: smtp.SendMail, now: time.Now}
}

// Send delivers one plain-text message to a single recipient. Recipients containing line
// breaks are rejected before anything is sent.
func (s *SMTPChannel) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(to, "\r\n") {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "recipient contains line breaks")
	}

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	if err := s.sendMail(addr, auth, s.config.From, []string{to}, s.buildMessage(to, subject, body)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func (s *SMTPChannel) buildMessage(to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + s.config.From + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + s.now().UTC().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}
