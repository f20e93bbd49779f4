// Package domain defines the notification events exchanged between the trade-offer
// service and the notification worker, and their JSON wire representation.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/barter/internal/errors"
	appValidation "github.com/allisson/barter/internal/validation"
)

// TypeEmailSend is the only event type carried on the notification topic.
const TypeEmailSend = "email.send"

// ErrMalformedMessage indicates a broker message that is not a decodable notification event.
var ErrMalformedMessage = apperrors.Wrap(apperrors.ErrInvalidInput, "malformed notification message")

// EmailPayload is the notification request carried by an email.send event.
type EmailPayload struct {
	To      string
	Subject string
	Body    string
}

// Event is a domain event emitted by a state-changing operation.
type Event struct {
	ID        string
	Type      string
	Timestamp time.Time
	Payload   EmailPayload
}

// NewEmailEvent builds an email.send event with a fresh identifier and the current UTC time.
func NewEmailEvent(to, subject, body string) Event {
	return Event{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Type:      TypeEmailSend,
		Timestamp: time.Now().UTC(),
		Payload: EmailPayload{
			To:      to,
			Subject: subject,
			Body:    body,
		},
	}
}

// Key returns the broker partition key: the recipient's email address.
func (e Event) Key() string {
	return e.Payload.To
}

// Message converts the event into its wire representation.
func (e Event) Message() Message {
	return Message{
		Type:      e.Type,
		ID:        e.ID,
		Timestamp: e.Timestamp.UTC().Format(time.RFC3339Nano),
		To:        e.Payload.To,
		Subject:   e.Payload.Subject,
		Body:      e.Payload.Body,
	}
}

// Encode serializes the event as UTF-8 JSON.
func (e Event) Encode() ([]byte, error) {
	data, err := json.Marshal(e.Message())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode notification event")
	}
	return data, nil
}

// Message is the flat JSON object placed on the notification topic.
type Message struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// DecodeMessage parses a broker payload. It does not validate field contents.
func DecodeMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, apperrors.Wrap(ErrMalformedMessage, err.Error())
	}
	return &msg, nil
}

// Validate checks that the message is a well-formed email.send event.
func (m *Message) Validate() error {
	err := validation.ValidateStruct(m,
		validation.Field(&m.Type,
			validation.Required.Error("type is required"),
			validation.In(TypeEmailSend).Error("unsupported event type"),
		),
		validation.Field(&m.ID,
			validation.Required.Error("id is required"),
			appValidation.NotBlank,
		),
		validation.Field(&m.Timestamp,
			validation.Required.Error("timestamp is required"),
			appValidation.RFC3339,
		),
		validation.Field(&m.To,
			validation.Required.Error("to is required"),
			appValidation.Email,
		),
		validation.Field(&m.Subject,
			validation.Required.Error("subject is required"),
			appValidation.NotBlank,
		),
		validation.Field(&m.Body,
			validation.Required.Error("body is required"),
			appValidation.NotBlank,
		),
	)
	return appValidation.WrapValidationError(err)
}

// Event converts a validated message back into a domain event.
func (m *Message) Event() (Event, error) {
	timestamp, err := time.Parse(time.RFC3339Nano, m.Timestamp)
	if err != nil {
		return Event{}, apperrors.Wrap(ErrMalformedMessage, "invalid timestamp")
	}
	return Event{
		ID:        m.ID,
		Type:      m.Type,
		Timestamp: timestamp,
		Payload: EmailPayload{
			To:      m.To,
			Subject: m.Subject,
			Body:    m.Body,
		},
	}, nil
}
