package outbox

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind identifies how a message is dispatched. It is decoded once at append
// time so the processor never has to parse type-tag strings.
type Kind string

const (
	KindEmail Kind = "email"
	KindEvent Kind = "event"
)

const (
	emailPrefix = "Email:"
	eventPrefix = "Event:"
)

// Message is a single row in the transactional outbox. Rows are appended in
// the same transaction as the business mutation they describe and mutated
// only by the processor. A message with a non-nil ProcessedAt is terminal
// and is never dispatched again.
type Message struct {
	ID           uuid.UUID
	Kind         Kind
	Type         string
	Content      json.RawMessage
	OccurredAt   time.Time
	ProcessedAt  *time.Time
	AttemptCount int
	LastError    *string
}

// NewEmailMessage creates a pending outbox message carrying an email payload.
func NewEmailMessage(name string, payload any) (*Message, error) {
	return newMessage(KindEmail, emailPrefix+name, payload)
}

// NewEventMessage creates a pending outbox message carrying a domain event.
func NewEventMessage(name string, payload any) (*Message, error) {
	return newMessage(KindEvent, eventPrefix+name, payload)
}

func newMessage(kind Kind, typeTag string, payload any) (*Message, error) {
	content, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal outbox payload: %w", err)
	}
	return &Message{
		ID:         uuid.New(),
		Kind:       kind,
		Type:       typeTag,
		Content:    content,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// Name returns the type tag without its kind prefix. For an event message it
// doubles as the broker routing key.
func (m *Message) Name() string {
	switch m.Kind {
	case KindEmail:
		return strings.TrimPrefix(m.Type, emailPrefix)
	case KindEvent:
		return strings.TrimPrefix(m.Type, eventPrefix)
	}
	return m.Type
}

// Pending reports whether the message still awaits dispatch.
func (m *Message) Pending() bool {
	return m.ProcessedAt == nil
}

// EmailPayload is the content schema for KindEmail messages.
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
