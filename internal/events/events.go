package events

import (
	"context"
	"time"
)

const (
	TypePersonCreated   = "person.created"
	TypePaymentRecorded = "payment.recorded"
	TypePaymentPaid     = "payment.paid"
)

// Event is the envelope published for every domain event
type Event struct {
	ID         string      `json:"event_id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// Publisher interface for event publishing (NATS)
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
	Close() error
}
