// Package events publishes ledger changes to downstream consumers after they
// are committed. Publishing never affects the outcome of a ledger write.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Type names a ledger change. It doubles as the AMQP routing key.
type Type string

const (
	ExpenseAdded        Type = "expense.added"
	ExpenseUpdated      Type = "expense.updated"
	ExpenseRemoved      Type = "expense.removed"
	SettlementRecorded  Type = "settlement.recorded"
	SettlementConfirmed Type = "settlement.confirmed"
)

// Event is a lightweight change notice. Consumers fetch current state by ID.
type Event struct {
	Type      Type      `json:"type"`
	GroupID   string    `json:"group_id"`
	EntityID  string    `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates an event stamped with the current time.
func New(t Type, groupID, entityID string) Event {
	return Event{
		Type:      t,
		GroupID:   groupID,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop discards every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }
