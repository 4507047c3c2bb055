// Package audit captures user lifecycle events emitted from domain logic.
// Events are transport-agnostic so sinks can fan out: an in-memory store for
// tests and development, a Kafka sink for production pipelines.
package audit

import (
	"context"
	"time"

	id "userbase/pkg/domain"
)

// Action names what happened to a record.
type Action string

const (
	ActionUserCreated Action = "user_created"
	ActionUserUpdated Action = "user_updated"
	ActionUserDeleted Action = "user_deleted"
)

// Event is emitted from domain logic to capture key actions.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    id.UserID `json:"user_id"`
	Action    Action    `json:"action"`
	// Email enriches deletion events, where the record itself is gone.
	Email string `json:"email,omitempty"`
	// RequestID correlates the event with the HTTP request that caused it.
	RequestID string `json:"request_id,omitempty"`
}

// Sink accepts events for delivery. Implementations decide durability.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Store is a sink that can also be queried, used by tests and the dev setup.
type Store interface {
	Sink
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}
