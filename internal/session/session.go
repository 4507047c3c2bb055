// Package session resolves opaque bearer tokens to the session they
// identify. Issuance and the surrounding auth protocol live elsewhere; this
// package only answers "current session or absent".
package session

import (
	"context"
	"time"

	id "userbase/pkg/domain"
)

// Session is the server-side state behind an opaque bearer token.
type Session struct {
	ID        id.SessionID `json:"id"`
	UserID    id.UserID    `json:"user_id"`
	Token     string       `json:"token"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Expired reports whether the session has passed its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Checker resolves an opaque bearer token to its session. Unknown tokens
// report sentinel.ErrNotFound, expired ones sentinel.ErrExpired.
type Checker interface {
	Lookup(ctx context.Context, token string) (*Session, error)
}

// Store is a Checker that also manages session state.
type Store interface {
	Checker
	Put(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, token string) error
}
