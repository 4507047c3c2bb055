// Package domain holds the typed identifiers shared across the service.
//
// Wrapping uuid.UUID in distinct named types makes cross-assignment a compile
// error: a SessionID can never be passed where a UserID is expected.
package domain

import (
	"database/sql/driver"

	"github.com/google/uuid"

	dErrors "userbase/pkg/domain-errors"
)

// UserID identifies a user record.
type UserID uuid.UUID

// SessionID identifies an authenticated session.
type SessionID uuid.UUID

func (id UserID) String() string    { return uuid.UUID(id).String() }
func (id SessionID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether the ID is the nil UUID.
func (id UserID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// Text and SQL round-tripping delegate to the underlying UUID so typed IDs
// serialize as canonical UUID strings everywhere (JSON, logs, postgres).

func (id UserID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id *UserID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id UserID) Value() (driver.Value, error)  { return uuid.UUID(id).Value() }
func (id *UserID) Scan(src any) error           { return (*uuid.UUID)(id).Scan(src) }

func (id SessionID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id *SessionID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id SessionID) Value() (driver.Value, error)  { return uuid.UUID(id).Value() }
func (id *SessionID) Scan(src any) error           { return (*uuid.UUID)(id).Scan(src) }

// NewUserID generates a fresh user ID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewSessionID generates a fresh session ID.
func NewSessionID() SessionID { return SessionID(uuid.New()) }

// ParseUserID parses an external string into a UserID.
// IDs must be valid, non-empty, non-nil UUIDs; anything else is rejected at
// this trust boundary.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(u), nil
}

// ParseSessionID parses an external string into a SessionID.
func ParseSessionID(s string) (SessionID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return SessionID{}, err
	}
	return SessionID(u), nil
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return u, nil
}
