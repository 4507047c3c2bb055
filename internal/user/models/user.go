package models

import (
	"time"

	id "userbase/pkg/domain"
	dErrors "userbase/pkg/domain-errors"
)

// User is a single directory record.
//
// Invariants:
//   - ID is non-nil and immutable after construction
//   - Email is non-empty and unique across the store (the natural key)
//   - Name is non-empty and at most 128 characters
//   - CreatedAt is immutable after construction
//
// Mutation happens only through Apply with a UserPatch; there is no other
// write path.
type User struct {
	ID        id.UserID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserPatch is a partial update. Nil fields keep their stored values.
type UserPatch struct {
	Name  *string
	Email *string
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil
}

// NewUser constructs a user, enforcing construction invariants.
func NewUser(userID id.UserID, email, name string, now time.Time) (*User, error) {
	if userID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user id cannot be nil")
	}
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user email cannot be empty")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user name must be 128 characters or less")
	}
	return &User{
		ID:        userID,
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Apply merges a patch into the user and stamps the update time.
func (u *User) Apply(patch UserPatch, now time.Time) {
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	u.UpdatedAt = now
}

// Clone returns a copy so stores never hand out aliased pointers.
func (u *User) Clone() *User {
	c := *u
	return &c
}
