package handler

import (
	"strings"

	"userbase/internal/user/models"
	"userbase/pkg/platform/validation"
)

// CreateUserRequest is the HTTP request body for POST /users.
type CreateUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Normalize trims whitespace and lowercases the email.
func (r *CreateUserRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
}

// Validate checks every constraint and reports all failing fields at once.
// Name is optional; when absent the service derives a display name from the
// email's local part.
func (r *CreateUserRequest) Validate() error {
	var c validation.Collector
	if r.Name != "" {
		c.MinLength("name", r.Name, 3)
		c.MaxLength("name", r.Name, validation.MaxNameLength)
	}
	c.Require("email", r.Email)
	c.Email("email", r.Email)
	c.MaxLength("email", r.Email, validation.MaxEmailLength)
	return c.Err()
}

// UpdateUserRequest is the HTTP request body for PUT /users/{id}. Absent
// fields keep their stored values.
type UpdateUserRequest struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
}

// Normalize trims whitespace and lowercases the email on present fields.
func (r *UpdateUserRequest) Normalize() {
	if r.Email != nil {
		*r.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	if r.Name != nil {
		*r.Name = strings.TrimSpace(*r.Name)
	}
}

// Validate checks every present field and reports all failures at once.
func (r *UpdateUserRequest) Validate() error {
	var c validation.Collector
	if r.Name != nil {
		c.Require("name", *r.Name)
		c.MinLength("name", *r.Name, 3)
		c.MaxLength("name", *r.Name, validation.MaxNameLength)
	}
	if r.Email != nil {
		c.Require("email", *r.Email)
		c.Email("email", *r.Email)
		c.MaxLength("email", *r.Email, validation.MaxEmailLength)
	}
	return c.Err()
}

// Patch converts the request into the domain partial update.
func (r *UpdateUserRequest) Patch() models.UserPatch {
	return models.UserPatch{Name: r.Name, Email: r.Email}
}
