// Package validation provides the field-error collecting toolkit request DTOs
// build their Validate methods on. Every constraint is checked; nothing
// short-circuits at the first failure, so a single response can report every
// problem with the input at once.
package validation

import (
	"fmt"
	"regexp"

	dErrors "userbase/pkg/domain-errors"
)

// Size limits applied to user-supplied fields.
const (
	MaxNameLength  = 128
	MaxEmailLength = 254
)

// emailPattern is deliberately loose: one @, no whitespace, dotted domain.
// Real deliverability is the mail provider's problem, not ours.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Collector accumulates field errors in check order.
//
// The zero value is ready to use:
//
//	var c validation.Collector
//	c.Require("name", r.Name)
//	c.Email("email", r.Email)
//	return c.Err()
type Collector struct {
	fields []dErrors.FieldError
}

// Add records a failing constraint on a field.
func (c *Collector) Add(field, message string) {
	c.fields = append(c.fields, dErrors.FieldError{Field: field, Message: message})
}

// Addf records a failing constraint with a formatted message.
func (c *Collector) Addf(field, format string, args ...any) {
	c.Add(field, fmt.Sprintf(format, args...))
}

// Require checks that a string field is present and non-empty.
func (c *Collector) Require(field, value string) {
	if value == "" {
		c.Addf(field, "%s is required", field)
	}
}

// MinLength checks a lower bound on string length. Empty values are skipped;
// required-ness is its own constraint.
func (c *Collector) MinLength(field, value string, min int) {
	if value != "" && len(value) < min {
		c.Addf(field, "%s must be at least %d characters", field, min)
	}
}

// MaxLength checks an upper bound on string length.
func (c *Collector) MaxLength(field, value string, max int) {
	if len(value) > max {
		c.Addf(field, "%s must be at most %d characters", field, max)
	}
}

// Email checks basic address shape. Empty values are skipped.
func (c *Collector) Email(field, value string) {
	if value != "" && !emailPattern.MatchString(value) {
		c.Addf(field, "%s must be a valid email address", field)
	}
}

// Min checks a numeric lower bound.
func (c *Collector) Min(field string, value, min int) {
	if value < min {
		c.Addf(field, "%s must be at least %d", field, min)
	}
}

// Failed reports whether any constraint has failed so far.
func (c *Collector) Failed() bool { return len(c.fields) > 0 }

// Fields returns the accumulated field errors in check order.
func (c *Collector) Fields() []dErrors.FieldError { return c.fields }

// Err returns nil when every constraint passed, otherwise a single validation
// domain error carrying the full ordered field-error list.
func (c *Collector) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return dErrors.NewValidation(c.fields)
}
