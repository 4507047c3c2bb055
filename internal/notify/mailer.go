// Package notify sends user-facing notifications. The delivery transport is
// pluggable behind the Mailer interface; the default implementation records
// the notification in the log.
package notify

import (
	"context"
	"log/slog"
)

// Template identifies a notification template.
type Template string

const (
	// TemplateWelcome greets a newly created user.
	TemplateWelcome Template = "welcome"
)

// Mailer delivers a templated notification to a recipient.
type Mailer interface {
	Send(ctx context.Context, template Template, recipient string, data map[string]string) error
}

// LogMailer records notifications in the log instead of delivering them.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the notification.
func (m *LogMailer) Send(ctx context.Context, template Template, recipient string, data map[string]string) error {
	attrs := make([]any, 0, 4+2*len(data))
	attrs = append(attrs, "template", string(template), "recipient", recipient)
	for k, v := range data {
		attrs = append(attrs, k, v)
	}
	m.logger.InfoContext(ctx, "notification sent", attrs...)
	return nil
}
