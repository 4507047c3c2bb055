// Package service orchestrates user directory operations. It layers the side
// concerns of the user resource (audit events, metrics, welcome notification,
// tracing) over the shared CRUD orchestration in pkg/platform/crud.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"userbase/internal/notify"
	"userbase/internal/user/metrics"
	"userbase/internal/user/models"
	"userbase/internal/user/store"
	id "userbase/pkg/domain"
	dErrors "userbase/pkg/domain-errors"
	emailpkg "userbase/pkg/email"
	"userbase/pkg/platform/audit"
	"userbase/pkg/platform/crud"
	"userbase/pkg/requestcontext"
)

const welcomeSendTimeout = 5 * time.Second

var tracer = otel.Tracer("userbase/internal/user/service")

// AuditPublisher emits lifecycle events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates user directory operations.
type Service struct {
	crud    *crud.Service[*models.User, id.UserID, models.UserPatch]
	users   store.Store
	logger  *slog.Logger
	audit   AuditPublisher
	metrics *metrics.Metrics
	mailer  notify.Mailer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.audit = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithMailer(mailer notify.Mailer) Option {
	return func(s *Service) {
		s.mailer = mailer
	}
}

// New constructs a Service over the given store.
func New(users store.Store, opts ...Option) *Service {
	s := &Service{
		users: users,
		crud: crud.NewService[*models.User, id.UserID, models.UserPatch](
			"user", users, func(u *models.User) string { return u.Email }),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUser registers a new user. The email must not already be taken. A
// blank name is derived from the email's local part.
func (s *Service) CreateUser(ctx context.Context, email, name string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "user.create")
	defer span.End()

	if name == "" {
		name = emailpkg.DeriveNameFromEmail(email)
	}

	// Use constructor which validates invariants
	u, err := models.NewUser(id.NewUserID(), email, name, requestcontext.Now(ctx))
	if err != nil {
		// Convert invariant violations to validation errors for API response
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	created, err := s.crud.Create(ctx, u)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			s.metrics.IncrementCreateConflicts()
		}
		span.SetStatus(codes.Error, string(dErrors.GetCode(err)))
		return nil, err
	}
	span.SetAttributes(attribute.String("user.id", created.ID.String()))

	s.metrics.IncrementUsersCreated()
	s.logAudit(ctx, audit.ActionUserCreated, created)
	s.sendWelcome(ctx, created)

	return created, nil
}

// GetUser returns the user with the given id.
func (s *Service) GetUser(ctx context.Context, userID id.UserID) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "user.get",
		trace.WithAttributes(attribute.String("user.id", userID.String())))
	defer span.End()

	return s.crud.Get(ctx, userID)
}

// UpdateUser applies a partial update to an existing user. Untouched fields
// keep their stored values; an empty patch returns the record unchanged.
func (s *Service) UpdateUser(ctx context.Context, userID id.UserID, patch models.UserPatch) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "user.update",
		trace.WithAttributes(attribute.String("user.id", userID.String())))
	defer span.End()

	if patch.IsEmpty() {
		return s.crud.Get(ctx, userID)
	}

	updated, err := s.crud.Update(ctx, userID, patch)
	if err != nil {
		span.SetStatus(codes.Error, string(dErrors.GetCode(err)))
		return nil, err
	}

	s.metrics.IncrementUsersUpdated()
	s.logAudit(ctx, audit.ActionUserUpdated, updated)

	return updated, nil
}

// DeleteUser removes an existing user.
func (s *Service) DeleteUser(ctx context.Context, userID id.UserID) error {
	ctx, span := tracer.Start(ctx, "user.delete",
		trace.WithAttributes(attribute.String("user.id", userID.String())))
	defer span.End()

	// Load first so the audit event can carry the email of the removed record.
	u, err := s.crud.Get(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, string(dErrors.GetCode(err)))
		return err
	}

	if err := s.crud.Delete(ctx, userID); err != nil {
		span.SetStatus(codes.Error, string(dErrors.GetCode(err)))
		return err
	}

	s.metrics.IncrementUsersDeleted()
	s.logAudit(ctx, audit.ActionUserDeleted, u)

	return nil
}

// ListUsers returns all users ordered by creation time.
func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	ctx, span := tracer.Start(ctx, "user.list")
	defer span.End()

	users, err := s.users.List(ctx)
	if err != nil {
		span.SetStatus(codes.Error, string(dErrors.CodeInternal))
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return users, nil
}

func (s *Service) logAudit(ctx context.Context, action audit.Action, u *models.User) {
	requestID := requestcontext.RequestID(ctx)
	s.logger.InfoContext(ctx, string(action),
		"user_id", u.ID,
		"request_id", requestID,
		"log_type", "audit")
	if s.audit == nil {
		return
	}
	err := s.audit.Emit(ctx, audit.Event{
		UserID:    u.ID,
		Action:    action,
		Email:     u.Email,
		RequestID: requestID,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", string(action), "error", err)
	}
}

// sendWelcome delivers the welcome notification outside the request path.
// Failures are logged and never affect the create response.
func (s *Service) sendWelcome(ctx context.Context, u *models.User) {
	if s.mailer == nil {
		return
	}

	data := map[string]string{"name": u.Name}
	sendCtx := context.WithoutCancel(ctx)
	go func() {
		sendCtx, cancel := context.WithTimeout(sendCtx, welcomeSendTimeout)
		defer cancel()
		if err := s.mailer.Send(sendCtx, notify.TemplateWelcome, u.Email, data); err != nil {
			s.logger.Warn("failed to send welcome notification",
				"user_id", u.ID.String(), "error", err)
		}
	}()
}
