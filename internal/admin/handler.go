// Package admin exposes the operator-facing read surface. Routes are mounted
// behind the admin token guard.
package admin

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"userbase/internal/user/models"
	"userbase/pkg/platform/httputil"
	"userbase/pkg/requestcontext"
)

// UserLister is the user service capability the admin surface needs.
type UserLister interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// Handler wires admin endpoints to the user service.
type Handler struct {
	users  UserLister
	logger *slog.Logger
}

// New constructs an admin handler.
func New(users UserLister, logger *slog.Logger) *Handler {
	return &Handler{
		users:  users,
		logger: logger,
	}
}

// Register mounts admin endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/users", h.HandleListUsers)
}

// HandleListUsers handles GET /admin/users requests.
func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.users.ListUsers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "user listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	resp := &UsersListResponse{
		Users: make([]*UserInfoResponse, len(users)),
		Total: len(users),
	}
	for i, u := range users {
		resp.Users[i] = fromUser(u)
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
