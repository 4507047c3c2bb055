// Package httpapi assembles the HTTP surface: the middleware chain, the user
// CRUD routes, the admin surface, and the operational endpoints.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"userbase/internal/admin"
	"userbase/internal/platform/metrics"
	"userbase/internal/platform/middleware"
	"userbase/internal/session"
	userhandler "userbase/internal/user/handler"
	"userbase/pkg/platform/httputil"
)

// Deps holds everything the router needs. Handlers stay thin; wiring them
// together is the only job of this package.
type Deps struct {
	Users      *userhandler.Handler
	Admin      *admin.Handler
	AdminToken string
	Logger     *slog.Logger

	// Sessions enables the session guard on the user CRUD routes when set.
	// Without it the routes are open, which is only acceptable in development.
	Sessions session.Checker

	// HTTPMetrics enables request instrumentation when set.
	HTTPMetrics *metrics.HTTP
}

// NewRouter wires all endpoints behind the shared middleware chain.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	if d.HTTPMetrics != nil {
		r.Use(middleware.Instrument(d.HTTPMetrics))
	}

	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if d.Sessions != nil {
			r.Use(middleware.RequireSession(d.Sessions, d.Logger))
		}
		d.Users.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(d.AdminToken, d.Logger))
		d.Admin.Register(r)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
