package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"userbase/internal/admin"
	"userbase/internal/session"
	userhandler "userbase/internal/user/handler"
	"userbase/internal/user/service"
	"userbase/internal/user/store"
	id "userbase/pkg/domain"
)

const (
	adminToken   = "admin-secret"
	bearerToken  = "session-token"
	contentType  = "application/json"
	sessionIDHdr = "Authorization"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := service.New(store.NewMemory(), service.WithLogger(logger))

	sessions := session.NewMemoryStore()
	err := sessions.Put(context.Background(), &session.Session{
		ID:        id.SessionID(uuid.New()),
		UserID:    id.NewUserID(),
		Token:     bearerToken,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	return NewRouter(Deps{
		Users:      userhandler.New(svc, logger),
		Admin:      admin.New(svc, logger),
		AdminToken: adminToken,
		Logger:     logger,
		Sessions:   sessions,
	})
}

func TestHealthEndpointIsOpen(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /healthz, got %d", rec.Code)
	}
}

func TestUserRoutesRequireSession(t *testing.T) {
	router := newTestRouter(t)

	body := bytes.NewReader([]byte(`{"email":"jane@example.com","name":"Jane Doe"}`))
	req := httptest.NewRequest(http.MethodPost, "/users", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", rec.Code)
	}
}

func TestUserCRUDWithSession(t *testing.T) {
	router := newTestRouter(t)

	do := func(method, path, payload string) *httptest.ResponseRecorder {
		var req *http.Request
		if payload != "" {
			req = httptest.NewRequest(method, path, bytes.NewReader([]byte(payload)))
			req.Header.Set("Content-Type", contentType)
		} else {
			req = httptest.NewRequest(method, path, nil)
		}
		req.Header.Set(sessionIDHdr, "Bearer "+bearerToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/users", `{"email":"jane@example.com","name":"Jane Doe"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rid := rec.Header().Get("X-Request-ID"); rid == "" {
		t.Fatalf("expected request id on response")
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}

	if rec := do(http.MethodGet, "/users/"+created.ID, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 reading user, got %d", rec.Code)
	}
	if rec := do(http.MethodPut, "/users/"+created.ID, `{"name":"Jane Q. Doe"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 updating user, got %d", rec.Code)
	}
	if rec := do(http.MethodDelete, "/users/"+created.ID, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 deleting user, got %d", rec.Code)
	}
	if rec := do(http.MethodGet, "/users/"+created.ID, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestAdminRouteGuarded(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without admin token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("X-Admin-Token", adminToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with admin token, got %d", rec.Code)
	}
}
