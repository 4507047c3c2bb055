package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"userbase/internal/user/service"
	"userbase/internal/user/store"
)

type errorEnvelope struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	Errors      []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

type userEnvelope struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func newUserRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := service.New(store.NewMemory(), service.WithLogger(logger))

	h := New(svc, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createUser(t *testing.T, router http.Handler, email, name string) userEnvelope {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/users", map[string]string{"email": email, "name": name})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating user, got %d: %s", rec.Code, rec.Body.String())
	}
	var u userEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&u); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	return u
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	return env
}

func TestCreateUserViaHandler(t *testing.T) {
	router := newUserRouter(t)

	u := createUser(t, router, "Jane.Doe@Example.com", "Jane Doe")
	if u.ID == "" || u.ID == uuid.Nil.String() {
		t.Fatalf("expected generated id, got %q", u.ID)
	}
	if u.Email != "jane.doe@example.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
	if u.Name != "Jane Doe" {
		t.Fatalf("expected name preserved, got %q", u.Name)
	}
	if u.CreatedAt == "" || u.UpdatedAt == "" {
		t.Fatalf("expected timestamps in response")
	}
}

func TestCreateUserValidationReportsAllFields(t *testing.T) {
	router := newUserRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/users", map[string]string{"email": "not-an-email", "name": "A"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := decodeError(t, rec)
	if env.Error != "validation" {
		t.Fatalf("expected validation error code, got %q", env.Error)
	}
	if len(env.Errors) != 2 {
		t.Fatalf("expected 2 field errors, got %d: %+v", len(env.Errors), env.Errors)
	}
	if env.Errors[0].Field != "name" || env.Errors[1].Field != "email" {
		t.Fatalf("unexpected field order: %+v", env.Errors)
	}
}

func TestCreateUserMalformedBody(t *testing.T) {
	router := newUserRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
	env := decodeError(t, rec)
	if env.Error != "bad_request" {
		t.Fatalf("expected bad_request code, got %q", env.Error)
	}
}

func TestCreateUserConflict(t *testing.T) {
	router := newUserRouter(t)

	createUser(t, router, "jane@example.com", "Jane Doe")

	rec := doJSON(t, router, http.MethodPost, "/users", map[string]string{"email": "JANE@example.com", "name": "Other Jane"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", rec.Code)
	}
	env := decodeError(t, rec)
	if env.Error != "conflict" {
		t.Fatalf("expected conflict code, got %q", env.Error)
	}
	if env.Description != "user already exists" {
		t.Fatalf("unexpected description: %q", env.Description)
	}
}

func TestGetUserViaHandler(t *testing.T) {
	router := newUserRouter(t)
	created := createUser(t, router, "jane@example.com", "Jane Doe")

	rec := doJSON(t, router, http.MethodGet, "/users/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got userEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.ID != created.ID || got.Email != "jane@example.com" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestGetUserNotFound(t *testing.T) {
	router := newUserRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/users/"+uuid.New().String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	env := decodeError(t, rec)
	if env.Error != "not_found" {
		t.Fatalf("expected not_found code, got %q", env.Error)
	}
	if env.Description != "user not found" {
		t.Fatalf("unexpected description: %q", env.Description)
	}
}

func TestGetUserInvalidID(t *testing.T) {
	router := newUserRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/users/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}
}

func TestUpdateUserViaHandler(t *testing.T) {
	router := newUserRouter(t)
	created := createUser(t, router, "jane@example.com", "Jane Doe")

	rec := doJSON(t, router, http.MethodPut, "/users/"+created.ID, map[string]string{"name": "Jane Q. Doe"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got userEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Name != "Jane Q. Doe" {
		t.Fatalf("expected updated name, got %q", got.Name)
	}
	// Untouched fields keep their stored values.
	if got.Email != "jane@example.com" {
		t.Fatalf("expected email preserved, got %q", got.Email)
	}
	if got.CreatedAt != created.CreatedAt {
		t.Fatalf("expected created_at unchanged")
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	router := newUserRouter(t)

	rec := doJSON(t, router, http.MethodPut, "/users/"+uuid.New().String(), map[string]string{"name": "Nobody"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteUserViaHandler(t *testing.T) {
	router := newUserRouter(t)
	created := createUser(t, router, "jane@example.com", "Jane Doe")

	rec := doJSON(t, router, http.MethodDelete, "/users/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var msg struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&msg); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if msg.Message != "user deleted" {
		t.Fatalf("unexpected message: %q", msg.Message)
	}

	// The record is gone; deleting again reports not found.
	if rec := doJSON(t, router, http.MethodGet, "/users/"+created.ID, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
	if rec := doJSON(t, router, http.MethodDelete, "/users/"+created.ID, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting twice, got %d", rec.Code)
	}
}
