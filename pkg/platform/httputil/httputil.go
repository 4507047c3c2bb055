// Package httputil centralizes JSON response writing. Handlers never set
// status codes or build error envelopes by hand; every failure funnels through
// WriteError so the wire shape stays uniform.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "userbase/pkg/domain-errors"
	"userbase/pkg/requestcontext"
)

// errorResponse is the uniform error envelope. A response carries either a
// success payload or this envelope, never both.
type errorResponse struct {
	Error       string              `json:"error"`
	Description string              `json:"error_description,omitempty"`
	Fields      []dErrors.FieldError `json:"errors,omitempty"`
}

// WriteJSON writes a success payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps any error to its HTTP status and error envelope.
// Internal errors omit the description so backend detail never leaks to a
// caller; everything else includes the domain error's message, and validation
// failures additionally carry the ordered field-error list.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.GetCode(err)

	resp := errorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		var de *dErrors.Error
		if errors.As(err, &de) {
			resp.Description = de.Message
			resp.Fields = de.Fields
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	_ = json.NewEncoder(w).Encode(resp)
}

// StatusFor maps a domain error code to its HTTP status.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation, dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Preparable is implemented by request DTOs: Normalize trims and defaults the
// input, Validate checks every constraint and reports the full failure list.
type Preparable interface {
	Normalize()
	Validate() error
}

// DecodeAndPrepare decodes a JSON body into a fresh DTO, normalizes it, and
// validates it. On any failure the error response has already been written and
// ok is false; the handler just returns.
func DecodeAndPrepare[T any, PT interface {
	Preparable
	*T
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (PT, bool) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req := PT(new(T))

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "request body must be valid JSON"))
		return nil, false
	}

	req.Normalize()

	if err := req.Validate(); err != nil {
		logger.WarnContext(ctx, "request validation failed",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, err)
		return nil, false
	}

	return req, true
}
