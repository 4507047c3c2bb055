// Package crud implements the resource-agnostic create/read/update/delete
// orchestration shared by every resource endpoint. It owns no state: each
// Service is pure control flow over an injected Adapter, and every failure
// leaves it as a coded domain error.
package crud

import (
	"context"
	"errors"

	dErrors "userbase/pkg/domain-errors"
	"userbase/pkg/platform/sentinel"
)

// Adapter is the persistence capability a backend must provide for a record
// type T with identifier ID and partial-update payload P. Implementations
// report absence with sentinel.ErrNotFound and storage-level uniqueness
// violations with sentinel.ErrConflict; any other error is treated as an
// opaque backend failure.
type Adapter[T any, ID comparable, P any] interface {
	// FindByKey looks a record up by its natural key (e.g. email).
	FindByKey(ctx context.Context, key string) (T, error)

	// FindByID looks a record up by identifier.
	FindByID(ctx context.Context, id ID) (T, error)

	// Create persists a new record.
	Create(ctx context.Context, rec T) error

	// Update applies a partial update and returns the updated record.
	// Callers are expected to have checked existence first.
	Update(ctx context.Context, id ID, patch P) (T, error)

	// Delete removes a record.
	Delete(ctx context.Context, id ID) error
}

// Service orchestrates CRUD request handling for one resource. It performs
// the uniqueness and existence pre-checks itself so callers get semantically
// precise errors (conflict vs not found) instead of opaque storage failures.
type Service[T any, ID comparable, P any] struct {
	adapter Adapter[T, ID, P]
	keyOf   func(T) string
	kind    string
}

// NewService builds a Service for one resource. kind names the resource in
// caller-facing messages ("user already exists"); keyOf extracts the natural
// key used for the create-time uniqueness pre-check.
func NewService[T any, ID comparable, P any](kind string, adapter Adapter[T, ID, P], keyOf func(T) string) *Service[T, ID, P] {
	return &Service[T, ID, P]{
		adapter: adapter,
		keyOf:   keyOf,
		kind:    kind,
	}
}

// Create persists a new record after checking the natural key is free.
//
// Two concurrent creates with the same key can both pass the pre-check; the
// loser then hits the storage unique constraint inside adapter.Create and is
// reported as an internal error rather than a conflict. That race is benign
// and deliberately left in place.
func (s *Service[T, ID, P]) Create(ctx context.Context, rec T) (T, error) {
	var zero T

	_, err := s.adapter.FindByKey(ctx, s.keyOf(rec))
	switch {
	case err == nil:
		return zero, dErrors.Newf(dErrors.CodeConflict, "%s already exists", s.kind)
	case !errors.Is(err, sentinel.ErrNotFound):
		return zero, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check "+s.kind+" uniqueness")
	}

	if err := s.adapter.Create(ctx, rec); err != nil {
		return zero, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create "+s.kind)
	}
	return rec, nil
}

// Get returns the record with the given identifier.
func (s *Service[T, ID, P]) Get(ctx context.Context, id ID) (T, error) {
	var zero T

	rec, err := s.adapter.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return zero, dErrors.Newf(dErrors.CodeNotFound, "%s not found", s.kind)
		}
		return zero, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+s.kind)
	}
	return rec, nil
}

// Update applies a partial update to an existing record. Untouched fields
// keep their stored values.
func (s *Service[T, ID, P]) Update(ctx context.Context, id ID, patch P) (T, error) {
	var zero T

	if _, err := s.adapter.FindByID(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return zero, dErrors.Newf(dErrors.CodeNotFound, "%s not found", s.kind)
		}
		return zero, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+s.kind)
	}

	rec, err := s.adapter.Update(ctx, id, patch)
	if err != nil {
		return zero, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update "+s.kind)
	}
	return rec, nil
}

// Delete removes an existing record. Deleting an already-deleted record
// reports not found, never an internal error.
func (s *Service[T, ID, P]) Delete(ctx context.Context, id ID) error {
	if _, err := s.adapter.FindByID(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "%s not found", s.kind)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+s.kind)
	}

	if err := s.adapter.Delete(ctx, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete "+s.kind)
	}
	return nil
}
