// Package store provides the persistence backends for user records. Both
// backends implement the same capability interface; services never know which
// one they were handed.
package store

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"userbase/internal/user/models"
	id "userbase/pkg/domain"
	"userbase/pkg/platform/crud"
)

// Store is the user persistence capability: the generic adapter instantiated
// for user records, plus listing for the admin surface.
type Store interface {
	crud.Adapter[*models.User, id.UserID, models.UserPatch]

	// List returns all users, ordered by creation time.
	List(ctx context.Context) ([]*models.User, error)
}
