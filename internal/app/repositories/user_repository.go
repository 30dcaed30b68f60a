package repositories

import (
	"context"

	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/pkg/docstore"
)

// UserCollection stores accounts created by Google sign-in
var UserCollection = docstore.CollectionSpec{
	Name:   "users",
	Unique: []string{"googleId"},
}

// UserRepository handles storage operations for users
type UserRepository struct {
	store[*models.User]
}

// NewUserRepository creates a new user repository
func NewUserRepository(backend docstore.Backend) (*UserRepository, error) {
	coll, err := docstore.NewCollection(backend, UserCollection, func() *models.User {
		return &models.User{}
	})
	if err != nil {
		return nil, err
	}
	return &UserRepository{store[*models.User]{
		coll:         coll,
		entity:       "User",
		searchFields: []string{"name", "email"},
	}}, nil
}

// GetByGoogleID returns the user linked to a Google account, or nil when there is none
func (r *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	user, found, err := r.FindByField(ctx, "googleId", googleID, "")
	if err != nil || !found {
		return nil, err
	}
	return user, nil
}
