package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yugash007/nexel-api/internal/models"
	"github.com/yugash007/nexel-api/internal/store"
)

// UserRepository handles persistence of users.
type UserRepository struct {
	store store.Store
}

// NewUserRepository constructs the repository.
func NewUserRepository(s store.Store) *UserRepository {
	return &UserRepository{store: s}
}

// Create persists a new user, minting its id.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if err := r.store.Insert(ctx, store.Users, user.ID, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindByID returns the user with the given id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.store.Get(ctx, store.Users, id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns the user bound to the given email, or store.ErrNotFound.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var users []models.User
	if err := r.store.Find(ctx, store.Users, store.Filter{"email": email}, &users); err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if len(users) == 0 {
		return nil, store.ErrNotFound
	}
	return &users[0], nil
}

// Update merges the given fields into the stored user.
func (r *UserRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if err := r.store.Update(ctx, store.Users, id, fields); err != nil {
		return err
	}
	return nil
}
