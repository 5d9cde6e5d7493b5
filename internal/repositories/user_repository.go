package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/mlacademy/backend/internal/models"
	"go.uber.org/zap"
)

type userRepository struct {
	store  KeyValueStore
	logger *zap.Logger
	mu     sync.Mutex
}

// NewUserRepository creates a repository of the users added from the admin console
func NewUserRepository(store KeyValueStore, logger *zap.Logger) *userRepository {
	return &userRepository{
		store:  store,
		logger: logger,
	}
}

// GetAll retrieves the added users, passwords included
func (r *userRepository) GetAll(ctx context.Context) ([]models.User, error) {
	users, err := r.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get added users: %w", err)
	}
	return users, nil
}

// Update runs a read-modify-write cycle over the added user list.
// When fn returns an error nothing is written and the error is returned unchanged.
func (r *userRepository) Update(ctx context.Context, fn func([]models.User) ([]models.User, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return fmt.Errorf("failed to get added users: %w", err)
	}

	updated, err := fn(users)
	if err != nil {
		return err
	}

	if err := writeJSON(ctx, r.store, keyAddedUsers, updated); err != nil {
		return fmt.Errorf("failed to save added users: %w", err)
	}
	return nil
}

func (r *userRepository) load(ctx context.Context) ([]models.User, error) {
	var users []models.User
	found, err := readJSON(ctx, r.store, r.logger, keyAddedUsers, &users)
	if err != nil {
		return nil, err
	}
	if !found || users == nil {
		return []models.User{}, nil
	}
	return users, nil
}
