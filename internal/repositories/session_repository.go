package repositories

import (
	"context"
	"fmt"

	"github.com/mlacademy/backend/internal/models"
	"go.uber.org/zap"
)

type sessionRepository struct {
	store  KeyValueStore
	logger *zap.Logger
}

// NewSessionRepository creates a repository of the per-profile login session
func NewSessionRepository(store KeyValueStore, logger *zap.Logger) *sessionRepository {
	return &sessionRepository{
		store:  store,
		logger: logger,
	}
}

// Get retrieves the session of a profile, or nil when nobody is logged in
func (r *sessionRepository) Get(ctx context.Context, profileID string) (*models.User, error) {
	var user models.User
	found, err := readJSON(ctx, r.store, r.logger, profileKey(profileID, keySession), &user)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if !found || user.ID == "" {
		return nil, nil
	}
	user.Password = ""
	return &user, nil
}

// Save stores the session of a profile, replacing any previous one
func (r *sessionRepository) Save(ctx context.Context, profileID string, user models.User) error {
	if err := writeJSON(ctx, r.store, profileKey(profileID, keySession), user.WithoutPassword()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes the session of a profile
func (r *sessionRepository) Delete(ctx context.Context, profileID string) error {
	if err := r.store.Delete(ctx, profileKey(profileID, keySession)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ListProfiles retrieves the ids of every profile holding a session
func (r *sessionRepository) ListProfiles(ctx context.Context) ([]string, error) {
	keys, err := r.store.Keys(ctx, profileKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	profiles := make([]string, 0)
	for _, key := range keys {
		if id, ok := profileIDFromKey(key, keySession); ok {
			profiles = append(profiles, id)
		}
	}
	return profiles, nil
}
