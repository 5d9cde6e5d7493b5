package repositories

import (
	"context"
	"fmt"

	"github.com/mlacademy/backend/internal/models"
	"go.uber.org/zap"
)

// DefaultAdminPassword gates the admin console until it is changed
const DefaultAdminPassword = "admin123"

type settingsRepository struct {
	store  KeyValueStore
	logger *zap.Logger
}

// NewSettingsRepository creates a repository of the admin password and the per-profile preferences
func NewSettingsRepository(store KeyValueStore, logger *zap.Logger) *settingsRepository {
	return &settingsRepository{
		store:  store,
		logger: logger,
	}
}

// GetAdminPassword retrieves the admin console password, DefaultAdminPassword if never set
func (r *settingsRepository) GetAdminPassword(ctx context.Context) (string, error) {
	value, found, err := r.store.Get(ctx, keyAdminPassword)
	if err != nil {
		return "", fmt.Errorf("failed to get admin password: %w", err)
	}
	if !found || value == "" {
		return DefaultAdminPassword, nil
	}
	return value, nil
}

// SetAdminPassword overwrites the admin console password
func (r *settingsRepository) SetAdminPassword(ctx context.Context, password string) error {
	if err := r.store.Set(ctx, keyAdminPassword, password); err != nil {
		return fmt.Errorf("failed to save admin password: %w", err)
	}
	return nil
}

// GetTheme retrieves the theme of a profile. Anything but "dark" reads as light.
func (r *settingsRepository) GetTheme(ctx context.Context, profileID string) (models.Theme, error) {
	value, _, err := r.store.Get(ctx, profileKey(profileID, keyTheme))
	if err != nil {
		return "", fmt.Errorf("failed to get theme: %w", err)
	}
	if models.Theme(value) == models.ThemeDark {
		return models.ThemeDark, nil
	}
	return models.ThemeLight, nil
}

// SetTheme stores the theme of a profile
func (r *settingsRepository) SetTheme(ctx context.Context, profileID string, theme models.Theme) error {
	if err := r.store.Set(ctx, profileKey(profileID, keyTheme), string(theme)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}

// GetAutoplay reports whether autoplay is on. It is off unless stored as "true".
func (r *settingsRepository) GetAutoplay(ctx context.Context, profileID string) (bool, error) {
	value, _, err := r.store.Get(ctx, profileKey(profileID, keyAutoplay))
	if err != nil {
		return false, fmt.Errorf("failed to get autoplay flag: %w", err)
	}
	return value == "true", nil
}

// SetAutoplay stores the autoplay flag of a profile
func (r *settingsRepository) SetAutoplay(ctx context.Context, profileID string, enabled bool) error {
	if err := r.store.Set(ctx, profileKey(profileID, keyAutoplay), formatFlag(enabled)); err != nil {
		return fmt.Errorf("failed to save autoplay flag: %w", err)
	}
	return nil
}

// GetNotifications reports whether reminders are on. They are on unless stored as "false".
func (r *settingsRepository) GetNotifications(ctx context.Context, profileID string) (bool, error) {
	value, _, err := r.store.Get(ctx, profileKey(profileID, keyNotifications))
	if err != nil {
		return false, fmt.Errorf("failed to get notifications flag: %w", err)
	}
	return value != "false", nil
}

// SetNotifications stores the notifications flag of a profile
func (r *settingsRepository) SetNotifications(ctx context.Context, profileID string, enabled bool) error {
	if err := r.store.Set(ctx, profileKey(profileID, keyNotifications), formatFlag(enabled)); err != nil {
		return fmt.Errorf("failed to save notifications flag: %w", err)
	}
	return nil
}

func formatFlag(enabled bool) string {
	if enabled {
		return "true"
	}
	return "false"
}
