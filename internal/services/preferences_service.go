package services

import (
	"context"
	"fmt"

	"github.com/mlacademy/backend/internal/models"
)

// PreferencesRepository is the interface that wraps methods for the per-profile preferences
type PreferencesRepository interface {
	PlaybackSettingsReader
	GetTheme(ctx context.Context, profileID string) (models.Theme, error)
	SetTheme(ctx context.Context, profileID string, theme models.Theme) error
	SetAutoplay(ctx context.Context, profileID string, enabled bool) error
	SetNotifications(ctx context.Context, profileID string, enabled bool) error
}

type preferencesService struct {
	repo PreferencesRepository
}

// NewPreferencesService creates a new preferences service
func NewPreferencesService(repo PreferencesRepository) *preferencesService {
	return &preferencesService{
		repo: repo,
	}
}

// Get retrieves the preferences of a profile, defaults applied
func (s *preferencesService) Get(ctx context.Context, profileID string) (*models.Preferences, error) {
	theme, err := s.repo.GetTheme(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get theme: %w", err)
	}
	autoplay, err := s.repo.GetAutoplay(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get autoplay flag: %w", err)
	}
	notifications, err := s.repo.GetNotifications(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications flag: %w", err)
	}

	return &models.Preferences{
		Theme:         theme,
		Autoplay:      autoplay,
		Notifications: notifications,
	}, nil
}

// Update stores the fields present in the request and returns the resulting preferences
func (s *preferencesService) Update(ctx context.Context, profileID string, req *models.UpdatePreferencesRequest) (*models.Preferences, error) {
	if req.Theme != nil && *req.Theme != models.ThemeLight && *req.Theme != models.ThemeDark {
		return nil, fmt.Errorf("%w: theme must be light or dark", ErrValidation)
	}

	if req.Theme != nil {
		if err := s.repo.SetTheme(ctx, profileID, *req.Theme); err != nil {
			return nil, fmt.Errorf("failed to save theme: %w", err)
		}
	}
	if req.Autoplay != nil {
		if err := s.repo.SetAutoplay(ctx, profileID, *req.Autoplay); err != nil {
			return nil, fmt.Errorf("failed to save autoplay flag: %w", err)
		}
	}
	if req.Notifications != nil {
		if err := s.repo.SetNotifications(ctx, profileID, *req.Notifications); err != nil {
			return nil, fmt.Errorf("failed to save notifications flag: %w", err)
		}
	}

	return s.Get(ctx, profileID)
}
