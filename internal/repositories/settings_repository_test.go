package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/mlacademy/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewSettingsRepository(t *testing.T) {
	store, logger, _ := setupTestStore(t)

	repo := NewSettingsRepository(store, logger)

	assert.NotNil(t, repo)
	assert.Equal(t, store, repo.store)
}

func TestSettingsRepository_AdminPassword(t *testing.T) {
	ctx := context.Background()
	store, logger, _ := setupTestStore(t)
	repo := NewSettingsRepository(store, logger)

	password, err := repo.GetAdminPassword(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultAdminPassword, password)

	require.NoError(t, repo.SetAdminPassword(ctx, "s3cret"))

	password, err = repo.GetAdminPassword(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", password)
}

func TestSettingsRepository_Theme(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		stored   string
		expected models.Theme
	}{
		{name: "default", expected: models.ThemeLight},
		{name: "dark", stored: "dark", expected: models.ThemeDark},
		{name: "light", stored: "light", expected: models.ThemeLight},
		{name: "garbage", stored: "purple", expected: models.ThemeLight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, logger, _ := setupTestStore(t)
			repo := NewSettingsRepository(store, logger)
			if tt.stored != "" {
				require.NoError(t, repo.SetTheme(ctx, "p1", models.Theme(tt.stored)))
			}

			theme, err := repo.GetTheme(ctx, "p1")

			require.NoError(t, err)
			assert.Equal(t, tt.expected, theme)
		})
	}
}

func TestSettingsRepository_Flags(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name                  string
		storedAutoplay        string
		storedNotifications   string
		expectedAutoplay      bool
		expectedNotifications bool
	}{
		{name: "defaults", expectedAutoplay: false, expectedNotifications: true},
		{name: "both true", storedAutoplay: "true", storedNotifications: "true", expectedAutoplay: true, expectedNotifications: true},
		{name: "both false", storedAutoplay: "false", storedNotifications: "false", expectedAutoplay: false, expectedNotifications: false},
		{name: "unrecognized values", storedAutoplay: "yes", storedNotifications: "no", expectedAutoplay: false, expectedNotifications: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, logger, _ := setupTestStore(t)
			repo := NewSettingsRepository(store, logger)
			if tt.storedAutoplay != "" {
				require.NoError(t, store.Set(ctx, "profile:p1:ml-academy-autoplay", tt.storedAutoplay))
			}
			if tt.storedNotifications != "" {
				require.NoError(t, store.Set(ctx, "profile:p1:ml-academy-notifications", tt.storedNotifications))
			}

			autoplay, err := repo.GetAutoplay(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, tt.expectedAutoplay, autoplay)

			notifications, err := repo.GetNotifications(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, tt.expectedNotifications, notifications)
		})
	}

	t.Run("set round trip", func(t *testing.T) {
		store, logger, _ := setupTestStore(t)
		repo := NewSettingsRepository(store, logger)

		require.NoError(t, repo.SetAutoplay(ctx, "p1", true))
		require.NoError(t, repo.SetNotifications(ctx, "p1", false))

		raw, _, err := store.Get(ctx, "profile:p1:ml-academy-notifications")
		require.NoError(t, err)
		assert.Equal(t, "false", raw)

		autoplay, err := repo.GetAutoplay(ctx, "p1")
		require.NoError(t, err)
		assert.True(t, autoplay)
	})

	t.Run("store error", func(t *testing.T) {
		repo := NewSettingsRepository(&failingStore{err: errors.New("down")}, zap.NewNop())

		_, err := repo.GetNotifications(ctx, "p1")
		assert.Error(t, err)
		_, err = repo.GetAdminPassword(ctx)
		assert.Error(t, err)
		assert.Error(t, repo.SetTheme(ctx, "p1", models.ThemeDark))
	})
}
