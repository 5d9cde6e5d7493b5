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

func TestNewSessionRepository(t *testing.T) {
	store, logger, _ := setupTestStore(t)

	repo := NewSessionRepository(store, logger)

	assert.NotNil(t, repo)
	assert.Equal(t, store, repo.store)
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store, logger, _ := setupTestStore(t)
	repo := NewSessionRepository(store, logger)

	session, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, session)

	user := models.User{ID: "u_1", Email: "a@x.com", Password: "secret", Role: models.RoleStudent}
	require.NoError(t, repo.Save(ctx, "p1", user))

	raw, found, err := store.Get(ctx, "profile:p1:ml-academy-user")
	require.NoError(t, err)
	require.True(t, found)
	assert.NotContains(t, raw, "secret")

	session, err = repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "u_1", session.ID)
	assert.Empty(t, session.Password)

	// Other profiles are isolated
	other, err := repo.Get(ctx, "p2")
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, repo.Delete(ctx, "p1"))
	session, err = repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionRepository_CorruptSession(t *testing.T) {
	ctx := context.Background()
	store, logger, logs := setupTestStore(t)
	require.NoError(t, store.Set(ctx, "profile:p1:ml-academy-user", "not-json"))
	repo := NewSessionRepository(store, logger)

	session, err := repo.Get(ctx, "p1")

	assert.NoError(t, err)
	assert.Nil(t, session)
	assert.Equal(t, 1, logs.Len())
}

func TestSessionRepository_ListProfiles(t *testing.T) {
	ctx := context.Background()
	store, logger, _ := setupTestStore(t)
	repo := NewSessionRepository(store, logger)

	require.NoError(t, repo.Save(ctx, "b", models.User{ID: "u_2"}))
	require.NoError(t, repo.Save(ctx, "a", models.User{ID: "u_1"}))
	require.NoError(t, store.Set(ctx, "profile:c:ml-academy-theme", "dark"))

	profiles, err := repo.ListProfiles(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, profiles)

	t.Run("store error", func(t *testing.T) {
		repo := NewSessionRepository(&failingStore{err: errors.New("down")}, zap.NewNop())
		profiles, err := repo.ListProfiles(ctx)
		assert.Error(t, err)
		assert.Nil(t, profiles)
	})
}
