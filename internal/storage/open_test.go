package storage

import (
	"context"
	"testing"

	"github.com/mlacademy/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		cfg         *config.Config
		expectError bool
	}{
		{
			name: "memory",
			cfg:  &config.Config{Storage: config.StorageConfig{Driver: config.StorageDriverMemory}},
		},
		{
			name: "sqlite in memory",
			cfg:  &config.Config{Storage: config.StorageConfig{Driver: config.StorageDriverSQLite, SQLitePath: ":memory:"}},
		},
		{
			name:        "unknown driver",
			cfg:         &config.Config{Storage: config.StorageConfig{Driver: "etcd"}},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, closeFn, err := Open(ctx, tt.cfg, "migrations")

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, store)
				return
			}
			require.NoError(t, err)
			defer closeFn()

			require.NoError(t, store.Set(ctx, "k", "v"))
			value, found, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "v", value)
		})
	}
}
