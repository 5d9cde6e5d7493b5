package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so that the host environment does not leak into tests
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STORAGE_DRIVER", "SQLITE_PATH", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "SERVER_PORT", "LOG_LEVEL",
		"CORS_ALLOWED_ORIGINS", "JWT_SECRET", "ADMIN_TOKEN_EXPIRY", "SMTP_HOST", "SMTP_PORT",
		"SMTP_USERNAME", "SMTP_PASSWORD", "SMTP_FROM", "REMINDER_CRON", "APP_TIMEZONE",
		"STATS_LAST_MONTH_ACTIVE_OFFSET",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name          string
		env           map[string]string
		expectedError bool
		check         func(t *testing.T, cfg *Config)
	}{
		{
			name: "sqlite driver with defaults",
			env: map[string]string{
				"STORAGE_DRIVER": "sqlite",
				"JWT_SECRET":     "secret",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, StorageDriverSQLite, cfg.Storage.Driver)
				assert.Equal(t, "data/mlacademy.db", cfg.Storage.SQLitePath)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
				assert.Equal(t, 2*time.Hour, cfg.JWT.AdminTokenExpiry)
				assert.Equal(t, "0 9 * * *", cfg.Reminder.Cron)
				assert.False(t, cfg.Reminder.Enabled)
				assert.Equal(t, 2, cfg.Stats.LastMonthActiveOffset)
			},
		},
		{
			name: "mysql driver with full settings",
			env: map[string]string{
				"DB_HOST":                        "db",
				"DB_PORT":                        "3306",
				"DB_USER":                        "academy",
				"DB_PASSWORD":                    "pw",
				"DB_NAME":                        "mlacademy",
				"REDIS_HOST":                     "redis",
				"JWT_SECRET":                     "secret",
				"CORS_ALLOWED_ORIGINS":           "http://a.test, http://b.test,",
				"STATS_LAST_MONTH_ACTIVE_OFFSET": "0",
				"APP_TIMEZONE":                   "Asia/Tashkent",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, StorageDriverMySQL, cfg.Storage.Driver)
				assert.Equal(t, "academy:pw@tcp(db:3306)/mlacademy?parseTime=true&charset=utf8mb4", cfg.DSN())
				assert.Equal(t, "redis:6379", cfg.RedisAddr())
				assert.True(t, cfg.Reminder.Enabled)
				assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
				assert.Equal(t, 0, cfg.Stats.LastMonthActiveOffset)
				assert.Equal(t, "Asia/Tashkent", cfg.Reminder.Location.String())
			},
		},
		{
			name:          "mysql driver without DB_HOST",
			env:           map[string]string{"JWT_SECRET": "secret"},
			expectedError: true,
		},
		{
			name:          "missing JWT secret",
			env:           map[string]string{"STORAGE_DRIVER": "memory"},
			expectedError: true,
		},
		{
			name:          "unsupported driver",
			env:           map[string]string{"STORAGE_DRIVER": "mongo", "JWT_SECRET": "secret"},
			expectedError: true,
		},
		{
			name:          "redis driver without host",
			env:           map[string]string{"STORAGE_DRIVER": "redis", "JWT_SECRET": "secret"},
			expectedError: true,
		},
		{
			name:          "invalid server port",
			env:           map[string]string{"STORAGE_DRIVER": "memory", "JWT_SECRET": "secret", "SERVER_PORT": "abc"},
			expectedError: true,
		},
		{
			name:          "invalid token expiry",
			env:           map[string]string{"STORAGE_DRIVER": "memory", "JWT_SECRET": "secret", "ADMIN_TOKEN_EXPIRY": "soon"},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			cfg, err := Load()

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadTestConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_DB_HOST", "")
	t.Setenv("TEST_SQLITE_PATH", "")

	cfg, err := LoadTestConfig()

	require.NoError(t, err)
	assert.Equal(t, StorageDriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, ":memory:", cfg.Storage.SQLitePath)
	assert.NotEmpty(t, cfg.JWT.Secret)
}
