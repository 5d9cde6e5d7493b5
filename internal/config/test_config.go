package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads the configuration for integration tests from the .env file or environment variables.
// Unset TEST_ variables fall back to an in-memory SQLite store, so the suite runs without external services.
func LoadTestConfig() (*Config, error) {
	// Both paths are optional
	_ = godotenv.Load("./../../configs/.env")
	_ = godotenv.Load()

	cfg := &Config{
		Storage: StorageConfig{
			Driver:     StorageDriverSQLite,
			SQLitePath: ":memory:",
		},
		JWT: JWTConfig{
			Secret:           "integration-test-secret",
			AdminTokenExpiry: time.Hour,
		},
		Reminder: ReminderConfig{
			Cron:     "0 9 * * *",
			Location: time.UTC,
		},
		Stats:   StatsConfig{LastMonthActiveOffset: 2},
		Logging: LoggingConfig{Level: "debug"},
		CORS:    CORSConfig{AllowedOrigins: []string{"*"}},
	}

	if path := os.Getenv("TEST_SQLITE_PATH"); path != "" {
		cfg.Storage.SQLitePath = path
	}

	dbHost := os.Getenv("TEST_DB_HOST")
	if dbHost == "" {
		return cfg, nil
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("TEST_DB_PORT")
	if dbPortStr == "" {
		return cfg, nil
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TEST_DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort
	cfg.Database.User = os.Getenv("TEST_DB_USER")
	cfg.Database.Password = os.Getenv("TEST_DB_PASSWORD")
	cfg.Database.DBName = os.Getenv("TEST_DB_NAME")
	if cfg.Database.User != "" && cfg.Database.DBName != "" {
		cfg.Storage.Driver = StorageDriverMySQL
	}

	return cfg, nil
}
