// Package config provides configuration for the application
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers understood by the API and the worker
const (
	StorageDriverMySQL  = "mysql"
	StorageDriverSQLite = "sqlite"
	StorageDriverRedis  = "redis"
	StorageDriverMemory = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Server   ServerConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Reminder ReminderConfig
	Stats    StatsConfig
}

// StorageConfig selects the key-value backend
type StorageConfig struct {
	Driver     string
	SQLitePath string
}

// DatabaseConfig holds MySQL connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RedisConfig holds Redis connection settings, used by the task queue and the redis storage driver
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds settings of the admin console token
type JWTConfig struct {
	Secret           string
	AdminTokenExpiry time.Duration
}

// SMTPConfig holds the mail server used for reminders
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// ReminderConfig holds settings of the missed-lesson reminder pipeline
type ReminderConfig struct {
	Cron     string
	Location *time.Location
	// Enabled turns off enqueuing entirely when no Redis is configured.
	Enabled bool
}

// StatsConfig holds tunables of the admin statistics
type StatsConfig struct {
	LastMonthActiveOffset int
}

// Load reads configuration from environment variables, after loading an optional .env file
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}

	// Storage configuration
	cfg.Storage.Driver = strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverMySQL))
	switch cfg.Storage.Driver {
	case StorageDriverMySQL, StorageDriverSQLite, StorageDriverRedis, StorageDriverMemory:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
	cfg.Storage.SQLitePath = getEnv("SQLITE_PATH", "data/mlacademy.db")

	// Database configuration is required only by the mysql driver
	if cfg.Storage.Driver == StorageDriverMySQL {
		if err := loadDatabase(cfg); err != nil {
			return nil, err
		}
	}

	// Redis configuration
	cfg.Redis.Host = os.Getenv("REDIS_HOST")
	if cfg.Redis.Host == "" && cfg.Storage.Driver == StorageDriverRedis {
		return nil, fmt.Errorf("REDIS_HOST is required")
	}
	redisPort, err := getEnvInt("REDIS_PORT", 6379)
	if err != nil {
		return nil, err
	}
	cfg.Redis.Port = redisPort
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cfg.Redis.DB = redisDB

	// Server configuration
	serverPort, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Server.Port = serverPort

	// Logging configuration
	cfg.Logging.Level = getEnv("LOG_LEVEL", "info")

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// JWT configuration
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	expiry, err := time.ParseDuration(getEnv("ADMIN_TOKEN_EXPIRY", "2h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_TOKEN_EXPIRY: %w", err)
	}
	cfg.JWT.AdminTokenExpiry = expiry

	// SMTP configuration
	cfg.SMTP.Host = getEnv("SMTP_HOST", "localhost")
	smtpPort, err := getEnvInt("SMTP_PORT", 1025)
	if err != nil {
		return nil, err
	}
	cfg.SMTP.Port = smtpPort
	cfg.SMTP.Username = os.Getenv("SMTP_USERNAME")
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD")
	cfg.SMTP.From = getEnv("SMTP_FROM", "no-reply@mlacademy.com")

	// Reminder configuration
	cfg.Reminder.Cron = getEnv("REMINDER_CRON", "0 9 * * *")
	location, err := time.LoadLocation(getEnv("APP_TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	cfg.Reminder.Location = location
	cfg.Reminder.Enabled = cfg.Redis.Host != ""

	// Statistics configuration
	offset, err := getEnvInt("STATS_LAST_MONTH_ACTIVE_OFFSET", 2)
	if err != nil {
		return nil, err
	}
	cfg.Stats.LastMonthActiveOffset = offset

	return cfg, nil
}

// loadDatabase reads the required MySQL settings
func loadDatabase(cfg *Config) error {
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return fmt.Errorf("DB_USER is required")
	}
	cfg.Database.User = dbUser

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Database.Password = dbPassword

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	return nil
}

// parseOrigins splits a comma-separated origin list, defaulting to all origins
func parseOrigins(raw string) []string {
	if raw == "" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, origin := range parts {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

// RedisAddr returns the host:port pair of the Redis server
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
