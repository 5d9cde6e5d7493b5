package storage

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/mlacademy/backend/internal/config"
)

// Store is a flat string key-value store
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Open builds the store selected by cfg.Storage.Driver.
// The returned close function releases the underlying connection and is never nil.
func Open(ctx context.Context, cfg *config.Config, migrationsPath string) (Store, func() error, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMySQL:
		db, err := OpenMySQL(cfg.DSN())
		if err != nil {
			return nil, nil, err
		}
		if err := RunMySQLMigrations(db, migrationsPath); err != nil {
			db.Close()
			return nil, nil, err
		}
		return NewSQLStore(db, DialectMySQL), db.Close, nil

	case config.StorageDriverSQLite:
		db, err := OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLStore(db, DialectSQLite), db.Close, nil

	case config.StorageDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return NewRedisStore(client), client.Close, nil

	case config.StorageDriverMemory:
		return NewMemoryStore(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
