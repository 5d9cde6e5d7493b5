package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-redis/redis/v8"
)

// keyNamespace separates application keys from the asynq keys living in the same Redis database
const keyNamespace = "mla:"

type redisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store over a Redis client
func NewRedisStore(client *redis.Client) *redisStore {
	return &redisStore{
		client: client,
	}
}

// Get returns the value stored under key and whether it exists
func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, keyNamespace+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get value of %q: %w", key, err)
	}
	return value, true, nil
}

// Set overwrites the value stored under key, without expiration
func (s *redisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, keyNamespace+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set value of %q: %w", key, err)
	}
	return nil
}

// Delete removes key; deleting an absent key is not an error
func (s *redisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyNamespace+key).Err(); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Keys returns every key starting with prefix, sorted. It walks the keyspace with SCAN.
func (s *redisStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	match := keyNamespace + escapeGlob(prefix) + "*"
	seen := make(map[string]struct{})

	var cursor uint64
	for {
		batch, next, err := s.client.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}
		for _, key := range batch {
			seen[strings.TrimPrefix(key, keyNamespace)] = struct{}{}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// escapeGlob escapes the glob metacharacters understood by SCAN MATCH
func escapeGlob(s string) string {
	return strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`).Replace(s)
}
