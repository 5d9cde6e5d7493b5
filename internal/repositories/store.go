package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrStorageParse marks a stored value that could not be decoded.
// It is logged and never returned: the repository falls back to the empty value.
var ErrStorageParse = errors.New("stored value is corrupt")

// Global keys
const (
	keyAddedUsers    = "ml-academy-db-users"
	keyAdminPassword = "ml-academy-admin-password"
	keyUserActivity  = "ml-academy-user-activity"
	keyUserLogins    = "ml-academy-user-logins"
	keyLeads         = "ml-academy-leads"
)

// Profile-scoped key names
const (
	keySession          = "ml-academy-user"
	keyTheme            = "ml-academy-theme"
	keyCompletedLessons = "ml-academy-completed-lessons"
	keyDailyProgress    = "ml-academy-daily-progress"
	keyAutoplay         = "ml-academy-autoplay"
	keyNotifications    = "ml-academy-notifications"
	keyVideoProgress    = "video-progress-"
)

const profileKeyPrefix = "profile:"

// KeyValueStore is the interface that wraps the storage port all repositories persist through
type KeyValueStore interface {
	// Method Get retrieves the value stored under a key.
	//
	// "key" parameter is the storage key.
	//
	// If the key is absent, "false" is returned without an error.
	// If some error occurs during data retrieve, the error will be returned together with empty values.
	Get(ctx context.Context, key string) (string, bool, error)
	// Method Set overwrites the value stored under a key.
	//
	// "key" parameter is the storage key.
	// "value" parameter is the whole new value.
	//
	// If some error occurs during data write, the error will be returned.
	Set(ctx context.Context, key, value string) error
	// Method Delete removes a key. Removing an absent key is not an error.
	//
	// "key" parameter is the storage key.
	//
	// If some error occurs during data deletion, the error will be returned.
	Delete(ctx context.Context, key string) error
	// Method Keys lists every stored key beginning with a prefix, sorted.
	//
	// "prefix" parameter is the key prefix.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// profileKey builds the storage key of a profile-scoped value
func profileKey(profileID, name string) string {
	return profileKeyPrefix + profileID + ":" + name
}

// profileIDFromKey extracts the profile id from a profile-scoped key with the given name
func profileIDFromKey(key, name string) (string, bool) {
	rest, ok := strings.CutPrefix(key, profileKeyPrefix)
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, ":"+name)
	if !ok || id == "" || strings.Contains(id, ":") {
		return "", false
	}
	return id, true
}

// readJSON decodes the value under key into dst.
// It reports whether a valid value was found; a corrupt value is logged and reported as absent.
func readJSON(ctx context.Context, store KeyValueStore, logger *zap.Logger, key string, dst any) (bool, error) {
	raw, found, err := store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		logger.Warn("falling back to empty value",
			zap.String("key", key),
			zap.Error(fmt.Errorf("%w: %v", ErrStorageParse, err)),
		)
		return false, nil
	}
	return true, nil
}

// writeJSON encodes value and stores it under key
func writeJSON(ctx context.Context, store KeyValueStore, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	return store.Set(ctx, key, string(data))
}
