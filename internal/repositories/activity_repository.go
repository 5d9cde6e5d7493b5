package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MaxLoginEventsPerUser caps the login event log of each user
const MaxLoginEventsPerUser = 100

type activityRepository struct {
	store  KeyValueStore
	logger *zap.Logger
	mu     sync.Mutex
}

// NewActivityRepository creates a repository of user logins.
// It keeps the last-login map and an append-only login event log side by side.
func NewActivityRepository(store KeyValueStore, logger *zap.Logger) *activityRepository {
	return &activityRepository{
		store:  store,
		logger: logger,
	}
}

// RecordLogin overwrites the last login of the user and appends a login event
func (r *activityRepository) RecordLogin(ctx context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lastLogins, err := r.loadLastLogins(ctx)
	if err != nil {
		return fmt.Errorf("failed to get user activity: %w", err)
	}
	lastLogins[userID] = at
	if err := writeJSON(ctx, r.store, keyUserActivity, lastLogins); err != nil {
		return fmt.Errorf("failed to save user activity: %w", err)
	}

	events, err := r.loadEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to get login events: %w", err)
	}
	userEvents := append(events[userID], at)
	if len(userEvents) > MaxLoginEventsPerUser {
		userEvents = userEvents[len(userEvents)-MaxLoginEventsPerUser:]
	}
	events[userID] = userEvents
	if err := writeJSON(ctx, r.store, keyUserLogins, events); err != nil {
		return fmt.Errorf("failed to save login events: %w", err)
	}

	return nil
}

// GetLastLogins retrieves the most recent login of every user who ever logged in
func (r *activityRepository) GetLastLogins(ctx context.Context) (map[string]time.Time, error) {
	lastLogins, err := r.loadLastLogins(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user activity: %w", err)
	}
	return lastLogins, nil
}

// GetLoginEvents retrieves the login event log, oldest event first per user
func (r *activityRepository) GetLoginEvents(ctx context.Context) (map[string][]time.Time, error) {
	events, err := r.loadEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get login events: %w", err)
	}
	return events, nil
}

func (r *activityRepository) loadLastLogins(ctx context.Context) (map[string]time.Time, error) {
	var lastLogins map[string]time.Time
	found, err := readJSON(ctx, r.store, r.logger, keyUserActivity, &lastLogins)
	if err != nil {
		return nil, err
	}
	if !found || lastLogins == nil {
		return map[string]time.Time{}, nil
	}
	return lastLogins, nil
}

func (r *activityRepository) loadEvents(ctx context.Context) (map[string][]time.Time, error) {
	var events map[string][]time.Time
	found, err := readJSON(ctx, r.store, r.logger, keyUserLogins, &events)
	if err != nil {
		return nil, err
	}
	if !found || events == nil {
		return map[string][]time.Time{}, nil
	}
	return events, nil
}
