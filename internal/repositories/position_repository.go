package repositories

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// AnonymousPositionOwner keys the video positions of a profile with no session
const AnonymousPositionOwner = "anonymous"

type positionRepository struct {
	store  KeyValueStore
	logger *zap.Logger
}

// NewPositionRepository creates a repository of video resume positions
func NewPositionRepository(store KeyValueStore, logger *zap.Logger) *positionRepository {
	return &positionRepository{
		store:  store,
		logger: logger,
	}
}

// Get retrieves the resume position of a lesson in seconds. A missing or corrupt value reports false.
func (r *positionRepository) Get(ctx context.Context, profileID, ownerID, lessonID string) (float64, bool, error) {
	key := positionKey(profileID, ownerID, lessonID)
	raw, found, err := r.store.Get(ctx, key)
	if err != nil {
		return 0, false, fmt.Errorf("failed to get video position: %w", err)
	}
	if !found {
		return 0, false, nil
	}
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.logger.Warn("falling back to empty value",
			zap.String("key", key),
			zap.Error(fmt.Errorf("%w: %v", ErrStorageParse, err)),
		)
		return 0, false, nil
	}
	return seconds, true, nil
}

// Save stores the resume position of a lesson
func (r *positionRepository) Save(ctx context.Context, profileID, ownerID, lessonID string, seconds float64) error {
	value := strconv.FormatFloat(seconds, 'f', -1, 64)
	if err := r.store.Set(ctx, positionKey(profileID, ownerID, lessonID), value); err != nil {
		return fmt.Errorf("failed to save video position: %w", err)
	}
	return nil
}

// Delete clears the resume position of a lesson
func (r *positionRepository) Delete(ctx context.Context, profileID, ownerID, lessonID string) error {
	if err := r.store.Delete(ctx, positionKey(profileID, ownerID, lessonID)); err != nil {
		return fmt.Errorf("failed to delete video position: %w", err)
	}
	return nil
}

func positionKey(profileID, ownerID, lessonID string) string {
	if ownerID == "" {
		ownerID = AnonymousPositionOwner
	}
	return profileKey(profileID, keyVideoProgress+ownerID+"-"+lessonID)
}
