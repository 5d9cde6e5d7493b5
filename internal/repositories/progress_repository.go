package repositories

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/mlacademy/backend/internal/models"
	"go.uber.org/zap"
)

// MaxDailyProgressEntries is the retention cap of the daily progress log
const MaxDailyProgressEntries = 30

type progressRepository struct {
	store  KeyValueStore
	logger *zap.Logger
	mu     sync.Mutex
}

// NewProgressRepository creates a repository of the completion set and the daily progress log
func NewProgressRepository(store KeyValueStore, logger *zap.Logger) *progressRepository {
	return &progressRepository{
		store:  store,
		logger: logger,
	}
}

// GetCompleted retrieves the completed lesson ids of a profile
func (r *progressRepository) GetCompleted(ctx context.Context, profileID string) ([]string, error) {
	completed, err := r.loadCompleted(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get completed lessons: %w", err)
	}
	return completed, nil
}

// ToggleCompleted flips membership of the lesson in the completion set and reports the new state
func (r *progressRepository) ToggleCompleted(ctx context.Context, profileID, lessonID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	completed, err := r.loadCompleted(ctx, profileID)
	if err != nil {
		return false, fmt.Errorf("failed to get completed lessons: %w", err)
	}

	nowCompleted := true
	if idx := slices.Index(completed, lessonID); idx >= 0 {
		completed = slices.Delete(completed, idx, idx+1)
		nowCompleted = false
	} else {
		completed = append(completed, lessonID)
	}

	if err := writeJSON(ctx, r.store, profileKey(profileID, keyCompletedLessons), completed); err != nil {
		return false, fmt.Errorf("failed to save completed lessons: %w", err)
	}
	return nowCompleted, nil
}

// MarkCompleted adds the lesson to the completion set.
// It reports false without writing when the lesson was already complete.
func (r *progressRepository) MarkCompleted(ctx context.Context, profileID, lessonID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	completed, err := r.loadCompleted(ctx, profileID)
	if err != nil {
		return false, fmt.Errorf("failed to get completed lessons: %w", err)
	}
	if slices.Contains(completed, lessonID) {
		return false, nil
	}

	completed = append(completed, lessonID)
	if err := writeJSON(ctx, r.store, profileKey(profileID, keyCompletedLessons), completed); err != nil {
		return false, fmt.Errorf("failed to save completed lessons: %w", err)
	}
	return true, nil
}

// GetDaily retrieves the daily progress log of a profile, oldest day first
func (r *progressRepository) GetDaily(ctx context.Context, profileID string) ([]models.DailyProgress, error) {
	entries, err := r.loadDaily(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily progress: %w", err)
	}
	return entries, nil
}

// AddDaily increments the entry of the given day, creating it when missing,
// and keeps only the most recent MaxDailyProgressEntries days.
func (r *progressRepository) AddDaily(ctx context.Context, profileID, date string, count int, minutes float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.loadDaily(ctx, profileID)
	if err != nil {
		return fmt.Errorf("failed to get daily progress: %w", err)
	}

	idx := slices.IndexFunc(entries, func(e models.DailyProgress) bool { return e.Date == date })
	if idx < 0 {
		entries = append(entries, models.DailyProgress{Date: date})
		idx = len(entries) - 1
	}
	entries[idx].Count += count
	entries[idx].MinutesWatched += minutes

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	if len(entries) > MaxDailyProgressEntries {
		entries = entries[len(entries)-MaxDailyProgressEntries:]
	}

	if err := writeJSON(ctx, r.store, profileKey(profileID, keyDailyProgress), entries); err != nil {
		return fmt.Errorf("failed to save daily progress: %w", err)
	}
	return nil
}

func (r *progressRepository) loadCompleted(ctx context.Context, profileID string) ([]string, error) {
	var completed []string
	found, err := readJSON(ctx, r.store, r.logger, profileKey(profileID, keyCompletedLessons), &completed)
	if err != nil {
		return nil, err
	}
	if !found || completed == nil {
		return []string{}, nil
	}
	return completed, nil
}

func (r *progressRepository) loadDaily(ctx context.Context, profileID string) ([]models.DailyProgress, error) {
	var entries []models.DailyProgress
	found, err := readJSON(ctx, r.store, r.logger, profileKey(profileID, keyDailyProgress), &entries)
	if err != nil {
		return nil, err
	}
	if !found || entries == nil {
		return []models.DailyProgress{}, nil
	}
	return entries, nil
}
