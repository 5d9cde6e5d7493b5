package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/mlacademy/backend/internal/models"
	"go.uber.org/zap"
)

// ReminderQueue is the asynq queue reminder tasks are enqueued to
const ReminderQueue = "reminders"

const reminderRetention = 24 * time.Hour

// TaskEnqueuer is the interface that wraps enqueueing background tasks.
// *asynq.Client satisfies it.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// MissedDayChecker reports whether a profile skipped yesterday with notifications on
type MissedDayChecker interface {
	MissedYesterday(ctx context.Context, profileID string) (bool, error)
}

// SessionLister is the interface that wraps walking the profiles holding a session
type SessionLister interface {
	// Method ListProfiles retrieves the ids of every profile holding a session.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	ListProfiles(ctx context.Context) ([]string, error)
	// Method Get retrieves the session of a profile, "nil" when nobody is logged in.
	//
	// "profileID" parameter identifies the client profile.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	Get(ctx context.Context, profileID string) (*models.User, error)
}

type reminderService struct {
	tasks    TaskEnqueuer
	missed   MissedDayChecker
	sessions SessionLister
	logger   *zap.Logger
	now      func() time.Time
}

// NewReminderService creates a new reminder service.
// "tasks" may be nil, in which case reminders are disabled and nothing is enqueued.
func NewReminderService(tasks TaskEnqueuer, missed MissedDayChecker, sessions SessionLister, logger *zap.Logger, now func() time.Time) *reminderService {
	return &reminderService{
		tasks:    tasks,
		missed:   missed,
		sessions: sessions,
		logger:   logger,
		now:      now,
	}
}

// CheckAndNotify enqueues a missed-lesson reminder for the logged in user of the profile
// when yesterday had no completed lesson. At most one reminder per profile and day is queued.
func (s *reminderService) CheckAndNotify(ctx context.Context, profileID string, session *models.User) (bool, error) {
	if s.tasks == nil || session == nil {
		return false, nil
	}

	missed, err := s.missed.MissedYesterday(ctx, profileID)
	if err != nil {
		return false, fmt.Errorf("failed to check yesterday's progress: %w", err)
	}
	if !missed {
		return false, nil
	}

	yesterday := s.now().AddDate(0, 0, -1).Format(models.DailyProgressDateLayout)
	payload := models.ReminderPayload{
		ProfileID: profileID,
		UserID:    session.ID,
		Name:      session.Name,
		Email:     session.Email,
		Date:      yesterday,
	}
	taskID := fmt.Sprintf("missed:%s:%s", profileID, yesterday)

	enqueued, err := s.enqueue(ctx, models.TaskTypeMissedLesson, payload, asynq.TaskID(taskID), asynq.Retention(reminderRetention))
	if err != nil {
		return false, err
	}
	if enqueued {
		s.logger.Info("missed lesson reminder enqueued",
			zap.String("profile_id", profileID),
			zap.String("user_id", session.ID),
			zap.String("date", yesterday),
		)
	}
	return enqueued, nil
}

// SendTestEmail enqueues a test reminder for the logged in user of the profile
func (s *reminderService) SendTestEmail(ctx context.Context, profileID string, session *models.User) error {
	if session == nil {
		return ErrNotLoggedIn
	}
	if s.tasks == nil {
		return ErrRemindersDisabled
	}

	payload := models.ReminderPayload{
		ProfileID: profileID,
		UserID:    session.ID,
		Name:      session.Name,
		Email:     session.Email,
	}
	if _, err := s.enqueue(ctx, models.TaskTypeTestEmail, payload); err != nil {
		return err
	}

	s.logger.Info("test reminder enqueued", zap.String("profile_id", profileID), zap.String("user_id", session.ID))
	return nil
}

// SweepMissed walks every profile holding a session and enqueues the due reminders.
// A failing profile is logged and skipped. Returns the number of reminders enqueued.
func (s *reminderService) SweepMissed(ctx context.Context) (int, error) {
	profiles, err := s.sessions.ListProfiles(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list profiles: %w", err)
	}

	enqueued := 0
	for _, profileID := range profiles {
		if err := ctx.Err(); err != nil {
			return enqueued, err
		}

		session, err := s.sessions.Get(ctx, profileID)
		if err != nil {
			s.logger.Error("failed to get session", zap.String("profile_id", profileID), zap.Error(err))
			continue
		}

		ok, err := s.CheckAndNotify(ctx, profileID, session)
		if err != nil {
			s.logger.Error("failed to notify profile", zap.String("profile_id", profileID), zap.Error(err))
			continue
		}
		if ok {
			enqueued++
		}
	}

	s.logger.Info("missed lesson sweep finished", zap.Int("profiles", len(profiles)), zap.Int("enqueued", enqueued))
	return enqueued, nil
}

// enqueue reports false without an error when a task with the same id is already queued
func (s *reminderService) enqueue(ctx context.Context, taskType string, payload models.ReminderPayload, opts ...asynq.Option) (bool, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("failed to marshal reminder payload: %w", err)
	}

	opts = append([]asynq.Option{asynq.Queue(ReminderQueue)}, opts...)
	if _, err := s.tasks.EnqueueContext(ctx, asynq.NewTask(taskType, data), opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return false, nil
		}
		return false, fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return true, nil
}
