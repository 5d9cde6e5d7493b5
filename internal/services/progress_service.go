package services

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mlacademy/backend/internal/catalog"
	"github.com/mlacademy/backend/internal/models"
	"go.uber.org/zap"
)

const weekDays = 7

// uzbek short weekday names, Sunday first
var weekdayLabels = [7]string{"Ya", "Du", "Se", "Ch", "Pa", "Ju", "Sh"}

// ProgressRepository is the interface that wraps methods for the completion set and the daily progress log
type ProgressRepository interface {
	CompletedLessonsReader
	// Method ToggleCompleted flips membership of a lesson in the completion set.
	//
	// "profileID" parameter identifies the client profile.
	// "lessonID" parameter identifies the lesson.
	//
	// Returns the new membership. If some error occurs, the error will be returned together with "false" value.
	ToggleCompleted(ctx context.Context, profileID, lessonID string) (bool, error)
	// Method MarkCompleted adds a lesson to the completion set.
	//
	// "profileID" parameter identifies the client profile.
	// "lessonID" parameter identifies the lesson.
	//
	// Returns "false" when the lesson was already complete.
	// If some error occurs, the error will be returned together with "false" value.
	MarkCompleted(ctx context.Context, profileID, lessonID string) (bool, error)
	// Method GetDaily retrieves the daily progress log, oldest day first.
	//
	// "profileID" parameter identifies the client profile.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	GetDaily(ctx context.Context, profileID string) ([]models.DailyProgress, error)
	// Method AddDaily increments the entry of a day, creating it when missing, and applies the retention cap.
	//
	// "profileID" parameter identifies the client profile.
	// "date" parameter is the calendar day in "2006-01-02" layout.
	// "count" and "minutes" parameters are the increments.
	//
	// If some error occurs during data write, the error will be returned.
	AddDaily(ctx context.Context, profileID, date string, count int, minutes float64) error
}

// PositionRepository is the interface that wraps methods for video resume positions
type PositionRepository interface {
	Get(ctx context.Context, profileID, ownerID, lessonID string) (float64, bool, error)
	Save(ctx context.Context, profileID, ownerID, lessonID string, seconds float64) error
	Delete(ctx context.Context, profileID, ownerID, lessonID string) error
}

// PlaybackSettingsReader reads the profile flags that drive playback and reminders
type PlaybackSettingsReader interface {
	GetAutoplay(ctx context.Context, profileID string) (bool, error)
	GetNotifications(ctx context.Context, profileID string) (bool, error)
}

// LessonAccess is the part of access control the progress tracker relies on
type LessonAccess interface {
	CanEnterCourse(user *models.User, course models.Course) error
	IsLessonLocked(user *models.User, course models.Course, lessonID string) bool
	NextLesson(user *models.User, courseID, lessonID string) (*models.Lesson, error)
}

type progressService struct {
	progress  ProgressRepository
	positions PositionRepository
	settings  PlaybackSettingsReader
	access    LessonAccess
	logger    *zap.Logger
	now       func() time.Time
}

// NewProgressService creates a new progress tracker.
// "now" supplies the current time in the calendar location used for daily entries.
func NewProgressService(
	progress ProgressRepository,
	positions PositionRepository,
	settings PlaybackSettingsReader,
	access LessonAccess,
	logger *zap.Logger,
	now func() time.Time,
) *progressService {
	return &progressService{
		progress:  progress,
		positions: positions,
		settings:  settings,
		access:    access,
		logger:    logger,
		now:       now,
	}
}

// ToggleLessonCompletion flips the completion of a lesson.
// Entering "complete" records today's progress; leaving it does not reverse the record.
func (s *progressService) ToggleLessonCompletion(ctx context.Context, profileID string, user *models.User, lessonID string) (bool, error) {
	course, lesson, err := s.unlockedLesson(user, lessonID)
	if err != nil {
		return false, err
	}

	completed, err := s.progress.ToggleCompleted(ctx, profileID, lesson.ID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle lesson completion: %w", err)
	}

	if completed {
		if err := s.RecordDailyProgress(ctx, profileID, s.now(), 1, durationToMinutes(lesson.Duration)); err != nil {
			return false, err
		}
	}

	s.logger.Debug("lesson completion toggled",
		zap.String("profile_id", profileID),
		zap.String("course_id", course.ID),
		zap.String("lesson_id", lesson.ID),
		zap.Bool("completed", completed),
	)
	return completed, nil
}

// OnLessonEnded handles the natural end of a video: the lesson is marked complete once,
// its resume position is cleared and the next unlocked lesson is returned when autoplay is on.
func (s *progressService) OnLessonEnded(ctx context.Context, profileID string, user *models.User, lessonID string) (*models.LessonEndedResponse, error) {
	course, lesson, err := s.unlockedLesson(user, lessonID)
	if err != nil {
		return nil, err
	}

	marked, err := s.progress.MarkCompleted(ctx, profileID, lesson.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark lesson completed: %w", err)
	}
	if marked {
		if err := s.RecordDailyProgress(ctx, profileID, s.now(), 1, durationToMinutes(lesson.Duration)); err != nil {
			return nil, err
		}
	}

	if err := s.positions.Delete(ctx, profileID, ownerID(user), lesson.ID); err != nil {
		return nil, fmt.Errorf("failed to clear video position: %w", err)
	}

	response := &models.LessonEndedResponse{
		LessonID: lesson.ID,
		Marked:   marked,
	}

	autoplay, err := s.settings.GetAutoplay(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get autoplay flag: %w", err)
	}
	if autoplay {
		next, err := s.access.NextLesson(user, course.ID, lesson.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve next lesson: %w", err)
		}
		response.Autoplay = next
	}

	return response, nil
}

// RecordDailyProgress adds lessons and minutes to the entry of the calendar day of "date"
func (s *progressService) RecordDailyProgress(ctx context.Context, profileID string, date time.Time, deltaCount int, deltaMinutes float64) error {
	day := date.Format(models.DailyProgressDateLayout)
	if err := s.progress.AddDaily(ctx, profileID, day, deltaCount, deltaMinutes); err != nil {
		return fmt.Errorf("failed to record daily progress: %w", err)
	}
	return nil
}

// WeeklySummary derives the last-7-days chart, the weekly totals, the motivation tier and the missed-yesterday flag
func (s *progressService) WeeklySummary(ctx context.Context, profileID string) (*models.WeeklySummary, error) {
	entries, err := s.progress.GetDaily(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily progress: %w", err)
	}
	completed, err := s.progress.GetCompleted(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get completed lessons: %w", err)
	}

	summary := &models.WeeklySummary{
		Days:           LastSevenDays(entries, s.now()),
		CompletedCount: len(completed),
	}
	for _, day := range summary.Days {
		summary.TotalLessons += day.Count
		summary.TotalMinutes += day.MinutesWatched
	}
	summary.TotalHours = math.Round(summary.TotalMinutes/60*10) / 10
	summary.Tier = MotivationTierFor(summary.TotalLessons)

	missed, err := s.missedYesterday(ctx, profileID, entries)
	if err != nil {
		return nil, err
	}
	summary.MissedYesterday = missed

	return summary, nil
}

// MissedYesterday reports whether notifications are on and no lesson was completed yesterday
func (s *progressService) MissedYesterday(ctx context.Context, profileID string) (bool, error) {
	entries, err := s.progress.GetDaily(ctx, profileID)
	if err != nil {
		return false, fmt.Errorf("failed to get daily progress: %w", err)
	}
	return s.missedYesterday(ctx, profileID, entries)
}

func (s *progressService) missedYesterday(ctx context.Context, profileID string, entries []models.DailyProgress) (bool, error) {
	enabled, err := s.settings.GetNotifications(ctx, profileID)
	if err != nil {
		return false, fmt.Errorf("failed to get notifications flag: %w", err)
	}
	if !enabled {
		return false, nil
	}
	yesterday := s.now().AddDate(0, 0, -1).Format(models.DailyProgressDateLayout)
	active := slices.ContainsFunc(entries, func(e models.DailyProgress) bool {
		return e.Date == yesterday && e.Count > 0
	})
	return !active, nil
}

// GetVideoPosition retrieves the resume position of a lesson, 0 when none is stored
func (s *progressService) GetVideoPosition(ctx context.Context, profileID string, user *models.User, lessonID string) (*models.VideoPosition, error) {
	if _, _, ok := catalog.LessonByID(lessonID); !ok {
		return nil, ErrLessonNotFound
	}
	seconds, _, err := s.positions.Get(ctx, profileID, ownerID(user), lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get video position: %w", err)
	}
	return &models.VideoPosition{LessonID: lessonID, Seconds: seconds}, nil
}

// SaveVideoPosition stores the resume position of a lesson
func (s *progressService) SaveVideoPosition(ctx context.Context, profileID string, user *models.User, lessonID string, seconds float64) error {
	if _, _, err := s.unlockedLesson(user, lessonID); err != nil {
		return err
	}
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("%w: position must be a non-negative number of seconds", ErrValidation)
	}
	if err := s.positions.Save(ctx, profileID, ownerID(user), lessonID, seconds); err != nil {
		return fmt.Errorf("failed to save video position: %w", err)
	}
	return nil
}

// ClearVideoPosition removes the resume position of a lesson
func (s *progressService) ClearVideoPosition(ctx context.Context, profileID string, user *models.User, lessonID string) error {
	if _, _, ok := catalog.LessonByID(lessonID); !ok {
		return ErrLessonNotFound
	}
	if err := s.positions.Delete(ctx, profileID, ownerID(user), lessonID); err != nil {
		return fmt.Errorf("failed to clear video position: %w", err)
	}
	return nil
}

// unlockedLesson resolves a lesson and rejects it when the course is denied or the lesson is locked for the user
func (s *progressService) unlockedLesson(user *models.User, lessonID string) (models.Course, models.Lesson, error) {
	course, lesson, ok := catalog.LessonByID(lessonID)
	if !ok {
		return models.Course{}, models.Lesson{}, ErrLessonNotFound
	}
	if err := s.access.CanEnterCourse(user, course); err != nil {
		return models.Course{}, models.Lesson{}, err
	}
	if s.access.IsLessonLocked(user, course, lesson.ID) {
		return models.Course{}, models.Lesson{}, ErrAccessDenied
	}
	return course, lesson, nil
}

// LastSevenDays builds the chart series for the 7 calendar days ending on "now", oldest first, zero-filled
func LastSevenDays(entries []models.DailyProgress, now time.Time) []models.DayStat {
	byDate := make(map[string]models.DailyProgress, len(entries))
	for _, e := range entries {
		byDate[e.Date] = e
	}

	days := make([]models.DayStat, 0, weekDays)
	for i := weekDays - 1; i >= 0; i-- {
		d := now.AddDate(0, 0, -i)
		date := d.Format(models.DailyProgressDateLayout)
		entry := byDate[date]
		days = append(days, models.DayStat{
			Date:           date,
			Label:          weekdayLabels[d.Weekday()],
			Count:          entry.Count,
			MinutesWatched: entry.MinutesWatched,
		})
	}
	return days
}

// MotivationTierFor maps the weekly lesson count onto a tier; thresholds are strict
func MotivationTierFor(weeklyLessons int) models.MotivationTier {
	switch {
	case weeklyLessons > 10:
		return models.TierOnFire
	case weeklyLessons > 5:
		return models.TierGoodPace
	case weeklyLessons > 0:
		return models.TierCouldDoMore
	default:
		return models.TierJustStart
	}
}

// durationToMinutes converts "mm:ss" to minutes; malformed parts count as zero
func durationToMinutes(duration string) float64 {
	minStr, secStr, _ := strings.Cut(duration, ":")
	return float64(atoiOrZero(minStr)) + float64(atoiOrZero(secStr))/60
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// ownerID keys video positions by user, or anonymously when nobody is logged in
func ownerID(user *models.User) string {
	if user == nil {
		return ""
	}
	return user.ID
}
