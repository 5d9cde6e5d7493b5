package services

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/mlacademy/backend/internal/catalog"
	"github.com/mlacademy/backend/internal/models"
)

const (
	baseVisits           = 1500
	visitsPerDay         = 12
	minOnline            = 5
	onlineSpread         = 15
	publicStudentsOffset = 124
	publicLearnersOffset = 45
)

// ActivityReader is the interface that wraps reading the login activity
type ActivityReader interface {
	// Method GetLastLogins retrieves the most recent login of every user who ever logged in.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	GetLastLogins(ctx context.Context) (map[string]time.Time, error)
	// Method GetLoginEvents retrieves the login event log keyed by user id.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	GetLoginEvents(ctx context.Context) (map[string][]time.Time, error)
}

// AddedUserReader reads the users added from the admin console
type AddedUserReader interface {
	GetAll(ctx context.Context) ([]models.User, error)
}

type statsService struct {
	users           AddedUserReader
	activity        ActivityReader
	lastMonthOffset int
	now             func() time.Time
	intn            func(n int) int
}

// NewStatsService creates a new statistics service.
// "lastMonthOffset" is added to the active users of the previous month.
// "now" sets the calendar months are counted in.
func NewStatsService(users AddedUserReader, activity ActivityReader, lastMonthOffset int, now func() time.Time) *statsService {
	return &statsService{
		users:           users,
		activity:        activity,
		lastMonthOffset: lastMonthOffset,
		now:             now,
		intn:            rand.IntN,
	}
}

// GrowthStats computes the admin dashboard figures for the current month
func (s *statsService) GrowthStats(ctx context.Context) (*models.GrowthStats, error) {
	added, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	lastLogins, err := s.activity.GetLastLogins(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user activity: %w", err)
	}
	events, err := s.activity.GetLoginEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get login events: %w", err)
	}

	users := append(catalog.SeedUsers(), added...)
	stats := ComputeGrowthStats(users, mergeLogins(lastLogins, events), s.now(), s.lastMonthOffset)
	stats.CurrentOnline = minOnline + s.intn(onlineSpread)
	return &stats, nil
}

// PublicStats computes the landing page counters
func (s *statsService) PublicStats(ctx context.Context) (*models.PublicStats, error) {
	added, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	lastLogins, err := s.activity.GetLastLogins(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user activity: %w", err)
	}

	return &models.PublicStats{
		TotalStudents:  len(catalog.SeedUsers()) + len(added) + publicStudentsOffset,
		ActiveLearners: len(lastLogins) + publicLearnersOffset,
		TotalVisits:    TotalVisits(s.now()),
	}, nil
}

// ComputeGrowthStats derives the monthly figures from the user list and the login times of each user.
// CurrentOnline is left at zero.
func ComputeGrowthStats(users []models.User, logins map[string][]time.Time, now time.Time, lastMonthOffset int) models.GrowthStats {
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonth := thisMonth.AddDate(0, -1, 0)

	var stats models.GrowthStats
	stats.TotalUsers = len(users)

	existedLastMonth := 0
	for _, u := range users {
		joined := u.JoinedDate.In(now.Location())
		if sameMonth(joined, thisMonth) {
			stats.NewUsers++
		}
		if sameMonth(joined, lastMonth) {
			stats.NewUsersLastMonth++
		}
		if joined.Before(thisMonth) {
			existedLastMonth++
		}
		if loggedInDuring(logins[u.ID], thisMonth, now.Location()) {
			stats.ActiveUsers++
		}
		if loggedInDuring(logins[u.ID], lastMonth, now.Location()) {
			stats.ActiveUsersLastMonth++
		}
	}
	stats.ActiveUsersLastMonth += lastMonthOffset

	stats.InactiveUsers = stats.TotalUsers - stats.ActiveUsers
	stats.InactiveUsersLastMonth = existedLastMonth - stats.ActiveUsersLastMonth

	stats.NewUsersGrowth = GrowthPercent(stats.NewUsers, stats.NewUsersLastMonth)
	stats.ActiveUsersGrowth = GrowthPercent(stats.ActiveUsers, stats.ActiveUsersLastMonth)
	stats.InactiveUsersGrowth = GrowthPercent(stats.InactiveUsers, stats.InactiveUsersLastMonth)
	stats.TotalVisits = TotalVisits(now)

	return stats
}

// GrowthPercent returns the relative change from prev to cur in whole percent
func GrowthPercent(cur, prev int) int {
	if prev == 0 {
		if cur > 0 {
			return 100
		}
		return 0
	}
	return roundHalfUp(float64(cur-prev) / float64(prev) * 100)
}

// TotalVisits is the simulated visit counter for the day of "now"
func TotalVisits(now time.Time) int {
	return baseVisits + now.YearDay()*visitsPerDay
}

// roundHalfUp rounds halves towards positive infinity
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func sameMonth(t, monthStart time.Time) bool {
	return t.Year() == monthStart.Year() && t.Month() == monthStart.Month()
}

func loggedInDuring(times []time.Time, monthStart time.Time, loc *time.Location) bool {
	for _, t := range times {
		if sameMonth(t.In(loc), monthStart) {
			return true
		}
	}
	return false
}

// mergeLogins folds the last-login map into the event log so users recorded only there still count
func mergeLogins(lastLogins map[string]time.Time, events map[string][]time.Time) map[string][]time.Time {
	merged := make(map[string][]time.Time, len(events)+len(lastLogins))
	for id, times := range events {
		merged[id] = append([]time.Time(nil), times...)
	}
	for id, t := range lastLogins {
		merged[id] = append(merged[id], t)
	}
	return merged
}
