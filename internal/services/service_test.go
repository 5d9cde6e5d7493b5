package services

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/hibiken/asynq"
	"github.com/mlacademy/backend/internal/models"
)

// fixedNow is the clock used by service tests: Wednesday, 15 May 2024, noon UTC
var fixedNow = time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)

func clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// mockUserRepository is a mock implementation of AddedUserRepository
type mockUserRepository struct {
	users  []models.User
	err    error
	writes int
}

func (m *mockUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.users), nil
}

func (m *mockUserRepository) Update(ctx context.Context, fn func([]models.User) ([]models.User, error)) error {
	if m.err != nil {
		return m.err
	}
	updated, err := fn(slices.Clone(m.users))
	if err != nil {
		return err
	}
	m.users = updated
	m.writes++
	return nil
}

// mockSessionRepository is a mock implementation of SessionRepository and SessionLister
type mockSessionRepository struct {
	sessions map[string]models.User
	err      error
	getErr   map[string]error
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: map[string]models.User{}}
}

func (m *mockSessionRepository) Get(ctx context.Context, profileID string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if err := m.getErr[profileID]; err != nil {
		return nil, err
	}
	u, ok := m.sessions[profileID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *mockSessionRepository) Save(ctx context.Context, profileID string, user models.User) error {
	if m.err != nil {
		return m.err
	}
	m.sessions[profileID] = user.WithoutPassword()
	return nil
}

func (m *mockSessionRepository) Delete(ctx context.Context, profileID string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.sessions, profileID)
	return nil
}

func (m *mockSessionRepository) ListProfiles(ctx context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	profiles := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		profiles = append(profiles, id)
	}
	for id := range m.getErr {
		profiles = append(profiles, id)
	}
	sort.Strings(profiles)
	return profiles, nil
}

// mockActivityRepository is a mock implementation of LoginActivityRepository and ActivityReader
type mockActivityRepository struct {
	lastLogins map[string]time.Time
	events     map[string][]time.Time
	err        error
}

func newMockActivityRepository() *mockActivityRepository {
	return &mockActivityRepository{
		lastLogins: map[string]time.Time{},
		events:     map[string][]time.Time{},
	}
}

func (m *mockActivityRepository) RecordLogin(ctx context.Context, userID string, at time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.lastLogins[userID] = at
	m.events[userID] = append(m.events[userID], at)
	return nil
}

func (m *mockActivityRepository) GetLastLogins(ctx context.Context) (map[string]time.Time, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.lastLogins, nil
}

func (m *mockActivityRepository) GetLoginEvents(ctx context.Context) (map[string][]time.Time, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.events, nil
}

// mockSettingsRepository is a mock implementation of AdminPasswordRepository and PreferencesRepository
type mockSettingsRepository struct {
	adminPassword string
	theme         models.Theme
	autoplay      bool
	notifications bool
	err           error
}

func newMockSettingsRepository() *mockSettingsRepository {
	return &mockSettingsRepository{
		adminPassword: "admin123",
		theme:         models.ThemeLight,
		notifications: true,
	}
}

func (m *mockSettingsRepository) GetAdminPassword(ctx context.Context) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.adminPassword, nil
}

func (m *mockSettingsRepository) SetAdminPassword(ctx context.Context, password string) error {
	if m.err != nil {
		return m.err
	}
	m.adminPassword = password
	return nil
}

func (m *mockSettingsRepository) GetTheme(ctx context.Context, profileID string) (models.Theme, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.theme, nil
}

func (m *mockSettingsRepository) SetTheme(ctx context.Context, profileID string, theme models.Theme) error {
	if m.err != nil {
		return m.err
	}
	m.theme = theme
	return nil
}

func (m *mockSettingsRepository) GetAutoplay(ctx context.Context, profileID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.autoplay, nil
}

func (m *mockSettingsRepository) SetAutoplay(ctx context.Context, profileID string, enabled bool) error {
	if m.err != nil {
		return m.err
	}
	m.autoplay = enabled
	return nil
}

func (m *mockSettingsRepository) GetNotifications(ctx context.Context, profileID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.notifications, nil
}

func (m *mockSettingsRepository) SetNotifications(ctx context.Context, profileID string, enabled bool) error {
	if m.err != nil {
		return m.err
	}
	m.notifications = enabled
	return nil
}

// mockTokenIssuer is a mock implementation of AdminTokenIssuer
type mockTokenIssuer struct {
	token string
	err   error
}

func (m *mockTokenIssuer) GenerateAdminToken() (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.token, nil
}

// mockProgressRepository is a mock implementation of ProgressRepository
type mockProgressRepository struct {
	completed []string
	daily     []models.DailyProgress
	err       error
}

func (m *mockProgressRepository) GetCompleted(ctx context.Context, profileID string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.completed), nil
}

func (m *mockProgressRepository) ToggleCompleted(ctx context.Context, profileID, lessonID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if idx := slices.Index(m.completed, lessonID); idx >= 0 {
		m.completed = slices.Delete(m.completed, idx, idx+1)
		return false, nil
	}
	m.completed = append(m.completed, lessonID)
	return true, nil
}

func (m *mockProgressRepository) MarkCompleted(ctx context.Context, profileID, lessonID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if slices.Contains(m.completed, lessonID) {
		return false, nil
	}
	m.completed = append(m.completed, lessonID)
	return true, nil
}

func (m *mockProgressRepository) GetDaily(ctx context.Context, profileID string) ([]models.DailyProgress, error) {
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.daily), nil
}

func (m *mockProgressRepository) AddDaily(ctx context.Context, profileID, date string, count int, minutes float64) error {
	if m.err != nil {
		return m.err
	}
	for i := range m.daily {
		if m.daily[i].Date == date {
			m.daily[i].Count += count
			m.daily[i].MinutesWatched += minutes
			return nil
		}
	}
	m.daily = append(m.daily, models.DailyProgress{Date: date, Count: count, MinutesWatched: minutes})
	return nil
}

// mockPositionRepository is a mock implementation of PositionRepository
type mockPositionRepository struct {
	positions map[string]float64
	err       error
}

func newMockPositionRepository() *mockPositionRepository {
	return &mockPositionRepository{positions: map[string]float64{}}
}

func (m *mockPositionRepository) Get(ctx context.Context, profileID, ownerID, lessonID string) (float64, bool, error) {
	if m.err != nil {
		return 0, false, m.err
	}
	v, ok := m.positions[profileID+"/"+ownerID+"/"+lessonID]
	return v, ok, nil
}

func (m *mockPositionRepository) Save(ctx context.Context, profileID, ownerID, lessonID string, seconds float64) error {
	if m.err != nil {
		return m.err
	}
	m.positions[profileID+"/"+ownerID+"/"+lessonID] = seconds
	return nil
}

func (m *mockPositionRepository) Delete(ctx context.Context, profileID, ownerID, lessonID string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.positions, profileID+"/"+ownerID+"/"+lessonID)
	return nil
}

// mockLeadRepository is a mock implementation of LeadRepository
type mockLeadRepository struct {
	leads  []models.Lead
	err    error
	writes int
}

func (m *mockLeadRepository) GetAll(ctx context.Context) ([]models.Lead, error) {
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.leads), nil
}

func (m *mockLeadRepository) Update(ctx context.Context, fn func([]models.Lead) ([]models.Lead, error)) error {
	if m.err != nil {
		return m.err
	}
	updated, err := fn(slices.Clone(m.leads))
	if err != nil {
		return err
	}
	m.leads = updated
	m.writes++
	return nil
}

// mockEnqueuer is a mock implementation of TaskEnqueuer
type mockEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.tasks = append(m.tasks, task)
	m.opts = append(m.opts, opts)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

// mockMissedDayChecker is a mock implementation of MissedDayChecker
type mockMissedDayChecker struct {
	missed map[string]bool
	err    error
}

func (m *mockMissedDayChecker) MissedYesterday(ctx context.Context, profileID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.missed[profileID], nil
}
