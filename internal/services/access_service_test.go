package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mlacademy/backend/internal/catalog"
	"github.com/mlacademy/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, id string) *models.User {
	t.Helper()
	for _, u := range catalog.SeedUsers() {
		if u.ID == id {
			return &u
		}
	}
	t.Fatalf("seed user %s not found", id)
	return nil
}

func TestNewAccessService(t *testing.T) {
	repo := &mockProgressRepository{}

	svc := NewAccessService(repo)

	assert.NotNil(t, svc)
	assert.Equal(t, repo, svc.progress)
}

func TestAccessService_IsLessonLocked(t *testing.T) {
	svc := NewAccessService(&mockProgressRepository{})
	frontend, _ := catalog.CourseByID("course-frontend")
	ai, _ := catalog.CourseByID("course-ai")

	tests := []struct {
		name     string
		user     *models.User
		course   models.Course
		lessonID string
		locked   bool
	}{
		{name: "admin sees everything", user: seedUser(t, "u_admin_1"), course: ai, lessonID: "l_ai_3", locked: false},
		{name: "demo lesson for student without access", user: seedUser(t, "u_student_1"), course: ai, lessonID: "l_ai_1", locked: false},
		{name: "student without access", user: seedUser(t, "u_student_1"), course: ai, lessonID: "l_ai_2", locked: true},
		{name: "student with access", user: seedUser(t, "u_student_1"), course: frontend, lessonID: "l_fe_3", locked: false},
		{name: "anonymous demo lesson", user: nil, course: frontend, lessonID: "l_fe_1", locked: false},
		{name: "anonymous other lesson", user: nil, course: frontend, lessonID: "l_fe_2", locked: true},
		{name: "admin role without entitlement", user: &models.User{Role: models.RoleAdmin}, course: ai, lessonID: "l_ai_2", locked: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.locked, svc.IsLessonLocked(tt.user, tt.course, tt.lessonID))
		})
	}
}

func TestAccessService_CanEnterCourse(t *testing.T) {
	svc := NewAccessService(&mockProgressRepository{})
	ai, _ := catalog.CourseByID("course-ai")

	assert.NoError(t, svc.CanEnterCourse(nil, ai))
	assert.NoError(t, svc.CanEnterCourse(seedUser(t, "u_admin_1"), ai))
	assert.NoError(t, svc.CanEnterCourse(seedUser(t, "u_student_ai"), ai))
	assert.ErrorIs(t, svc.CanEnterCourse(seedUser(t, "u_student_1"), ai), ErrAccessDenied)
}

func TestAccessService_ListCourses(t *testing.T) {
	svc := NewAccessService(&mockProgressRepository{})

	items := svc.ListCourses(seedUser(t, "u_student_1"))

	require.Len(t, items, 2)
	assert.Equal(t, "course-frontend", items[0].ID)
	assert.True(t, items[0].HasAccess)
	assert.Equal(t, 3, items[0].LessonCount)
	assert.False(t, items[1].HasAccess)
}

func TestAccessService_OpenCourse(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name               string
		user               *models.User
		courseID           string
		repo               *mockProgressRepository
		expectedError      error
		anyError           bool
		expectedLocked     []bool
		expectedCompleted  int
		expectedPercentage int
	}{
		{
			name:               "student with progress",
			user:               seedUser(t, "u_student_1"),
			courseID:           "course-frontend",
			repo:               &mockProgressRepository{completed: []string{"l_fe_1", "l_ai_1"}},
			expectedLocked:     []bool{false, false, false},
			expectedCompleted:  1,
			expectedPercentage: 33,
		},
		{
			name:               "two of three rounds up",
			user:               seedUser(t, "u_admin_1"),
			courseID:           "course-ai",
			repo:               &mockProgressRepository{completed: []string{"l_ai_1", "l_ai_2"}},
			expectedLocked:     []bool{false, false, false},
			expectedCompleted:  2,
			expectedPercentage: 67,
		},
		{
			name:               "anonymous browse",
			user:               nil,
			courseID:           "course-ai",
			repo:               &mockProgressRepository{},
			expectedLocked:     []bool{false, true, true},
			expectedPercentage: 0,
		},
		{
			name:          "student without entitlement",
			user:          seedUser(t, "u_student_1"),
			courseID:      "course-ai",
			repo:          &mockProgressRepository{},
			expectedError: ErrAccessDenied,
		},
		{
			name:          "unknown course",
			user:          nil,
			courseID:      "course-go",
			repo:          &mockProgressRepository{},
			expectedError: ErrCourseNotFound,
		},
		{
			name:     "repository error",
			user:     nil,
			courseID: "course-ai",
			repo:     &mockProgressRepository{err: errors.New("down")},
			anyError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAccessService(tt.repo)

			result, err := svc.OpenCourse(ctx, "p1", tt.user, tt.courseID)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			case tt.anyError:
				assert.Error(t, err)
				assert.Nil(t, result)
			default:
				require.NoError(t, err)
				require.Len(t, result.Lessons, len(tt.expectedLocked))
				for i, locked := range tt.expectedLocked {
					assert.Equal(t, locked, result.Lessons[i].Locked, result.Lessons[i].ID)
				}
				assert.True(t, result.Lessons[0].IsDemo)
				assert.Equal(t, tt.expectedCompleted, result.CompletedCount)
				assert.Equal(t, tt.expectedPercentage, result.ProgressPercentage)
			}
		})
	}
}

func TestAccessService_NextLesson(t *testing.T) {
	svc := NewAccessService(&mockProgressRepository{})

	tests := []struct {
		name          string
		user          *models.User
		courseID      string
		lessonID      string
		expectedNext  string
		expectedError error
	}{
		{name: "next unlocked lesson", user: seedUser(t, "u_student_ai"), courseID: "course-ai", lessonID: "l_ai_1", expectedNext: "l_ai_2"},
		{name: "last lesson", user: seedUser(t, "u_student_ai"), courseID: "course-ai", lessonID: "l_ai_3"},
		{name: "next lesson locked", user: nil, courseID: "course-ai", lessonID: "l_ai_1"},
		{name: "course denied", user: seedUser(t, "u_student_1"), courseID: "course-ai", lessonID: "l_ai_1", expectedError: ErrAccessDenied},
		{name: "unknown course", courseID: "course-go", lessonID: "l_ai_1", expectedError: ErrCourseNotFound},
		{name: "lesson of another course", courseID: "course-ai", lessonID: "l_fe_1", expectedError: ErrLessonNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := svc.NextLesson(tt.user, tt.courseID, tt.lessonID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			if tt.expectedNext == "" {
				assert.Nil(t, next)
				return
			}
			require.NotNil(t, next)
			assert.Equal(t, tt.expectedNext, next.ID)
		})
	}
}
