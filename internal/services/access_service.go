package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/mlacademy/backend/internal/catalog"
	"github.com/mlacademy/backend/internal/models"
)

// CompletedLessonsReader is the interface that wraps reading the completion set
type CompletedLessonsReader interface {
	// Method GetCompleted retrieves the completed lesson ids of a profile.
	//
	// "profileID" parameter identifies the client profile.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	GetCompleted(ctx context.Context, profileID string) ([]string, error)
}

type accessService struct {
	progress CompletedLessonsReader
}

// NewAccessService creates a new access control service
func NewAccessService(progress CompletedLessonsReader) *accessService {
	return &accessService{
		progress: progress,
	}
}

// IsLessonLocked decides whether a lesson is locked for the user; a nil user is anonymous.
// The demo lesson is always open, admins see everything, students need the course entitlement.
func (s *accessService) IsLessonLocked(user *models.User, course models.Course, lessonID string) bool {
	if len(course.Lessons) > 0 && course.Lessons[0].ID == lessonID {
		return false
	}
	if user.IsAdmin() {
		return false
	}
	if user.HasCourse(course.ID) {
		return false
	}
	return true
}

// CanEnterCourse decides whether the course page may be opened at all.
// Anonymous visitors may browse; a logged in student without the entitlement is denied.
func (s *accessService) CanEnterCourse(user *models.User, course models.Course) error {
	if user == nil || user.IsAdmin() || user.HasCourse(course.ID) {
		return nil
	}
	return ErrAccessDenied
}

// ListCourses retrieves every course with the caller's access flag
func (s *accessService) ListCourses(user *models.User) []models.CourseListItem {
	courses := catalog.Courses()
	items := make([]models.CourseListItem, len(courses))
	for i, c := range courses {
		items[i] = models.CourseListItem{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Author:      c.Author,
			Thumbnail:   c.Thumbnail,
			Category:    c.Category,
			LessonCount: len(c.Lessons),
			HasAccess:   user.IsAdmin() || user.HasCourse(c.ID),
		}
	}
	return items
}

// OpenCourse retrieves the course with the per-lesson lock and completion state of the caller
func (s *accessService) OpenCourse(ctx context.Context, profileID string, user *models.User, courseID string) (*models.CourseDetailResponse, error) {
	course, ok := catalog.CourseByID(courseID)
	if !ok {
		return nil, ErrCourseNotFound
	}
	if err := s.CanEnterCourse(user, course); err != nil {
		return nil, err
	}

	completed, err := s.progress.GetCompleted(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get completed lessons: %w", err)
	}

	response := &models.CourseDetailResponse{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		Author:      course.Author,
		Thumbnail:   course.Thumbnail,
		Category:    course.Category,
		Lessons:     make([]models.LessonView, len(course.Lessons)),
	}
	for i, lesson := range course.Lessons {
		done := slices.Contains(completed, lesson.ID)
		if done {
			response.CompletedCount++
		}
		response.Lessons[i] = models.LessonView{
			Lesson:    lesson,
			IsDemo:    i == 0,
			Locked:    s.IsLessonLocked(user, course, lesson.ID),
			Completed: done,
		}
	}
	if len(course.Lessons) > 0 {
		response.ProgressPercentage = roundHalfUp(float64(response.CompletedCount) / float64(len(course.Lessons)) * 100)
	}

	return response, nil
}

// NextLesson returns the lesson after lessonID when it exists and is unlocked for the user, or nil.
// Students without the course entitlement get ErrAccessDenied.
func (s *accessService) NextLesson(user *models.User, courseID, lessonID string) (*models.Lesson, error) {
	course, ok := catalog.CourseByID(courseID)
	if !ok {
		return nil, ErrCourseNotFound
	}
	if err := s.CanEnterCourse(user, course); err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(course.Lessons, func(l models.Lesson) bool { return l.ID == lessonID })
	if idx < 0 {
		return nil, ErrLessonNotFound
	}
	if idx == len(course.Lessons)-1 {
		return nil, nil
	}

	next := course.Lessons[idx+1]
	if s.IsLessonLocked(user, course, next.ID) {
		return nil, nil
	}
	return &next, nil
}
