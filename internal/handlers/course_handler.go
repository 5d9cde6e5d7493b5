package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mlacademy/backend/internal/models"
	"go.uber.org/zap"
)

// AccessService is the interface that wraps course browsing with access control
type AccessService interface {
	// Method ListCourses retrieves every course with the access flag of the user.
	//
	// "user" parameter is the logged in user, or "nil" for an anonymous visitor.
	ListCourses(user *models.User) []models.CourseListItem
	// Method OpenCourse retrieves a course with per-lesson lock and completion state.
	//
	// "profileID" parameter identifies the client profile.
	// "user" parameter is the logged in user, or "nil" for an anonymous visitor.
	// "courseID" parameter identifies the course.
	//
	// If the course is unknown or the user may not enter it, or some other error occurs, the error will be returned together with "nil" value.
	OpenCourse(ctx context.Context, profileID string, user *models.User, courseID string) (*models.CourseDetailResponse, error)
	// Method NextLesson retrieves the autoplay target after a lesson.
	//
	// Returns "nil" when the lesson is the last one or the next lesson is locked.
	// If the course or lesson is unknown, the error will be returned together with "nil" value.
	NextLesson(user *models.User, courseID, lessonID string) (*models.Lesson, error)
}

// CourseHandler handles course browsing HTTP requests
type CourseHandler struct {
	BaseHandler
	accessService AccessService
	sessions      SessionProvider
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(accessService AccessService, sessions SessionProvider, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   BaseHandler{Logger: logger},
		accessService: accessService,
		sessions:      sessions,
	}
}

// RegisterRoutes registers all course handler routes
func (h *CourseHandler) RegisterRoutes(r chi.Router) {
	r.Route("/courses", func(r chi.Router) {
		r.Get("/", h.ListCourses)
		r.Get("/{courseID}", h.GetCourse)
		r.Get("/{courseID}/lessons/{lessonID}/next", h.NextLesson)
	})
}

// ListCourses handles GET /courses
// @Summary List courses
// @Description Get every course with the access flag of the current session
// @Tags courses
// @Produce json
// @Success 200 {array} models.CourseListItem
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses [get]
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	_, user, ok := currentUser(&h.BaseHandler, h.sessions, w, r)
	if !ok {
		return
	}

	h.RespondJSON(w, http.StatusOK, h.accessService.ListCourses(user))
}

// GetCourse handles GET /courses/{courseID}
// @Summary Open a course
// @Description Get a course with per-lesson locked and completed flags and the course progress percentage
// @Tags courses
// @Produce json
// @Param courseID path string true "Course ID"
// @Success 200 {object} models.CourseDetailResponse
// @Failure 403 {object} map[string]string "Course not purchased"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses/{courseID} [get]
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	profileID, user, ok := currentUser(&h.BaseHandler, h.sessions, w, r)
	if !ok {
		return
	}

	course, err := h.accessService.OpenCourse(r.Context(), profileID, user, chi.URLParam(r, "courseID"))
	if err != nil {
		h.RespondServiceError(w, r, "failed to open course", err)
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// NextLesson handles GET /courses/{courseID}/lessons/{lessonID}/next
// @Summary Next lesson
// @Description Get the lesson that autoplay would open after the given one, or null
// @Tags courses
// @Produce json
// @Param courseID path string true "Course ID"
// @Param lessonID path string true "Lesson ID"
// @Success 200 {object} models.NextLessonResponse
// @Failure 403 {object} map[string]string "Course not purchased"
// @Failure 404 {object} map[string]string "Course or lesson not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses/{courseID}/lessons/{lessonID}/next [get]
func (h *CourseHandler) NextLesson(w http.ResponseWriter, r *http.Request) {
	_, user, ok := currentUser(&h.BaseHandler, h.sessions, w, r)
	if !ok {
		return
	}

	next, err := h.accessService.NextLesson(user, chi.URLParam(r, "courseID"), chi.URLParam(r, "lessonID"))
	if err != nil {
		h.RespondServiceError(w, r, "failed to get next lesson", err)
		return
	}

	h.RespondJSON(w, http.StatusOK, models.NextLessonResponse{Next: next})
}
