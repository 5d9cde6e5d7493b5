package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mlacademy/backend/internal/models"
	"go.uber.org/zap"
)

// ProgressService is the interface that wraps methods for lesson progress
type ProgressService interface {
	// Method ToggleLessonCompletion flips the completion of a lesson.
	//
	// Returns the new completion state. If the lesson is unknown or locked, or some other error occurs, the error will be returned.
	ToggleLessonCompletion(ctx context.Context, profileID string, user *models.User, lessonID string) (bool, error)
	// Method OnLessonEnded marks a lesson complete once, clears its position and resolves the autoplay target.
	//
	// If the lesson is unknown or locked, or some other error occurs, the error will be returned together with "nil" value.
	OnLessonEnded(ctx context.Context, profileID string, user *models.User, lessonID string) (*models.LessonEndedResponse, error)
	GetVideoPosition(ctx context.Context, profileID string, user *models.User, lessonID string) (*models.VideoPosition, error)
	SaveVideoPosition(ctx context.Context, profileID string, user *models.User, lessonID string, seconds float64) error
	ClearVideoPosition(ctx context.Context, profileID string, user *models.User, lessonID string) error
}

// SavePositionRequest represents a video resume position update
type SavePositionRequest struct {
	Seconds float64 `json:"seconds"`
}

// LessonHandler handles lesson progress HTTP requests
type LessonHandler struct {
	BaseHandler
	progressService ProgressService
	sessions        SessionProvider
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(progressService ProgressService, sessions SessionProvider, logger *zap.Logger) *LessonHandler {
	return &LessonHandler{
		BaseHandler:     BaseHandler{Logger: logger},
		progressService: progressService,
		sessions:        sessions,
	}
}

// RegisterRoutes registers all lesson handler routes
func (h *LessonHandler) RegisterRoutes(r chi.Router) {
	r.Route("/lessons/{lessonID}", func(r chi.Router) {
		r.Post("/complete", h.ToggleCompletion)
		r.Post("/ended", h.Ended)
		r.Get("/position", h.GetPosition)
		r.Put("/position", h.SavePosition)
		r.Delete("/position", h.ClearPosition)
	})
}

// ToggleCompletion handles POST /lessons/{lessonID}/complete
// @Summary Toggle lesson completion
// @Description Flip the completion of a lesson. Completing records today's progress; un-completing does not reverse it.
// @Tags lessons
// @Produce json
// @Param lessonID path string true "Lesson ID"
// @Success 200 {object} models.ToggleCompletionResponse
// @Failure 403 {object} map[string]string "Lesson is locked or course not purchased"
// @Failure 404 {object} map[string]string "Lesson not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lessons/{lessonID}/complete [post]
func (h *LessonHandler) ToggleCompletion(w http.ResponseWriter, r *http.Request) {
	profileID, user, ok := currentUser(&h.BaseHandler, h.sessions, w, r)
	if !ok {
		return
	}
	lessonID := chi.URLParam(r, "lessonID")

	completed, err := h.progressService.ToggleLessonCompletion(r.Context(), profileID, user, lessonID)
	if err != nil {
		h.RespondServiceError(w, r, "failed to toggle lesson completion", err)
		return
	}

	h.RespondJSON(w, http.StatusOK, models.ToggleCompletionResponse{LessonID: lessonID, Completed: completed})
}

// Ended handles POST /lessons/{lessonID}/ended
// @Summary Lesson video ended
// @Description Mark the lesson complete once, clear its resume position and return the autoplay target when autoplay is on
// @Tags lessons
// @Produce json
// @Param lessonID path string true "Lesson ID"
// @Success 200 {object} models.LessonEndedResponse
// @Failure 403 {object} map[string]string "Lesson is locked or course not purchased"
// @Failure 404 {object} map[string]string "Lesson not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lessons/{lessonID}/ended [post]
func (h *LessonHandler) Ended(w http.ResponseWriter, r *http.Request) {
	profileID, user, ok := currentUser(&h.BaseHandler, h.sessions, w, r)
	if !ok {
		return
	}

	result, err := h.progressService.OnLessonEnded(r.Context(), profileID, user, chi.URLParam(r, "lessonID"))
	if err != nil {
		h.RespondServiceError(w, r, "failed to handle lesson end", err)
		return
	}

	h.RespondJSON(w, http.StatusOK, result)
}

// GetPosition handles GET /lessons/{lessonID}/position
// @Summary Get video position
// @Description Get the stored resume position of a lesson in seconds, 0 when none
// @Tags lessons
// @Produce json
// @Param lessonID path string true "Lesson ID"
// @Success 200 {object} models.VideoPosition
// @Failure 404 {object} map[string]string "Lesson not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lessons/{lessonID}/position [get]
func (h *LessonHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	profileID, user, ok := currentUser(&h.BaseHandler, h.sessions, w, r)
	if !ok {
		return
	}

	position, err := h.progressService.GetVideoPosition(r.Context(), profileID, user, chi.URLParam(r, "lessonID"))
	if err != nil {
		h.RespondServiceError(w, r, "failed to get video position", err)
		return
	}

	h.RespondJSON(w, http.StatusOK, position)
}

// SavePosition handles PUT /lessons/{lessonID}/position
// @Summary Save video position
// @Description Store the resume position of a lesson in seconds
// @Tags lessons
// @Accept json
// @Produce json
// @Param lessonID path string true "Lesson ID"
// @Param request body SavePositionRequest true "Position"
// @Success 200 {object} models.VideoPosition
// @Failure 400 {object} map[string]string "Invalid position"
// @Failure 403 {object} map[string]string "Lesson is locked or course not purchased"
// @Failure 404 {object} map[string]string "Lesson not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lessons/{lessonID}/position [put]
func (h *LessonHandler) SavePosition(w http.ResponseWriter, r *http.Request) {
	profileID, user, ok := currentUser(&h.BaseHandler, h.sessions, w, r)
	if !ok {
		return
	}

	var req SavePositionRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	lessonID := chi.URLParam(r, "lessonID")

	if err := h.progressService.SaveVideoPosition(r.Context(), profileID, user, lessonID, req.Seconds); err != nil {
		h.RespondServiceError(w, r, "failed to save video position", err)
		return
	}

	h.RespondJSON(w, http.StatusOK, models.VideoPosition{LessonID: lessonID, Seconds: req.Seconds})
}

// ClearPosition handles DELETE /lessons/{lessonID}/position
// @Summary Clear video position
// @Tags lessons
// @Param lessonID path string true "Lesson ID"
// @Success 204 "Position cleared"
// @Failure 404 {object} map[string]string "Lesson not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lessons/{lessonID}/position [delete]
func (h *LessonHandler) ClearPosition(w http.ResponseWriter, r *http.Request) {
	profileID, user, ok := currentUser(&h.BaseHandler, h.sessions, w, r)
	if !ok {
		return
	}

	if err := h.progressService.ClearVideoPosition(r.Context(), profileID, user, chi.URLParam(r, "lessonID")); err != nil {
		h.RespondServiceError(w, r, "failed to clear video position", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
