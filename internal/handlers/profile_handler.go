package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mlacademy/backend/internal/models"
	"go.uber.org/zap"
)

// WeeklySummaryProvider is the interface that wraps the profile statistics view
type WeeklySummaryProvider interface {
	// Method WeeklySummary derives the last-7-days chart, weekly totals, motivation tier and missed-yesterday flag.
	//
	// "profileID" parameter identifies the client profile.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	WeeklySummary(ctx context.Context, profileID string) (*models.WeeklySummary, error)
}

// ReminderService is the interface that wraps methods for missed-lesson reminders
type ReminderService interface {
	// Method CheckAndNotify enqueues a missed-lesson reminder when yesterday had no completed lesson.
	//
	// Returns "true" when a reminder was enqueued by this call.
	CheckAndNotify(ctx context.Context, profileID string, session *models.User) (bool, error)
	// Method SendTestEmail enqueues a test reminder for the logged in user.
	//
	// If nobody is logged in, or reminders are not configured, the error will be returned.
	SendTestEmail(ctx context.Context, profileID string, session *models.User) error
}

// ProfileProgressResponse represents the profile statistics page
type ProfileProgressResponse struct {
	*models.WeeklySummary
	ReminderQueued bool `json:"reminderQueued"`
}

// ProfileHandler handles profile statistics HTTP requests
type ProfileHandler struct {
	BaseHandler
	progress  WeeklySummaryProvider
	reminders ReminderService
	sessions  SessionProvider
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(progress WeeklySummaryProvider, reminders ReminderService, sessions SessionProvider, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler: BaseHandler{Logger: logger},
		progress:    progress,
		reminders:   reminders,
		sessions:    sessions,
	}
}

// RegisterRoutes registers all profile handler routes
func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Route("/profile", func(r chi.Router) {
		r.Get("/progress", h.GetProgress)
		r.Post("/test-email", h.SendTestEmail)
	})
}

// GetProgress handles GET /profile/progress
// @Summary Profile statistics
// @Description Get the weekly chart, totals and motivation tier. Queues a reminder email when yesterday was missed.
// @Tags profile
// @Produce json
// @Success 200 {object} ProfileProgressResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /profile/progress [get]
func (h *ProfileHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	profileID, user, ok := currentUser(&h.BaseHandler, h.sessions, w, r)
	if !ok {
		return
	}

	summary, err := h.progress.WeeklySummary(r.Context(), profileID)
	if err != nil {
		h.RespondServiceError(w, r, "failed to get weekly summary", err)
		return
	}

	response := ProfileProgressResponse{WeeklySummary: summary}
	if summary.MissedYesterday {
		queued, err := h.reminders.CheckAndNotify(r.Context(), profileID, user)
		if err != nil {
			// the page still renders without the reminder
			h.Logger.Warn("failed to queue reminder", zap.String("profile_id", profileID), zap.Error(err))
		}
		response.ReminderQueued = queued
	}

	h.RespondJSON(w, http.StatusOK, response)
}

// SendTestEmail handles POST /profile/test-email
// @Summary Send a test reminder
// @Description Queue a test reminder email for the logged in user
// @Tags profile
// @Produce json
// @Success 202 {object} map[string]string "Test email queued"
// @Failure 401 {object} map[string]string "Not logged in"
// @Failure 503 {object} map[string]string "Reminders are not configured"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /profile/test-email [post]
func (h *ProfileHandler) SendTestEmail(w http.ResponseWriter, r *http.Request) {
	profileID, user, ok := currentUser(&h.BaseHandler, h.sessions, w, r)
	if !ok {
		return
	}

	if err := h.reminders.SendTestEmail(r.Context(), profileID, user); err != nil {
		h.RespondServiceError(w, r, "failed to queue test email", err)
		return
	}

	h.RespondJSON(w, http.StatusAccepted, map[string]string{"message": "test email queued"})
}
