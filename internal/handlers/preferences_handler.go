package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mlacademy/backend/internal/models"
	"go.uber.org/zap"
)

// PreferencesService is the interface that wraps methods for the per-profile preferences
type PreferencesService interface {
	// Method Get retrieves the preferences of a profile with defaults applied.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	Get(ctx context.Context, profileID string) (*models.Preferences, error)
	// Method Update stores the fields present in the request and returns the resulting preferences.
	//
	// If the theme is not "light" or "dark", or some other error occurs, the error will be returned together with "nil" value.
	Update(ctx context.Context, profileID string, req *models.UpdatePreferencesRequest) (*models.Preferences, error)
}

// PreferencesHandler handles preferences HTTP requests
type PreferencesHandler struct {
	BaseHandler
	preferencesService PreferencesService
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(preferencesService PreferencesService, logger *zap.Logger) *PreferencesHandler {
	return &PreferencesHandler{
		BaseHandler:        BaseHandler{Logger: logger},
		preferencesService: preferencesService,
	}
}

// RegisterRoutes registers all preferences handler routes
func (h *PreferencesHandler) RegisterRoutes(r chi.Router) {
	r.Get("/preferences", h.GetPreferences)
	r.Put("/preferences", h.UpdatePreferences)
}

// GetPreferences handles GET /preferences
// @Summary Get preferences
// @Tags preferences
// @Produce json
// @Success 200 {object} models.Preferences
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /preferences [get]
func (h *PreferencesHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.ProfileID(w, r)
	if !ok {
		return
	}

	prefs, err := h.preferencesService.Get(r.Context(), profileID)
	if err != nil {
		h.RespondServiceError(w, r, "failed to get preferences", err)
		return
	}

	h.RespondJSON(w, http.StatusOK, prefs)
}

// UpdatePreferences handles PUT /preferences
// @Summary Update preferences
// @Description Update any of theme, autoplay and notifications; omitted fields keep their value
// @Tags preferences
// @Accept json
// @Produce json
// @Param request body models.UpdatePreferencesRequest true "Preferences update"
// @Success 200 {object} models.Preferences
// @Failure 400 {object} map[string]string "Invalid request body or theme"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /preferences [put]
func (h *PreferencesHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.ProfileID(w, r)
	if !ok {
		return
	}

	var req models.UpdatePreferencesRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	prefs, err := h.preferencesService.Update(r.Context(), profileID, &req)
	if err != nil {
		h.RespondServiceError(w, r, "failed to update preferences", err)
		return
	}

	h.RespondJSON(w, http.StatusOK, prefs)
}
