package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mlacademy/backend/internal/models"
	"go.uber.org/zap"
)

// LeadSubmitter is the interface that wraps the enrollment form submission
type LeadSubmitter interface {
	// Method SubmitLead records an enrollment request.
	//
	// If the name or phone is blank, or some other error occurs, the error will be returned together with "nil" value.
	SubmitLead(ctx context.Context, req *models.CreateLeadRequest) (*models.Lead, error)
}

// PublicStatsProvider is the interface that wraps the landing page counters
type PublicStatsProvider interface {
	PublicStats(ctx context.Context) (*models.PublicStats, error)
}

// PublicHandler handles the landing page HTTP requests
type PublicHandler struct {
	BaseHandler
	leads LeadSubmitter
	stats PublicStatsProvider
}

// NewPublicHandler creates a new landing page handler
func NewPublicHandler(leads LeadSubmitter, stats PublicStatsProvider, logger *zap.Logger) *PublicHandler {
	return &PublicHandler{
		BaseHandler: BaseHandler{Logger: logger},
		leads:       leads,
		stats:       stats,
	}
}

// RegisterRoutes registers all landing page routes
func (h *PublicHandler) RegisterRoutes(r chi.Router) {
	r.Post("/leads", h.SubmitLead)
	r.Get("/stats/public", h.GetPublicStats)
}

// SubmitLead handles POST /leads
// @Summary Submit enrollment form
// @Tags leads
// @Accept json
// @Produce json
// @Param request body models.CreateLeadRequest true "Enrollment form"
// @Success 201 {object} models.Lead
// @Failure 400 {object} map[string]string "Name and phone are required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /leads [post]
func (h *PublicHandler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLeadRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	lead, err := h.leads.SubmitLead(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, r, "failed to submit lead", err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, lead)
}

// GetPublicStats handles GET /stats/public
// @Summary Landing page counters
// @Tags stats
// @Produce json
// @Success 200 {object} models.PublicStats
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /stats/public [get]
func (h *PublicHandler) GetPublicStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.PublicStats(r.Context())
	if err != nil {
		h.RespondServiceError(w, r, "failed to get public stats", err)
		return
	}

	h.RespondJSON(w, http.StatusOK, stats)
}
