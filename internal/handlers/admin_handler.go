package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mlacademy/backend/internal/middleware"
	"github.com/mlacademy/backend/internal/models"
	"go.uber.org/zap"
)

// AdminAccountService is the interface that wraps admin console account management
type AdminAccountService interface {
	// Method AdminLogin checks the console password and issues a console token.
	//
	// If the password does not match, or some other error occurs, the error will be returned together with "" value.
	AdminLogin(ctx context.Context, password string) (string, error)
	// Method ListUsers retrieves seed users followed by added users, without passwords.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	ListUsers(ctx context.Context) ([]models.UserListItem, error)
	// Method AddUser registers a new student.
	//
	// If a field is blank, a course is unknown, the email is taken, or some other error occurs,
	// the error will be returned together with "nil" value.
	AddUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	// Method DeleteUser removes an added student.
	//
	// If the user is a seed user or is unknown, or some other error occurs, the error will be returned.
	DeleteUser(ctx context.Context, id string) error
	// Method ChangeAdminPassword replaces the console password.
	//
	// If the old password is wrong, the new one is too short or not confirmed, the error will be returned.
	ChangeAdminPassword(ctx context.Context, req *models.ChangePasswordRequest) error
}

// GrowthStatsProvider is the interface that wraps the dashboard figures
type GrowthStatsProvider interface {
	GrowthStats(ctx context.Context) (*models.GrowthStats, error)
}

// LeadService is the interface that wraps lead management for the admin console
type LeadService interface {
	// Method ListLeads retrieves every lead, newest first.
	ListLeads(ctx context.Context) ([]models.Lead, error)
	// Method MarkContacted moves a lead to the "contacted" status.
	//
	// If the lead is unknown, or some other error occurs, the error will be returned.
	MarkContacted(ctx context.Context, id string) error
	// Method DeleteLead removes a lead. Unknown ids are ignored.
	DeleteLead(ctx context.Context, id string) error
}

// AdminHandler handles admin console HTTP requests
type AdminHandler struct {
	BaseHandler
	accounts    AdminAccountService
	stats       GrowthStatsProvider
	leads       LeadService
	tokenExpiry time.Duration
}

// NewAdminHandler creates a new admin console handler
func NewAdminHandler(accounts AdminAccountService, stats GrowthStatsProvider, leads LeadService, tokenExpiry time.Duration, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler: BaseHandler{Logger: logger},
		accounts:    accounts,
		stats:       stats,
		leads:       leads,
		tokenExpiry: tokenExpiry,
	}
}

// RegisterRoutes registers all admin console routes.
// Everything except login goes through adminMiddleware.
func (h *AdminHandler) RegisterRoutes(r chi.Router, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			r.Post("/logout", h.Logout)
			r.Get("/users", h.ListUsers)
			r.Post("/users", h.AddUser)
			r.Delete("/users/{id}", h.DeleteUser)
			r.Get("/stats", h.GetStats)
			r.Get("/leads", h.ListLeads)
			r.Post("/leads/{id}/contacted", h.MarkLeadContacted)
			r.Delete("/leads/{id}", h.DeleteLead)
			r.Put("/password", h.ChangePassword)
		})
	})
}

// Login handles POST /admin/login
// @Summary Admin console login
// @Description Check the console password and issue a token, also set as a cookie
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.AdminLoginRequest true "Admin password"
// @Success 200 {object} models.AdminLoginResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Wrong password"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/login [post]
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.AdminLoginRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	token, err := h.accounts.AdminLogin(r.Context(), req.Password)
	if err != nil {
		h.RespondServiceError(w, r, "failed to login admin", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenExpiry.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	h.RespondJSON(w, http.StatusOK, models.AdminLoginResponse{Token: token})
}

// Logout handles POST /admin/logout
// @Summary Admin console logout
// @Tags admin
// @Security BearerAuth
// @Success 204 "Logged out"
// @Router /admin/logout [post]
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// ListUsers handles GET /admin/users
// @Summary List users
// @Description Get seed users followed by added users, passwords stripped
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.UserListItem
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context())
	if err != nil {
		h.RespondServiceError(w, r, "failed to list users", err)
		return
	}

	h.RespondJSON(w, http.StatusOK, users)
}

// AddUser handles POST /admin/users
// @Summary Add a student
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateUserRequest true "New student"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]string "Missing field or unknown course"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Email already registered"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/users [post]
func (h *AdminHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.accounts.AddUser(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, r, "failed to add user", err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, user)
}

// DeleteUser handles DELETE /admin/users/{id}
// @Summary Delete a student
// @Tags admin
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204 "Deleted"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Seed users cannot be deleted"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.RespondServiceError(w, r, "failed to delete user", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetStats handles GET /admin/stats
// @Summary Dashboard figures
// @Description Get user growth, activity and simulated traffic figures
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.GrowthStats
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/stats [get]
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.GrowthStats(r.Context())
	if err != nil {
		h.RespondServiceError(w, r, "failed to get growth stats", err)
		return
	}

	h.RespondJSON(w, http.StatusOK, stats)
}

// ListLeads handles GET /admin/leads
// @Summary List leads
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Lead
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/leads [get]
func (h *AdminHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.leads.ListLeads(r.Context())
	if err != nil {
		h.RespondServiceError(w, r, "failed to list leads", err)
		return
	}

	h.RespondJSON(w, http.StatusOK, leads)
}

// MarkLeadContacted handles POST /admin/leads/{id}/contacted
// @Summary Mark a lead as contacted
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 204 "Updated"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Lead not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/leads/{id}/contacted [post]
func (h *AdminHandler) MarkLeadContacted(w http.ResponseWriter, r *http.Request) {
	if err := h.leads.MarkContacted(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.RespondServiceError(w, r, "failed to mark lead contacted", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteLead handles DELETE /admin/leads/{id}
// @Summary Delete a lead
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 204 "Deleted"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/leads/{id} [delete]
func (h *AdminHandler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	if err := h.leads.DeleteLead(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.RespondServiceError(w, r, "failed to delete lead", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ChangePassword handles PUT /admin/password
// @Summary Change the console password
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.ChangePasswordRequest true "Password change"
// @Success 200 {object} map[string]string "Password changed"
// @Failure 400 {object} map[string]string "Wrong old password, too short or not confirmed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/password [put]
func (h *AdminHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	if err := h.accounts.ChangeAdminPassword(r.Context(), &req); err != nil {
		h.RespondServiceError(w, r, "failed to change admin password", err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}
