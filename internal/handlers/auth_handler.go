package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mlacademy/backend/internal/models"
	"go.uber.org/zap"
)

// SessionProvider is the interface that wraps reading the session of a client profile
type SessionProvider interface {
	// Method CurrentSession retrieves the logged in user of a profile.
	//
	// "profileID" parameter identifies the client profile.
	//
	// If nobody is logged in, "nil" is returned without an error.
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	CurrentSession(ctx context.Context, profileID string) (*models.User, error)
}

// AccountService is the interface that wraps methods for student login and logout
type AccountService interface {
	SessionProvider
	// Method Login authenticates the user and stores the session of the profile.
	//
	// "profileID" parameter identifies the client profile.
	// "email" and "password" parameters are the credentials.
	//
	// If the credentials do not match, or some other error occurs, the error will be returned together with "nil" value.
	Login(ctx context.Context, profileID, email, password string) (*models.User, error)
	// Method Logout destroys the session of the profile.
	//
	// "profileID" parameter identifies the client profile.
	//
	// If some error occurs during data deletion, the error will be returned.
	Logout(ctx context.Context, profileID string) error
}

// AuthHandler handles student session HTTP requests
type AuthHandler struct {
	BaseHandler
	accountService AccountService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accountService AccountService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		accountService: accountService,
	}
}

// RegisterRoutes registers all auth handler routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Get("/session", h.Session)
	})
}

// Login handles POST /auth/login
// @Summary Log in a student
// @Description Authenticate with email (case-insensitive) and password and bind the session to the client profile
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.ProfileID(w, r)
	if !ok {
		return
	}

	var req models.LoginRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.accountService.Login(r.Context(), profileID, req.Email, req.Password)
	if err != nil {
		h.RespondServiceError(w, r, "failed to login user", err)
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// Logout handles POST /auth/logout
// @Summary Log out
// @Description Destroy the session of the client profile
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string "Logged out"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.ProfileID(w, r)
	if !ok {
		return
	}

	if err := h.accountService.Logout(r.Context(), profileID); err != nil {
		h.RespondServiceError(w, r, "failed to logout user", err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Session handles GET /auth/session
// @Summary Current session
// @Description Get the logged in user of the client profile, or null when nobody is logged in
// @Tags auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/session [get]
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.ProfileID(w, r)
	if !ok {
		return
	}

	user, err := h.accountService.CurrentSession(r.Context(), profileID)
	if err != nil {
		h.RespondServiceError(w, r, "failed to get session", err)
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// currentUser resolves the profile and its session; it answers the request itself on failure
func currentUser(h *BaseHandler, sessions SessionProvider, w http.ResponseWriter, r *http.Request) (string, *models.User, bool) {
	profileID, ok := h.ProfileID(w, r)
	if !ok {
		return "", nil, false
	}

	user, err := sessions.CurrentSession(r.Context(), profileID)
	if err != nil {
		h.RespondServiceError(w, r, "failed to get session", err)
		return "", nil, false
	}
	return profileID, user, true
}
