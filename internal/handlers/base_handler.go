package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mlacademy/backend/internal/middleware"
	"github.com/mlacademy/backend/internal/services"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// RespondServiceError maps a service error onto a status code and sends it.
// Unknown errors are logged and hidden behind a generic message.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error(msg,
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err),
		)
		h.RespondError(w, status, "internal server error")
		return
	}

	h.Logger.Debug(msg, zap.Error(err))
	h.RespondError(w, status, err.Error())
}

// DecodeJSON decodes the request body into dst and answers 400 when it is not valid JSON
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// ProfileID returns the client profile of the request and answers 400 when it is missing
func (h *BaseHandler) ProfileID(w http.ResponseWriter, r *http.Request) (string, bool) {
	profileID, ok := middleware.GetProfileID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "client profile required")
		return "", false
	}
	return profileID, true
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrWrongOldPassword),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrPasswordMismatch):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrNotLoggedIn):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, services.ErrCourseNotFound),
		errors.Is(err, services.ErrLessonNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrLeadNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, services.ErrRemindersDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
