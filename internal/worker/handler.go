package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/mlacademy/backend/internal/models"
	"go.uber.org/zap"
)

// Handler processes reminder tasks
type Handler struct {
	mailer Mailer
	logger *zap.Logger
}

// NewHandler creates a new reminder task handler
func NewHandler(mailer Mailer, logger *zap.Logger) *Handler {
	return &Handler{
		mailer: mailer,
		logger: logger,
	}
}

// Register binds the reminder task types to the mux
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(models.TaskTypeMissedLesson, h.HandleMissedLesson)
	mux.HandleFunc(models.TaskTypeTestEmail, h.HandleTestEmail)
}

// HandleMissedLesson mails the missed-lesson reminder
func (h *Handler) HandleMissedLesson(ctx context.Context, t *asynq.Task) error {
	payload, err := decodePayload(t)
	if err != nil {
		return err
	}

	subject, body := missedLessonTemplate.render(displayName(payload), payload.Date)
	if err := h.mailer.Send(payload.Email, subject, body); err != nil {
		h.logger.Error("Failed to send missed lesson reminder",
			zap.String("user_id", payload.UserID),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("Missed lesson reminder sent",
		zap.String("profile_id", payload.ProfileID),
		zap.String("user_id", payload.UserID),
		zap.String("date", payload.Date),
	)
	return nil
}

// HandleTestEmail mails the test reminder
func (h *Handler) HandleTestEmail(ctx context.Context, t *asynq.Task) error {
	payload, err := decodePayload(t)
	if err != nil {
		return err
	}

	subject, body := testEmailTemplate.render(displayName(payload))
	if err := h.mailer.Send(payload.Email, subject, body); err != nil {
		h.logger.Error("Failed to send test email", zap.String("user_id", payload.UserID), zap.Error(err))
		return err
	}

	h.logger.Info("Test email sent", zap.String("user_id", payload.UserID))
	return nil
}

// decodePayload rejects malformed payloads without retry
func decodePayload(t *asynq.Task) (models.ReminderPayload, error) {
	var payload models.ReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	if strings.TrimSpace(payload.Email) == "" {
		return payload, fmt.Errorf("%s payload has no recipient: %w", t.Type(), asynq.SkipRetry)
	}
	return payload, nil
}

func displayName(payload models.ReminderPayload) string {
	if name := strings.TrimSpace(payload.Name); name != "" {
		return name
	}
	return payload.Email
}
