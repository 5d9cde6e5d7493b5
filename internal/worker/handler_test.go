package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/mlacademy/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentEmail struct {
	to, subject, body string
}

// mockMailer is a mock implementation of Mailer
type mockMailer struct {
	sent []sentEmail
	err  error
}

func (m *mockMailer) Send(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}

func newTask(t *testing.T, taskType string, payload models.ReminderPayload) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(taskType, data)
}

func TestNewHandler(t *testing.T) {
	mailer := &mockMailer{}
	logger := zap.NewNop()

	h := NewHandler(mailer, logger)

	assert.NotNil(t, h)
	assert.Equal(t, mailer, h.mailer)
	assert.Equal(t, logger, h.logger)
}

func TestHandler_Register(t *testing.T) {
	h := NewHandler(&mockMailer{}, zap.NewNop())
	mux := asynq.NewServeMux()

	h.Register(mux)

	for _, taskType := range []string{models.TaskTypeMissedLesson, models.TaskTypeTestEmail} {
		_, pattern := mux.Handler(asynq.NewTask(taskType, nil))
		assert.Equal(t, taskType, pattern)
	}
}

func TestHandler_HandleMissedLesson(t *testing.T) {
	ctx := context.Background()
	payload := models.ReminderPayload{
		ProfileID: "p1",
		UserID:    "u_student_1",
		Name:      "Ali <Valiyev>",
		Email:     "student@mlacademy.uz",
		Date:      "2024-05-14",
	}

	t.Run("success", func(t *testing.T) {
		mailer := &mockMailer{}
		h := NewHandler(mailer, zap.NewNop())

		err := h.HandleMissedLesson(ctx, newTask(t, models.TaskTypeMissedLesson, payload))

		require.NoError(t, err)
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "student@mlacademy.uz", mailer.sent[0].to)
		assert.Equal(t, missedLessonTemplate.Subject, mailer.sent[0].subject)
		assert.Contains(t, mailer.sent[0].body, "Ali &lt;Valiyev&gt;")
		assert.Contains(t, mailer.sent[0].body, "2024-05-14")
		assert.NotContains(t, mailer.sent[0].body, "{{")
	})

	t.Run("mailer error is retried", func(t *testing.T) {
		h := NewHandler(&mockMailer{err: errors.New("smtp down")}, zap.NewNop())

		err := h.HandleMissedLesson(ctx, newTask(t, models.TaskTypeMissedLesson, payload))

		assert.Error(t, err)
		assert.False(t, errors.Is(err, asynq.SkipRetry))
	})

	t.Run("malformed payload is not retried", func(t *testing.T) {
		mailer := &mockMailer{}
		h := NewHandler(mailer, zap.NewNop())

		err := h.HandleMissedLesson(ctx, asynq.NewTask(models.TaskTypeMissedLesson, []byte("{")))

		assert.ErrorIs(t, err, asynq.SkipRetry)
		assert.Empty(t, mailer.sent)
	})

	t.Run("missing recipient is not retried", func(t *testing.T) {
		h := NewHandler(&mockMailer{}, zap.NewNop())

		err := h.HandleMissedLesson(ctx, newTask(t, models.TaskTypeMissedLesson, models.ReminderPayload{Name: "x"}))

		assert.ErrorIs(t, err, asynq.SkipRetry)
	})
}

func TestHandler_HandleTestEmail(t *testing.T) {
	mailer := &mockMailer{}
	h := NewHandler(mailer, zap.NewNop())

	err := h.HandleTestEmail(context.Background(), newTask(t, models.TaskTypeTestEmail, models.ReminderPayload{
		UserID: "u_admin_1",
		Email:  "admin@mlacademy.uz",
	}))

	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, testEmailTemplate.Subject, mailer.sent[0].subject)
	assert.Contains(t, mailer.sent[0].body, "Salom, admin@mlacademy.uz!")
}

func TestEmailTemplate_Render(t *testing.T) {
	tmpl := emailTemplate{Subject: "Hi {{1}}", Body: "<b>{{1}}</b> {{2}} {{3}}"}

	subject, body := tmpl.render("A&B", "x")

	assert.Equal(t, "Hi A&B", subject)
	assert.Equal(t, "<b>A&amp;B</b> x {{3}}", body)
}
