package models

// Task types handled by the reminder worker
const (
	TaskTypeMissedLesson = "reminder:missed-lesson"
	TaskTypeTestEmail    = "reminder:test"
)

// ReminderPayload is the JSON payload of a reminder task
type ReminderPayload struct {
	ProfileID string `json:"profileId"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	// Date is the missed calendar day, empty for test emails
	Date string `json:"date,omitempty"`
}
