package models

// DailyProgressDateLayout is the layout of DailyProgress.Date (local calendar day)
const DailyProgressDateLayout = "2006-01-02"

// DailyProgress represents the lessons completed and minutes watched on one calendar day
type DailyProgress struct {
	Date           string  `json:"date"`
	Count          int     `json:"count"`
	MinutesWatched float64 `json:"minutesWatched"`
}

// MotivationTier is a step function of the weekly lesson count
type MotivationTier string

const (
	TierOnFire      MotivationTier = "on_fire"
	TierGoodPace    MotivationTier = "good_pace"
	TierCouldDoMore MotivationTier = "could_do_more"
	TierJustStart   MotivationTier = "just_start"
)

// DayStat represents one bar of the last-7-days chart
type DayStat struct {
	Date           string  `json:"date"`
	Label          string  `json:"label"`
	Count          int     `json:"count"`
	MinutesWatched float64 `json:"minutesWatched"`
}

// WeeklySummary represents the profile statistics view
type WeeklySummary struct {
	Days            []DayStat      `json:"days"`
	TotalLessons    int            `json:"totalLessons"`
	TotalMinutes    float64        `json:"totalMinutes"`
	TotalHours      float64        `json:"totalHours"`
	Tier            MotivationTier `json:"tier"`
	MissedYesterday bool           `json:"missedYesterday"`
	CompletedCount  int            `json:"completedCount"`
}

// ToggleCompletionResponse represents the result of a completion toggle
type ToggleCompletionResponse struct {
	LessonID  string `json:"lessonId"`
	Completed bool   `json:"completed"`
}

// LessonEndedResponse represents the result of a natural video end
type LessonEndedResponse struct {
	LessonID string `json:"lessonId"`
	// Marked is true when this call moved the lesson into the completion set
	Marked bool `json:"marked"`
	// Autoplay holds the next lesson when autoplay is on and the lesson is unlocked
	Autoplay *Lesson `json:"autoplay,omitempty"`
}

// VideoPosition represents a resume position in seconds
type VideoPosition struct {
	LessonID string  `json:"lessonId"`
	Seconds  float64 `json:"seconds"`
}
