package models

// Course represents a static course with an ordered list of lessons.
// The first lesson is the demo lesson.
type Course struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Author      string   `json:"author"`
	Thumbnail   string   `json:"thumbnail"`
	Category    string   `json:"category"`
	Lessons     []Lesson `json:"lessons"`
}

// Lesson represents a video lesson. Duration is "mm:ss".
type Lesson struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Duration    string `json:"duration"`
	VideoURL    string `json:"videoUrl"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

// CourseListItem represents a course in the course list
type CourseListItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Thumbnail   string `json:"thumbnail"`
	Category    string `json:"category"`
	LessonCount int    `json:"lessonCount"`
	// HasAccess is true when every lesson is unlocked for the caller
	HasAccess bool `json:"hasAccess"`
}

// LessonView represents a lesson as seen by a given caller
type LessonView struct {
	Lesson
	IsDemo    bool `json:"isDemo"`
	Locked    bool `json:"locked"`
	Completed bool `json:"completed"`
}

// CourseDetailResponse represents an opened course
type CourseDetailResponse struct {
	ID                 string       `json:"id"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	Author             string       `json:"author"`
	Thumbnail          string       `json:"thumbnail"`
	Category           string       `json:"category"`
	Lessons            []LessonView `json:"lessons"`
	CompletedCount     int          `json:"completedCount"`
	ProgressPercentage int          `json:"progressPercentage"`
}

// NextLessonResponse represents the autoplay target, if any
type NextLessonResponse struct {
	Next *Lesson `json:"next"`
}
