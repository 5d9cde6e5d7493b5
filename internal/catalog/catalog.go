// Package catalog holds the static courses and the seed accounts baked into the binary.
package catalog

import (
	"slices"
	"time"

	"github.com/mlacademy/backend/internal/models"
)

const videoBaseURL = "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/"

var courses = []models.Course{
	{
		ID:          "course-frontend",
		Title:       "React va Frontend",
		Description: "Zamonaviy veb dasturlash, React, TypeScript va Tailwind CSS texnologiyalari.",
		Author:      "Senior Frontend Dev",
		Thumbnail:   "https://picsum.photos/id/1/800/600",
		Category:    "programming",
		Lessons: []models.Lesson{
			{
				ID:          "l_fe_1",
				Title:       "1. Kirish va O'rnatish (Bepul)",
				Duration:    "10:24",
				Description: "Ushbu darsda biz kerakli dasturlarni o'rnatamiz va loyiha strukturasini tuzamiz.",
				VideoURL:    videoBaseURL + "BigBuckBunny.mp4",
				Thumbnail:   "https://picsum.photos/id/1/300/200",
			},
			{
				ID:          "l_fe_2",
				Title:       "2. JSX va Komponentlar",
				Duration:    "15:30",
				Description: "React komponentlari qanday ishlashini va JSX sintaksisini o'rganamiz.",
				VideoURL:    videoBaseURL + "ElephantsDream.mp4",
				Thumbnail:   "https://picsum.photos/id/2/300/200",
			},
			{
				ID:          "l_fe_3",
				Title:       "3. Hooks: useState va useEffect",
				Duration:    "20:15",
				Description: "Reactning eng muhim xususiyatlari bo'lgan Hooklar bilan tanishamiz.",
				VideoURL:    videoBaseURL + "ForBiggerBlazes.mp4",
				Thumbnail:   "https://picsum.photos/id/3/300/200",
			},
		},
	},
	{
		ID:          "course-ai",
		Title:       "Sun'iy Intellekt Asoslari",
		Description: "Python, Machine Learning va Neural Networks dunyosiga sayohat.",
		Author:      "AI Researcher",
		Thumbnail:   "https://picsum.photos/id/26/800/600",
		Category:    "ai",
		Lessons: []models.Lesson{
			{
				ID:          "l_ai_1",
				Title:       "1. AI ga kirish (Bepul)",
				Duration:    "12:00",
				Description: "Sun'iy intellekt nima va u qanday ishlaydi? Asosiy tushunchalar.",
				VideoURL:    videoBaseURL + "ForBiggerEscapes.mp4",
				Thumbnail:   "https://picsum.photos/id/20/300/200",
			},
			{
				ID:          "l_ai_2",
				Title:       "2. Python Asoslari",
				Duration:    "25:00",
				Description: "Data Science uchun Python dasturlash tilining asosiy kutubxonalari.",
				VideoURL:    videoBaseURL + "ForBiggerJoyrides.mp4",
				Thumbnail:   "https://picsum.photos/id/22/300/200",
			},
			{
				ID:          "l_ai_3",
				Title:       "3. Neural Networks",
				Duration:    "30:15",
				Description: "Neyron tarmoqlar arxitekturasi va ularni o'qitish jarayoni.",
				VideoURL:    videoBaseURL + "Sintel.mp4",
				Thumbnail:   "https://picsum.photos/id/24/300/200",
			},
		},
	},
}

var seedUsers = []models.User{
	{
		ID:             "u_student_1",
		Email:          "student@mlacademy.com",
		Password:       "password123",
		Name:           "Jasurbek (Frontend)",
		Avatar:         "https://picsum.photos/id/55/200/200",
		Role:           models.RoleStudent,
		JoinedDate:     time.Date(2023, time.November, 15, 10, 0, 0, 0, time.UTC),
		AllowedCourses: []string{"course-frontend"},
	},
	{
		ID:             "u_student_ai",
		Email:          "ai@mlacademy.com",
		Password:       "ai123",
		Name:           "Malika (AI Student)",
		Avatar:         "https://picsum.photos/id/65/200/200",
		Role:           models.RoleStudent,
		JoinedDate:     time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC),
		AllowedCourses: []string{"course-ai"},
	},
	{
		ID:             "u_admin_1",
		Email:          "admin@mlacademy.com",
		Password:       "admin",
		Name:           "Admin User",
		Avatar:         "https://picsum.photos/id/100/200/200",
		Role:           models.RoleAdmin,
		JoinedDate:     time.Date(2023, time.October, 1, 10, 0, 0, 0, time.UTC),
		AllowedCourses: []string{"course-frontend", "course-ai"},
	},
}

// Courses returns a copy of all courses in display order
func Courses() []models.Course {
	result := make([]models.Course, len(courses))
	for i, c := range courses {
		result[i] = cloneCourse(c)
	}
	return result
}

// CourseByID returns the course with the given id
func CourseByID(id string) (models.Course, bool) {
	for _, c := range courses {
		if c.ID == id {
			return cloneCourse(c), true
		}
	}
	return models.Course{}, false
}

// LessonByID finds a lesson across all courses and returns it together with its course
func LessonByID(id string) (models.Course, models.Lesson, bool) {
	for _, c := range courses {
		for _, l := range c.Lessons {
			if l.ID == id {
				return cloneCourse(c), l, true
			}
		}
	}
	return models.Course{}, models.Lesson{}, false
}

// HasCourse reports whether a course with the given id exists
func HasCourse(id string) bool {
	return slices.ContainsFunc(courses, func(c models.Course) bool { return c.ID == id })
}

// SeedUsers returns a copy of the seed accounts, passwords included
func SeedUsers() []models.User {
	result := make([]models.User, len(seedUsers))
	for i, u := range seedUsers {
		u.AllowedCourses = slices.Clone(u.AllowedCourses)
		result[i] = u
	}
	return result
}

// IsSeedUserID reports whether the id belongs to a seed account
func IsSeedUserID(id string) bool {
	return slices.ContainsFunc(seedUsers, func(u models.User) bool { return u.ID == id })
}

func cloneCourse(c models.Course) models.Course {
	c.Lessons = slices.Clone(c.Lessons)
	return c
}
