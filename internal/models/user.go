package models

import (
	"slices"
	"time"
)

// Role is the role of an account
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// User represents an account, either baked into the catalog (seed) or added from the admin console.
//
// Password is kept in plain text in storage and stripped before any response.
type User struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Password       string     `json:"password,omitempty"`
	Role           Role       `json:"role"`
	Avatar         string     `json:"avatar"`
	JoinedDate     time.Time  `json:"joinedDate"`
	LastLoginDate  *time.Time `json:"lastLoginDate,omitempty"`
	AllowedCourses []string   `json:"allowedCourses"`
}

// IsAdmin reports whether the user has unrestricted course access
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// HasCourse reports whether the course is in the user's entitlement
func (u *User) HasCourse(courseID string) bool {
	return u != nil && slices.Contains(u.AllowedCourses, courseID)
}

// WithoutPassword returns a copy of the user with the password cleared
func (u User) WithoutPassword() User {
	u.Password = ""
	u.AllowedCourses = slices.Clone(u.AllowedCourses)
	return u
}

// UserListItem represents a user row of the admin console
type UserListItem struct {
	User
	IsSeed bool `json:"isSeed"`
}

// CreateUserRequest represents the admin request to add a student
type CreateUserRequest struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	AllowedCourses []string `json:"allowedCourses"`
}

// LoginRequest represents the request body of a student login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
