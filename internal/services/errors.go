package services

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email is already registered")
	ErrForbidden          = errors.New("seed users cannot be deleted")
	ErrWrongOldPassword   = errors.New("old password is incorrect")
	ErrPasswordTooShort   = errors.New("new password must be at least 5 characters")
	ErrPasswordMismatch   = errors.New("new password and confirmation do not match")
	ErrValidation         = errors.New("validation failed")
	ErrCourseNotFound     = errors.New("course not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrLeadNotFound       = errors.New("lead not found")
	ErrAccessDenied       = errors.New("access to the course is denied")
	ErrNotLoggedIn        = errors.New("no active session")
	ErrRemindersDisabled  = errors.New("reminders are not configured")
)
