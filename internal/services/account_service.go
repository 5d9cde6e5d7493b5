package services

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mlacademy/backend/internal/catalog"
	"github.com/mlacademy/backend/internal/models"
	"go.uber.org/zap"
)

const minAdminPasswordLength = 5

// AddedUserRepository is the interface that wraps methods for the added user list
type AddedUserRepository interface {
	// Method GetAll retrieves every user added from the admin console, passwords included.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	GetAll(ctx context.Context) ([]models.User, error)
	// Method Update runs a read-modify-write cycle over the added user list.
	//
	// "fn" parameter receives the current list and returns the list to store.
	// If "fn" returns an error, nothing is written and that error is returned.
	//
	// If some error occurs during data read or write, the error will be returned.
	Update(ctx context.Context, fn func([]models.User) ([]models.User, error)) error
}

// SessionRepository is the interface that wraps methods for the per-profile session
type SessionRepository interface {
	// Method Get retrieves the session of a profile.
	//
	// "profileID" parameter identifies the client profile.
	//
	// If nobody is logged in, "nil" is returned without an error.
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	Get(ctx context.Context, profileID string) (*models.User, error)
	// Method Save stores the session of a profile, replacing any previous session.
	//
	// "profileID" parameter identifies the client profile.
	// "user" parameter is the logged in user; the password is never stored.
	//
	// If some error occurs during data write, the error will be returned.
	Save(ctx context.Context, profileID string, user models.User) error
	// Method Delete removes the session of a profile.
	//
	// "profileID" parameter identifies the client profile.
	//
	// If some error occurs during data deletion, the error will be returned.
	Delete(ctx context.Context, profileID string) error
}

// LoginActivityRepository is the interface that wraps methods for recording logins
type LoginActivityRepository interface {
	// Method RecordLogin overwrites the last login of a user and appends a login event.
	//
	// "userID" parameter identifies the user.
	// "at" parameter is the login time.
	//
	// If some error occurs during data write, the error will be returned.
	RecordLogin(ctx context.Context, userID string, at time.Time) error
}

// AdminPasswordRepository is the interface that wraps methods for the admin console password
type AdminPasswordRepository interface {
	// Method GetAdminPassword retrieves the admin console password, or its default when never set.
	//
	// If some error occurs during data retrieve, the error will be returned together with empty value.
	GetAdminPassword(ctx context.Context) (string, error)
	// Method SetAdminPassword overwrites the admin console password.
	//
	// "password" parameter is the new password.
	//
	// If some error occurs during data write, the error will be returned.
	SetAdminPassword(ctx context.Context, password string) error
}

// AdminTokenIssuer issues admin console tokens
type AdminTokenIssuer interface {
	GenerateAdminToken() (string, error)
}

type accountService struct {
	users    AddedUserRepository
	sessions SessionRepository
	activity LoginActivityRepository
	settings AdminPasswordRepository
	tokens   AdminTokenIssuer
	logger   *zap.Logger
	now      func() time.Time
}

// NewAccountService creates a new account service
func NewAccountService(
	users AddedUserRepository,
	sessions SessionRepository,
	activity LoginActivityRepository,
	settings AdminPasswordRepository,
	tokens AdminTokenIssuer,
	logger *zap.Logger,
) *accountService {
	return &accountService{
		users:    users,
		sessions: sessions,
		activity: activity,
		settings: settings,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,
	}
}

// AllUsers retrieves seed users followed by added users, passwords included
func (s *accountService) AllUsers(ctx context.Context) ([]models.User, error) {
	added, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return append(catalog.SeedUsers(), added...), nil
}

// Authenticate finds the first user whose email matches case-insensitively and whose password matches exactly
func (s *accountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	users, err := s.AllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	email = strings.TrimSpace(email)
	for _, u := range users {
		if strings.EqualFold(u.Email, email) && u.Password == password {
			return &u, nil
		}
	}
	return nil, ErrInvalidCredentials
}

// Login authenticates the user, records the login and stores the session of the profile
func (s *accountService) Login(ctx context.Context, profileID, email, password string) (*models.User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.activity.RecordLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	session := user.WithoutPassword()
	session.LastLoginDate = &now
	if err := s.sessions.Save(ctx, profileID, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("profile_id", profileID))
	return &session, nil
}

// Logout destroys the session of the profile
func (s *accountService) Logout(ctx context.Context, profileID string) error {
	if err := s.sessions.Delete(ctx, profileID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CurrentSession retrieves the logged in user of the profile, or nil
func (s *accountService) CurrentSession(ctx context.Context, profileID string) (*models.User, error) {
	session, err := s.sessions.Get(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// ListUsers retrieves seed users first and added users after, without passwords
func (s *accountService) ListUsers(ctx context.Context) ([]models.UserListItem, error) {
	users, err := s.AllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	items := make([]models.UserListItem, len(users))
	for i, u := range users {
		items[i] = models.UserListItem{
			User:   u.WithoutPassword(),
			IsSeed: catalog.IsSeedUserID(u.ID),
		}
	}
	return items, nil
}

// AddUser appends a new student to the added user list.
// Nothing is written when validation or the duplicate check fails.
func (s *accountService) AddUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}

	allowed := make([]string, 0, len(req.AllowedCourses))
	for _, courseID := range req.AllowedCourses {
		if !catalog.HasCourse(courseID) {
			return nil, fmt.Errorf("%w: unknown course %q", ErrValidation, courseID)
		}
		if !slices.Contains(allowed, courseID) {
			allowed = append(allowed, courseID)
		}
	}

	user := models.User{
		ID:             "u_" + uuid.New().String(),
		Name:           name,
		Email:          email,
		Password:       req.Password,
		Role:           models.RoleStudent,
		Avatar:         avatarURL(name),
		JoinedDate:     s.now(),
		AllowedCourses: allowed,
	}

	err := s.users.Update(ctx, func(added []models.User) ([]models.User, error) {
		for _, u := range append(catalog.SeedUsers(), added...) {
			if strings.EqualFold(u.Email, email) {
				return nil, ErrDuplicateEmail
			}
		}
		return append(added, user), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user added", zap.String("user_id", user.ID))
	result := user.WithoutPassword()
	return &result, nil
}

// DeleteUser removes an added user. Seed users cannot be deleted.
func (s *accountService) DeleteUser(ctx context.Context, id string) error {
	if catalog.IsSeedUserID(id) {
		return ErrForbidden
	}

	err := s.users.Update(ctx, func(added []models.User) ([]models.User, error) {
		idx := slices.IndexFunc(added, func(u models.User) bool { return u.ID == id })
		if idx < 0 {
			return nil, ErrUserNotFound
		}
		return slices.Delete(added, idx, idx+1), nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

// ChangeAdminPassword replaces the admin console password.
// Checks run in order: old password, minimum length, confirmation.
func (s *accountService) ChangeAdminPassword(ctx context.Context, req *models.ChangePasswordRequest) error {
	current, err := s.settings.GetAdminPassword(ctx)
	if err != nil {
		return fmt.Errorf("failed to get admin password: %w", err)
	}

	if req.OldPassword != current {
		return ErrWrongOldPassword
	}
	if len(req.NewPassword) < minAdminPasswordLength {
		return ErrPasswordTooShort
	}
	if req.NewPassword != req.ConfirmPassword {
		return ErrPasswordMismatch
	}

	if err := s.settings.SetAdminPassword(ctx, req.NewPassword); err != nil {
		return fmt.Errorf("failed to save admin password: %w", err)
	}
	return nil
}

// AdminLogin checks the admin console password and issues a console token
func (s *accountService) AdminLogin(ctx context.Context, password string) (string, error) {
	current, err := s.settings.GetAdminPassword(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get admin password: %w", err)
	}
	if password != current {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAdminToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate admin token: %w", err)
	}
	return token, nil
}

// avatarURL builds a generated avatar for the name
func avatarURL(name string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
	return "https://ui-avatars.com/api/?name=" + escaped + "&background=random"
}
