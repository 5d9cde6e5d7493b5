package models

// Theme is the UI color theme
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Preferences represents the per-profile settings
type Preferences struct {
	Theme         Theme `json:"theme"`
	Autoplay      bool  `json:"autoplay"`
	Notifications bool  `json:"notifications"`
}

// UpdatePreferencesRequest represents a partial preferences update
type UpdatePreferencesRequest struct {
	Theme         *Theme `json:"theme,omitempty"`
	Autoplay      *bool  `json:"autoplay,omitempty"`
	Notifications *bool  `json:"notifications,omitempty"`
}

// ChangePasswordRequest represents the admin console password change
type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// AdminLoginRequest represents the admin console login
type AdminLoginRequest struct {
	Password string `json:"password"`
}

// AdminLoginResponse carries the console token
type AdminLoginResponse struct {
	Token string `json:"token"`
}
