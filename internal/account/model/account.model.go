package model

import "time"

// User is a row in the users table. PasswordHash never leaves the server.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
}

// UserInfo is the user shape returned to clients.
type UserInfo struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ReauthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
}

type UpdatePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// TokenResponse is returned by sign-in and reauthentication.
type TokenResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// Stable error codes surfaced to clients. They mirror the identity
// provider codes the mobile app was written against.
const (
	CodeInvalidCredential   = "invalid-credential"
	CodeUserDisabled        = "user-disabled"
	CodeInvalidEmail        = "invalid-email"
	CodeUserNotFound        = "user-not-found"
	CodeEmailInUse          = "email-already-in-use"
	CodeWeakPassword        = "weak-password"
	CodeRequiresRecentLogin = "requires-recent-login"
)

// AuthError is an authentication failure with a stable code.
type AuthError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *AuthError) Error() string { return e.Message }

func NewAuthError(code, message string) *AuthError {
	return &AuthError{Code: code, Message: message}
}
