package client

import (
	"encoding/json"
	"errors"
	"net/http"
)

var (
	// ErrNotAuthenticated is returned before any remote call when an
	// operation requires an active session and there is none.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrEmptyName gates create and rename before any remote call.
	ErrEmptyName = errors.New("list name cannot be empty")
)

// ValidationError is a pre-flight input failure. No remote call was made.
// Fields names the inputs to highlight.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthError is a remote authentication failure mapped to a user-facing
// message, with the fields to flag for it.
type AuthError struct {
	Code    string
	Message string
	Fields  []string
}

func (e *AuthError) Error() string { return e.Message }

// userMessage maps the provider's stable error codes to display strings.
// Unmapped codes fall back to the caller's generic message.
func userMessage(code string) (string, []string, bool) {
	switch code {
	case "invalid-credential":
		return "Invalid email or password.", []string{"email", "password"}, true
	case "user-disabled":
		return "This account has been disabled.", nil, true
	case "invalid-email":
		return "Invalid email format.", []string{"email"}, true
	case "user-not-found":
		return "No account found with this email.", []string{"email"}, true
	case "email-already-in-use":
		return "Email is already registered.", []string{"email"}, true
	case "weak-password":
		return "Password should be at least 6 characters.", []string{"password"}, true
	case "requires-recent-login":
		return "Please sign in again to continue.", nil, true
	}
	return "", nil, false
}

func decodeError(resp *http.Response, fallback string) error {
	var body struct {
		Code    string `json:"code"`
		Message string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Code != "" {
		if msg, fields, ok := userMessage(body.Code); ok {
			return &AuthError{Code: body.Code, Message: msg, Fields: fields}
		}
	}
	return errors.New(fallback)
}

func isReauthRequired(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) && authErr.Code == "requires-recent-login"
}
