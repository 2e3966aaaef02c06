package client

import (
	"context"
	"net/http"
	"strings"
)

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userInfo struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type tokenResponse struct {
	Token string   `json:"token"`
	User  userInfo `json:"user"`
}

// SignUp validates locally first: all fields are required and the passwords
// must match. Validation failures make no remote call. A successful sign-up
// does not establish a session; the caller signs in next.
func (c *Client) SignUp(ctx context.Context, name, email, password, confirmPassword string) error {
	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if confirmPassword == "" {
		missing = append(missing, "confirmPassword")
	}
	if len(missing) > 0 {
		return &ValidationError{Message: "Please fill in all required fields.", Fields: missing}
	}

	if password != confirmPassword {
		return &ValidationError{Message: "Passwords do not match.", Fields: []string{"password", "confirmPassword"}}
	}

	return c.do(ctx, http.MethodPost, "/api/auth/signup",
		signUpRequest{Name: name, Email: email, Password: password}, nil,
		"Sign up failed. Please try again.")
}

func (c *Client) SignIn(ctx context.Context, email, password string) error {
	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return &ValidationError{Message: "Please fill in all required fields.", Fields: missing}
	}

	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/signin",
		credentialsRequest{Email: email, Password: password}, &resp,
		"Login failed. Please try again."); err != nil {
		return err
	}

	c.setSession(&Session{
		UserID:      resp.User.ID,
		DisplayName: resp.User.DisplayName,
		Email:       resp.User.Email,
		Token:       resp.Token,
	})
	return nil
}

// SignOut discards the local session. The server call is best-effort; the
// token simply stops being presented.
func (c *Client) SignOut(ctx context.Context) error {
	if c.Session() == nil {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/signout", nil, nil, "Logout failed.")
	c.setSession(nil)
	return err
}

func (c *Client) UpdateProfile(ctx context.Context, displayName string) error {
	sess := c.Session()
	if sess == nil {
		return ErrNotAuthenticated
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return &ValidationError{Message: "Please fill in all required fields.", Fields: []string{"name"}}
	}

	if err := c.do(ctx, http.MethodPut, "/api/auth/profile",
		map[string]string{"display_name": displayName}, nil,
		"Profile update failed. Please try again."); err != nil {
		return err
	}

	sess.DisplayName = displayName
	c.setSession(sess)
	return nil
}

// Reauthenticate verifies the stored email with the provided secret and
// swaps in the fresh token it gets back.
func (c *Client) Reauthenticate(ctx context.Context, currentPassword string) error {
	sess := c.Session()
	if sess == nil {
		return ErrNotAuthenticated
	}

	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/reauth",
		credentialsRequest{Email: sess.Email, Password: currentPassword}, &resp,
		"Re-authentication failed."); err != nil {
		return err
	}

	sess.Token = resp.Token
	c.setSession(sess)
	return nil
}

// UpdatePassword is session-gated: a stale session triggers the reauth flow,
// after which the update is retried exactly once.
func (c *Client) UpdatePassword(ctx context.Context, newPassword string, prompt CredentialPrompt) error {
	if c.Session() == nil {
		return ErrNotAuthenticated
	}
	return c.runSensitive(ctx, func(ctx context.Context) error {
		return c.do(ctx, http.MethodPut, "/api/auth/password",
			map[string]string{"new_password": newPassword}, nil,
			"Password update failed. Please try again.")
	}, prompt)
}

// DeleteAccount is session-gated like UpdatePassword. On success the local
// session is cleared; there is no recovery window.
func (c *Client) DeleteAccount(ctx context.Context, prompt CredentialPrompt) error {
	if c.Session() == nil {
		return ErrNotAuthenticated
	}
	err := c.runSensitive(ctx, func(ctx context.Context) error {
		return c.do(ctx, http.MethodDelete, "/api/auth/account", nil, nil,
			"Account deletion failed. Please try again.")
	}, prompt)
	if err != nil {
		return err
	}
	c.setSession(nil)
	return nil
}
