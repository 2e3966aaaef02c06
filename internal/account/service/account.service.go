package service

import (
	"database/sql"
	"regexp"
	"strings"
	"time"

	"pantrypal/internal/account/model"
	"pantrypal/internal/account/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Disconnector closes every realtime connection belonging to a user.
// The socket hub implements it.
type Disconnector interface {
	RemoveUser(userID string)
}

type AccountService struct {
	Repo *repository.AccountRepository
	Hub  Disconnector

	JWTSecret    string
	TokenTTL     time.Duration
	ReauthWindow time.Duration
}

func NewAccountService(repo *repository.AccountRepository, hub Disconnector, jwtSecret string, tokenTTL, reauthWindow time.Duration) *AccountService {
	return &AccountService{
		Repo:         repo,
		Hub:          hub,
		JWTSecret:    jwtSecret,
		TokenTTL:     tokenTTL,
		ReauthWindow: reauthWindow,
	}
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func (s *AccountService) SignUp(name, email, password string) (*model.UserInfo, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailPattern.MatchString(email) {
		return nil, model.NewAuthError(model.CodeInvalidEmail, "Invalid email format.")
	}
	if len(password) < 6 {
		return nil, model.NewAuthError(model.CodeWeakPassword, "Password should be at least 6 characters.")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  name,
		PasswordHash: hash,
	}
	if err := s.Repo.Create(user); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, model.NewAuthError(model.CodeEmailInUse, "Email is already registered.")
		}
		return nil, err
	}

	return &model.UserInfo{ID: user.ID, Email: user.Email, DisplayName: user.DisplayName}, nil
}

func (s *AccountService) SignIn(email, password string) (*model.TokenResponse, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.Repo.GetByEmail(email)
	if err == sql.ErrNoRows {
		return nil, model.NewAuthError(model.CodeUserNotFound, "No account found with this email.")
	} else if err != nil {
		return nil, err
	}
	if user.Disabled {
		return nil, model.NewAuthError(model.CodeUserDisabled, "This account has been disabled.")
	}

	ok, err := verifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.NewAuthError(model.CodeInvalidCredential, "Invalid email or password.")
	}

	return s.tokenResponse(user, time.Now())
}

// Reauthenticate verifies the active user's current credential and issues a
// token with a fresh auth_time, unlocking sensitive operations.
func (s *AccountService) Reauthenticate(userID, email, password string) (*model.TokenResponse, error) {
	user, err := s.Repo.GetByID(userID)
	if err == sql.ErrNoRows {
		return nil, model.NewAuthError(model.CodeUserNotFound, "No account found with this email.")
	} else if err != nil {
		return nil, err
	}

	if !strings.EqualFold(user.Email, strings.TrimSpace(email)) {
		return nil, model.NewAuthError(model.CodeInvalidCredential, "Invalid email or password.")
	}
	ok, err := verifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.NewAuthError(model.CodeInvalidCredential, "Invalid email or password.")
	}

	return s.tokenResponse(user, time.Now())
}

func (s *AccountService) GetProfile(userID string) (*model.UserInfo, error) {
	user, err := s.Repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return &model.UserInfo{ID: user.ID, Email: user.Email, DisplayName: user.DisplayName}, nil
}

func (s *AccountService) UpdateProfile(userID, displayName string) error {
	return s.Repo.UpdateDisplayName(userID, strings.TrimSpace(displayName))
}

// UpdatePassword requires the session to be fresh; a stale session gets the
// requires-recent-login code so the client can run its reauth flow.
func (s *AccountService) UpdatePassword(userID, newPassword string, authTime time.Time) error {
	if err := s.checkFreshness(authTime); err != nil {
		return err
	}
	if len(newPassword) < 6 {
		return model.NewAuthError(model.CodeWeakPassword, "Password should be at least 6 characters.")
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePassword(userID, hash)
}

// DeleteAccount removes the user and all their lists, then force-closes any
// realtime connections they still hold.
func (s *AccountService) DeleteAccount(userID string, authTime time.Time) error {
	if err := s.checkFreshness(authTime); err != nil {
		return err
	}
	if err := s.Repo.Delete(userID); err != nil {
		return err
	}
	if s.Hub != nil {
		s.Hub.RemoveUser(userID)
	}
	return nil
}

func (s *AccountService) checkFreshness(authTime time.Time) error {
	if time.Since(authTime) > s.ReauthWindow {
		return model.NewAuthError(model.CodeRequiresRecentLogin, "This operation requires a recent sign-in.")
	}
	return nil
}

func (s *AccountService) tokenResponse(user *model.User, authTime time.Time) (*model.TokenResponse, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       user.ID,
		"email":     user.Email,
		"name":      user.DisplayName,
		"iat":       now.Unix(),
		"exp":       now.Add(s.TokenTTL).Unix(),
		"auth_time": authTime.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		Token: token,
		User:  model.UserInfo{ID: user.ID, Email: user.Email, DisplayName: user.DisplayName},
	}, nil
}
