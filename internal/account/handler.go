package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pantrypal/internal/account/model"
	"pantrypal/internal/account/service"
	"pantrypal/middleware"
	"pantrypal/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

type AccountHandler struct {
	Service *service.AccountService
}

func NewAccountHandler(service *service.AccountService) *AccountHandler {
	return &AccountHandler{Service: service}
}

func (h *AccountHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.Service.SignUp(req.Name, req.Email, req.Password)
	if err != nil {
		logger.Sugar.Infof("Sign up failed for %s: %v", req.Email, err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

func (h *AccountHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.SignIn(req.Email, req.Password)
	if err != nil {
		logger.Sugar.Infof("Sign in failed for %s: %v", req.Email, err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// SignOut is a stateless acknowledgment; the client discards its token.
func (h *AccountHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Signed out"))
}

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.Context().Value(middleware.UserIDKey).(string)

	user, err := h.Service.GetProfile(userID)
	if err != nil {
		logger.Sugar.Errorf("Failed to load profile for %s: %v", userID, err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.DisplayName) == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID := r.Context().Value(middleware.UserIDKey).(string)

	if err := h.Service.UpdateProfile(userID, req.DisplayName); err != nil {
		logger.Sugar.Errorf("Failed to update profile for %s: %v", userID, err)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Profile updated"))
}

func (h *AccountHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID := r.Context().Value(middleware.UserIDKey).(string)

	if err := h.Service.UpdatePassword(userID, req.NewPassword, authTimeFrom(r)); err != nil {
		logger.Sugar.Infof("Password update rejected for %s: %v", userID, err)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Password updated"))
}

func (h *AccountHandler) Reauthenticate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.ReauthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID := r.Context().Value(middleware.UserIDKey).(string)

	resp, err := h.Service.Reauthenticate(userID, req.Email, req.Password)
	if err != nil {
		logger.Sugar.Infof("Reauthentication failed for %s: %v", userID, err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.Context().Value(middleware.UserIDKey).(string)

	if err := h.Service.DeleteAccount(userID, authTimeFrom(r)); err != nil {
		logger.Sugar.Infof("Account deletion rejected for %s: %v", userID, err)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Account deleted"))
}

func authTimeFrom(r *http.Request) time.Time {
	claims, ok := r.Context().Value(middleware.ClaimsKey).(jwt.MapClaims)
	if !ok {
		return time.Time{}
	}
	at, ok := claims["auth_time"].(float64)
	if !ok {
		return time.Time{}
	}
	return time.Unix(int64(at), 0)
}

var statusByCode = map[string]int{
	model.CodeInvalidCredential:   http.StatusUnauthorized,
	model.CodeUserDisabled:        http.StatusForbidden,
	model.CodeInvalidEmail:        http.StatusBadRequest,
	model.CodeUserNotFound:        http.StatusNotFound,
	model.CodeEmailInUse:          http.StatusConflict,
	model.CodeWeakPassword:        http.StatusBadRequest,
	model.CodeRequiresRecentLogin: http.StatusForbidden,
}

func writeError(w http.ResponseWriter, err error) {
	var authErr *model.AuthError
	if errors.As(err, &authErr) {
		w.Header().Set("Content-Type", "application/json")
		status, ok := statusByCode[authErr.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(authErr)
		return
	}
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
