package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"pantrypal/internal/list/model"
	"pantrypal/internal/list/service"
	"pantrypal/middleware"
	"pantrypal/pkg/logger"
)

type ListHandler struct {
	Service *service.ListService
}

func NewListHandler(service *service.ListService) *ListHandler {
	return &ListHandler{Service: service}
}

func (h *ListHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.Context().Value(middleware.UserIDKey).(string)

	var req model.CreateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	list, err := h.Service.Create(userID, req.Name)
	if err != nil {
		logger.Sugar.Infof("Handler: Failed to create list: %v", err)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(model.CreateListResponse{ListID: list.ID})
}

func (h *ListHandler) RenameList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	listID := r.URL.Query().Get("listId")
	if listID == "" {
		http.Error(w, "Missing listId parameter", http.StatusBadRequest)
		return
	}

	userID := r.Context().Value(middleware.UserIDKey).(string)

	var req model.RenameListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.Rename(userID, listID, req.Name); err != nil {
		logger.Sugar.Infof("Handler: Failed to rename list %s: %v", listID, err)
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("List renamed"))
}

func (h *ListHandler) DuplicateList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	listID := r.URL.Query().Get("listId")
	if listID == "" {
		http.Error(w, "Missing listId parameter", http.StatusBadRequest)
		return
	}

	userID := r.Context().Value(middleware.UserIDKey).(string)

	list, err := h.Service.Duplicate(userID, listID)
	if err != nil {
		logger.Sugar.Infof("Handler: Failed to duplicate list %s: %v", listID, err)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(model.CreateListResponse{ListID: list.ID})
}

func (h *ListHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	listID := r.URL.Query().Get("listId")
	if listID == "" {
		http.Error(w, "Missing listId parameter", http.StatusBadRequest)
		return
	}

	userID := r.Context().Value(middleware.UserIDKey).(string)

	if err := h.Service.Delete(userID, listID); err != nil {
		logger.Sugar.Infof("Handler: Failed to delete list %s: %v", listID, err)
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("List deleted"))
}

func (h *ListHandler) GetLists(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.Context().Value(middleware.UserIDKey).(string)

	lists, err := h.Service.GetByOwner(userID)
	if err != nil {
		logger.Sugar.Errorf("Error fetching lists: %v", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lists)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyName):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrNotAuthenticated):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
