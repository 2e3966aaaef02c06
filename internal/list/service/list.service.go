package service

import (
	"database/sql"
	"errors"
	"strings"

	"pantrypal/internal/list/model"
	"pantrypal/internal/list/repository"

	"github.com/google/uuid"
)

var (
	ErrEmptyName        = errors.New("list name cannot be empty")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotFound         = errors.New("list not found or unauthorized")
)

// Notifier tells the realtime hub that a user's list set changed. The hub
// reloads the full snapshot and pushes it to every subscriber of that user,
// including the connection that triggered the change.
type Notifier interface {
	NotifyUser(userID string)
}

type ListService struct {
	Repo *repository.ListRepository
	Hub  Notifier
}

func NewListService(repo *repository.ListRepository, hub Notifier) *ListService {
	return &ListService{Repo: repo, Hub: hub}
}

func (s *ListService) Create(ownerID, name string) (*model.GroceryList, error) {
	if ownerID == "" {
		return nil, ErrNotAuthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	list := &model.GroceryList{ID: uuid.NewString(), Name: name, OwnerID: ownerID}
	createdAt, err := s.Repo.Create(list.ID, list.Name, ownerID)
	if err != nil {
		return nil, err
	}
	list.CreatedAt = createdAt

	s.notify(ownerID)
	return list, nil
}

func (s *ListService) Rename(ownerID, listID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	rowsAffected, err := s.Repo.Rename(listID, name, ownerID)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.notify(ownerID)
	return nil
}

// Duplicate inserts a copy of the list with a "(Copy)" suffix, a fresh id
// and created_at, and the same owner.
func (s *ListService) Duplicate(ownerID, listID string) (*model.GroceryList, error) {
	if ownerID == "" {
		return nil, ErrNotAuthenticated
	}

	original, err := s.Repo.GetByID(listID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	if original.OwnerID != ownerID {
		return nil, ErrNotFound
	}

	copyList := &model.GroceryList{
		ID:      uuid.NewString(),
		Name:    original.Name + " (Copy)",
		OwnerID: ownerID,
	}
	createdAt, err := s.Repo.Create(copyList.ID, copyList.Name, ownerID)
	if err != nil {
		return nil, err
	}
	copyList.CreatedAt = createdAt

	s.notify(ownerID)
	return copyList, nil
}

func (s *ListService) Delete(ownerID, listID string) error {
	rowsAffected, err := s.Repo.Delete(listID, ownerID)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.notify(ownerID)
	return nil
}

func (s *ListService) GetByOwner(ownerID string) ([]model.GroceryList, error) {
	return s.Repo.GetByOwner(ownerID)
}

func (s *ListService) notify(ownerID string) {
	if s.Hub != nil {
		s.Hub.NotifyUser(ownerID)
	}
}
