package repository

import (
	"database/sql"
	"time"

	"pantrypal/internal/list/model"
	"pantrypal/pkg/logger"
)

type ListRepository struct {
	DB *sql.DB
}

func NewListRepository(db *sql.DB) *ListRepository {
	return &ListRepository{DB: db}
}

func (r *ListRepository) Create(id, name, ownerID string) (time.Time, error) {
	var createdAt time.Time
	err := r.DB.QueryRow(`INSERT INTO lists (id, name, owner_id, created_at) VALUES ($1, $2, $3, NOW()) RETURNING created_at`,
		id, name, ownerID).Scan(&createdAt)
	if err != nil {
		logger.Sugar.Errorf("Failed to create list for user %s: %v", ownerID, err)
	}
	return createdAt, err
}

func (r *ListRepository) GetByID(listID string) (*model.GroceryList, error) {
	l := &model.GroceryList{}
	err := r.DB.QueryRow(`SELECT id, name, created_at, owner_id FROM lists WHERE id = $1`, listID).
		Scan(&l.ID, &l.Name, &l.CreatedAt, &l.OwnerID)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Sugar.Errorf("Failed to get list %s: %v", listID, err)
		}
		return nil, err
	}
	return l, nil
}

// Rename updates the name only; created_at and owner_id are immutable.
func (r *ListRepository) Rename(listID, name, ownerID string) (int64, error) {
	result, err := r.DB.Exec(`UPDATE lists SET name = $1 WHERE id = $2 AND owner_id = $3`, name, listID, ownerID)
	if err != nil {
		logger.Sugar.Errorf("Failed to rename list %s: %v", listID, err)
		return 0, err
	}
	return result.RowsAffected()
}

func (r *ListRepository) Delete(listID, ownerID string) (int64, error) {
	result, err := r.DB.Exec(`DELETE FROM lists WHERE id = $1 AND owner_id = $2`, listID, ownerID)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete list %s: %v", listID, err)
		return 0, err
	}
	return result.RowsAffected()
}

// GetByOwner returns the owner-filtered view, newest first. This is the
// same shape every snapshot emission carries.
func (r *ListRepository) GetByOwner(ownerID string) ([]model.GroceryList, error) {
	rows, err := r.DB.Query(`SELECT id, name, created_at, owner_id FROM lists WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		logger.Sugar.Errorf("Failed to get lists for user %s: %v", ownerID, err)
		return nil, err
	}
	defer rows.Close()

	lists := make([]model.GroceryList, 0)
	for rows.Next() {
		var l model.GroceryList
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt, &l.OwnerID); err != nil {
			logger.Sugar.Errorf("Failed to scan list row: %v", err)
			continue
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}
