package repository

import (
	"database/sql"

	"pantrypal/internal/account/model"
	"pantrypal/pkg/logger"
)

type AccountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

func (r *AccountRepository) Create(u *model.User) error {
	_, err := r.DB.Exec(`INSERT INTO users (id, email, display_name, password_hash, created_at) VALUES ($1, $2, $3, $4, NOW())`,
		u.ID, u.Email, u.DisplayName, u.PasswordHash)
	if err != nil {
		logger.Sugar.Errorf("Failed to create user %s: %v", u.Email, err)
	}
	return err
}

func (r *AccountRepository) GetByEmail(email string) (*model.User, error) {
	u := &model.User{}
	err := r.DB.QueryRow(`SELECT id, email, display_name, password_hash, disabled, created_at FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.Disabled, &u.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Sugar.Errorf("Failed to get user by email %s: %v", email, err)
		}
		return nil, err
	}
	return u, nil
}

func (r *AccountRepository) GetByID(id string) (*model.User, error) {
	u := &model.User{}
	err := r.DB.QueryRow(`SELECT id, email, display_name, password_hash, disabled, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.Disabled, &u.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Sugar.Errorf("Failed to get user %s: %v", id, err)
		}
		return nil, err
	}
	return u, nil
}

func (r *AccountRepository) UpdateDisplayName(id, displayName string) error {
	_, err := r.DB.Exec(`UPDATE users SET display_name = $1 WHERE id = $2`, displayName, id)
	if err != nil {
		logger.Sugar.Errorf("Failed to update display name for user %s: %v", id, err)
	}
	return err
}

func (r *AccountRepository) UpdatePassword(id, passwordHash string) error {
	_, err := r.DB.Exec(`UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		logger.Sugar.Errorf("Failed to update password for user %s: %v", id, err)
	}
	return err
}

// Delete removes the user; their lists go with them via ON DELETE CASCADE.
func (r *AccountRepository) Delete(id string) error {
	_, err := r.DB.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete user %s: %v", id, err)
	}
	return err
}
