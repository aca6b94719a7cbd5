package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"greenhouse_dashboard/internal/models"

	"github.com/google/uuid"
)

// UserRepository stores accounts in SQLite.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*UserRepository)(nil)

const (
	insertUserSQL           = `INSERT INTO users (public_id, username, password_hash) VALUES (?, ?, ?)`
	selectUserByUsernameSQL = `SELECT id, public_id, username, password_hash FROM users WHERE username = ?`
)

// Create inserts a new user with a generated public ID.
func (r *UserRepository) Create(username, passwordHash string) (*models.User, error) {
	publicID := uuid.NewString()
	res, err := r.db.Exec(insertUserSQL, publicID, username, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("insert user %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id for user %q: %w", username, err)
	}
	return &models.User{
		ID:           int(lastID),
		PublicID:     publicID,
		Username:     username,
		PasswordHash: passwordHash,
	}, nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(selectUserByUsernameSQL, username).
		Scan(&u.ID, &u.PublicID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return &u, nil
}
