package repository

import (
	"database/sql"

	"greenhouse_dashboard/internal/models"
)

// Authorization persists dashboard accounts.
type Authorization interface {
	Create(username, hash string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
}

// Repository aggregates the persistence layer. Series records are held
// in-memory by the lookup caches and never stored here; accounts are the
// only durable state.
type Repository struct {
	Auth Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Auth: NewUserRepository(db),
	}
}
