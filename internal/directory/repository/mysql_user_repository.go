package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/barter/internal/database"
	"github.com/allisson/barter/internal/directory/domain"
	apperrors "github.com/allisson/barter/internal/errors"
)

// MySQLUserRepository reads users from MySQL.
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQLUserRepository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

// GetUser retrieves a user by ID.
func (r *MySQLUserRepository) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	var user domain.User
	var userID []byte
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, display_name, email FROM users WHERE id = ?`

	err = querier.QueryRowContext(ctx, query, idBytes).Scan(&userID, &user.DisplayName, &user.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	if err := user.ID.UnmarshalBinary(userID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	return &user, nil
}
