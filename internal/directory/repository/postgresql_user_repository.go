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

// PostgreSQLUserRepository reads users from PostgreSQL.
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQLUserRepository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{db: db}
}

// GetUser retrieves a user by ID.
func (r *PostgreSQLUserRepository) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, display_name, email FROM users WHERE id = $1`

	err := querier.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.DisplayName, &user.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}
	return &user, nil
}
