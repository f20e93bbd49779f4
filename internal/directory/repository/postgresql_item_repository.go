// Package repository provides read-only directory lookups for PostgreSQL and MySQL.
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

// PostgreSQLItemRepository reads items from PostgreSQL.
type PostgreSQLItemRepository struct {
	db *sql.DB
}

// NewPostgreSQLItemRepository creates a new PostgreSQLItemRepository.
func NewPostgreSQLItemRepository(db *sql.DB) *PostgreSQLItemRepository {
	return &PostgreSQLItemRepository{db: db}
}

// GetItem retrieves an item by ID.
func (r *PostgreSQLItemRepository) GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	var item domain.Item
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, owner_id, name, year FROM items WHERE id = $1`

	err := querier.QueryRowContext(ctx, query, id).Scan(&item.ID, &item.OwnerID, &item.Name, &item.Year)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get item")
	}
	return &item, nil
}
