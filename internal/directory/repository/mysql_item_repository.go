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

// MySQLItemRepository reads items from MySQL, where UUIDs are stored as BINARY(16).
type MySQLItemRepository struct {
	db *sql.DB
}

// NewMySQLItemRepository creates a new MySQLItemRepository.
func NewMySQLItemRepository(db *sql.DB) *MySQLItemRepository {
	return &MySQLItemRepository{db: db}
}

// GetItem retrieves an item by ID.
func (r *MySQLItemRepository) GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal item id")
	}

	var item domain.Item
	var itemID, ownerID []byte
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, owner_id, name, year FROM items WHERE id = ?`

	err = querier.QueryRowContext(ctx, query, idBytes).Scan(&itemID, &ownerID, &item.Name, &item.Year)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get item")
	}

	if err := item.ID.UnmarshalBinary(itemID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal item id")
	}
	if err := item.OwnerID.UnmarshalBinary(ownerID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal owner id")
	}
	return &item, nil
}
