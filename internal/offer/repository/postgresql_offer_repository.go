// Package repository persists trade offers in PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/barter/internal/database"
	apperrors "github.com/allisson/barter/internal/errors"
	"github.com/allisson/barter/internal/offer/domain"
)

const offerColumns = `id, requested_item_id, offered_item_id, offerer_id, recipient_id, status, created_at, updated_at`

// PostgreSQLOfferRepository handles trade offer persistence for PostgreSQL.
type PostgreSQLOfferRepository struct {
	db *sql.DB
}

// NewPostgreSQLOfferRepository creates a new PostgreSQLOfferRepository.
func NewPostgreSQLOfferRepository(db *sql.DB) *PostgreSQLOfferRepository {
	return &PostgreSQLOfferRepository{db: db}
}

// Create inserts a new offer.
func (r *PostgreSQLOfferRepository) Create(ctx context.Context, offer *domain.TradeOffer) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO trade_offers (` + offerColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(ctx, query,
		offer.ID,
		offer.RequestedItemID,
		offer.OfferedItemID,
		offer.OffererID,
		offer.RecipientID,
		string(offer.Status),
		offer.CreatedAt,
		offer.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create offer")
	}
	return nil
}

// Get retrieves an offer by ID.
func (r *PostgreSQLOfferRepository) Get(ctx context.Context, id uuid.UUID) (*domain.TradeOffer, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + offerColumns + ` FROM trade_offers WHERE id = $1`

	offer, err := scanPostgreSQLOffer(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOfferNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get offer")
	}
	return offer, nil
}

// TransitionStatus moves the offer from one status to another in a single conditional update.
// It reports false when no row matched, i.e. the offer was missing or no longer in from.
func (r *PostgreSQLOfferRepository) TransitionStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to domain.Status,
	updatedAt time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE trade_offers SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`

	result, err := querier.ExecContext(ctx, query, string(to), updatedAt, id, string(from))
	if err != nil {
		return false, apperrors.Wrap(err, "failed to update offer status")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get affected rows")
	}
	return rows == 1, nil
}

// List returns offers matching the filter, newest first.
func (r *PostgreSQLOfferRepository) List(ctx context.Context, filter domain.Filter) ([]*domain.TradeOffer, error) {
	querier := database.GetTx(ctx, r.db)

	var conditions []string
	var args []any
	where := func(column string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if filter.Status != nil {
		where("status", string(*filter.Status))
	}
	if filter.OffererID != nil {
		where("offerer_id", *filter.OffererID)
	}
	if filter.RecipientID != nil {
		where("recipient_id", *filter.RecipientID)
	}

	query := `SELECT ` + offerColumns + ` FROM trade_offers`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list offers")
	}
	defer func() {
		_ = rows.Close()
	}()

	offers := make([]*domain.TradeOffer, 0)
	for rows.Next() {
		offer, err := scanPostgreSQLOffer(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan offer")
		}
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate offers")
	}
	return offers, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgreSQLOffer(row rowScanner) (*domain.TradeOffer, error) {
	var offer domain.TradeOffer
	var status string
	err := row.Scan(
		&offer.ID,
		&offer.RequestedItemID,
		&offer.OfferedItemID,
		&offer.OffererID,
		&offer.RecipientID,
		&status,
		&offer.CreatedAt,
		&offer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	offer.Status = domain.Status(status)
	return &offer, nil
}
