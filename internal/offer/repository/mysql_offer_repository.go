package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/barter/internal/database"
	apperrors "github.com/allisson/barter/internal/errors"
	"github.com/allisson/barter/internal/offer/domain"
)

// MySQLOfferRepository handles trade offer persistence for MySQL. UUIDs are stored as
// BINARY(16).
type MySQLOfferRepository struct {
	db *sql.DB
}

// NewMySQLOfferRepository creates a new MySQLOfferRepository.
func NewMySQLOfferRepository(db *sql.DB) *MySQLOfferRepository {
	return &MySQLOfferRepository{db: db}
}

// Create inserts a new offer.
func (r *MySQLOfferRepository) Create(ctx context.Context, offer *domain.TradeOffer) error {
	ids, err := marshalUUIDs(offer.ID, offer.RequestedItemID, offer.OfferedItemID, offer.OffererID, offer.RecipientID)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO trade_offers (` + offerColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query,
		ids[0], ids[1], ids[2], ids[3], ids[4],
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
func (r *MySQLOfferRepository) Get(ctx context.Context, id uuid.UUID) (*domain.TradeOffer, error) {
	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal offer id")
	}

	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + offerColumns + ` FROM trade_offers WHERE id = ?`

	offer, err := scanMySQLOffer(querier.QueryRowContext(ctx, query, idBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOfferNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get offer")
	}
	return offer, nil
}

// TransitionStatus moves the offer from one status to another in a single conditional update.
// It reports false when no row matched.
func (r *MySQLOfferRepository) TransitionStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to domain.Status,
	updatedAt time.Time,
) (bool, error) {
	idBytes, err := id.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal offer id")
	}

	querier := database.GetTx(ctx, r.db)

	query := `UPDATE trade_offers SET status = ?, updated_at = ? WHERE id = ? AND status = ?`

	result, err := querier.ExecContext(ctx, query, string(to), updatedAt, idBytes, string(from))
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
func (r *MySQLOfferRepository) List(ctx context.Context, filter domain.Filter) ([]*domain.TradeOffer, error) {
	var conditions []string
	var args []any

	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.OffererID != nil {
		idBytes, err := filter.OffererID.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal offerer id")
		}
		conditions = append(conditions, "offerer_id = ?")
		args = append(args, idBytes)
	}
	if filter.RecipientID != nil {
		idBytes, err := filter.RecipientID.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal recipient id")
		}
		conditions = append(conditions, "recipient_id = ?")
		args = append(args, idBytes)
	}

	query := `SELECT ` + offerColumns + ` FROM trade_offers`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list offers")
	}
	defer func() {
		_ = rows.Close()
	}()

	offers := make([]*domain.TradeOffer, 0)
	for rows.Next() {
		offer, err := scanMySQLOffer(rows)
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

func marshalUUIDs(ids ...uuid.UUID) ([][]byte, error) {
	out := make([][]byte, len(ids))
	for i, id := range ids {
		b, err := id.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal uuid")
		}
		out[i] = b
	}
	return out, nil
}

func scanMySQLOffer(row rowScanner) (*domain.TradeOffer, error) {
	var offer domain.TradeOffer
	var id, requestedItemID, offeredItemID, offererID, recipientID []byte
	var status string

	err := row.Scan(
		&id,
		&requestedItemID,
		&offeredItemID,
		&offererID,
		&recipientID,
		&status,
		&offer.CreatedAt,
		&offer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	targets := []struct {
		dst *uuid.UUID
		src []byte
	}{
		{&offer.ID, id},
		{&offer.RequestedItemID, requestedItemID},
		{&offer.OfferedItemID, offeredItemID},
		{&offer.OffererID, offererID},
		{&offer.RecipientID, recipientID},
	}
	for _, target := range targets {
		if err := target.dst.UnmarshalBinary(target.src); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal uuid")
		}
	}

	offer.Status = domain.Status(status)
	return &offer, nil
}
