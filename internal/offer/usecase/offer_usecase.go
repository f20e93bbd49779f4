package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/barter/internal/database"
	offerDomain "github.com/allisson/barter/internal/offer/domain"
)

const (
	// DefaultListLimit is used when a filter carries no limit.
	DefaultListLimit = 50
	// MaxListLimit caps the page size of ListOffers.
	MaxListLimit = 100
)

// storeNow returns the current UTC time at the microsecond precision both stores keep.
func storeNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

type offerUseCase struct {
	txManager     database.TxManager
	offerRepo     OfferRepository
	itemDirectory ItemDirectory
	userDirectory UserDirectory
	publisher     EventPublisher
	renderer      TemplateRenderer
	logger        *slog.Logger
	now           func() time.Time
}

// NewOfferUseCase creates an OfferUseCase.
func NewOfferUseCase(
	txManager database.TxManager,
	offerRepo OfferRepository,
	itemDirectory ItemDirectory,
	userDirectory UserDirectory,
	publisher EventPublisher,
	renderer TemplateRenderer,
	logger *slog.Logger,
) OfferUseCase {
	return &offerUseCase{
		txManager:     txManager,
		offerRepo:     offerRepo,
		itemDirectory: itemDirectory,
		userDirectory: userDirectory,
		publisher:     publisher,
		renderer:      renderer,
		logger:        logger,
		now:           storeNow,
	}
}

// CreateOffer proposes trading the actor's offered item for the owner's requested item.
// The recipient is whoever owns the requested item. Offering an item for itself is a self
// trade. Notifications are emitted only after the offer is stored.
func (o *offerUseCase) CreateOffer(
	ctx context.Context,
	actorID, requestedItemID, offeredItemID uuid.UUID,
) (*offerDomain.TradeOffer, error) {
	requestedItem, err := o.itemDirectory.GetItem(ctx, requestedItemID)
	if err != nil {
		return nil, err
	}
	offeredItem, err := o.itemDirectory.GetItem(ctx, offeredItemID)
	if err != nil {
		return nil, err
	}

	if offeredItem.OwnerID != actorID {
		return nil, offerDomain.ErrOfferedItemNotOwned
	}
	if requestedItem.OwnerID == actorID {
		return nil, offerDomain.ErrSelfTrade
	}

	now := o.now()
	offer := &offerDomain.TradeOffer{
		ID:              uuid.Must(uuid.NewV7()),
		RequestedItemID: requestedItemID,
		OfferedItemID:   offeredItemID,
		OffererID:       actorID,
		RecipientID:     requestedItem.OwnerID,
		Status:          offerDomain.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = o.txManager.WithTx(ctx, func(ctx context.Context) error {
		return o.offerRepo.Create(ctx, offer)
	})
	if err != nil {
		return nil, err
	}

	o.notify(ctx, offer, &parties{offered: offeredItem, requested: requestedItem})
	return offer, nil
}

// UpdateStatus accepts or rejects a pending offer on behalf of its recipient. Concurrent
// callers race on a conditional update; losers get ErrOfferNotPending. The directory is only
// consulted after the transition is stored.
func (o *offerUseCase) UpdateStatus(
	ctx context.Context,
	actorID, offerID uuid.UUID,
	status offerDomain.Status,
) (*offerDomain.TradeOffer, error) {
	if !status.IsTerminal() {
		return nil, offerDomain.ErrInvalidTargetStatus
	}

	offer, err := o.offerRepo.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if offer.RecipientID != actorID {
		return nil, offerDomain.ErrNotRecipient
	}
	if !offer.Status.CanTransitionTo(status) {
		return nil, offerDomain.ErrOfferNotPending
	}

	now := o.now()
	updated, err := o.offerRepo.TransitionStatus(ctx, offer.ID, offerDomain.StatusPending, status, now)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, offerDomain.ErrOfferNotPending
	}

	offer.Status = status
	offer.UpdatedAt = now

	o.notify(ctx, offer, &parties{})
	return offer, nil
}

// ListOffers returns offers matching the filter, newest first.
func (o *offerUseCase) ListOffers(
	ctx context.Context,
	filter offerDomain.Filter,
) ([]*offerDomain.TradeOffer, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, offerDomain.ErrInvalidStatusFilter
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	return o.offerRepo.List(ctx, filter)
}

// GetOffer retrieves one offer by ID.
func (o *offerUseCase) GetOffer(ctx context.Context, offerID uuid.UUID) (*offerDomain.TradeOffer, error) {
	return o.offerRepo.Get(ctx, offerID)
}
