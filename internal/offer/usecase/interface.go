// Package usecase implements the trade offer lifecycle: creation, status transitions and
// the notifications both produce.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	directoryDomain "github.com/allisson/barter/internal/directory/domain"
	notificationDomain "github.com/allisson/barter/internal/notification/domain"
	"github.com/allisson/barter/internal/notification/template"
	offerDomain "github.com/allisson/barter/internal/offer/domain"
)

// OfferRepository defines trade offer persistence.
type OfferRepository interface {
	Create(ctx context.Context, offer *offerDomain.TradeOffer) error
	Get(ctx context.Context, id uuid.UUID) (*offerDomain.TradeOffer, error)
	// TransitionStatus atomically sets the status to `to` only while it is still `from`,
	// reporting whether a row was updated.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to offerDomain.Status, updatedAt time.Time) (bool, error)
	List(ctx context.Context, filter offerDomain.Filter) ([]*offerDomain.TradeOffer, error)
}

// ItemDirectory looks up catalogued items.
type ItemDirectory interface {
	GetItem(ctx context.Context, id uuid.UUID) (*directoryDomain.Item, error)
}

// UserDirectory looks up registered users.
type UserDirectory interface {
	GetUser(ctx context.Context, id uuid.UUID) (*directoryDomain.User, error)
}

// EventPublisher hands events to the notification pipeline without waiting for delivery.
type EventPublisher interface {
	Publish(ctx context.Context, event notificationDomain.Event)
}

// TemplateRenderer renders named notification templates.
type TemplateRenderer interface {
	Render(id string, vars template.Vars) (template.Message, error)
}

// OfferUseCase defines the trade offer business operations.
type OfferUseCase interface {
	CreateOffer(ctx context.Context, actorID, requestedItemID, offeredItemID uuid.UUID) (*offerDomain.TradeOffer, error)
	UpdateStatus(
		ctx context.Context,
		actorID, offerID uuid.UUID,
		status offerDomain.Status,
	) (*offerDomain.TradeOffer, error)
	ListOffers(ctx context.Context, filter offerDomain.Filter) ([]*offerDomain.TradeOffer, error)
	GetOffer(ctx context.Context, offerID uuid.UUID) (*offerDomain.TradeOffer, error)
}
