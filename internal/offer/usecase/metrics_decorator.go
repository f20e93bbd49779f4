package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/barter/internal/metrics"
	offerDomain "github.com/allisson/barter/internal/offer/domain"
)

const metricsDomain = "offers"

// offerUseCaseWithMetrics decorates OfferUseCase with metrics instrumentation.
type offerUseCaseWithMetrics struct {
	next    OfferUseCase
	metrics metrics.BusinessMetrics
}

// NewOfferUseCaseWithMetrics wraps an OfferUseCase with metrics recording.
func NewOfferUseCaseWithMetrics(useCase OfferUseCase, m metrics.BusinessMetrics) OfferUseCase {
	return &offerUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (o *offerUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusFor(err)
	o.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	o.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// CreateOffer records metrics for offer creation.
func (o *offerUseCaseWithMetrics) CreateOffer(
	ctx context.Context,
	actorID, requestedItemID, offeredItemID uuid.UUID,
) (*offerDomain.TradeOffer, error) {
	start := time.Now()
	offer, err := o.next.CreateOffer(ctx, actorID, requestedItemID, offeredItemID)
	o.record(ctx, "create_offer", start, err)
	return offer, err
}

// UpdateStatus records metrics for status transitions.
func (o *offerUseCaseWithMetrics) UpdateStatus(
	ctx context.Context,
	actorID, offerID uuid.UUID,
	status offerDomain.Status,
) (*offerDomain.TradeOffer, error) {
	start := time.Now()
	offer, err := o.next.UpdateStatus(ctx, actorID, offerID, status)
	o.record(ctx, "update_status", start, err)
	return offer, err
}

// ListOffers records metrics for offer listing.
func (o *offerUseCaseWithMetrics) ListOffers(
	ctx context.Context,
	filter offerDomain.Filter,
) ([]*offerDomain.TradeOffer, error) {
	start := time.Now()
	offers, err := o.next.ListOffers(ctx, filter)
	o.record(ctx, "list_offers", start, err)
	return offers, err
}

// GetOffer records metrics for offer retrieval.
func (o *offerUseCaseWithMetrics) GetOffer(ctx context.Context, offerID uuid.UUID) (*offerDomain.TradeOffer, error) {
	start := time.Now()
	offer, err := o.next.GetOffer(ctx, offerID)
	o.record(ctx, "get_offer", start, err)
	return offer, err
}
