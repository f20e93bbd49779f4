// Package mocks provides testify mocks of the offer use case and its dependencies.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	offerDomain "github.com/allisson/barter/internal/offer/domain"
)

// MockOfferUseCase is a mock implementation of OfferUseCase.
type MockOfferUseCase struct {
	mock.Mock
}

// NewMockOfferUseCase creates a MockOfferUseCase whose expectations are asserted at cleanup.
func NewMockOfferUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOfferUseCase {
	m := &MockOfferUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// CreateOffer mocks the CreateOffer method of OfferUseCase.
func (m *MockOfferUseCase) CreateOffer(
	ctx context.Context,
	actorID, requestedItemID, offeredItemID uuid.UUID,
) (*offerDomain.TradeOffer, error) {
	args := m.Called(ctx, actorID, requestedItemID, offeredItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offerDomain.TradeOffer), args.Error(1)
}

// UpdateStatus mocks the UpdateStatus method of OfferUseCase.
func (m *MockOfferUseCase) UpdateStatus(
	ctx context.Context,
	actorID, offerID uuid.UUID,
	status offerDomain.Status,
) (*offerDomain.TradeOffer, error) {
	args := m.Called(ctx, actorID, offerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offerDomain.TradeOffer), args.Error(1)
}

// ListOffers mocks the ListOffers method of OfferUseCase.
func (m *MockOfferUseCase) ListOffers(
	ctx context.Context,
	filter offerDomain.Filter,
) ([]*offerDomain.TradeOffer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*offerDomain.TradeOffer), args.Error(1)
}

// GetOffer mocks the GetOffer method of OfferUseCase.
func (m *MockOfferUseCase) GetOffer(ctx context.Context, offerID uuid.UUID) (*offerDomain.TradeOffer, error) {
	args := m.Called(ctx, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offerDomain.TradeOffer), args.Error(1)
}
