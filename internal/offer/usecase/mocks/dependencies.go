package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	directoryDomain "github.com/allisson/barter/internal/directory/domain"
	notificationDomain "github.com/allisson/barter/internal/notification/domain"
	offerDomain "github.com/allisson/barter/internal/offer/domain"
)

// MockOfferRepository is a mock implementation of OfferRepository.
type MockOfferRepository struct {
	mock.Mock
}

// Create mocks the Create method of OfferRepository.
func (m *MockOfferRepository) Create(ctx context.Context, offer *offerDomain.TradeOffer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

// Get mocks the Get method of OfferRepository.
func (m *MockOfferRepository) Get(ctx context.Context, id uuid.UUID) (*offerDomain.TradeOffer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offerDomain.TradeOffer), args.Error(1)
}

// TransitionStatus mocks the TransitionStatus method of OfferRepository.
func (m *MockOfferRepository) TransitionStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to offerDomain.Status,
	updatedAt time.Time,
) (bool, error) {
	args := m.Called(ctx, id, from, to, updatedAt)
	return args.Bool(0), args.Error(1)
}

// List mocks the List method of OfferRepository.
func (m *MockOfferRepository) List(
	ctx context.Context,
	filter offerDomain.Filter,
) ([]*offerDomain.TradeOffer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*offerDomain.TradeOffer), args.Error(1)
}

// MockDirectory is a mock implementation of both ItemDirectory and UserDirectory.
type MockDirectory struct {
	mock.Mock
}

// GetItem mocks the GetItem method of ItemDirectory.
func (m *MockDirectory) GetItem(ctx context.Context, id uuid.UUID) (*directoryDomain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directoryDomain.Item), args.Error(1)
}

// GetUser mocks the GetUser method of UserDirectory.
func (m *MockDirectory) GetUser(ctx context.Context, id uuid.UUID) (*directoryDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directoryDomain.User), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

// Publish mocks the Publish method of EventPublisher.
func (m *MockEventPublisher) Publish(ctx context.Context, event notificationDomain.Event) {
	m.Called(ctx, event)
}
