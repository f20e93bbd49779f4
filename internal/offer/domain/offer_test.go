package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/barter/internal/errors"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	statuses := []Status{StatusPending, StatusAccepted, StatusRejected}
	allowed := map[[2]Status]bool{
		{StatusPending, StatusAccepted}: true,
		{StatusPending, StatusRejected}: true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			assert.Equal(t, allowed[[2]Status{from, to}], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
	assert.False(t, StatusPending.CanTransitionTo(Status("cancelled")))
}

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusAccepted.IsValid())
	assert.True(t, StatusRejected.IsValid())
	assert.False(t, Status("").IsValid())
	assert.False(t, Status("ACCEPTED").IsValid())
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusAccepted.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
}

func TestErrors_MapToDomainCategories(t *testing.T) {
	assert.True(t, apperrors.Is(ErrOfferNotFound, apperrors.ErrNotFound))
	assert.True(t, apperrors.Is(ErrOfferedItemNotOwned, apperrors.ErrForbidden))
	assert.True(t, apperrors.Is(ErrNotRecipient, apperrors.ErrForbidden))
	assert.True(t, apperrors.Is(ErrSelfTrade, apperrors.ErrInvalidInput))
	assert.True(t, apperrors.Is(ErrInvalidTargetStatus, apperrors.ErrInvalidInput))
	assert.True(t, apperrors.Is(ErrOfferNotPending, apperrors.ErrInvalidState))
}
