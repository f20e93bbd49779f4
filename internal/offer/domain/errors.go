package domain

import (
	"github.com/allisson/barter/internal/errors"
)

// Trade offer error definitions.
var (
	// ErrOfferNotFound indicates the offer does not exist.
	ErrOfferNotFound = errors.Wrap(errors.ErrNotFound, "offer not found")

	// ErrOfferedItemNotOwned indicates the actor does not own the item being offered.
	ErrOfferedItemNotOwned = errors.Wrap(errors.ErrForbidden, "offered item is not owned by the actor")

	// ErrNotRecipient indicates the actor is not the recipient of the offer.
	ErrNotRecipient = errors.Wrap(errors.ErrForbidden, "only the recipient may change the offer status")

	// ErrSelfTrade indicates the requested item already belongs to the actor.
	ErrSelfTrade = errors.Wrap(errors.ErrInvalidInput, "cannot trade with yourself")

	// ErrInvalidTargetStatus indicates a transition target other than accepted or rejected.
	ErrInvalidTargetStatus = errors.Wrap(errors.ErrInvalidInput, "status must be accepted or rejected")

	// ErrOfferNotPending indicates the offer has already been decided.
	ErrOfferNotPending = errors.Wrap(errors.ErrInvalidState, "offer is not pending")
)

// ErrInvalidStatusFilter indicates a list filter with an unknown status.
var ErrInvalidStatusFilter = errors.Wrap(errors.ErrInvalidInput, "unknown status filter")
