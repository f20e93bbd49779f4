// Package domain defines trade offers and the rules of their lifecycle.
//
// An offer starts pending and moves exactly once, to accepted or rejected, at the request of
// its recipient. Both end states are terminal.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a trade offer.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPending && next.IsTerminal()
}

// TradeOffer proposes exchanging the offerer's item for the recipient's item.
type TradeOffer struct {
	ID              uuid.UUID
	RequestedItemID uuid.UUID
	OfferedItemID   uuid.UUID
	// OffererID owns OfferedItemID and created the offer.
	OffererID uuid.UUID
	// RecipientID owns RequestedItemID and is the only actor who may decide the offer.
	RecipientID uuid.UUID
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter selects offers. Nil fields match any value.
type Filter struct {
	Status      *Status
	OffererID   *uuid.UUID
	RecipientID *uuid.UUID
	Offset      int
	Limit       int
}
