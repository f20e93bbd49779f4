// Package domain defines the read models of the item and user directory.
package domain

import (
	"github.com/google/uuid"

	apperrors "github.com/allisson/barter/internal/errors"
)

// Item is a catalogued item available for trade.
type Item struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Name    string
	Year    int
}

// User is a registered owner of items.
type User struct {
	ID          uuid.UUID
	DisplayName string
	Email       string
}

var (
	// ErrItemNotFound indicates the item does not exist.
	ErrItemNotFound = apperrors.Wrap(apperrors.ErrNotFound, "item not found")

	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = apperrors.Wrap(apperrors.ErrNotFound, "user not found")
)
