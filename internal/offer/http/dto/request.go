// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/barter/internal/validation"
)

// CreateOfferRequest proposes trading the caller's offered item for the requested item.
type CreateOfferRequest struct {
	RequestedItemID string `json:"requested_item_id"`
	OfferedItemID   string `json:"offered_item_id"`
}

// Validate checks if the create offer request is valid.
func (r *CreateOfferRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RequestedItemID,
			validation.Required,
			customValidation.NotBlank,
			customValidation.UUID,
		),
		validation.Field(&r.OfferedItemID,
			validation.Required,
			customValidation.NotBlank,
			customValidation.UUID,
		),
	)
}

// IDs returns the parsed item IDs. Call only after Validate succeeds.
func (r *CreateOfferRequest) IDs() (requestedItemID, offeredItemID uuid.UUID) {
	return uuid.MustParse(r.RequestedItemID), uuid.MustParse(r.OfferedItemID)
}

// UpdateStatusRequest carries the recipient's decision.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Validate checks if the update status request is valid.
func (r *UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Status,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}
