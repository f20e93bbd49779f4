package dto

import (
	"time"

	offerDomain "github.com/allisson/barter/internal/offer/domain"
)

// OfferResponse represents a trade offer in API responses.
type OfferResponse struct {
	ID              string    `json:"id"`
	RequestedItemID string    `json:"requested_item_id"`
	OfferedItemID   string    `json:"offered_item_id"`
	OffererID       string    `json:"offerer_id"`
	RecipientID     string    `json:"recipient_id"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ListOffersResponse wraps a page of offers.
type ListOffersResponse struct {
	Data []OfferResponse `json:"data"`
}

// MapOfferToResponse converts a domain trade offer to an API response.
func MapOfferToResponse(offer *offerDomain.TradeOffer) OfferResponse {
	return OfferResponse{
		ID:              offer.ID.String(),
		RequestedItemID: offer.RequestedItemID.String(),
		OfferedItemID:   offer.OfferedItemID.String(),
		OffererID:       offer.OffererID.String(),
		RecipientID:     offer.RecipientID.String(),
		Status:          string(offer.Status),
		CreatedAt:       offer.CreatedAt,
		UpdatedAt:       offer.UpdatedAt,
	}
}

// MapOffersToListResponse converts offers to a list response. Data is never null.
func MapOffersToListResponse(offers []*offerDomain.TradeOffer) ListOffersResponse {
	data := make([]OfferResponse, 0, len(offers))
	for _, offer := range offers {
		data = append(data, MapOfferToResponse(offer))
	}
	return ListOffersResponse{Data: data}
}
