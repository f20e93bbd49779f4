// Package http provides HTTP handlers for trade offers.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/barter/internal/auth/http"
	apperrors "github.com/allisson/barter/internal/errors"
	"github.com/allisson/barter/internal/httputil"
	offerDomain "github.com/allisson/barter/internal/offer/domain"
	"github.com/allisson/barter/internal/offer/http/dto"
	offerUseCase "github.com/allisson/barter/internal/offer/usecase"
	customValidation "github.com/allisson/barter/internal/validation"
)

// OfferHandler handles HTTP requests for the trade offer lifecycle.
type OfferHandler struct {
	offerUseCase offerUseCase.OfferUseCase
	logger       *slog.Logger
}

// NewOfferHandler creates a new offer handler.
func NewOfferHandler(offerUseCase offerUseCase.OfferUseCase, logger *slog.Logger) *OfferHandler {
	return &OfferHandler{
		offerUseCase: offerUseCase,
		logger:       logger,
	}
}

// CreateHandler creates a pending offer from the authenticated actor.
// POST /v1/offers - Returns 201 Created.
func (h *OfferHandler) CreateHandler(c *gin.Context) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	requestedItemID, offeredItemID := req.IDs()
	offer, err := h.offerUseCase.CreateOffer(c.Request.Context(), actorID, requestedItemID, offeredItemID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapOfferToResponse(offer))
}

// UpdateStatusHandler accepts or rejects an offer addressed to the authenticated actor.
// PATCH /v1/offers/:id/status - Returns 200 OK with the updated offer.
func (h *OfferHandler) UpdateStatusHandler(c *gin.Context) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}

	offerID, ok := h.offerID(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	offer, err := h.offerUseCase.UpdateStatus(
		c.Request.Context(),
		actorID,
		offerID,
		offerDomain.Status(req.Status),
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOfferToResponse(offer))
}

// ListHandler lists offers, newest first.
// GET /v1/offers?status=&offerer_id=&recipient_id=&offset=0&limit=50 - Returns 200 OK.
func (h *OfferHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	filter := offerDomain.Filter{Offset: offset, Limit: limit}
	if raw := c.Query("status"); raw != "" {
		status := offerDomain.Status(raw)
		filter.Status = &status
	}
	if filter.OffererID, err = parseOptionalUUID(c, "offerer_id"); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if filter.RecipientID, err = parseOptionalUUID(c, "recipient_id"); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	offers, err := h.offerUseCase.ListOffers(c.Request.Context(), filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOffersToListResponse(offers))
}

// GetHandler fetches one offer by id.
// GET /v1/offers/:id - Returns 200 OK.
func (h *OfferHandler) GetHandler(c *gin.Context) {
	offerID, ok := h.offerID(c)
	if !ok {
		return
	}

	offer, err := h.offerUseCase.GetOffer(c.Request.Context(), offerID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOfferToResponse(offer))
}

func (h *OfferHandler) actor(c *gin.Context) (uuid.UUID, bool) {
	actorID, ok := authHTTP.GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return uuid.Nil, false
	}
	return actorID, true
}

func (h *OfferHandler) offerID(c *gin.Context) (uuid.UUID, bool) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(
			c,
			apperrors.Wrap(apperrors.ErrInvalidInput, "offer id must be a valid UUID"),
			h.logger,
		)
		return uuid.Nil, false
	}
	return offerID, true
}

func parseOptionalUUID(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "%s must be a valid UUID", name)
	}
	return &id, nil
}
