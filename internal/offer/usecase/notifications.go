package usecase

import (
	"context"
	"fmt"
	"log/slog"

	directoryDomain "github.com/allisson/barter/internal/directory/domain"
	notificationDomain "github.com/allisson/barter/internal/notification/domain"
	"github.com/allisson/barter/internal/notification/template"
	offerDomain "github.com/allisson/barter/internal/offer/domain"
)

// parties holds the directory records referenced by an offer's notifications.
type parties struct {
	offerer   *directoryDomain.User
	recipient *directoryDomain.User
	offered   *directoryDomain.Item
	requested *directoryDomain.Item
}

// resolve fills in the directory records p does not already hold.
func (o *offerUseCase) resolve(ctx context.Context, offer *offerDomain.TradeOffer, p *parties) error {
	var err error
	if p.offerer == nil {
		if p.offerer, err = o.userDirectory.GetUser(ctx, offer.OffererID); err != nil {
			return err
		}
	}
	if p.recipient == nil {
		if p.recipient, err = o.userDirectory.GetUser(ctx, offer.RecipientID); err != nil {
			return err
		}
	}
	if p.offered == nil {
		if p.offered, err = o.itemDirectory.GetItem(ctx, offer.OfferedItemID); err != nil {
			return err
		}
	}
	if p.requested == nil {
		if p.requested, err = o.itemDirectory.GetItem(ctx, offer.RequestedItemID); err != nil {
			return err
		}
	}
	return nil
}

func (p *parties) vars(offer *offerDomain.TradeOffer) template.Vars {
	return template.Vars{
		"offer_id":            offer.ID.String(),
		"offerer_name":        p.offerer.DisplayName,
		"recipient_name":      p.recipient.DisplayName,
		"offered_item_name":   p.offered.Name,
		"offered_item_year":   p.offered.Year,
		"requested_item_name": p.requested.Name,
		"requested_item_year": p.requested.Year,
	}
}

type notice struct {
	templateID string
	to         string
}

// notify emits one event to each participant for the offer's current status. A pending offer
// was just created; any other status was just decided. The offer is already stored, so a
// failed directory lookup only skips the events.
func (o *offerUseCase) notify(ctx context.Context, offer *offerDomain.TradeOffer, p *parties) {
	if err := o.resolve(ctx, offer, p); err != nil {
		o.logger.Error("skipping offer notifications",
			slog.String("offer_id", offer.ID.String()),
			slog.String("status", string(offer.Status)),
			slog.Any("error", err),
		)
		return
	}

	var notices []notice
	if offer.Status == offerDomain.StatusPending {
		notices = []notice{
			{templateID: template.OfferCreatedRecipient, to: p.recipient.Email},
			{templateID: template.OfferCreatedOfferer, to: p.offerer.Email},
		}
	} else {
		notices = []notice{
			{templateID: fmt.Sprintf("offer.%s.offerer", offer.Status), to: p.offerer.Email},
			{templateID: fmt.Sprintf("offer.%s.recipient", offer.Status), to: p.recipient.Email},
		}
	}

	vars := p.vars(offer)
	for _, r := range notices {
		msg, err := o.renderer.Render(r.templateID, vars)
		if err != nil {
			o.logger.Error("failed to render offer notification",
				slog.String("offer_id", offer.ID.String()),
				slog.String("template", r.templateID),
				slog.Any("error", err),
			)
			continue
		}
		o.publisher.Publish(ctx, notificationDomain.NewEmailEvent(r.to, msg.Subject, msg.Body))
	}
}
