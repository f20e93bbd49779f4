package template

import (
	apperrors "github.com/allisson/barter/internal/errors"
)

// Version identifies the template set shipped with this build.
const Version = "v1"

// Template identifiers bound to offer lifecycle transitions.
const (
	OfferCreatedRecipient  = "offer.created.recipient"
	OfferCreatedOfferer    = "offer.created.offerer"
	OfferAcceptedOfferer   = "offer.accepted.offerer"
	OfferAcceptedRecipient = "offer.accepted.recipient"
	OfferRejectedOfferer   = "offer.rejected.offerer"
	OfferRejectedRecipient = "offer.rejected.recipient"
	EmailLayout            = "email.layout"
)

// ErrTemplateNotFound indicates an identifier missing from the catalog.
var ErrTemplateNotFound = apperrors.Wrap(apperrors.ErrNotFound, "template not found")

// Template is a subject/body pair.
type Template struct {
	Subject string
	Body    string
}

// Message is a rendered template.
type Message struct {
	Subject string
	Body    string
}

// Catalog is a fixed set of templates indexed by identifier.
type Catalog struct {
	version   string
	templates map[string]Template
}

// NewCatalog creates a catalog from the given templates. The map is copied.
func NewCatalog(version string, templates map[string]Template) *Catalog {
	copied := make(map[string]Template, len(templates))
	for id, tmpl := range templates {
		copied[id] = tmpl
	}
	return &Catalog{version: version, templates: copied}
}

// Version returns the catalog version.
func (c *Catalog) Version() string {
	return c.version
}

// Render renders the subject and body of the template identified by id.
func (c *Catalog) Render(id string, vars Vars) (Message, error) {
	tmpl, ok := c.templates[id]
	if !ok {
		return Message{}, apperrors.Wrapf(ErrTemplateNotFound, "%s/%s", c.version, id)
	}
	return Message{
		Subject: Render(tmpl.Subject, vars),
		Body:    Render(tmpl.Body, vars),
	}, nil
}

// DefaultCatalog returns the v1 templates.
//
// Lifecycle templates accept offer_id, offerer_name, recipient_name, offered_item_name,
// offered_item_year, requested_item_name and requested_item_year. The email layout accepts
// subject, body, to, event_id and signature.
func DefaultCatalog() *Catalog {
	return NewCatalog(Version, map[string]Template{
		OfferCreatedRecipient: {
			Subject: "New trade offer from {{offerer_name}}",
			Body: "Hi {{recipient_name}},\n\n" +
				"{{offerer_name}} offers {{offered_item_name}} ({{offered_item_year}}) " +
				"in exchange for your {{requested_item_name}} ({{requested_item_year}}).\n" +
				"Offer: {{offer_id}}",
		},
		OfferCreatedOfferer: {
			Subject: "Your trade offer to {{recipient_name}} was sent",
			Body: "Hi {{offerer_name}},\n\n" +
				"You offered {{offered_item_name}} ({{offered_item_year}}) to {{recipient_name}} " +
				"for {{requested_item_name}} ({{requested_item_year}}).\n" +
				"Offer: {{offer_id}}",
		},
		OfferAcceptedOfferer: {
			Subject: "{{recipient_name}} accepted your trade offer",
			Body: "Hi {{offerer_name}},\n\n" +
				"{{recipient_name}} accepted your offer of {{offered_item_name}} ({{offered_item_year}}) " +
				"for {{requested_item_name}} ({{requested_item_year}}).\n" +
				"Offer: {{offer_id}}",
		},
		OfferAcceptedRecipient: {
			Subject: "You accepted the trade offer from {{offerer_name}}",
			Body: "Hi {{recipient_name}},\n\n" +
				"You accepted {{offered_item_name}} ({{offered_item_year}}) from {{offerer_name}} " +
				"in exchange for your {{requested_item_name}} ({{requested_item_year}}).\n" +
				"Offer: {{offer_id}}",
		},
		OfferRejectedOfferer: {
			Subject: "{{recipient_name}} rejected your trade offer",
			Body: "Hi {{offerer_name}},\n\n" +
				"{{recipient_name}} rejected your offer of {{offered_item_name}} ({{offered_item_year}}) " +
				"for {{requested_item_name}} ({{requested_item_year}}).\n" +
				"Offer: {{offer_id}}",
		},
		OfferRejectedRecipient: {
			Subject: "You rejected the trade offer from {{offerer_name}}",
			Body: "Hi {{recipient_name}},\n\n" +
				"You rejected {{offered_item_name}} ({{offered_item_year}}) from {{offerer_name}} " +
				"for your {{requested_item_name}} ({{requested_item_year}}).\n" +
				"Offer: {{offer_id}}",
		},
		EmailLayout: {
			Subject: "{{subject}}",
			Body:    "{{body}}\n\n--\n{{signature}}\n\nSent to {{to}} (ref {{event_id}})",
		},
	})
}
