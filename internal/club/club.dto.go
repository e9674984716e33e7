package club

import (
	"time"

	"boosterClubAPI/internal/paymentlink"
	"boosterClubAPI/internal/qr"

	"github.com/google/uuid"
)

// Record is the public shape served by GET /api/booster-clubs.
type Record struct {
	ID                  uuid.UUID   `json:"id"`
	Name                string      `json:"name"`
	Description         *string     `json:"description"`
	WebsiteURL          *string     `json:"website_url"`
	DonationURL         *string     `json:"donation_url"`
	IsActive            bool        `json:"is_active"`
	IsPaymentEnabled    bool        `json:"is_payment_enabled"`
	ZelleURL            *string     `json:"zelle_url"`
	StripeURL           *string     `json:"stripe_url"`
	PaymentInstructions *string     `json:"payment_instructions"`
	QRCodeSettings      qr.Settings `json:"qr_code_settings"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

func (c *Club) Record() *Record {
	return &Record{
		ID:                  c.ID,
		Name:                c.Name,
		Description:         c.Description,
		WebsiteURL:          c.WebsiteURL,
		DonationURL:         c.DonationURL,
		IsActive:            c.IsActive,
		IsPaymentEnabled:    c.IsPaymentEnabled,
		ZelleURL:            c.ZelleURL,
		StripeURL:           c.StripeURL,
		PaymentInstructions: c.PaymentInstructions,
		QRCodeSettings:      c.QRCodeSettings,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

// PaymentView is the admin view of a club's payment configuration.
type PaymentView struct {
	ID                  uuid.UUID            `json:"id"`
	Name                string               `json:"name"`
	IsActive            bool                 `json:"is_active"`
	IsPaymentEnabled    bool                 `json:"is_payment_enabled"`
	HasPaymentMethod    bool                 `json:"has_payment_method"`
	ZelleURL            *string              `json:"zelle_url"`
	ZellePayload        *paymentlink.Payload `json:"zelle_payload,omitempty"`
	StripeURL           *string              `json:"stripe_url"`
	PaymentInstructions *string              `json:"payment_instructions"`
	QRCodeSettings      qr.Settings          `json:"qr_code_settings"`
	LastUpdatedBy       *string              `json:"last_updated_by"`
	LastUpdatedAt       *time.Time           `json:"last_updated_at"`
	Version             int                  `json:"version"`
}

// UpdatePaymentSettingsRequest is the PUT body for a club's payment settings.
type UpdatePaymentSettingsRequest struct {
	ZelleURL            *string      `json:"zelleUrl" validate:"omitempty,max=2048,http_url|len=0"`
	StripeURL           *string      `json:"stripeUrl" validate:"omitempty,max=2048,http_url|len=0"`
	PaymentInstructions *string      `json:"paymentInstructions" validate:"omitempty,max=2000"`
	IsPaymentEnabled    *bool        `json:"isPaymentEnabled"`
	QRCodeSettings      *qr.Settings `json:"qrCodeSettings"`
	ExpectedVersion     *int         `json:"expectedVersion" validate:"omitempty,min=0"`
}

func (r *UpdatePaymentSettingsRequest) IsEmpty() bool {
	return r.ZelleURL == nil && r.StripeURL == nil && r.PaymentInstructions == nil &&
		r.IsPaymentEnabled == nil && r.QRCodeSettings == nil
}

type BuildPaymentLinkRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Token string `json:"token" validate:"required,max=320"`
}

type DecodePaymentLinkRequest struct {
	URL string `json:"url" validate:"required"`
}

type PaymentLinkResponse struct {
	URL     string              `json:"url"`
	Payload paymentlink.Payload `json:"payload"`
}
