package club

import (
	"strings"
	"time"

	"boosterClubAPI/internal/qr"

	"github.com/google/uuid"
)

const DefaultSortOrder = 999

type Club struct {
	ID                  uuid.UUID   `json:"id" db:"id"`
	Name                string      `json:"name" db:"name"`
	Description         *string     `json:"description" db:"description"`
	WebsiteURL          *string     `json:"website_url" db:"website_url"`
	DonationURL         *string     `json:"donation_url" db:"donation_url"`
	IsActive            bool        `json:"is_active" db:"is_active"`
	SortOrder           int         `json:"sort_order" db:"sort_order"`
	IsPaymentEnabled    bool        `json:"is_payment_enabled" db:"is_payment_enabled"`
	ZelleURL            *string     `json:"zelle_url" db:"zelle_url"`
	StripeURL           *string     `json:"stripe_url" db:"stripe_url"`
	PaymentInstructions *string     `json:"payment_instructions" db:"payment_instructions"`
	QRCodeSettings      qr.Settings `json:"qr_code_settings" db:"-"`
	LastUpdatedBy       *string     `json:"last_updated_by" db:"last_updated_by"`
	LastUpdatedAt       *time.Time  `json:"last_updated_at" db:"last_updated_at"`
	Version             int         `json:"version" db:"version"`
	CreatedAt           time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at" db:"updated_at"`
}

var placeholders = map[string]struct{}{
	"#":                   {},
	"tbd":                 {},
	"todo":                {},
	"n/a":                 {},
	"none":                {},
	"placeholder":         {},
	"coming soon":         {},
	"https://example.com": {},
	"http://example.com":  {},
}

// IsUsablePaymentURL reports whether u is set and is not one of the
// placeholder values left behind by the seed data.
func IsUsablePaymentURL(u *string) bool {
	if u == nil {
		return false
	}
	v := strings.ToLower(strings.TrimSpace(*u))
	if v == "" {
		return false
	}
	_, placeholder := placeholders[strings.TrimSuffix(v, "/")]
	return !placeholder
}

func (c *Club) HasZelle() bool  { return IsUsablePaymentURL(c.ZelleURL) }
func (c *Club) HasStripe() bool { return IsUsablePaymentURL(c.StripeURL) }

// HasPaymentMethod is the gate evaluated whenever payment is switched on.
func (c *Club) HasPaymentMethod() bool {
	return c.HasZelle() || c.HasStripe()
}

// AuditEntry is one row of the append-only payment settings log.
type AuditEntry struct {
	ID        uuid.UUID      `json:"id"`
	ClubID    uuid.UUID      `json:"club_id"`
	Actor     string         `json:"actor"`
	Changes   map[string]any `json:"changes"`
	ChangedAt time.Time      `json:"changed_at"`
}

// PaymentUpdate is a validated patch ready to be written. Nil fields are left
// untouched; a pointer to "" clears the column.
type PaymentUpdate struct {
	ZelleURL            *string
	StripeURL           *string
	PaymentInstructions *string
	IsPaymentEnabled    *bool
	QRCodeSettings      *qr.Settings
	ExpectedVersion     *int

	Actor     string
	UpdatedAt time.Time
	Changes   map[string]any
}

type PaymentStatus struct {
	TotalClubs      int `json:"totalClubs"`
	ClubsWithZelle  int `json:"clubsWithZelle"`
	ClubsWithStripe int `json:"clubsWithStripe"`
	PaymentEnabled  int `json:"paymentEnabled"`
}
