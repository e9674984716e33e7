package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"boosterClubAPI/internal/club"
	"boosterClubAPI/internal/qr"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ClubStore is the persistence contract for club payment data.
type ClubStore interface {
	// GetActiveClub returns ErrNotFound for missing and deactivated clubs.
	GetActiveClub(ctx context.Context, id uuid.UUID) (*club.Club, error)

	// ListActiveClubs orders by sort_order, then name.
	ListActiveClubs(ctx context.Context) ([]*club.Club, error)

	// UpdatePaymentSettings applies upd and appends its audit row in one
	// transaction. It returns ErrConflict when upd.ExpectedVersion is set and
	// stale.
	UpdatePaymentSettings(ctx context.Context, id uuid.UUID, upd *club.PaymentUpdate) (*club.Club, error)

	// ListPaymentAudit returns the newest entries first.
	ListPaymentAudit(ctx context.Context, id uuid.UUID, limit int) ([]*club.AuditEntry, error)
}

const clubColumns = `id, name, description, website_url, donation_url, is_active, sort_order,
	is_payment_enabled, zelle_url, stripe_url, payment_instructions, qr_code_settings,
	last_updated_by, last_updated_at, version, created_at, updated_at`

type clubRow struct {
	ID                  uuid.UUID  `db:"id"`
	Name                string     `db:"name"`
	Description         *string    `db:"description"`
	WebsiteURL          *string    `db:"website_url"`
	DonationURL         *string    `db:"donation_url"`
	IsActive            bool       `db:"is_active"`
	SortOrder           int        `db:"sort_order"`
	IsPaymentEnabled    bool       `db:"is_payment_enabled"`
	ZelleURL            *string    `db:"zelle_url"`
	StripeURL           *string    `db:"stripe_url"`
	PaymentInstructions *string    `db:"payment_instructions"`
	QRCodeSettings      []byte     `db:"qr_code_settings"`
	LastUpdatedBy       *string    `db:"last_updated_by"`
	LastUpdatedAt       *time.Time `db:"last_updated_at"`
	Version             int        `db:"version"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

func (r *clubRow) toClub() (*club.Club, error) {
	c := &club.Club{
		ID:                  r.ID,
		Name:                r.Name,
		Description:         r.Description,
		WebsiteURL:          r.WebsiteURL,
		DonationURL:         r.DonationURL,
		IsActive:            r.IsActive,
		SortOrder:           r.SortOrder,
		IsPaymentEnabled:    r.IsPaymentEnabled,
		ZelleURL:            r.ZelleURL,
		StripeURL:           r.StripeURL,
		PaymentInstructions: r.PaymentInstructions,
		LastUpdatedBy:       r.LastUpdatedBy,
		LastUpdatedAt:       r.LastUpdatedAt,
		Version:             r.Version,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
	if len(r.QRCodeSettings) > 0 && string(r.QRCodeSettings) != "null" {
		if err := json.Unmarshal(r.QRCodeSettings, &c.QRCodeSettings); err != nil {
			return nil, fmt.Errorf("decode qr_code_settings for club %s: %w", r.ID, err)
		}
	}
	return c, nil
}

type auditRow struct {
	ID        uuid.UUID `db:"id"`
	ClubID    uuid.UUID `db:"club_id"`
	Actor     string    `db:"actor"`
	Changes   []byte    `db:"changes"`
	ChangedAt time.Time `db:"changed_at"`
}

type PostgresClubStore struct {
	db *sqlx.DB
}

func NewPostgresClubStore(db *sqlx.DB) *PostgresClubStore {
	return &PostgresClubStore{db: db}
}

func (s *PostgresClubStore) GetActiveClub(ctx context.Context, id uuid.UUID) (*club.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM booster_clubs WHERE id = $1 AND is_active = TRUE`

	var row clubRow
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get club: %w", err)
	}
	return row.toClub()
}

func (s *PostgresClubStore) ListActiveClubs(ctx context.Context) ([]*club.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM booster_clubs WHERE is_active = TRUE ORDER BY sort_order ASC, name ASC`

	var rows []clubRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}

	clubs := make([]*club.Club, 0, len(rows))
	for i := range rows {
		c, err := rows[i].toClub()
		if err != nil {
			return nil, err
		}
		clubs = append(clubs, c)
	}
	return clubs, nil
}

func (s *PostgresClubStore) UpdatePaymentSettings(ctx context.Context, id uuid.UUID, upd *club.PaymentUpdate) (*club.Club, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current clubRow
	err = tx.GetContext(ctx, &current,
		`SELECT `+clubColumns+` FROM booster_clubs WHERE id = $1 AND is_active = TRUE FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock club: %w", err)
	}
	locked, err := current.toClub()
	if err != nil {
		return nil, err
	}
	if upd.ExpectedVersion != nil && *upd.ExpectedVersion != locked.Version {
		return nil, ErrConflict
	}

	// A concurrent writer may have cleared the other link since the caller
	// last read the row.
	merged := applyPaymentUpdate(*locked, upd)
	if err := checkPaymentGate(&merged); err != nil {
		return nil, err
	}

	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.ZelleURL != nil {
		set("zelle_url", nullIfEmpty(*upd.ZelleURL))
	}
	if upd.StripeURL != nil {
		set("stripe_url", nullIfEmpty(*upd.StripeURL))
	}
	if upd.PaymentInstructions != nil {
		set("payment_instructions", nullIfEmpty(*upd.PaymentInstructions))
	}
	if upd.IsPaymentEnabled != nil {
		set("is_payment_enabled", *upd.IsPaymentEnabled)
	}
	if upd.QRCodeSettings != nil {
		settings, err := settingsParam(*upd.QRCodeSettings)
		if err != nil {
			return nil, err
		}
		set("qr_code_settings", settings)
	}
	set("last_updated_by", upd.Actor)
	set("last_updated_at", upd.UpdatedAt)
	set("updated_at", upd.UpdatedAt)
	sets = append(sets, "version = version + 1")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE booster_clubs SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), clubColumns)

	var row clubRow
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update payment settings: %w", err)
	}

	changes, err := json.Marshal(upd.Changes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode audit changes: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO payment_settings_audit (id, club_id, actor, changes, changed_at) VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), id, upd.Actor, string(changes), upd.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to write audit entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment settings: %w", err)
	}
	return row.toClub()
}

func (s *PostgresClubStore) ListPaymentAudit(ctx context.Context, id uuid.UUID, limit int) ([]*club.AuditEntry, error) {
	query := `SELECT id, club_id, actor, changes, changed_at FROM payment_settings_audit
		WHERE club_id = $1 ORDER BY changed_at DESC LIMIT $2`

	var rows []auditRow
	if err := s.db.SelectContext(ctx, &rows, query, id, limit); err != nil {
		return nil, fmt.Errorf("failed to list payment audit: %w", err)
	}

	entries := make([]*club.AuditEntry, 0, len(rows))
	for _, r := range rows {
		e := &club.AuditEntry{ID: r.ID, ClubID: r.ClubID, Actor: r.Actor, ChangedAt: r.ChangedAt}
		if len(r.Changes) > 0 {
			if err := json.Unmarshal(r.Changes, &e.Changes); err != nil {
				return nil, fmt.Errorf("decode audit changes %s: %w", r.ID, err)
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func nullIfEmpty(v string) any {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return v
}

func settingsParam(s qr.Settings) (any, error) {
	if s.IsZero() {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr settings: %w", err)
	}
	return string(b), nil
}
