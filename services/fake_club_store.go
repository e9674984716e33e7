package services

import (
	"context"

	"boosterClubAPI/internal/club"

	"github.com/google/uuid"
)

// FakeClubStore is a programmable ClubStore for tests. Unset funcs behave as
// an empty store.
type FakeClubStore struct {
	GetActiveClubFn         func(ctx context.Context, id uuid.UUID) (*club.Club, error)
	ListActiveClubsFn       func(ctx context.Context) ([]*club.Club, error)
	UpdatePaymentSettingsFn func(ctx context.Context, id uuid.UUID, upd *club.PaymentUpdate) (*club.Club, error)
	ListPaymentAuditFn      func(ctx context.Context, id uuid.UUID, limit int) ([]*club.AuditEntry, error)

	calls []string
}

func (f *FakeClubStore) record(step string) {
	f.calls = append(f.calls, step)
}

// Calls returns the method names invoked so far, in order.
func (f *FakeClubStore) Calls() []string {
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *FakeClubStore) GetActiveClub(ctx context.Context, id uuid.UUID) (*club.Club, error) {
	f.record("GetActiveClub")
	if f.GetActiveClubFn != nil {
		return f.GetActiveClubFn(ctx, id)
	}
	return nil, ErrNotFound
}

func (f *FakeClubStore) ListActiveClubs(ctx context.Context) ([]*club.Club, error) {
	f.record("ListActiveClubs")
	if f.ListActiveClubsFn != nil {
		return f.ListActiveClubsFn(ctx)
	}
	return nil, nil
}

func (f *FakeClubStore) UpdatePaymentSettings(ctx context.Context, id uuid.UUID, upd *club.PaymentUpdate) (*club.Club, error) {
	f.record("UpdatePaymentSettings")
	if f.UpdatePaymentSettingsFn != nil {
		return f.UpdatePaymentSettingsFn(ctx, id, upd)
	}
	return nil, ErrNotFound
}

func (f *FakeClubStore) ListPaymentAudit(ctx context.Context, id uuid.UUID, limit int) ([]*club.AuditEntry, error) {
	f.record("ListPaymentAudit")
	if f.ListPaymentAuditFn != nil {
		return f.ListPaymentAuditFn(ctx, id, limit)
	}
	return nil, nil
}

var _ ClubStore = (*FakeClubStore)(nil)
var _ ClubStore = (*PostgresClubStore)(nil)
