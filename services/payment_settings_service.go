package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"boosterClubAPI/internal/club"
	"boosterClubAPI/internal/metrics"
	"boosterClubAPI/internal/paymentlink"
	"boosterClubAPI/internal/qr"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultAuditLimit = 50
	MaxAuditLimit     = 200
)

type PaymentSettingsService struct {
	store    ClubStore
	renderer *qr.Renderer
	validate *validator.Validate
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewPaymentSettingsService(store ClubStore, renderer *qr.Renderer, logger *zap.SugaredLogger) *PaymentSettingsService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if renderer == nil {
		renderer = qr.NewRenderer(qr.DefaultSettings())
	}
	return &PaymentSettingsService{
		store:    store,
		renderer: renderer,
		validate: newValidator(),
		logger:   logger,
		now:      time.Now,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func (s *PaymentSettingsService) GetClub(ctx context.Context, clubID uuid.UUID) (*club.Record, error) {
	c, err := s.store.GetActiveClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	return c.Record(), nil
}

func (s *PaymentSettingsService) GetPaymentConfig(ctx context.Context, clubID uuid.UUID) (*club.PaymentView, error) {
	c, err := s.store.GetActiveClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	return s.view(c), nil
}

func (s *PaymentSettingsService) ListClubs(ctx context.Context) ([]*club.PaymentView, error) {
	clubs, err := s.store.ListActiveClubs(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]*club.PaymentView, 0, len(clubs))
	for _, c := range clubs {
		views = append(views, s.view(c))
	}
	return views, nil
}

// GenerateQR renders the club's Zelle link. The payment gate is checked
// before the URL, so a disabled club reports ErrPaymentDisabled even when a
// link is on file.
func (s *PaymentSettingsService) GenerateQR(ctx context.Context, clubID uuid.UUID) ([]byte, error) {
	c, err := s.store.GetActiveClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if !c.IsPaymentEnabled {
		metrics.QRCodesRendered.WithLabelValues("payment_disabled").Inc()
		return nil, ErrPaymentDisabled
	}
	if !c.HasZelle() {
		metrics.QRCodesRendered.WithLabelValues("no_zelle_url").Inc()
		return nil, ErrNoZelleURL
	}

	zelleURL := strings.TrimSpace(*c.ZelleURL)
	png, err := s.renderer.Render(zelleURL, c.QRCodeSettings)
	if errors.Is(err, qr.ErrInvalidSettings) {
		s.logger.Warnw("stored qr settings are invalid, rendering with defaults",
			"club_id", clubID, "err", err)
		png, err = s.renderer.Render(zelleURL, qr.Settings{})
	}
	if err != nil {
		metrics.QRCodesRendered.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to render qr code for club %s: %w", clubID, err)
	}

	metrics.QRCodesRendered.WithLabelValues("ok").Inc()
	return png, nil
}

// UpdatePaymentSettings validates req against the club as it will look after
// the patch, then writes it with the actor's audit stamp.
func (s *PaymentSettingsService) UpdatePaymentSettings(ctx context.Context, clubID uuid.UUID, actor string, req *club.UpdatePaymentSettingsRequest) (*club.PaymentView, error) {
	view, err := s.updatePaymentSettings(ctx, clubID, actor, req)
	switch {
	case err == nil:
		metrics.PaymentSettingsUpdates.WithLabelValues("ok").Inc()
	case IsValidation(err):
		metrics.PaymentSettingsUpdates.WithLabelValues("invalid").Inc()
	case errors.Is(err, ErrNotFound):
		metrics.PaymentSettingsUpdates.WithLabelValues("not_found").Inc()
	case errors.Is(err, ErrConflict):
		metrics.PaymentSettingsUpdates.WithLabelValues("conflict").Inc()
	default:
		metrics.PaymentSettingsUpdates.WithLabelValues("error").Inc()
	}
	return view, err
}

func (s *PaymentSettingsService) updatePaymentSettings(ctx context.Context, clubID uuid.UUID, actor string, req *club.UpdatePaymentSettingsRequest) (*club.PaymentView, error) {
	actor = strings.TrimSpace(actor)
	if req == nil {
		req = &club.UpdatePaymentSettingsRequest{}
	}
	trimPtr(req.ZelleURL)
	trimPtr(req.StripeURL)

	if err := s.checkRequest(actor, req); err != nil {
		return nil, err
	}

	existing, err := s.store.GetActiveClub(ctx, clubID)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if req.ZelleURL != nil {
		changes["zelle_url"] = emptyToNil(*req.ZelleURL)
	}
	if req.StripeURL != nil {
		changes["stripe_url"] = emptyToNil(*req.StripeURL)
	}
	if req.PaymentInstructions != nil {
		changes["payment_instructions"] = emptyToNil(*req.PaymentInstructions)
	}
	if req.IsPaymentEnabled != nil {
		changes["is_payment_enabled"] = *req.IsPaymentEnabled
	}
	if req.QRCodeSettings != nil {
		changes["qr_code_settings"] = req.QRCodeSettings
	}

	upd := &club.PaymentUpdate{
		ZelleURL:            req.ZelleURL,
		StripeURL:           req.StripeURL,
		PaymentInstructions: req.PaymentInstructions,
		IsPaymentEnabled:    req.IsPaymentEnabled,
		QRCodeSettings:      req.QRCodeSettings,
		ExpectedVersion:     req.ExpectedVersion,
		Actor:               actor,
		Changes:             changes,
	}

	// Fail fast on the current row. The store checks again under its lock.
	merged := applyPaymentUpdate(*existing, upd)
	if err := checkPaymentGate(&merged); err != nil {
		return nil, err
	}

	upd.UpdatedAt = s.now().UTC().Truncate(time.Microsecond)
	if existing.LastUpdatedAt != nil && !upd.UpdatedAt.After(*existing.LastUpdatedAt) {
		upd.UpdatedAt = existing.LastUpdatedAt.Add(time.Microsecond)
	}

	updated, err := s.store.UpdatePaymentSettings(ctx, clubID, upd)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("payment settings updated",
		"club_id", clubID,
		"actor", actor,
		"fields", changedFields(changes),
		"version", updated.Version,
	)
	return s.view(updated), nil
}

func (s *PaymentSettingsService) checkRequest(actor string, req *club.UpdatePaymentSettingsRequest) error {
	verr := &ValidationError{}
	if actor == "" {
		verr.add("actor is required")
	}
	if err := s.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate payment settings: %w", err)
		}
		for _, fe := range fieldErrs {
			verr.add(fieldMessage(fe))
		}
	}
	if req.IsEmpty() {
		verr.add("no payment settings supplied")
	}
	if req.QRCodeSettings != nil {
		if err := req.QRCodeSettings.Validate(); err != nil {
			verr.add(strings.TrimPrefix(err.Error(), qr.ErrInvalidSettings.Error()+": "))
		}
	}
	return verr.orNil()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "http_url", "http_url|len=0":
		return fe.Field() + " must be an http(s) URL"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "required":
		return fe.Field() + " is required"
	default:
		return fe.Field() + " is invalid"
	}
}

func (s *PaymentSettingsService) PaymentStatus(ctx context.Context) (*club.PaymentStatus, error) {
	clubs, err := s.store.ListActiveClubs(ctx)
	if err != nil {
		return nil, err
	}

	status := &club.PaymentStatus{TotalClubs: len(clubs)}
	for _, c := range clubs {
		if c.HasZelle() {
			status.ClubsWithZelle++
		}
		if c.HasStripe() {
			status.ClubsWithStripe++
		}
		if c.IsPaymentEnabled {
			status.PaymentEnabled++
		}
	}
	return status, nil
}

func (s *PaymentSettingsService) ListPaymentAudit(ctx context.Context, clubID uuid.UUID, limit int) ([]*club.AuditEntry, error) {
	switch {
	case limit <= 0:
		limit = DefaultAuditLimit
	case limit > MaxAuditLimit:
		limit = MaxAuditLimit
	}

	if _, err := s.store.GetActiveClub(ctx, clubID); err != nil {
		return nil, err
	}
	return s.store.ListPaymentAudit(ctx, clubID, limit)
}

func (s *PaymentSettingsService) BuildZelleLink(req *club.BuildPaymentLinkRequest) (*club.PaymentLinkResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, toValidationError(err)
	}
	p := paymentlink.NewPayload(strings.TrimSpace(req.Name), strings.TrimSpace(req.Token))
	link, err := paymentlink.Encode(p)
	if err != nil {
		return nil, &ValidationError{Problems: []string{"name and token are required"}}
	}
	return &club.PaymentLinkResponse{URL: link, Payload: p}, nil
}

func (s *PaymentSettingsService) DecodeZelleLink(req *club.DecodePaymentLinkRequest) (*club.PaymentLinkResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, toValidationError(err)
	}
	p, err := paymentlink.Decode(req.URL)
	if err != nil {
		return nil, err
	}
	return &club.PaymentLinkResponse{URL: req.URL, Payload: p}, nil
}

func (s *PaymentSettingsService) view(c *club.Club) *club.PaymentView {
	v := &club.PaymentView{
		ID:                  c.ID,
		Name:                c.Name,
		IsActive:            c.IsActive,
		IsPaymentEnabled:    c.IsPaymentEnabled,
		HasPaymentMethod:    c.HasPaymentMethod(),
		ZelleURL:            c.ZelleURL,
		StripeURL:           c.StripeURL,
		PaymentInstructions: c.PaymentInstructions,
		QRCodeSettings:      c.QRCodeSettings.Merge(s.renderer.Defaults()),
		LastUpdatedBy:       c.LastUpdatedBy,
		LastUpdatedAt:       c.LastUpdatedAt,
		Version:             c.Version,
	}
	if c.HasZelle() {
		if p, err := paymentlink.Decode(*c.ZelleURL); err == nil {
			v.ZellePayload = &p
		}
	}
	return v
}

func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.add(fieldMessage(fe))
	}
	return verr
}

func trimPtr(v *string) {
	if v != nil {
		*v = strings.TrimSpace(*v)
	}
}

func emptyToNil(v string) any {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return v
}

func changedFields(changes map[string]any) []string {
	fields := make([]string, 0, len(changes))
	for k := range changes {
		fields = append(fields, k)
	}
	return fields
}
