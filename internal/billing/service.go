package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"aihelper/internal/domain"
	"aihelper/internal/infra/geoip"
	"aihelper/internal/providers/payment"
)

// Crediter grants paid requests to a user's ledger account. Satisfied by
// the ledger service.
type Crediter interface {
	Credit(ctx context.Context, userID string, n int) (int, error)
}

// CreditsRecorder counts credits granted through settlements. Satisfied by
// the metrics collector.
type CreditsRecorder interface {
	RecordCreditsGranted(n int)
}

// Service owns purchase intents and payment settlement.
type Service struct {
	purchases domain.PurchaseRepository
	users     domain.UserRepository
	gateway   payment.Gateway
	ledger    Crediter
	geo       geoip.CountryResolver
	recorder  CreditsRecorder
	logger    zerolog.Logger
	returnURL string
	now       func() time.Time
}

type ServiceOptions struct {
	Purchases domain.PurchaseRepository
	Users     domain.UserRepository
	Gateway   payment.Gateway
	Ledger    Crediter
	Geo       geoip.CountryResolver
	Recorder  CreditsRecorder
	Logger    zerolog.Logger
	ReturnURL string
	Now       func() time.Time
}

func NewService(opts ServiceOptions) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		purchases: opts.Purchases,
		users:     opts.Users,
		gateway:   opts.Gateway,
		ledger:    opts.Ledger,
		geo:       opts.Geo,
		recorder:  opts.Recorder,
		logger:    opts.Logger,
		returnURL: opts.ReturnURL,
		now:       now,
	}
}

// PurchaseIntent is the client's request to buy a package. Amount and
// requests are advisory: the catalog is authoritative and a mismatch is
// rejected rather than honored.
type PurchaseIntent struct {
	UserID          string
	PackageType     domain.PackageType
	AmountMinor     int64
	RequestsGranted int
	ClientIP        string
}

// CreatePurchase validates the intent against the catalog, creates a
// hosted-checkout payment at the gateway and records a pending purchase.
func (s *Service) CreatePurchase(ctx context.Context, intent PurchaseIntent) (*domain.Purchase, error) {
	userID := strings.TrimSpace(intent.UserID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	pkg, ok := LookupPackage(intent.PackageType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown package %q", domain.ErrValidation, intent.PackageType)
	}
	if intent.AmountMinor != 0 && intent.AmountMinor != pkg.AmountMinor {
		return nil, fmt.Errorf("%w: amount %d does not match package %q", domain.ErrValidation, intent.AmountMinor, pkg.Type)
	}
	if intent.RequestsGranted != 0 && intent.RequestsGranted != pkg.RequestsGranted {
		return nil, fmt.Errorf("%w: requests_count %d does not match package %q", domain.ErrValidation, intent.RequestsGranted, pkg.Type)
	}
	if err := s.users.EnsureExists(ctx, userID); err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	buyerCountry := s.resolveCountry(intent.ClientIP)

	created, err := s.gateway.CreatePayment(ctx, payment.CreatePaymentRequest{
		AmountMinor: pkg.AmountMinor,
		Description: fmt.Sprintf("Пакет «%s»: %d запросов", pkg.Title, pkg.RequestsGranted),
		ReturnURL:   s.returnURL,
		Metadata: map[string]string{
			"user_id":      userID,
			"package_type": string(pkg.Type),
		},
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("package", string(pkg.Type)).Msg("gateway payment creation failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}

	p := &domain.Purchase{
		ID:               uuid.NewString(),
		UserID:           userID,
		PackageType:      pkg.Type,
		AmountMinor:      pkg.AmountMinor,
		RequestsGranted:  pkg.RequestsGranted,
		Status:           domain.PurchaseStatusPending,
		GatewayPaymentID: created.ID,
		PaymentURL:       created.ConfirmationURL,
		BuyerCountry:     buyerCountry,
		CreatedAt:        s.now().UTC(),
	}
	if err := s.purchases.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("record purchase: %w", err)
	}
	s.logger.Info().
		Str("purchase_id", p.ID).
		Str("user_id", userID).
		Str("package", string(pkg.Type)).
		Str("gateway_payment_id", p.GatewayPaymentID).
		Msg("purchase created")
	return p, nil
}

func (s *Service) resolveCountry(ip string) string {
	if s.geo == nil || strings.TrimSpace(ip) == "" {
		return ""
	}
	code, err := s.geo.CountryCode(ip)
	if err != nil {
		s.logger.Debug().Err(err).Str("ip", ip).Msg("geoip lookup failed")
		return ""
	}
	return code
}

// ListPurchases returns the user's purchase history, newest first.
func (s *Service) ListPurchases(ctx context.Context, userID string, limit int) ([]domain.Purchase, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.purchases.ListByUser(ctx, userID, limit)
}

type webhookEvent struct {
	Event  string `json:"event"`
	Object struct {
		ID       string            `json:"id"`
		Status   string            `json:"status"`
		Metadata map[string]string `json:"metadata"`
	} `json:"object"`
}

const (
	eventPaymentSucceeded = "payment.succeeded"
	eventPaymentCanceled  = "payment.canceled"
)

// HandleWebhook authenticates and applies one gateway notification. A
// repeated success notification for an already settled purchase is
// acknowledged without granting credits again.
func (s *Service) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if err := s.gateway.VerifySignature(body, signature); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: malformed webhook payload", domain.ErrValidation)
	}
	if event.Object.ID == "" {
		return fmt.Errorf("%w: webhook object id is required", domain.ErrValidation)
	}

	switch event.Event {
	case eventPaymentSucceeded:
		return s.settle(ctx, event.Object.ID)
	case eventPaymentCanceled:
		transitioned, err := s.purchases.MarkFailed(ctx, event.Object.ID)
		if err != nil {
			return fmt.Errorf("mark failed: %w", err)
		}
		if transitioned {
			s.logger.Info().Str("gateway_payment_id", event.Object.ID).Msg("purchase canceled")
		}
		return nil
	default:
		s.logger.Debug().Str("event", event.Event).Msg("ignoring webhook event")
		return nil
	}
}

func (s *Service) settle(ctx context.Context, gatewayID string) error {
	p, transitioned, err := s.purchases.MarkPaid(ctx, gatewayID, s.now().UTC())
	if err != nil {
		return fmt.Errorf("mark paid: %w", err)
	}
	if !transitioned {
		// Either a redelivered confirmation for a settled purchase or a
		// payment we never issued; only the former is acknowledged.
		if _, err := s.purchases.GetByGatewayID(ctx, gatewayID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: purchase for payment %s", domain.ErrNotFound, gatewayID)
			}
			return fmt.Errorf("lookup purchase: %w", err)
		}
		s.logger.Info().Str("gateway_payment_id", gatewayID).Msg("duplicate settlement notification acknowledged")
		return nil
	}
	balance, err := s.ledger.Credit(ctx, p.UserID, p.RequestsGranted)
	if err != nil {
		// The purchase is already marked paid; surfacing the error makes the
		// gateway retry, and the retry path above acknowledges without a
		// second credit. The gap is logged for manual reconciliation.
		s.logger.Error().Err(err).
			Str("purchase_id", p.ID).
			Str("user_id", p.UserID).
			Int("requests", p.RequestsGranted).
			Msg("purchase settled but credit failed")
		return fmt.Errorf("credit purchase %s: %w", p.ID, err)
	}
	if s.recorder != nil {
		s.recorder.RecordCreditsGranted(p.RequestsGranted)
	}
	s.logger.Info().
		Str("purchase_id", p.ID).
		Str("user_id", p.UserID).
		Int("requests", p.RequestsGranted).
		Int("balance", balance).
		Msg("purchase settled")
	return nil
}
