package billing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"aihelper/internal/adapter/repo"
	"aihelper/internal/domain"
	"aihelper/internal/ledger"
	"aihelper/internal/providers/payment"
)

type fakeGateway struct {
	created    []payment.CreatePaymentRequest
	createErr  error
	nextID     int
	badSig     bool
	confirmURL string
}

func (f *fakeGateway) CreatePayment(_ context.Context, req payment.CreatePaymentRequest) (*payment.Payment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, req)
	f.nextID++
	url := f.confirmURL
	if url == "" {
		url = "https://gw.example/confirm"
	}
	return &payment.Payment{ID: fmt.Sprintf("pay-%d", f.nextID), Status: "pending", ConfirmationURL: url}, nil
}

func (f *fakeGateway) VerifySignature([]byte, string) error {
	if f.badSig {
		return errors.New("signature mismatch")
	}
	return nil
}

type countingRecorder struct {
	granted []int
}

func (r *countingRecorder) RecordCreditsGranted(n int) {
	r.granted = append(r.granted, n)
}

func newTestService(t *testing.T, gw payment.Gateway) (*Service, *repo.Memory) {
	t.Helper()
	svc, store, _ := newTestServiceWithRecorder(t, gw)
	return svc, store
}

func newTestServiceWithRecorder(t *testing.T, gw payment.Gateway) (*Service, *repo.Memory, *countingRecorder) {
	t.Helper()
	store := repo.NewMemory()
	rec := &countingRecorder{}
	svc := NewService(ServiceOptions{
		Purchases: store,
		Users:     store,
		Gateway:   gw,
		Ledger:    ledger.NewService(store, zerolog.Nop()),
		Recorder:  rec,
		Logger:    zerolog.Nop(),
		ReturnURL: "https://app.example/?payment=success",
	})
	return svc, store, rec
}

func TestCreatePurchaseRecordsPendingIntent(t *testing.T) {
	gw := &fakeGateway{}
	svc, store := newTestService(t, gw)

	p, err := svc.CreatePurchase(context.Background(), PurchaseIntent{
		UserID:      "user-1",
		PackageType: domain.PackageStandard,
	})
	if err != nil {
		t.Fatalf("create purchase: %v", err)
	}
	if p.Status != domain.PurchaseStatusPending {
		t.Fatalf("expected pending status, got %s", p.Status)
	}
	if p.AmountMinor != 399 || p.RequestsGranted != 40 {
		t.Fatalf("catalog values not applied: %+v", p)
	}
	if p.PaymentURL == "" || p.GatewayPaymentID == "" {
		t.Fatalf("gateway fields missing: %+v", p)
	}
	if len(gw.created) != 1 || gw.created[0].AmountMinor != 399 {
		t.Fatalf("unexpected gateway request: %+v", gw.created)
	}
	if gw.created[0].Metadata["user_id"] != "user-1" {
		t.Fatalf("metadata missing user id: %+v", gw.created[0].Metadata)
	}
	stored, ok := store.Purchase(p.ID)
	if !ok || stored.Status != domain.PurchaseStatusPending {
		t.Fatalf("purchase not persisted as pending")
	}
}

func TestCreatePurchaseRejectsUnknownPackage(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newTestService(t, gw)

	_, err := svc.CreatePurchase(context.Background(), PurchaseIntent{UserID: "user-1", PackageType: "mega"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(gw.created) != 0 {
		t.Fatal("gateway must not be called for an unknown package")
	}
}

func TestCreatePurchaseRejectsAmountMismatch(t *testing.T) {
	svc, _ := newTestService(t, &fakeGateway{})

	_, err := svc.CreatePurchase(context.Background(), PurchaseIntent{
		UserID:      "user-1",
		PackageType: domain.PackagePro,
		AmountMinor: 399,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error on amount mismatch, got %v", err)
	}
}

func TestCreatePurchaseWrapsGatewayFailure(t *testing.T) {
	svc, store := newTestService(t, &fakeGateway{createErr: errors.New("boom")})

	_, err := svc.CreatePurchase(context.Background(), PurchaseIntent{UserID: "user-1", PackageType: domain.PackageStandard})
	if !errors.Is(err, domain.ErrGateway) {
		t.Fatalf("expected gateway error, got %v", err)
	}
	list, err := store.ListByUser(context.Background(), "user-1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatal("no purchase record may exist when the gateway call failed")
	}
}

func webhookBody(gatewayID, event string) []byte {
	return []byte(fmt.Sprintf(`{"event":%q,"object":{"id":%q,"status":"succeeded"}}`, event, gatewayID))
}

func TestHandleWebhookCreditsExactlyOnce(t *testing.T) {
	svc, store, rec := newTestServiceWithRecorder(t, &fakeGateway{})

	p, err := svc.CreatePurchase(context.Background(), PurchaseIntent{UserID: "user-1", PackageType: domain.PackagePro})
	if err != nil {
		t.Fatalf("create purchase: %v", err)
	}

	body := webhookBody(p.GatewayPaymentID, eventPaymentSucceeded)
	for i := 0; i < 3; i++ {
		if err := svc.HandleWebhook(context.Background(), body, "sig"); err != nil {
			t.Fatalf("webhook attempt %d: %v", i+1, err)
		}
	}

	acct, ok := store.Account("user-1")
	if !ok {
		t.Fatal("quota account missing")
	}
	if acct.PaidBalance != 80 {
		t.Fatalf("expected exactly one credit of 80, got balance %d", acct.PaidBalance)
	}
	stored, _ := store.Purchase(p.ID)
	if stored.Status != domain.PurchaseStatusPaid || stored.PaidAt == nil {
		t.Fatalf("purchase not settled: %+v", stored)
	}
	if len(rec.granted) != 1 || rec.granted[0] != 80 {
		t.Fatalf("expected one recorded grant of 80, got %v", rec.granted)
	}
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	gw := &fakeGateway{}
	svc, store := newTestService(t, gw)

	p, err := svc.CreatePurchase(context.Background(), PurchaseIntent{UserID: "user-1", PackageType: domain.PackageStandard})
	if err != nil {
		t.Fatalf("create purchase: %v", err)
	}

	gw.badSig = true
	err = svc.HandleWebhook(context.Background(), webhookBody(p.GatewayPaymentID, eventPaymentSucceeded), "bad")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	stored, _ := store.Purchase(p.ID)
	if stored.Status != domain.PurchaseStatusPending {
		t.Fatalf("unauthenticated webhook must not settle, got %s", stored.Status)
	}
}

func TestHandleWebhookUnknownPayment(t *testing.T) {
	svc, _ := newTestService(t, &fakeGateway{})

	err := svc.HandleWebhook(context.Background(), webhookBody("pay-missing", eventPaymentSucceeded), "sig")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHandleWebhookCancellation(t *testing.T) {
	svc, store := newTestService(t, &fakeGateway{})

	p, err := svc.CreatePurchase(context.Background(), PurchaseIntent{UserID: "user-1", PackageType: domain.PackageStandard})
	if err != nil {
		t.Fatalf("create purchase: %v", err)
	}
	if err := svc.HandleWebhook(context.Background(), webhookBody(p.GatewayPaymentID, eventPaymentCanceled), "sig"); err != nil {
		t.Fatalf("cancellation webhook: %v", err)
	}
	stored, _ := store.Purchase(p.ID)
	if stored.Status != domain.PurchaseStatusFailed {
		t.Fatalf("expected failed status, got %s", stored.Status)
	}
	if acct, ok := store.Account("user-1"); ok && acct.PaidBalance != 0 {
		t.Fatalf("cancellation must not credit, balance %d", acct.PaidBalance)
	}
}

func TestHandleWebhookIgnoresUnknownEvents(t *testing.T) {
	svc, store := newTestService(t, &fakeGateway{})

	p, err := svc.CreatePurchase(context.Background(), PurchaseIntent{UserID: "user-1", PackageType: domain.PackageStandard})
	if err != nil {
		t.Fatalf("create purchase: %v", err)
	}
	if err := svc.HandleWebhook(context.Background(), webhookBody(p.GatewayPaymentID, "payment.waiting_for_capture"), "sig"); err != nil {
		t.Fatalf("unknown event must be acknowledged: %v", err)
	}
	stored, _ := store.Purchase(p.ID)
	if stored.Status != domain.PurchaseStatusPending {
		t.Fatalf("unknown event must not change status, got %s", stored.Status)
	}
}
