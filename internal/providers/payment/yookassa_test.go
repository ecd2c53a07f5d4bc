package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreatePaymentSendsIdempotenceKeyAndAuth(t *testing.T) {
	var gotKey, gotUser, gotPass string
	var gotBody yooKassaCreateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotence-Key")
		gotUser, gotPass, _ = r.BasicAuth()
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(yooKassaPaymentResponse{
			ID:           "pay-123",
			Status:       "pending",
			Confirmation: &yooKassaConfirmation{Type: "redirect", ConfirmationURL: "https://gw.example/confirm"},
		})
	}))
	defer srv.Close()

	gw, err := NewYooKassaGateway(YooKassaOptions{ShopID: "shop", SecretKey: "sk", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}

	p, err := gw.CreatePayment(context.Background(), CreatePaymentRequest{
		AmountMinor: 399,
		Description: "standard package",
		ReturnURL:   "https://app.example/?payment=success",
		Metadata:    map[string]string{"purchase_id": "p1"},
	})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if p.ID != "pay-123" || p.ConfirmationURL != "https://gw.example/confirm" {
		t.Fatalf("unexpected payment: %+v", p)
	}
	if gotKey == "" {
		t.Fatal("expected Idempotence-Key header")
	}
	if gotUser != "shop" || gotPass != "sk" {
		t.Fatalf("unexpected basic auth %s:%s", gotUser, gotPass)
	}
	if gotBody.Amount.Value != "3.99" || gotBody.Amount.Currency != "RUB" {
		t.Fatalf("unexpected amount %+v", gotBody.Amount)
	}
	if !gotBody.Capture || gotBody.Confirmation.Type != "redirect" {
		t.Fatalf("unexpected payment shape %+v", gotBody)
	}
}

func TestCreatePaymentGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	gw, err := NewYooKassaGateway(YooKassaOptions{ShopID: "shop", SecretKey: "sk", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}
	if _, err := gw.CreatePayment(context.Background(), CreatePaymentRequest{AmountMinor: 100}); err == nil {
		t.Fatal("expected error on gateway failure")
	}
}

func TestVerifyHMAC(t *testing.T) {
	body := []byte(`{"event":"payment.succeeded"}`)
	sig := SignHMAC("whsec", body)

	if err := VerifyHMAC("whsec", body, sig); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}
	if err := VerifyHMAC("whsec", body, "deadbeef"); err == nil {
		t.Fatal("expected invalid signature to be rejected")
	}
	if err := VerifyHMAC("", body, sig); err == nil {
		t.Fatal("expected error when secret is not configured")
	}
}

func TestMinorToDecimal(t *testing.T) {
	cases := map[int64]string{399: "3.99", 749: "7.49", 100: "1.00", 5: "0.05"}
	for amount, want := range cases {
		if got := minorToDecimal(amount); got != want {
			t.Errorf("minorToDecimal(%d) = %q, want %q", amount, got, want)
		}
	}
}
