package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// YooKassaOptions configures the YooKassa API client.
type YooKassaOptions struct {
	ShopID        string
	SecretKey     string
	BaseURL       string
	WebhookSecret string
	HTTPClient    *http.Client
}

// YooKassaGateway implements Gateway against the YooKassa payments API.
type YooKassaGateway struct {
	shopID        string
	secretKey     string
	baseURL       string
	webhookSecret string
	client        *http.Client
}

const yooKassaDefaultTimeout = 15 * time.Second

type yooKassaAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type yooKassaConfirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

type yooKassaCreateRequest struct {
	Amount       yooKassaAmount       `json:"amount"`
	Capture      bool                 `json:"capture"`
	Confirmation yooKassaConfirmation `json:"confirmation"`
	Description  string               `json:"description,omitempty"`
	Metadata     map[string]string    `json:"metadata,omitempty"`
}

type yooKassaPaymentResponse struct {
	ID           string                `json:"id"`
	Status       string                `json:"status"`
	Confirmation *yooKassaConfirmation `json:"confirmation"`
}

// NewYooKassaGateway creates a YooKassa client from shop credentials.
func NewYooKassaGateway(opts YooKassaOptions) (*YooKassaGateway, error) {
	if strings.TrimSpace(opts.ShopID) == "" || strings.TrimSpace(opts.SecretKey) == "" {
		return nil, errors.New("yookassa shop credentials are required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.yookassa.ru/v3"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: yooKassaDefaultTimeout}
	}
	return &YooKassaGateway{
		shopID:        strings.TrimSpace(opts.ShopID),
		secretKey:     strings.TrimSpace(opts.SecretKey),
		baseURL:       baseURL,
		webhookSecret: opts.WebhookSecret,
		client:        client,
	}, nil
}

// CreatePayment creates a redirect-confirmation payment. Each call carries a
// fresh Idempotence-Key so gateway-side retries cannot double-create.
func (g *YooKassaGateway) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Payment, error) {
	currency := req.Currency
	if currency == "" {
		currency = "RUB"
	}
	payload := yooKassaCreateRequest{
		Amount:       yooKassaAmount{Value: minorToDecimal(req.AmountMinor), Currency: currency},
		Capture:      true,
		Confirmation: yooKassaConfirmation{Type: "redirect", ReturnURL: req.ReturnURL},
		Description:  req.Description,
		Metadata:     req.Metadata,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("yookassa: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/payments", &buf)
	if err != nil {
		return nil, fmt.Errorf("yookassa: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotence-Key", uuid.NewString())
	httpReq.SetBasicAuth(g.shopID, g.secretKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("yookassa: request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("yookassa: status %d", resp.StatusCode)
	}

	var out yooKassaPaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("yookassa: decode response: %w", err)
	}
	if out.ID == "" {
		return nil, errors.New("yookassa: response missing payment id")
	}
	payment := &Payment{ID: out.ID, Status: out.Status}
	if out.Confirmation != nil {
		payment.ConfirmationURL = out.Confirmation.ConfirmationURL
	}
	if payment.ConfirmationURL == "" {
		return nil, errors.New("yookassa: response missing confirmation url")
	}
	return payment, nil
}

// VerifySignature checks the hex HMAC-SHA256 of the raw webhook body against
// the shared webhook secret.
func (g *YooKassaGateway) VerifySignature(body []byte, signature string) error {
	return VerifyHMAC(g.webhookSecret, body, signature)
}

// VerifyHMAC validates a hex HMAC-SHA256 signature over body.
func VerifyHMAC(secret string, body []byte, signature string) error {
	if secret == "" {
		return errors.New("webhook secret not configured")
	}
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return errors.New("missing signature")
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(signature))) {
		return errors.New("invalid signature")
	}
	return nil
}

// SignHMAC produces the hex HMAC-SHA256 signature for body. Used by tests and
// by operators replaying deliveries.
func SignHMAC(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func minorToDecimal(amount int64) string {
	return fmt.Sprintf("%d.%02d", amount/100, amount%100)
}

var _ Gateway = (*YooKassaGateway)(nil)
