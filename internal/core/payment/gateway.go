package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrPaymentNotConfigured: gateway belum diset atau business belum punya merchant account
	ErrPaymentNotConfigured = errors.New("payment gateway not configured")
	// ErrInvalidSignature: webhook tidak lolos verifikasi tanda tangan
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Webhook event types yang diproses
const (
	EventCheckoutCompleted     = "checkout.session.completed"
	EventCheckoutExpired       = "checkout.session.expired"
	EventAsyncPaymentFailed    = "checkout.session.async_payment_failed"
	EventAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"
)

// Metadata keys yang ditempel ke checkout session
const (
	MetaOrderID    = "order_id"
	MetaBusinessID = "business_id"
	MetaCustomerID = "customer_id"
)

// Gateway defines the interface for payment processing.
// Semua pembayaran diterima atas nama merchant account milik business.
type Gateway interface {
	// CreateAccount membuat merchant account baru untuk business
	CreateAccount(ctx context.Context, email string) (accountID string, err error)

	// CreateOnboardingLink return URL onboarding untuk merchant account
	CreateOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error)

	// ChargesEnabled cek apakah merchant account sudah bisa menerima pembayaran
	ChargesEnabled(ctx context.Context, accountID string) (bool, error)

	// CreateCheckoutSession membuat hosted checkout di merchant account
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)

	// ParseWebhook verifikasi signature lalu decode event
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)

	// Name returns the gateway provider name
	Name() string
}

// LineItem adalah satu baris di halaman checkout
type LineItem struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// CheckoutRequest adalah input CreateCheckoutSession
type CheckoutRequest struct {
	AccountID  string
	Currency   string
	Items      []LineItem
	Metadata   map[string]string
	SuccessURL string
	CancelURL  string
	ExpiresAt  time.Time
}

// CheckoutSession adalah session yang sudah dibuat di gateway
type CheckoutSession struct {
	ID        string
	URL       string
	ExpiresAt time.Time
}

// WebhookEvent adalah event webhook yang sudah diverifikasi
type WebhookEvent struct {
	ID              string
	Type            string
	SessionID       string
	PaymentIntentID string
	Metadata        map[string]string
}

// zeroDecimalCurrencies tidak punya satuan sen
var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true, "krw": true,
	"mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true, "vuv": true, "xaf": true,
	"xof": true, "xpf": true,
}

// MinorUnits mengubah nominal ke satuan terkecil mata uang (cents), dibulatkan
func MinorUnits(amount decimal.Decimal, currency string) int64 {
	if zeroDecimalCurrencies[strings.ToLower(currency)] {
		return amount.Round(0).IntPart()
	}
	return amount.Shift(2).Round(0).IntPart()
}
