package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/core/payment"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/repositories"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PaymentConfig berisi setting checkout yang sama untuk semua business
type PaymentConfig struct {
	Currency       string
	FrontendURL    string
	GatewayTimeout time.Duration
	CheckoutExpiry time.Duration
}

// PaymentService mengurus siklus pembayaran order lewat merchant account business
type PaymentService struct {
	gateway      payment.Gateway
	paymentRepo  repositories.PaymentRepo
	orderRepo    repositories.OrderRepo
	customerRepo repositories.CustomerRepo
	businessRepo repositories.BusinessRepo
	kbRepo       repositories.KBRepo
	messages     *MessageService
	cfg          PaymentConfig
	now          func() time.Time
}

// NewPaymentService membuat service. gateway nil berarti pembayaran belum dikonfigurasi.
func NewPaymentService(
	gateway payment.Gateway,
	paymentRepo repositories.PaymentRepo,
	orderRepo repositories.OrderRepo,
	customerRepo repositories.CustomerRepo,
	businessRepo repositories.BusinessRepo,
	kbRepo repositories.KBRepo,
	messages *MessageService,
	cfg PaymentConfig,
) *PaymentService {
	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = 20 * time.Second
	}
	if cfg.CheckoutExpiry <= 0 {
		cfg.CheckoutExpiry = time.Hour
	}
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	return &PaymentService{
		gateway:      gateway,
		paymentRepo:  paymentRepo,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		businessRepo: businessRepo,
		kbRepo:       kbRepo,
		messages:     messages,
		cfg:          cfg,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreatePaymentSession membuat hosted checkout untuk order pending dan return URL-nya.
// Checkout yang masih terbuka untuk order yang sama dipakai ulang.
func (s *PaymentService) CreatePaymentSession(ctx context.Context, orderID uuid.UUID) (string, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	return s.createSession(ctx, order)
}

func (s *PaymentService) createSession(ctx context.Context, order *models.Order) (string, error) {
	if s.gateway == nil {
		return "", payment.ErrPaymentNotConfigured
	}
	if order.Status != models.OrderStatusPending {
		return "", ErrOrderNotPending
	}

	settings, err := s.paymentRepo.GetSettings(ctx, order.BusinessID)
	if err != nil {
		return "", fmt.Errorf("failed to load payment settings: %w", err)
	}
	if settings == nil || settings.AccountID == "" || !settings.Enabled {
		return "", payment.ErrPaymentNotConfigured
	}

	now := s.now()
	open, err := s.paymentRepo.GetOpenByOrder(ctx, order.ID, now)
	if err != nil {
		return "", fmt.Errorf("failed to load open checkout: %w", err)
	}
	if open != nil {
		log.Info().Str("order_id", order.ID.String()).Str("session_id", open.SessionID).Msg("♻️ Reusing open checkout session")
		return open.CheckoutURL, nil
	}

	currency := order.Currency
	if currency == "" {
		currency = s.cfg.Currency
	}

	items := make([]payment.LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, payment.LineItem{
			Name:      item.Product,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	orderID := order.ID.String()
	req := payment.CheckoutRequest{
		AccountID: settings.AccountID,
		Currency:  currency,
		Items:     items,
		Metadata: map[string]string{
			payment.MetaOrderID:    orderID,
			payment.MetaBusinessID: order.BusinessID.String(),
			payment.MetaCustomerID: order.CustomerID.String(),
		},
		SuccessURL: fmt.Sprintf("%s/payment/success?order_id=%s", s.cfg.FrontendURL, orderID),
		CancelURL:  fmt.Sprintf("%s/payment/cancel?order_id=%s", s.cfg.FrontendURL, orderID),
		ExpiresAt:  now.Add(s.cfg.CheckoutExpiry),
	}

	gctx, cancel := context.WithTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()

	session, err := s.gateway.CreateCheckoutSession(gctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	expiresAt := session.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = req.ExpiresAt
	}
	txn := &models.PaymentTransaction{
		OrderID:     order.ID,
		BusinessID:  order.BusinessID,
		SessionID:   session.ID,
		CheckoutURL: session.URL,
		Amount:      order.TotalAmount,
		Currency:    currency,
		Status:      models.PaymentStatusPending,
		ExpiresAt:   &expiresAt,
	}
	if err := s.paymentRepo.CreateTransaction(ctx, txn); err != nil {
		return "", fmt.Errorf("failed to save payment transaction: %w", err)
	}

	log.Info().
		Str("order_id", orderID).
		Str("session_id", session.ID).
		Str("amount", order.TotalAmount.StringFixed(2)).
		Msg("💳 Checkout session created")
	return session.URL, nil
}

// DeliverPaymentLink membuat checkout lalu mengirim link ke customer lewat WhatsApp.
// Address kosong tidak dianggap error, link hanya tidak dikirim.
func (s *PaymentService) DeliverPaymentLink(ctx context.Context, orderID uuid.UUID, address string, businessID uuid.UUID) error {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.BusinessID != businessID {
		return ErrOrderNotFound
	}

	url, err := s.createSession(ctx, order)
	if err != nil {
		return err
	}

	if address == "" {
		log.Warn().Str("order_id", orderID.String()).Msg("⚠️ No contact address, payment link not sent")
		return nil
	}

	text := paymentLinkText(s.language(ctx, businessID), url)
	if err := s.messages.SendAndRecord(ctx, businessID, order.CustomerID, address, text, false); err != nil {
		return fmt.Errorf("failed to send payment link: %w", err)
	}

	log.Info().Str("order_id", orderID.String()).Str("to", address).Msg("📤 Payment link sent")
	return nil
}

// HandleGatewayWebhook memproses event gateway yang sudah diverifikasi.
// Event duplikat dan session yang tidak dikenal diterima tanpa efek.
func (s *PaymentService) HandleGatewayWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.gateway == nil {
		return payment.ErrPaymentNotConfigured
	}

	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidWebhook, err)
	}

	logger := log.With().Str("event_id", event.ID).Str("type", event.Type).Str("session_id", event.SessionID).Logger()

	switch event.Type {
	case payment.EventCheckoutCompleted, payment.EventAsyncPaymentSucceeded:
		completed, err := s.paymentRepo.CompleteSession(ctx, event.SessionID, event.PaymentIntentID, s.now())
		if err != nil {
			return fmt.Errorf("failed to complete payment: %w", err)
		}
		if completed == nil {
			logger.Info().Msg("🔁 Payment already processed or unknown session, skipping")
			return nil
		}
		txn := completed.Transaction
		if !completed.OrderConfirmed {
			// Uang sudah diterima tapi order sudah tidak pending, perlu refund manual
			logger.Warn().Str("order_id", txn.OrderID.String()).Msg("⚠️ Payment completed for an order that is no longer pending, not confirming")
			return nil
		}
		logger.Info().Str("order_id", txn.OrderID.String()).Msg("✅ Payment completed, order confirmed")
		s.sendConfirmation(ctx, txn)

	case payment.EventCheckoutExpired, payment.EventAsyncPaymentFailed:
		changed, err := s.paymentRepo.FailSession(ctx, event.SessionID)
		if err != nil {
			return fmt.Errorf("failed to mark payment failed: %w", err)
		}
		if changed {
			logger.Info().Msg("⌛ Payment marked as failed")
		}

	default:
		logger.Debug().Msg("Ignoring webhook event")
	}
	return nil
}

// sendConfirmation dipanggil setelah commit. Gagal kirim hanya di-log,
// status pembayaran sudah final.
func (s *PaymentService) sendConfirmation(ctx context.Context, txn *models.PaymentTransaction) {
	order, err := s.orderRepo.GetByID(ctx, txn.OrderID)
	if err != nil {
		log.Error().Err(err).Str("order_id", txn.OrderID.String()).Msg("❌ Failed to load order for confirmation")
		return
	}

	// Konfirmasi dikirim ke chat asal pesanan
	customer, err := s.customerRepo.GetByID(ctx, order.CustomerID)
	if err != nil {
		log.Error().Err(err).Str("order_id", order.ID.String()).Msg("❌ Failed to load customer for confirmation")
		return
	}
	address := customer.Phone

	text := paymentConfirmedText(s.language(ctx, order.BusinessID), order.ID.String(), txn.Amount, txn.Currency)
	if err := s.messages.SendAndRecord(ctx, order.BusinessID, order.CustomerID, address, text, false); err != nil {
		log.Error().Err(err).Str("order_id", order.ID.String()).Msg("❌ Failed to send payment confirmation")
	}
}

// CreateMerchantAccount membuat (atau memakai ulang) merchant account business dan
// return URL onboarding. Pembayaran tetap disabled sampai diaktifkan operator.
func (s *PaymentService) CreateMerchantAccount(ctx context.Context, businessID uuid.UUID) (string, error) {
	if s.gateway == nil {
		return "", payment.ErrPaymentNotConfigured
	}

	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrBusinessNotFound
		}
		return "", fmt.Errorf("failed to load business: %w", err)
	}

	settings, err := s.paymentRepo.GetSettings(ctx, businessID)
	if err != nil {
		return "", fmt.Errorf("failed to load payment settings: %w", err)
	}

	gctx, cancel := context.WithTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()

	accountID := ""
	if settings != nil {
		accountID = settings.AccountID
	}
	if accountID == "" {
		accountID, err = s.gateway.CreateAccount(gctx, business.OwnerEmail)
		if err != nil {
			return "", fmt.Errorf("failed to create merchant account: %w", err)
		}
		if err := s.paymentRepo.UpsertAccount(ctx, businessID, accountID); err != nil {
			return "", fmt.Errorf("failed to save merchant account: %w", err)
		}
		log.Info().Str("business_id", businessID.String()).Str("account_id", accountID).Msg("🏦 Merchant account created")
	}

	link, err := s.gateway.CreateOnboardingLink(gctx, accountID,
		s.cfg.FrontendURL+"/settings/payments?refresh=true",
		s.cfg.FrontendURL+"/settings/payments?success=true",
	)
	if err != nil {
		return "", fmt.Errorf("failed to create onboarding link: %w", err)
	}
	return link, nil
}

// IsPaymentEnabled true kalau business punya merchant account dan pembayaran diaktifkan
func (s *PaymentService) IsPaymentEnabled(ctx context.Context, businessID uuid.UUID) bool {
	if s.gateway == nil {
		return false
	}
	settings, err := s.paymentRepo.GetSettings(ctx, businessID)
	if err != nil {
		log.Error().Err(err).Str("business_id", businessID.String()).Msg("❌ Failed to load payment settings")
		return false
	}
	if settings == nil || !settings.Enabled || settings.AccountID == "" {
		return false
	}

	// Capability bisa dicabut gateway setelah diaktifkan
	gctx, cancel := context.WithTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()
	ready, err := s.gateway.ChargesEnabled(gctx, settings.AccountID)
	if err != nil {
		log.Warn().Err(err).Str("business_id", businessID.String()).Msg("⚠️ Failed to check payment account capability")
		return false
	}
	return ready
}

// SetPaymentEnabled mengubah flag pembayaran. Mengaktifkan butuh account yang
// sudah bisa menerima charge di gateway.
func (s *PaymentService) SetPaymentEnabled(ctx context.Context, businessID uuid.UUID, enabled bool) error {
	settings, err := s.paymentRepo.GetSettings(ctx, businessID)
	if err != nil {
		return fmt.Errorf("failed to load payment settings: %w", err)
	}
	if settings == nil || settings.AccountID == "" {
		return payment.ErrPaymentNotConfigured
	}

	if enabled {
		if s.gateway == nil {
			return payment.ErrPaymentNotConfigured
		}
		gctx, cancel := context.WithTimeout(ctx, s.cfg.GatewayTimeout)
		defer cancel()

		ready, err := s.gateway.ChargesEnabled(gctx, settings.AccountID)
		if err != nil {
			return fmt.Errorf("failed to check merchant account: %w", err)
		}
		if !ready {
			return ErrAccountNotReady
		}
	}

	if _, err := s.paymentRepo.SetEnabled(ctx, businessID, enabled); err != nil {
		return fmt.Errorf("failed to update payment settings: %w", err)
	}
	log.Info().Str("business_id", businessID.String()).Bool("enabled", enabled).Msg("⚙️ Payment settings updated")
	return nil
}

// ExpireStalePayments menandai checkout pending yang sudah lewat expires_at sebagai failed
func (s *PaymentService) ExpireStalePayments(ctx context.Context) (int64, error) {
	n, err := s.paymentRepo.ExpireStale(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to expire payments: %w", err)
	}
	if n > 0 {
		log.Info().Int64("count", n).Msg("⌛ Stale checkout sessions expired")
	}
	return n, nil
}

func (s *PaymentService) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return order, nil
}

func (s *PaymentService) language(ctx context.Context, businessID uuid.UUID) string {
	settings, err := s.kbRepo.GetAISettings(ctx, businessID)
	if err != nil || settings == nil {
		return ""
	}
	return settings.Language
}
