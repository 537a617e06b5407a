package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/core/llm"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/core/payment"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/repositories"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/shared/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentMessage struct {
	BusinessID string
	Address    string
	Text       string
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (m *fakeMessenger) Send(ctx context.Context, businessID, address, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{BusinessID: businessID, Address: address, Text: text})
	return nil
}

func (m *fakeMessenger) Sent() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMessage(nil), m.sent...)
}

func (m *fakeMessenger) fail(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// fakeProvider implements llm.LLMProvider
type fakeProvider struct {
	mu       sync.Mutex
	reply    string
	err      error
	delay    time.Duration
	requests []llm.CompletionRequest
}

func (p *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	reply, err, delay := p.reply, p.err, p.delay
	p.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return reply, err
}

func (p *fakeProvider) GetProviderName() string { return "fake" }

func (p *fakeProvider) Requests() []llm.CompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]llm.CompletionRequest(nil), p.requests...)
}

const validSignature = "t=1,v1=valid"

// fakeGateway implements payment.Gateway. Webhook payloads are JSON encoded
// payment.WebhookEvent values signed with validSignature.
type fakeGateway struct {
	mu             sync.Mutex
	seq            int
	checkouts      []payment.CheckoutRequest
	accounts       []string
	chargesEnabled bool
	checkoutErr    error
}

func (g *fakeGateway) CreateAccount(ctx context.Context, email string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	id := fmt.Sprintf("acct_%d", g.seq)
	g.accounts = append(g.accounts, id)
	return id, nil
}

func (g *fakeGateway) CreateOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	return "https://connect.example/onboard/" + accountID, nil
}

func (g *fakeGateway) ChargesEnabled(ctx context.Context, accountID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.chargesEnabled, nil
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.checkoutErr != nil {
		return nil, g.checkoutErr
	}
	g.seq++
	g.checkouts = append(g.checkouts, req)
	id := fmt.Sprintf("cs_test_%d", g.seq)
	return &payment.CheckoutSession{
		ID:        id,
		URL:       "https://checkout.example/pay/" + id,
		ExpiresAt: req.ExpiresAt,
	}, nil
}

func (g *fakeGateway) ParseWebhook(payload []byte, signature string) (*payment.WebhookEvent, error) {
	if signature != validSignature {
		return nil, payment.ErrInvalidSignature
	}
	var evt payment.WebhookEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, err
	}
	return &evt, nil
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) Checkouts() []payment.CheckoutRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]payment.CheckoutRequest(nil), g.checkouts...)
}

type testEnv struct {
	db        *gorm.DB
	messenger *fakeMessenger
	provider  *fakeProvider
	gateway   *fakeGateway
	business  *models.Business

	customerRepo repositories.CustomerRepo
	messageRepo  repositories.MessageRepo
	kbRepo       repositories.KBRepo
	orderRepo    repositories.OrderRepo
	paymentRepo  repositories.PaymentRepo
	productRepo  repositories.ProductRepo

	messages *MessageService
	catalog  *ProductService
	payments *PaymentService
	orders   *OrderService
	ingest   *IngestionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t, models.All()...)

	env := &testEnv{
		db:           db,
		messenger:    &fakeMessenger{},
		provider:     &fakeProvider{reply: `{"reply":"Hello!","intent":"question"}`},
		gateway:      &fakeGateway{chargesEnabled: true},
		customerRepo: repositories.NewCustomerRepo(db),
		messageRepo:  repositories.NewMessageRepo(db),
		kbRepo:       repositories.NewKBRepo(db),
		orderRepo:    repositories.NewOrderRepo(db),
		paymentRepo:  repositories.NewPaymentRepo(db),
		productRepo:  repositories.NewProductRepo(db),
	}
	businessRepo := repositories.NewBusinessRepo(db)

	env.business = &models.Business{Name: "Widget Shop", OwnerEmail: "owner@example.com"}
	require.NoError(t, businessRepo.Create(context.Background(), env.business))

	env.messages = NewMessageService(env.messenger, env.messageRepo)
	env.catalog = NewProductService(env.productRepo, decimal.NewFromInt(100))
	env.payments = NewPaymentService(env.gateway, env.paymentRepo, env.orderRepo, env.customerRepo,
		businessRepo, env.kbRepo, env.messages, PaymentConfig{
			Currency:       "usd",
			FrontendURL:    "https://app.example",
			GatewayTimeout: time.Second,
			CheckoutExpiry: time.Hour,
		})
	env.orders = NewOrderService(env.orderRepo, env.catalog, env.messages, env.payments, "usd")
	builder := NewContextBuilder(businessRepo, env.kbRepo, env.messageRepo)
	ai := llm.NewService(env.provider, 200*time.Millisecond, 500)
	env.ingest = NewIngestionService(env.customerRepo, env.kbRepo, env.messages, builder, ai, env.orders)
	return env
}

func (e *testEnv) enableAI(t *testing.T, language string) {
	t.Helper()
	require.NoError(t, e.kbRepo.SaveAISettings(context.Background(), &models.AISettings{
		BusinessID: e.business.ID,
		Enabled:    true,
		Language:   language,
	}))
}

func (e *testEnv) enablePayments(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.paymentRepo.UpsertAccount(ctx, e.business.ID, "acct_connected"))
	require.NoError(t, e.payments.SetPaymentEnabled(ctx, e.business.ID, true))
}

func (e *testEnv) countMessages(t *testing.T, direction string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.Message{}).
		Where("business_id = ? AND direction = ?", e.business.ID, direction).
		Count(&n).Error)
	return n
}

func (e *testEnv) allOrders(t *testing.T) []models.Order {
	t.Helper()
	var orders []models.Order
	require.NoError(t, e.db.Where("business_id = ?", e.business.ID).Find(&orders).Error)
	return orders
}

func (e *testEnv) newCustomer(t *testing.T, phone string) *models.Customer {
	t.Helper()
	c, err := e.customerRepo.FindOrCreate(context.Background(), e.business.ID, phone, "Test")
	require.NoError(t, err)
	return c
}

func (e *testEnv) newPendingOrder(t *testing.T, customer *models.Customer, contact string) *models.Order {
	t.Helper()
	order, err := e.orders.CreateOrder(context.Background(), customer, &llm.OrderData{
		Product:  "Widget",
		Quantity: 2,
		Phone:    contact,
	})
	require.NoError(t, err)
	return order
}

func webhookPayload(t *testing.T, eventType, sessionID string) []byte {
	t.Helper()
	payload, err := json.Marshal(payment.WebhookEvent{
		ID:              "evt_" + uuid.NewString(),
		Type:            eventType,
		SessionID:       sessionID,
		PaymentIntentID: "pi_123",
	})
	require.NoError(t, err)
	return payload
}

var errSendFailed = errors.New("send failed")
