package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/core/payment"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePaymentSession(t *testing.T) {
	env := newTestEnv(t)
	env.enablePayments(t)
	ctx := context.Background()
	order := env.newPendingOrder(t, env.newCustomer(t, "15550001111"), "15550001111")

	url, err := env.payments.CreatePaymentSession(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/pay/cs_test_1", url)

	checkouts := env.gateway.Checkouts()
	require.Len(t, checkouts, 1)
	req := checkouts[0]
	assert.Equal(t, "acct_connected", req.AccountID)
	assert.Equal(t, "usd", req.Currency)
	require.Len(t, req.Items, 1)
	assert.Equal(t, "Widget", req.Items[0].Name)
	assert.Equal(t, 2, req.Items[0].Quantity)
	assert.Equal(t, order.ID.String(), req.Metadata[payment.MetaOrderID])
	assert.Equal(t, env.business.ID.String(), req.Metadata[payment.MetaBusinessID])
	assert.Equal(t, "https://app.example/payment/success?order_id="+order.ID.String(), req.SuccessURL)

	txn, err := env.paymentRepo.GetBySessionID(ctx, "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, txn.Status)
	assert.True(t, order.TotalAmount.Equal(txn.Amount))

	// open checkout is reused
	again, err := env.payments.CreatePaymentSession(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, url, again)
	assert.Len(t, env.gateway.Checkouts(), 1)
}

func TestCreatePaymentSession_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.newPendingOrder(t, env.newCustomer(t, "15550001111"), "")

	_, err := env.payments.CreatePaymentSession(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = env.payments.CreatePaymentSession(ctx, order.ID)
	assert.ErrorIs(t, err, payment.ErrPaymentNotConfigured, "no merchant account yet")

	require.NoError(t, env.paymentRepo.UpsertAccount(ctx, env.business.ID, "acct_x"))
	_, err = env.payments.CreatePaymentSession(ctx, order.ID)
	assert.ErrorIs(t, err, payment.ErrPaymentNotConfigured, "account not enabled yet")

	require.NoError(t, env.payments.SetPaymentEnabled(ctx, env.business.ID, true))
	require.NoError(t, env.orders.CancelOrder(ctx, order.ID))
	_, err = env.payments.CreatePaymentSession(ctx, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotPending)

	unconfigured := NewPaymentService(nil, env.paymentRepo, env.orderRepo, env.customerRepo, nil, env.kbRepo, env.messages, PaymentConfig{})
	_, err = unconfigured.CreatePaymentSession(ctx, order.ID)
	assert.ErrorIs(t, err, payment.ErrPaymentNotConfigured)
	assert.False(t, unconfigured.IsPaymentEnabled(ctx, env.business.ID))
}

func TestDeliverPaymentLink_EmptyAddressIsNoop(t *testing.T) {
	env := newTestEnv(t)
	env.enablePayments(t)
	order := env.newPendingOrder(t, env.newCustomer(t, "15550001111"), "")

	require.NoError(t, env.payments.DeliverPaymentLink(context.Background(), order.ID, "", env.business.ID))

	assert.Len(t, env.gateway.Checkouts(), 1)
	assert.Empty(t, env.messenger.Sent())
	assert.Zero(t, env.countMessages(t, models.DirectionOutgoing))
}

func TestDeliverPaymentLink_SendsLocalizedMessage(t *testing.T) {
	env := newTestEnv(t)
	env.enablePayments(t)
	env.enableAI(t, "ar")
	order := env.newPendingOrder(t, env.newCustomer(t, "15550001111"), "15550001111")

	require.NoError(t, env.payments.DeliverPaymentLink(context.Background(), order.ID, "15550001111", env.business.ID))

	sent := env.messenger.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Text, "شكراً لطلبك")
	assert.Contains(t, sent[0].Text, "https://checkout.example/pay/")
	assert.NotContains(t, sent[0].Text, "Thank you")
	assert.Equal(t, int64(1), env.countMessages(t, models.DirectionOutgoing))

	err := env.payments.DeliverPaymentLink(context.Background(), order.ID, "15550001111", uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound, "order of another business")
}

func seedCheckout(t *testing.T, env *testEnv) (*models.Order, string) {
	t.Helper()
	env.enablePayments(t)
	customer := env.newCustomer(t, "15550003333")
	order := env.newPendingOrder(t, customer, "")
	_, err := env.payments.CreatePaymentSession(context.Background(), order.ID)
	require.NoError(t, err)
	checkouts := env.gateway.Checkouts()
	require.NotEmpty(t, checkouts)
	return order, "cs_test_1"
}

func TestHandleGatewayWebhook_CompletedConfirmsOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order, sessionID := seedCheckout(t, env)

	err := env.payments.HandleGatewayWebhook(ctx, webhookPayload(t, payment.EventCheckoutCompleted, sessionID), validSignature)
	require.NoError(t, err)

	updated, err := env.orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, updated.Status)
	assert.NotNil(t, updated.PaidAt)

	txn, err := env.paymentRepo.GetBySessionID(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, txn.Status)
	assert.Equal(t, "pi_123", txn.PaymentIntentID)

	sent := env.messenger.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "15550003333", sent[0].Address, "confirmation goes to the customer's chat")
	assert.Contains(t, sent[0].Text, order.ID.String())
	assert.Contains(t, sent[0].Text, "200.00 USD")
}

func TestHandleGatewayWebhook_ReplayIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, sessionID := seedCheckout(t, env)
	payload := webhookPayload(t, payment.EventCheckoutCompleted, sessionID)

	require.NoError(t, env.payments.HandleGatewayWebhook(ctx, payload, validSignature))
	require.NoError(t, env.payments.HandleGatewayWebhook(ctx, payload, validSignature))

	assert.Len(t, env.messenger.Sent(), 1)
	assert.Equal(t, int64(1), env.countMessages(t, models.DirectionOutgoing))
}

func TestHandleGatewayWebhook_ConcurrentDeliveries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order, sessionID := seedCheckout(t, env)
	payload := webhookPayload(t, payment.EventCheckoutCompleted, sessionID)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, env.payments.HandleGatewayWebhook(ctx, payload, validSignature))
		}()
	}
	wg.Wait()

	assert.Len(t, env.messenger.Sent(), 1)
	updated, err := env.orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, updated.Status)
}

func TestHandleGatewayWebhook_CancelledOrderStaysCancelled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order, sessionID := seedCheckout(t, env)

	require.NoError(t, env.orders.CancelOrder(ctx, order.ID))

	txn, err := env.paymentRepo.GetBySessionID(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, txn.Status, "cancel closes the open checkout")

	err = env.payments.HandleGatewayWebhook(ctx, webhookPayload(t, payment.EventCheckoutCompleted, sessionID), validSignature)
	require.NoError(t, err)

	updated, err := env.orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)
	assert.Nil(t, updated.PaidAt)
	assert.Empty(t, env.messenger.Sent())
}

func TestHandleGatewayWebhook_NonPendingOrderNotConfirmed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order, sessionID := seedCheckout(t, env)

	// order keluar dari pending tanpa menutup checkout
	require.NoError(t, env.db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", models.OrderStatusFailed).Error)

	err := env.payments.HandleGatewayWebhook(ctx, webhookPayload(t, payment.EventCheckoutCompleted, sessionID), validSignature)
	require.NoError(t, err)

	updated, err := env.orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusFailed, updated.Status)

	txn, err := env.paymentRepo.GetBySessionID(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, txn.Status, "captured money is still recorded")
	assert.Empty(t, env.messenger.Sent())
}

func TestHandleGatewayWebhook_InvalidSignatureMutatesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order, sessionID := seedCheckout(t, env)

	err := env.payments.HandleGatewayWebhook(ctx, webhookPayload(t, payment.EventCheckoutCompleted, sessionID), "t=1,v1=forged")
	require.ErrorIs(t, err, ErrInvalidWebhook)
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)

	updated, err := env.orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, updated.Status)

	txn, err := env.paymentRepo.GetBySessionID(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, txn.Status)
	assert.Empty(t, env.messenger.Sent())
}

func TestHandleGatewayWebhook_ExpiredAndUnknown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order, sessionID := seedCheckout(t, env)

	require.NoError(t, env.payments.HandleGatewayWebhook(ctx, webhookPayload(t, payment.EventCheckoutCompleted, "cs_unknown"), validSignature))
	require.NoError(t, env.payments.HandleGatewayWebhook(ctx, webhookPayload(t, "customer.created", ""), validSignature))
	require.NoError(t, env.payments.HandleGatewayWebhook(ctx, webhookPayload(t, payment.EventCheckoutExpired, sessionID), validSignature))

	txn, err := env.paymentRepo.GetBySessionID(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, txn.Status)

	updated, err := env.orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, updated.Status, "order is left for a new checkout")

	// a late completion for a failed session is ignored
	require.NoError(t, env.payments.HandleGatewayWebhook(ctx, webhookPayload(t, payment.EventCheckoutCompleted, sessionID), validSignature))
	assert.Empty(t, env.messenger.Sent())
}

func TestCreateMerchantAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	link, err := env.payments.CreateMerchantAccount(ctx, env.business.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://connect.example/onboard/acct_1", link)

	settings, err := env.paymentRepo.GetSettings(ctx, env.business.ID)
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, "acct_1", settings.AccountID)
	assert.False(t, settings.Enabled)
	assert.False(t, env.payments.IsPaymentEnabled(ctx, env.business.ID))

	// onboarding again reuses the account
	link, err = env.payments.CreateMerchantAccount(ctx, env.business.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(link, "acct_1"))

	_, err = env.payments.CreateMerchantAccount(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestSetPaymentEnabled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.payments.SetPaymentEnabled(ctx, env.business.ID, true)
	assert.ErrorIs(t, err, payment.ErrPaymentNotConfigured)

	require.NoError(t, env.paymentRepo.UpsertAccount(ctx, env.business.ID, "acct_x"))

	env.gateway.mu.Lock()
	env.gateway.chargesEnabled = false
	env.gateway.mu.Unlock()
	err = env.payments.SetPaymentEnabled(ctx, env.business.ID, true)
	assert.ErrorIs(t, err, ErrAccountNotReady)
	assert.False(t, env.payments.IsPaymentEnabled(ctx, env.business.ID))

	env.gateway.mu.Lock()
	env.gateway.chargesEnabled = true
	env.gateway.mu.Unlock()
	require.NoError(t, env.payments.SetPaymentEnabled(ctx, env.business.ID, true))
	assert.True(t, env.payments.IsPaymentEnabled(ctx, env.business.ID))

	// capability revoked at the gateway after enabling
	env.gateway.mu.Lock()
	env.gateway.chargesEnabled = false
	env.gateway.mu.Unlock()
	assert.False(t, env.payments.IsPaymentEnabled(ctx, env.business.ID))

	env.gateway.mu.Lock()
	env.gateway.chargesEnabled = true
	env.gateway.mu.Unlock()
	require.NoError(t, env.payments.SetPaymentEnabled(ctx, env.business.ID, false))
	assert.False(t, env.payments.IsPaymentEnabled(ctx, env.business.ID))
}

func TestExpireStalePayments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, sessionID := seedCheckout(t, env)

	n, err := env.payments.ExpireStalePayments(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	env.payments.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
	n, err = env.payments.ExpireStalePayments(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	txn, err := env.paymentRepo.GetBySessionID(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, txn.Status)
}
