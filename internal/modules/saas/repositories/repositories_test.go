package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/shared/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	return testutil.NewDB(t, models.All()...)
}

func TestCustomerRepo_FindOrCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepo(newTestDB(t))
	businessID := uuid.New()

	first, err := repo.FindOrCreate(ctx, businessID, "15550001111", "Ana")
	require.NoError(t, err)
	second, err := repo.FindOrCreate(ctx, businessID, "15550001111", "Another Name")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ana", second.Name)
	assert.Equal(t, models.CustomerSourceWhatsApp, second.Source)

	other, err := repo.FindOrCreate(ctx, uuid.New(), "15550001111", "Ana")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID, "same phone under another business is a different customer")
}

func TestCustomerRepo_FindOrCreateConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepo(newTestDB(t))
	businessID := uuid.New()

	var wg sync.WaitGroup
	ids := make([]uuid.UUID, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := repo.FindOrCreate(ctx, businessID, "15550002222", "")
			if assert.NoError(t, err) {
				ids[i] = c.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestMessageRepo_RecentOrderingAndExclusion(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepo(newTestDB(t))
	businessID, customerID := uuid.New(), uuid.New()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	var last int64
	for i, content := range []string{"one", "two", "three", "four"} {
		msg := &models.Message{
			BusinessID:    businessID,
			CustomerID:    customerID,
			CustomerPhone: "1555",
			Direction:     models.DirectionIncoming,
			Content:       content,
			Platform:      models.PlatformWhatsApp,
			Timestamp:     base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Create(ctx, msg))
		last = msg.ID
	}

	got, err := repo.Recent(ctx, businessID, customerID, last, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "three", got[0].Content)
	assert.Equal(t, "two", got[1].Content)

	count, err := repo.CountByCustomer(ctx, businessID, customerID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)
}

func TestMessageRepo_LatestPerCustomerIsScopedToBusiness(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepo(newTestDB(t))
	businessID, other := uuid.New(), uuid.New()
	ana, ben := uuid.New(), uuid.New()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	add := func(business, customer uuid.UUID, content string, offset time.Duration) {
		require.NoError(t, repo.Create(ctx, &models.Message{
			BusinessID: business, CustomerID: customer, CustomerPhone: "1",
			Direction: models.DirectionIncoming, Content: content,
			Platform: models.PlatformWhatsApp, Timestamp: base.Add(offset),
		}))
	}
	add(businessID, ana, "ana old", 0)
	add(businessID, ben, "ben only", time.Minute)
	add(businessID, ana, "ana new", 2*time.Minute)
	add(other, uuid.New(), "elsewhere", 3*time.Minute)

	got, err := repo.LatestPerCustomer(ctx, businessID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ana new", got[0].Content)
	assert.Equal(t, "ben only", got[1].Content)

	page, err := repo.ListByCustomer(ctx, ana, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "ana old", page[0].Content)
}

func TestMessageRepo_SameTimestampFallsBackToID(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepo(newTestDB(t))
	businessID, customerID := uuid.New(), uuid.New()
	ts := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for _, content := range []string{"a", "b"} {
		require.NoError(t, repo.Create(ctx, &models.Message{
			BusinessID: businessID, CustomerID: customerID, CustomerPhone: "1",
			Direction: models.DirectionIncoming, Content: content,
			Platform: models.PlatformWhatsApp, Timestamp: ts,
		}))
	}

	got, err := repo.Recent(ctx, businessID, customerID, 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Content)
}

func TestKBRepo_MissingSettingsIsNil(t *testing.T) {
	ctx := context.Background()
	repo := NewKBRepo(newTestDB(t))
	businessID := uuid.New()

	settings, err := repo.GetAISettings(ctx, businessID)
	require.NoError(t, err)
	assert.Nil(t, settings)

	require.NoError(t, repo.Create(ctx, &models.KnowledgeEntry{BusinessID: businessID, Question: "Hours?", Answer: "9-5", IsActive: true}))
	require.NoError(t, repo.Create(ctx, &models.KnowledgeEntry{BusinessID: businessID, Question: "Old?", Answer: "x", IsActive: false}))

	entries, err := repo.ListActive(ctx, businessID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Hours?", entries[0].Question)
}

func TestProductRepo_FindByNameIgnoresCase(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepo(newTestDB(t))
	businessID := uuid.New()

	require.NoError(t, repo.Create(ctx, &models.Product{
		BusinessID: businessID, Name: "Chocolate Cake", Price: decimal.RequireFromString("12.50"), IsActive: true,
	}))

	p, err := repo.FindByName(ctx, businessID, "  chocolate cake ")
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("12.5")))

	_, err = repo.FindByName(ctx, businessID, "vanilla")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func seedPendingPayment(t *testing.T, db *gorm.DB, sessionID string, expiresAt time.Time) (*models.Order, *models.PaymentTransaction) {
	t.Helper()
	ctx := context.Background()

	order := &models.Order{
		BusinessID:  uuid.New(),
		CustomerID:  uuid.New(),
		Status:      models.OrderStatusPending,
		Items:       []models.OrderItem{{Product: "cake", Quantity: 2, UnitPrice: decimal.NewFromInt(100), Subtotal: decimal.NewFromInt(200)}},
		TotalAmount: decimal.NewFromInt(200),
		Currency:    "usd",
	}
	require.NoError(t, NewOrderRepo(db).Create(ctx, order))

	txn := &models.PaymentTransaction{
		OrderID:    order.ID,
		BusinessID: order.BusinessID,
		SessionID:  sessionID,
		Amount:     order.TotalAmount,
		Currency:   "usd",
		Status:     models.PaymentStatusPending,
		ExpiresAt:  &expiresAt,
	}
	require.NoError(t, NewPaymentRepo(db).CreateTransaction(ctx, txn))
	return order, txn
}

func TestPaymentRepo_CompleteSessionOnlyOnce(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPaymentRepo(db)
	order, _ := seedPendingPayment(t, db, "cs_test_1", time.Now().UTC().Add(time.Hour))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			completed, err := repo.CompleteSession(ctx, "cs_test_1", "pi_1", time.Now().UTC())
			if assert.NoError(t, err) && completed != nil {
				assert.True(t, completed.OrderConfirmed)
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)

	got, err := NewOrderRepo(db).GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, got.Status)
	assert.NotNil(t, got.PaidAt)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)

	txn, err := repo.GetBySessionID(ctx, "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, txn.Status)
	assert.Equal(t, "pi_1", txn.PaymentIntentID)
}

func TestPaymentRepo_FailSessionLeavesOrder(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPaymentRepo(db)
	order, _ := seedPendingPayment(t, db, "cs_test_2", time.Now().UTC().Add(time.Hour))

	ok, err := repo.FailSession(ctx, "cs_test_2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.FailSession(ctx, "cs_test_2")
	require.NoError(t, err)
	assert.False(t, ok)

	completed, err := repo.CompleteSession(ctx, "cs_test_2", "pi", time.Now().UTC())
	require.NoError(t, err)
	assert.Nil(t, completed, "failed transactions never complete")

	got, err := NewOrderRepo(db).GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, got.Status)
}

func TestPaymentRepo_CompleteSessionKeepsCancelledOrder(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPaymentRepo(db)
	order, _ := seedPendingPayment(t, db, "cs_test_3", time.Now().UTC().Add(time.Hour))

	// order dibatalkan tanpa lewat OrderRepo.Cancel, transaksi masih pending
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", models.OrderStatusCancelled).Error)

	completed, err := repo.CompleteSession(ctx, "cs_test_3", "pi_3", time.Now().UTC())
	require.NoError(t, err)
	require.NotNil(t, completed)
	assert.False(t, completed.OrderConfirmed)
	assert.Equal(t, order.ID, completed.Transaction.OrderID)

	got, err := NewOrderRepo(db).GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, got.Status)
	assert.Nil(t, got.PaidAt)
}

func TestOrderRepo_CancelFailsOpenCheckouts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	orders := NewOrderRepo(db)
	payments := NewPaymentRepo(db)
	order, _ := seedPendingPayment(t, db, "cs_test_4", time.Now().UTC().Add(time.Hour))

	ok, err := orders.Cancel(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	txn, err := payments.GetBySessionID(ctx, "cs_test_4")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, txn.Status)

	completed, err := payments.CompleteSession(ctx, "cs_test_4", "pi_4", time.Now().UTC())
	require.NoError(t, err)
	assert.Nil(t, completed)

	ok, err = orders.Cancel(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, ok, "already cancelled")
}

func TestPaymentRepo_ExpireStale(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPaymentRepo(db)
	now := time.Now().UTC()
	seedPendingPayment(t, db, "cs_old", now.Add(-time.Minute))
	seedPendingPayment(t, db, "cs_new", now.Add(time.Hour))

	n, err := repo.ExpireStale(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	old, err := repo.GetBySessionID(ctx, "cs_old")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, old.Status)
}

func TestPaymentRepo_SettingsDefaultDisabled(t *testing.T) {
	ctx := context.Background()
	repo := NewPaymentRepo(newTestDB(t))
	businessID := uuid.New()

	settings, err := repo.GetSettings(ctx, businessID)
	require.NoError(t, err)
	assert.Nil(t, settings)

	require.NoError(t, repo.UpsertAccount(ctx, businessID, "acct_1"))
	settings, err = repo.GetSettings(ctx, businessID)
	require.NoError(t, err)
	assert.False(t, settings.Enabled)

	ok, err := repo.SetEnabled(ctx, businessID, true)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.UpsertAccount(ctx, businessID, "acct_2"))
	settings, err = repo.GetSettings(ctx, businessID)
	require.NoError(t, err)
	assert.Equal(t, "acct_2", settings.AccountID)
	assert.True(t, settings.Enabled, "re-onboarding keeps the enabled flag")
}

func TestConnectionRepo_MarkConnectedThenStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewConnectionRepo(newTestDB(t))
	businessID := uuid.New()

	jid, err := repo.DeviceJID(ctx, businessID.String())
	require.NoError(t, err)
	assert.Empty(t, jid)

	require.NoError(t, repo.MarkStatus(ctx, businessID.String(), models.ConnectionStatusPairing))
	require.NoError(t, repo.MarkConnected(ctx, businessID.String(), "15550009999", "15550009999:3@s.whatsapp.net", time.Now().UTC()))
	require.NoError(t, repo.MarkStatus(ctx, businessID.String(), models.ConnectionStatusDisconnected))

	conn, err := repo.Get(ctx, businessID)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusDisconnected, conn.Status)
	assert.Equal(t, "15550009999", conn.PhoneNumber)
	assert.NotNil(t, conn.LastConnected)

	jid, err = repo.DeviceJID(ctx, businessID.String())
	require.NoError(t, err)
	assert.Equal(t, "15550009999:3@s.whatsapp.net", jid)

	assert.Error(t, repo.MarkStatus(ctx, "not-a-uuid", models.ConnectionStatusPairing))
}

func TestConnectionRepo_ListResumable(t *testing.T) {
	ctx := context.Background()
	repo := NewConnectionRepo(newTestDB(t))
	live, stopped, pairing := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, repo.MarkConnected(ctx, live.String(), "1555", "1555:1@s.whatsapp.net", time.Now().UTC()))
	require.NoError(t, repo.MarkConnected(ctx, stopped.String(), "1556", "1556:1@s.whatsapp.net", time.Now().UTC()))
	require.NoError(t, repo.MarkStatus(ctx, stopped.String(), models.ConnectionStatusDisconnected))
	require.NoError(t, repo.MarkStatus(ctx, pairing.String(), models.ConnectionStatusPairing))

	ids, err := repo.ListResumable(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{live.String()}, ids)
}
