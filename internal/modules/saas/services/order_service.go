package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/core/llm"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/repositories"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentLinker adalah bagian PaymentService yang dipakai OrderService
type PaymentLinker interface {
	IsPaymentEnabled(ctx context.Context, businessID uuid.UUID) bool
	DeliverPaymentLink(ctx context.Context, orderID uuid.UUID, address string, businessID uuid.UUID) error
}

// OrderService mengirim jawaban AI dan membuat order dari intent pembelian
type OrderService struct {
	orderRepo repositories.OrderRepo
	catalog   *ProductService
	messages  *MessageService
	payments  PaymentLinker
	currency  string
}

func NewOrderService(
	orderRepo repositories.OrderRepo,
	catalog *ProductService,
	messages *MessageService,
	payments PaymentLinker,
	currency string,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		catalog:   catalog,
		messages:  messages,
		payments:  payments,
		currency:  currency,
	}
}

// Resolve mengirim reply ke customer lalu, kalau intent order, membuat order pending
// dan menyerahkan ke payment. Reply yang gagal terkirim tidak dicatat dan tidak membuat order.
func (s *OrderService) Resolve(ctx context.Context, customer *models.Customer, result llm.Result) error {
	isAI := result.Kind != llm.Fallback
	if err := s.messages.SendAndRecord(ctx, customer.BusinessID, customer.ID, customer.Phone, result.Reply, isAI); err != nil {
		return fmt.Errorf("failed to deliver reply: %w", err)
	}

	if !result.HasOrder() {
		return nil
	}

	order, err := s.CreateOrder(ctx, customer, result.OrderData)
	if err != nil {
		return err
	}

	if !s.payments.IsPaymentEnabled(ctx, customer.BusinessID) {
		log.Info().Str("order_id", order.ID.String()).Msg("📝 Payment disabled, order stays pending")
		return nil
	}

	if err := s.payments.DeliverPaymentLink(ctx, order.ID, order.ContactPhone, customer.BusinessID); err != nil {
		return fmt.Errorf("failed to deliver payment link for order %s: %w", order.ID, err)
	}
	return nil
}

// CreateOrder membuat order pending dengan satu line item dari data pesanan AI
func (s *OrderService) CreateOrder(ctx context.Context, customer *models.Customer, data *llm.OrderData) (*models.Order, error) {
	product := strings.TrimSpace(data.Product)
	quantity := data.Quantity
	if quantity < 1 {
		quantity = 1
	}

	unitPrice, err := s.catalog.UnitPrice(ctx, customer.BusinessID, product)
	if err != nil {
		return nil, err
	}
	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))

	order := &models.Order{
		BusinessID: customer.BusinessID,
		CustomerID: customer.ID,
		Status:     models.OrderStatusPending,
		Items: datatypes.JSONSlice[models.OrderItem]{{
			Product:   product,
			Quantity:  quantity,
			UnitPrice: unitPrice,
			Subtotal:  subtotal,
		}},
		TotalAmount:     subtotal,
		Currency:        s.currency,
		DeliveryAddress: strings.TrimSpace(data.Address),
		ContactPhone:    normalizePhone(data.Phone),
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	log.Info().
		Str("order_id", order.ID.String()).
		Str("product", product).
		Int("quantity", quantity).
		Str("total", order.TotalAmount.StringFixed(2)).
		Msg("🛒 Order created")
	return order, nil
}

// CancelOrder membatalkan order yang masih pending
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) error {
	cancelled, err := s.orderRepo.Cancel(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	if cancelled {
		log.Info().Str("order_id", orderID.String()).Msg("🚫 Order cancelled")
		return nil
	}

	if _, err := s.orderRepo.GetByID(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to load order: %w", err)
	}
	return ErrOrderNotPending
}

// GetOrder return order by id
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// normalizePhone menyisakan digit saja ("+1 555-1234" -> "15551234")
func normalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}
