package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/vrindacare/pharmacy-api/models"
)

// TaxRate is the flat GST rate applied to the cart subtotal at checkout.
// Shipping is always free.
const TaxRate = 0.18

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// CheckoutInput is the shipping/payment form accompanying a checkout.
type CheckoutInput struct {
	Name            string
	Email           string
	Address         string
	City            string
	Phone           string
	PaymentMethod   string // "cod" or "online"
	OnlineSubMethod string // "upi", "card" or "netbanking"
	UPIPaymentType  string // "id" or "qr", only meaningful for upi
}

// CheckoutResult carries the persisted order together with the derived
// amounts shown on the confirmation screen. Tax and grand total are computed
// values; only the subtotal is recorded on the order itself.
type CheckoutResult struct {
	Order      models.Order `json:"order"`
	Subtotal   float64      `json:"subtotal"`
	Tax        float64      `json:"tax"`
	GrandTotal float64      `json:"grandTotal"`
	Duplicate  bool         `json:"-"` // true when an idempotency replay returned an existing order
}

// CheckoutService turns a cart plus a shipping/payment form into a persisted
// order. The order write happens before the simulated gateway delay, and the
// cart is cleared as soon as the write succeeds.
type CheckoutService struct {
	db          *gorm.DB
	carts       *CartService
	codDelay    time.Duration
	onlineDelay time.Duration
}

func NewCheckoutService(db *gorm.DB, carts *CartService, codDelay, onlineDelay time.Duration) *CheckoutService {
	return &CheckoutService{
		db:          db,
		carts:       carts,
		codDelay:    codDelay,
		onlineDelay: onlineDelay,
	}
}

// Checkout places an order for the customer's current cart. A repeated call
// with the same idempotency key returns the already-created order and
// performs no second write, guarding against duplicate submissions.
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput, idempotencyKey string) (*CheckoutResult, error) {
	paymentLabel, err := resolvePaymentLabel(input)
	if err != nil {
		return nil, err
	}

	if existing, err := s.findByIdempotencyKey(ctx, idempotencyKey); err != nil {
		return nil, err
	} else if existing != nil {
		return s.result(existing, true), nil
	}

	cart, err := s.carts.GetCart(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, models.OrderItem{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
		})
	}

	order := models.Order{
		OrderID:         NewOrderID(),
		Customer:        input.Name,
		CustomerEmail:   input.Email,
		Items:           items,
		Total:           cart.Total,
		Status:          models.OrderStatusProcessing,
		Date:            time.Now(),
		PaymentMethod:   paymentLabel,
		ShippingAddress: fmt.Sprintf("%s, %s", input.Address, input.City),
		IdempotencyKey:  idempotencyKey,
	}

	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		// A concurrent submission with the same key lost the race to us or
		// we lost it to them; either way the existing order is the answer.
		if existing, lookupErr := s.findByIdempotencyKey(ctx, idempotencyKey); lookupErr == nil && existing != nil {
			return s.result(existing, true), nil
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// The cart empties the moment the order is recorded, before the
	// simulated payment delay completes.
	if _, err := s.carts.ClearCart(ctx, input.Email); err != nil {
		log.Printf("failed to clear cart after checkout %s: %v", order.OrderID, err)
	}

	if err := s.simulateProcessing(ctx, input.PaymentMethod); err != nil {
		return nil, err
	}

	return s.result(&order, false), nil
}

// ProcessingDelay returns the simulated gateway latency for a payment method.
// The method is matched case-insensitively, like resolvePaymentLabel.
func (s *CheckoutService) ProcessingDelay(paymentMethod string) time.Duration {
	if strings.EqualFold(paymentMethod, "online") {
		return s.onlineDelay
	}
	return s.codDelay
}

// simulateProcessing models the payment-gateway round trip. The order is
// already persisted at this point; cancellation abandons only the wait.
func (s *CheckoutService) simulateProcessing(ctx context.Context, paymentMethod string) error {
	delay := s.ProcessingDelay(paymentMethod)
	if delay <= 0 {
		return nil
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *CheckoutService) findByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	if key == "" {
		return nil, nil
	}
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").Where("idempotency_key = ?", key).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up idempotency key: %w", err)
	}
	return &order, nil
}

func (s *CheckoutService) result(order *models.Order, duplicate bool) *CheckoutResult {
	tax := RoundRupees(order.Total * TaxRate)
	return &CheckoutResult{
		Order:      *order,
		Subtotal:   order.Total,
		Tax:        tax,
		GrandTotal: order.Total + tax,
		Duplicate:  duplicate,
	}
}

// resolvePaymentLabel maps the form's payment selection to the label recorded
// on the order: COD, UPI, UPI QR, Card or Net Banking.
func resolvePaymentLabel(input CheckoutInput) (string, error) {
	switch strings.ToLower(input.PaymentMethod) {
	case "cod":
		return "COD", nil
	case "online":
		switch strings.ToLower(input.OnlineSubMethod) {
		case "upi":
			if strings.ToLower(input.UPIPaymentType) == "qr" {
				return "UPI QR", nil
			}
			return "UPI", nil
		case "card":
			return "Card", nil
		case "netbanking":
			return "Net Banking", nil
		}
	}
	return "", ErrInvalidPaymentMethod
}

// NewOrderID generates a public order token: "ORD-" plus a random 4-digit
// number. No pre-check against existing orders is made; the unique index on
// the column surfaces the rare collision as a write error.
func NewOrderID() string {
	return fmt.Sprintf("ORD-%d", 1000+rand.Intn(9000))
}

// RoundRupees rounds an amount to the nearest whole rupee, matching how the
// storefront presents tax and grand total.
func RoundRupees(v float64) float64 {
	return math.Round(v)
}
