package checkout

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"quickbite/internal/domain"
	orderrepo "quickbite/internal/repository/order"
	cartsvc "quickbite/internal/service/cart"
)

type orderRepo interface {
	Create(ctx context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error)
}

type capturer interface {
	Capture(ctx context.Context, amount decimal.Decimal, currency string, method domain.PaymentMethod, reference string) (string, error)
}

type notifier interface {
	Notify(ctx context.Context, customerID, eventType, orderID string)
}

// Service validates a cart plus delivery details and turns them into a
// persisted order. On any failure the cart is left untouched and no order
// exists; the cart is cleared only after the order is created.
type Service struct {
	repo        orderRepo
	payments    capturer
	notifier    notifier
	logger      zerolog.Logger
	taxRate     decimal.Decimal
	deliveryFee decimal.Decimal
	currency    string
}

func New(repo orderRepo, payments capturer, notifier notifier, logger zerolog.Logger, taxRate, deliveryFee decimal.Decimal, currency string) *Service {
	return &Service{
		repo:        repo,
		payments:    payments,
		notifier:    notifier,
		logger:      logger,
		taxRate:     taxRate,
		deliveryFee: deliveryFee,
		currency:    currency,
	}
}

// SubmitInput is everything the checkout screen sends alongside the cart.
type SubmitInput struct {
	CustomerID          string
	CustomerName        string
	RestaurantID        string
	DeliveryAddress     string
	PhoneNumber         string
	SpecialInstructions string
	PaymentMethod       domain.PaymentMethod
	PaymentReference    string
	Discount            decimal.Decimal
}

// Submit places an order from the given cart.
//
// Card and wallet payments must capture before the order is created; cash
// orders are created directly with status pending. The persisted snapshot
// and total are frozen at this point: later cart mutations never touch the
// order.
func (s *Service) Submit(ctx context.Context, cart *cartsvc.Cart, in SubmitInput) (*domain.Order, error) {
	lines := cart.Lines()
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	totals := cartsvc.ComputeTotals(lines, s.taxRate, s.deliveryFee, in.Discount)

	status := domain.OrderStatusPending
	paymentReference := in.PaymentReference
	if in.PaymentMethod.RequiresCapture() {
		ref, err := s.payments.Capture(ctx, totals.Total, s.currency, in.PaymentMethod, in.PaymentReference)
		if err != nil {
			return nil, err
		}
		paymentReference = ref
		status = domain.OrderStatusConfirmed
	}

	// One key per submission attempt; the repository dedupes replays on it.
	idempotencyKey := uuid.NewString()

	ord, err := s.repo.Create(ctx, orderrepo.CreateOrderInput{
		IdempotencyKey:      idempotencyKey,
		CustomerID:          in.CustomerID,
		CustomerName:        in.CustomerName,
		RestaurantID:        in.RestaurantID,
		DeliveryAddress:     in.DeliveryAddress,
		PhoneNumber:         in.PhoneNumber,
		SpecialInstructions: in.SpecialInstructions,
		Items:               lines,
		Total:               totals.Total,
		PaymentMethod:       in.PaymentMethod,
		PaymentReference:    paymentReference,
		Status:              status,
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, ord.CustomerID, "order_placed", ord.ID)
	cart.Clear()

	s.logger.Info().
		Str("order_id", ord.ID).
		Str("status", ord.Status.String()).
		Str("payment_method", string(ord.PaymentMethod)).
		Msg("order placed")
	return ord, nil
}

func validate(in SubmitInput) error {
	if strings.TrimSpace(in.CustomerName) == "" {
		return &domain.ValidationError{Field: "name"}
	}
	if strings.TrimSpace(in.DeliveryAddress) == "" {
		return &domain.ValidationError{Field: "address"}
	}
	if strings.TrimSpace(in.PhoneNumber) == "" {
		return &domain.ValidationError{Field: "phone"}
	}
	if !in.PaymentMethod.Valid() {
		return &domain.ValidationError{Field: "paymentMethod"}
	}
	return nil
}
