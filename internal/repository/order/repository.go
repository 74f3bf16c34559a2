package order

import (
	"context"

	"github.com/shopspring/decimal"

	"quickbite/internal/domain"
)

// CreateOrderInput carries the frozen submission snapshot. IdempotencyKey is
// generated client-side per submission attempt; replaying the same key
// returns the originally created order instead of a duplicate.
type CreateOrderInput struct {
	IdempotencyKey      string
	CustomerID          string
	CustomerName        string
	RestaurantID        string
	DeliveryAddress     string
	PhoneNumber         string
	SpecialInstructions string
	Items               []domain.CartLine
	Total               decimal.Decimal
	PaymentMethod       domain.PaymentMethod
	PaymentReference    string
	Status              domain.OrderStatus
}

type Repository interface {
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// UpdateStatus writes the new status only if the stored status still
	// equals expected; domain.ErrNotFound signals a missing order or a
	// concurrent change.
	UpdateStatus(ctx context.Context, id string, expected, next domain.OrderStatus) (*domain.Order, error)
	// Cancel is UpdateStatus to cancelled plus the recorded reason.
	Cancel(ctx context.Context, id string, expected domain.OrderStatus, reason, reasonType string) (*domain.Order, error)
}
