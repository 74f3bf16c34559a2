package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a placed order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// statusSequence is the linear happy path. Cancelled sits outside of it and
// is reachable from every non-terminal state.
var statusSequence = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

func (s OrderStatus) sequenceIndex() int {
	for i, st := range statusSequence {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	return s == OrderStatusCancelled || s.sequenceIndex() >= 0
}

// IsTerminal reports whether no further transitions are permitted.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) String() string {
	return string(s)
}

// CanTransition reports whether an order may move from one status to
// another: either the immediate successor in the sequence, or cancelled
// from any non-terminal state. Everything else is rejected, including
// skips, backward moves and terminal re-entry.
func CanTransition(from, to OrderStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	i := from.sequenceIndex()
	j := to.sequenceIndex()
	return i >= 0 && j == i+1
}

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodWallet PaymentMethod = "wallet"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodCash, PaymentMethodWallet:
		return true
	}
	return false
}

// RequiresCapture reports whether payment must be captured before the order
// is created. Cash settles on delivery; everything else is capture-then-create.
func (m PaymentMethod) RequiresCapture() bool {
	return m != PaymentMethodCash
}

// Order is a placed order. Items and Total are frozen at submission time;
// only the status (and the cancellation fields alongside it) change
// afterwards.
type Order struct {
	ID                  string          `json:"id"`
	CustomerID          string          `json:"customerId"`
	CustomerName        string          `json:"customerName"`
	RestaurantID        string          `json:"restaurantId"`
	DeliveryAddress     string          `json:"deliveryAddress"`
	PhoneNumber         string          `json:"phoneNumber"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
	Items               []CartLine      `json:"items"`
	Total               decimal.Decimal `json:"total"`
	PaymentMethod       PaymentMethod   `json:"paymentMethod"`
	PaymentReference    string          `json:"paymentReference,omitempty"`
	Status              OrderStatus     `json:"status"`
	CancelReason        string          `json:"cancelReason,omitempty"`
	CancelReasonType    string          `json:"cancelReasonType,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
}

// DeliveryEstimate is the advisory ETA shown to the customer. It is always
// recomputed from the creation time and configuration; status changes never
// mutate it.
type DeliveryEstimate struct {
	Estimate    time.Time `json:"estimate"`
	WindowStart time.Time `json:"windowStart"`
	WindowEnd   time.Time `json:"windowEnd"`
}

// ProjectDelivery computes the ETA as createdAt + preparation + delivery
// time, with a display window of [estimate-5m, estimate+10m].
func ProjectDelivery(createdAt time.Time, preparationMinutes, deliveryMinutes int) DeliveryEstimate {
	estimate := createdAt.
		Add(time.Duration(preparationMinutes) * time.Minute).
		Add(time.Duration(deliveryMinutes) * time.Minute)
	return DeliveryEstimate{
		Estimate:    estimate,
		WindowStart: estimate.Add(-5 * time.Minute),
		WindowEnd:   estimate.Add(10 * time.Minute),
	}
}
