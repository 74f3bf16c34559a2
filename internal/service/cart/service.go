package cart

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"quickbite/internal/domain"
)

// ErrInvalidQuantity rejects an add with a quantity below one.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Cart aggregates the line items one customer session intends to purchase.
// Two entries are the same line iff product id and customization set match;
// the same product with a different customization set occupies its own line.
//
// All mutations are read-modify-write on the matching line, so every method
// takes the per-cart mutex.
type Cart struct {
	mu    sync.Mutex
	lines []domain.CartLine
}

func New() *Cart {
	return &Cart{}
}

// AddItem merges the given line into the cart: an existing line with the
// same identity has its quantity increased, otherwise the line is appended.
// The line's Name and UnitPrice are treated as a snapshot and kept as-is on
// merge.
func (c *Cart) AddItem(line domain.CartLine) error {
	if line.Quantity < 1 {
		return ErrInvalidQuantity
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Matches(line.ProductID, line.Customizations) {
			c.lines[i].Quantity += line.Quantity
			return nil
		}
	}
	c.lines = append(c.lines, line)
	return nil
}

// IncreaseQuantity bumps the matching line by one. A missing line is a
// stale UI reference, not a caller error, so it is a no-op.
func (c *Cart) IncreaseQuantity(productID string, customizations []domain.Customization) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Matches(productID, customizations) {
			c.lines[i].Quantity++
			return
		}
	}
}

// DecreaseQuantity lowers the matching line by one and removes the line
// when it reaches zero; a line is never held at quantity 0. Missing lines
// are a no-op.
func (c *Cart) DecreaseQuantity(productID string, customizations []domain.Customization) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Matches(productID, customizations) {
			c.lines[i].Quantity--
			if c.lines[i].Quantity <= 0 {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
			}
			return
		}
	}
}

// RemoveItem deletes the matching line regardless of its quantity.
func (c *Cart) RemoveItem(productID string, customizations []domain.Customization) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Matches(productID, customizations) {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Called after a successful submission or an
// explicit empty.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// TotalItemCount sums quantities across lines, for badge counts.
func (c *Cart) TotalItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, l := range c.lines {
		count += l.Quantity
	}
	return count
}

// Totals computes the cart totals for the current lines.
func (c *Cart) Totals(taxRate, deliveryFee, discount decimal.Decimal) domain.CartTotals {
	return ComputeTotals(c.Lines(), taxRate, deliveryFee, discount)
}

// ComputeTotals derives totals from a set of lines. It is pure: no state,
// no side effects, same inputs give the same result.
//
// subtotal = sum((unitPrice + customization deltas) * quantity)
// tax      = subtotal * taxRate
// fee      = deliveryFee when the cart is non-empty
// total    = subtotal + tax + fee - discount, floored at zero by capping
// the discount.
func ComputeTotals(lines []domain.CartLine, taxRate, deliveryFee, discount decimal.Decimal) domain.CartTotals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
	}

	tax := subtotal.Mul(taxRate)

	fee := decimal.Zero
	if len(lines) > 0 {
		fee = deliveryFee
	}

	if discount.IsNegative() {
		discount = decimal.Zero
	}
	gross := subtotal.Add(tax).Add(fee)
	if discount.GreaterThan(gross) {
		discount = gross
	}

	return domain.CartTotals{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: fee,
		Discount:    discount,
		Total:       gross.Sub(discount),
	}
}
