package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Customization is a single modifier applied to a cart line, e.g. size or
// spice level. PriceDelta may be negative.
type Customization struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"priceDelta"`
}

// CartLine is one purchasable entry in a cart. Name and UnitPrice are
// snapshots taken when the item was added; they are never re-read from the
// catalog afterwards.
type CartLine struct {
	ProductID      string          `json:"productId"`
	Name           string          `json:"name"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	Quantity       int             `json:"quantity"`
	Customizations []Customization `json:"customizations,omitempty"`
}

// CustomizationKey builds an order-independent identity key over a
// customization set. Duplicate ids collapse to one.
func CustomizationKey(customizations []Customization) string {
	if len(customizations) == 0 {
		return ""
	}
	ids := make([]string, 0, len(customizations))
	seen := make(map[string]bool, len(customizations))
	for _, c := range customizations {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		ids = append(ids, c.ID)
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

// Matches reports whether the line has the given product identity: same
// product and the same customization set, regardless of order.
func (l CartLine) Matches(productID string, customizations []Customization) bool {
	return l.ProductID == productID &&
		CustomizationKey(l.Customizations) == CustomizationKey(customizations)
}

// UnitTotal is the unit price plus all customization deltas.
func (l CartLine) UnitTotal() decimal.Decimal {
	total := l.UnitPrice
	for _, c := range l.Customizations {
		total = total.Add(c.PriceDelta)
	}
	return total
}

// LineTotal is UnitTotal multiplied by the quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitTotal().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartTotals is derived from the lines on every read, never stored.
type CartTotals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}
