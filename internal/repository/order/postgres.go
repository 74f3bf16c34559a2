package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"quickbite/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const orderColumns = `
id::text, customer_id, customer_name, restaurant_id, delivery_address,
phone_number, special_instructions, total::text, payment_method,
payment_reference, status, cancel_reason, cancel_reason_type, created_at
`

func (r *postgresRepo) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertQ = `
INSERT INTO orders (
  idempotency_key, customer_id, customer_name, restaurant_id,
  delivery_address, phone_number, special_instructions, total,
  payment_method, payment_reference, status
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (idempotency_key) DO NOTHING
RETURNING id::text
`
	var orderID string
	err = tx.QueryRow(ctx, insertQ,
		in.IdempotencyKey,
		in.CustomerID,
		in.CustomerName,
		in.RestaurantID,
		in.DeliveryAddress,
		in.PhoneNumber,
		in.SpecialInstructions,
		in.Total.String(),
		string(in.PaymentMethod),
		in.PaymentReference,
		string(in.Status),
	).Scan(&orderID)
	if errors.Is(err, pgx.ErrNoRows) {
		// Replayed idempotency key: hand back the original order untouched.
		const existingQ = `SELECT id::text FROM orders WHERE idempotency_key = $1`
		if err := r.pool.QueryRow(ctx, existingQ, in.IdempotencyKey).Scan(&orderID); err != nil {
			return nil, err
		}
		return r.GetByID(ctx, orderID)
	}
	if err != nil {
		return nil, err
	}

	const itemQ = `
INSERT INTO order_items (order_id, product_id, name, unit_price, quantity, customizations)
VALUES ($1, $2, $3, $4, $5, $6)
`
	for _, item := range in.Items {
		customizations, err := json.Marshal(item.Customizations)
		if err != nil {
			return nil, fmt.Errorf("marshal customizations: %w", err)
		}
		if _, err := tx.Exec(ctx, itemQ,
			orderID, item.ProductID, item.Name, item.UnitPrice.String(), item.Quantity, customizations,
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	ord, err := r.scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, ord); err != nil {
		return nil, err
	}
	return ord, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, expected, next domain.OrderStatus) (*domain.Order, error) {
	q := `
UPDATE orders
SET status = $3
WHERE id = $1 AND status = $2
RETURNING ` + orderColumns
	ord, err := r.scanOrder(r.pool.QueryRow(ctx, q, id, string(expected), string(next)))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, ord); err != nil {
		return nil, err
	}
	return ord, nil
}

func (r *postgresRepo) Cancel(ctx context.Context, id string, expected domain.OrderStatus, reason, reasonType string) (*domain.Order, error) {
	q := `
UPDATE orders
SET status = 'cancelled',
    cancel_reason = $3,
    cancel_reason_type = $4
WHERE id = $1 AND status = $2
RETURNING ` + orderColumns
	ord, err := r.scanOrder(r.pool.QueryRow(ctx, q, id, string(expected), reason, reasonType))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, ord); err != nil {
		return nil, err
	}
	return ord, nil
}

func (r *postgresRepo) scanOrder(row pgx.Row) (*domain.Order, error) {
	var ord domain.Order
	var total string
	var method, status string
	var specialInstructions, paymentReference, cancelReason, cancelReasonType *string
	if err := row.Scan(
		&ord.ID,
		&ord.CustomerID,
		&ord.CustomerName,
		&ord.RestaurantID,
		&ord.DeliveryAddress,
		&ord.PhoneNumber,
		&specialInstructions,
		&total,
		&method,
		&paymentReference,
		&status,
		&cancelReason,
		&cancelReasonType,
		&ord.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	parsed, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("parse total %q: %w", total, err)
	}
	ord.Total = parsed
	ord.PaymentMethod = domain.PaymentMethod(method)
	ord.Status = domain.OrderStatus(status)
	ord.SpecialInstructions = deref(specialInstructions)
	ord.PaymentReference = deref(paymentReference)
	ord.CancelReason = deref(cancelReason)
	ord.CancelReasonType = deref(cancelReasonType)
	return &ord, nil
}

func (r *postgresRepo) loadItems(ctx context.Context, ord *domain.Order) error {
	const q = `
SELECT product_id, name, unit_price::text, quantity, customizations
FROM order_items
WHERE order_id = $1
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q, ord.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartLine
		var unitPrice string
		var customizations []byte
		if err := rows.Scan(&item.ProductID, &item.Name, &unitPrice, &item.Quantity, &customizations); err != nil {
			return err
		}
		parsed, err := decimal.NewFromString(unitPrice)
		if err != nil {
			return fmt.Errorf("parse unit price %q: %w", unitPrice, err)
		}
		item.UnitPrice = parsed
		if len(customizations) > 0 {
			if err := json.Unmarshal(customizations, &item.Customizations); err != nil {
				return fmt.Errorf("unmarshal customizations: %w", err)
			}
		}
		ord.Items = append(ord.Items, item)
	}
	return rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
