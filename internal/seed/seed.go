package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type restaurantSeed struct {
	ID                 string
	Name               string
	PreparationMinutes int
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	restaurants := []restaurantSeed{
		{ID: "rest-burger-barn", Name: "Burger Barn", PreparationMinutes: 25},
		{ID: "rest-spice-route", Name: "Spice Route", PreparationMinutes: 35},
		{ID: "rest-napoli-slice", Name: "Napoli Slice", PreparationMinutes: 30},
	}

	const q = `
INSERT INTO restaurants (id, name, preparation_minutes)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name,
  preparation_minutes = EXCLUDED.preparation_minutes
`
	for _, r := range restaurants {
		if _, err := pool.Exec(ctx, q, r.ID, r.Name, r.PreparationMinutes); err != nil {
			return fmt.Errorf("upsert restaurant %s: %w", r.ID, err)
		}
	}
	return nil
}
