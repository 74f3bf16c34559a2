package restaurant

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quickbite/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) PreparationMinutes(ctx context.Context, restaurantID string) (int, error) {
	const q = `SELECT preparation_minutes FROM restaurants WHERE id = $1`
	var minutes int
	if err := r.pool.QueryRow(ctx, q, restaurantID).Scan(&minutes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return minutes, nil
}
