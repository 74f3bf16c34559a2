package restaurant

import "context"

// Repository exposes the restaurant configuration the core needs: the
// preparation time used for ETA projection.
type Repository interface {
	PreparationMinutes(ctx context.Context, restaurantID string) (int, error)
}
