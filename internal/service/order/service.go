package order

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"quickbite/internal/domain"
	"quickbite/internal/realtime"
)

type repo interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, expected, next domain.OrderStatus) (*domain.Order, error)
	Cancel(ctx context.Context, id string, expected domain.OrderStatus, reason, reasonType string) (*domain.Order, error)
}

type restaurantRepo interface {
	PreparationMinutes(ctx context.Context, restaurantID string) (int, error)
}

type publisher interface {
	PublishStatus(ctx context.Context, ev realtime.StatusEvent) error
}

type notifier interface {
	Notify(ctx context.Context, customerID, eventType, orderID string)
}

// Service applies status transitions to orders. The authoritative state
// lives in the store; this service validates transitions against it and
// serializes concurrent attempts per order id, so two racing legal
// transitions cannot both land.
type Service struct {
	repo        repo
	restaurants restaurantRepo
	publisher   publisher
	notifier    notifier
	logger      zerolog.Logger

	defaultPrepMinutes int
	deliveryMinutes    int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(repo repo, restaurants restaurantRepo, publisher publisher, notifier notifier, logger zerolog.Logger, defaultPrepMinutes, deliveryMinutes int) *Service {
	return &Service{
		repo:               repo,
		restaurants:        restaurants,
		publisher:          publisher,
		notifier:           notifier,
		logger:             logger,
		defaultPrepMinutes: defaultPrepMinutes,
		deliveryMinutes:    deliveryMinutes,
		locks:              make(map[string]*sync.Mutex),
	}
}

func (s *Service) lockFor(orderID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[orderID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[orderID] = l
	}
	return l
}

// Get returns the order by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus moves an order to the target status if the transition is
// legal. Illegal requests, including skips and backward moves, fail with
// InvalidTransitionError and leave the order untouched.
func (s *Service) UpdateStatus(ctx context.Context, id string, target domain.OrderStatus) (*domain.Order, error) {
	if !target.Valid() {
		return nil, &domain.InvalidTransitionError{To: target}
	}

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(current.Status, target) {
		s.logger.Warn().
			Str("order_id", id).
			Str("from", current.Status.String()).
			Str("to", target.String()).
			Msg("rejected illegal status transition")
		return nil, &domain.InvalidTransitionError{From: current.Status, To: target}
	}

	updated, err := s.repo.UpdateStatus(ctx, id, current.Status, target)
	if err != nil {
		// The compare-and-swap missed: some external writer moved the order
		// between our read and write. Re-read and report against the
		// authoritative state.
		if errors.Is(err, domain.ErrNotFound) {
			fresh, freshErr := s.repo.GetByID(ctx, id)
			if freshErr != nil {
				return nil, freshErr
			}
			return nil, &domain.InvalidTransitionError{From: fresh.Status, To: target}
		}
		return nil, err
	}

	s.announce(ctx, updated, "order_status_changed")
	return updated, nil
}

// Cancel transitions the order to cancelled and records the reason. Orders
// already delivered or cancelled fail with ErrCancellationNotAllowed.
func (s *Service) Cancel(ctx context.Context, id, reason, reasonType string) (*domain.Order, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	if reasonType == "" {
		reasonType = "customer_request"
	}

	// Cancellation is legal from any non-terminal state, so a lost race
	// against an external writer just means re-reading and trying again
	// from the fresh state.
	for attempt := 0; attempt < 2; attempt++ {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Status.IsTerminal() {
			return nil, domain.ErrCancellationNotAllowed
		}

		updated, err := s.repo.Cancel(ctx, id, current.Status, reason, reasonType)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}

		s.announce(ctx, updated, "order_cancelled")
		return updated, nil
	}
	return nil, domain.ErrCancellationNotAllowed
}

// Estimate projects the advisory delivery ETA for an order from its
// creation time and the restaurant's preparation minutes. Intermediate
// status changes never shift it.
func (s *Service) Estimate(ctx context.Context, id string) (domain.DeliveryEstimate, error) {
	ord, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.DeliveryEstimate{}, err
	}

	prep := s.defaultPrepMinutes
	if minutes, err := s.restaurants.PreparationMinutes(ctx, ord.RestaurantID); err == nil {
		prep = minutes
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.DeliveryEstimate{}, err
	}

	return domain.ProjectDelivery(ord.CreatedAt, prep, s.deliveryMinutes), nil
}

func (s *Service) announce(ctx context.Context, ord *domain.Order, eventType string) {
	ev := realtime.StatusEvent{
		OrderID: ord.ID,
		Status:  ord.Status,
		At:      time.Now().UTC(),
	}
	if err := s.publisher.PublishStatus(ctx, ev); err != nil {
		s.logger.Error().Err(err).Str("order_id", ord.ID).Msg("publish status event")
	}
	s.notifier.Notify(ctx, ord.CustomerID, eventType, ord.ID)
}
