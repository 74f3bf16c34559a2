package order

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickbite/internal/domain"
	"quickbite/internal/realtime"
)

type fakeRepo struct {
	orders map[string]*domain.Order
}

func newFakeRepo(orders ...*domain.Order) *fakeRepo {
	m := make(map[string]*domain.Order, len(orders))
	for _, o := range orders {
		m[o.ID] = o
	}
	return &fakeRepo{orders: m}
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, expected, next domain.OrderStatus) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok || o.Status != expected {
		return nil, domain.ErrNotFound
	}
	o.Status = next
	cp := *o
	return &cp, nil
}

func (f *fakeRepo) Cancel(_ context.Context, id string, expected domain.OrderStatus, reason, reasonType string) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok || o.Status != expected {
		return nil, domain.ErrNotFound
	}
	o.Status = domain.OrderStatusCancelled
	o.CancelReason = reason
	o.CancelReasonType = reasonType
	cp := *o
	return &cp, nil
}

type fakeRestaurants struct {
	minutes int
	err     error
}

func (f *fakeRestaurants) PreparationMinutes(_ context.Context, _ string) (int, error) {
	return f.minutes, f.err
}

type fakePublisher struct {
	events []realtime.StatusEvent
}

func (f *fakePublisher) PublishStatus(_ context.Context, ev realtime.StatusEvent) error {
	f.events = append(f.events, ev)
	return nil
}

type fakeNotifier struct {
	events []string
}

func (f *fakeNotifier) Notify(_ context.Context, _, eventType, _ string) {
	f.events = append(f.events, eventType)
}

func newTestService(repo *fakeRepo, restaurants *fakeRestaurants) (*Service, *fakePublisher, *fakeNotifier) {
	pub := &fakePublisher{}
	n := &fakeNotifier{}
	if restaurants == nil {
		restaurants = &fakeRestaurants{err: domain.ErrNotFound}
	}
	return New(repo, restaurants, pub, n, zerolog.Nop(), 30, 15), pub, n
}

func orderIn(status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:         "ord-1",
		CustomerID: "cust-1",
		Status:     status,
		CreatedAt:  time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func TestUpdateStatus_LegalStep(t *testing.T) {
	repo := newFakeRepo(orderIn(domain.OrderStatusConfirmed))
	svc, pub, notif := newTestService(repo, nil)

	updated, err := svc.UpdateStatus(context.Background(), "ord-1", domain.OrderStatusPreparing)

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPreparing, updated.Status)
	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.OrderStatusPreparing, pub.events[0].Status)
	assert.Equal(t, []string{"order_status_changed"}, notif.events)
}

func TestUpdateStatus_SkipRejected(t *testing.T) {
	// A stale courier client asks confirmed to jump straight to
	// out_for_delivery.
	repo := newFakeRepo(orderIn(domain.OrderStatusConfirmed))
	svc, pub, _ := newTestService(repo, nil)

	_, err := svc.UpdateStatus(context.Background(), "ord-1", domain.OrderStatusOutForDelivery)

	var tErr *domain.InvalidTransitionError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, domain.OrderStatusConfirmed, tErr.From)

	fresh, err := svc.Get(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, fresh.Status, "state must remain unchanged")
	assert.Empty(t, pub.events)
}

func TestUpdateStatus_UnknownStatusRejected(t *testing.T) {
	repo := newFakeRepo(orderIn(domain.OrderStatusPending))
	svc, _, _ := newTestService(repo, nil)

	_, err := svc.UpdateStatus(context.Background(), "ord-1", "lost_in_transit")

	var tErr *domain.InvalidTransitionError
	require.ErrorAs(t, err, &tErr)
}

func TestUpdateStatus_MissingOrder(t *testing.T) {
	svc, _, _ := newTestService(newFakeRepo(), nil)

	_, err := svc.UpdateStatus(context.Background(), "nope", domain.OrderStatusConfirmed)

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancel_FromPreparing(t *testing.T) {
	// An order mid-preparation is cancelled; a second attempt fails.
	repo := newFakeRepo(orderIn(domain.OrderStatusPreparing))
	svc, pub, notif := newTestService(repo, nil)

	cancelled, err := svc.Cancel(context.Background(), "ord-1", "changed my mind", "")

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, "changed my mind", cancelled.CancelReason)
	assert.Equal(t, "customer_request", cancelled.CancelReasonType)
	require.Len(t, pub.events, 1)
	assert.Equal(t, []string{"order_cancelled"}, notif.events)

	_, err = svc.Cancel(context.Background(), "ord-1", "again", "")
	require.ErrorIs(t, err, domain.ErrCancellationNotAllowed)
}

func TestCancel_DeliveredRejected(t *testing.T) {
	repo := newFakeRepo(orderIn(domain.OrderStatusDelivered))
	svc, _, _ := newTestService(repo, nil)

	_, err := svc.Cancel(context.Background(), "ord-1", "too late", "customer_request")

	require.ErrorIs(t, err, domain.ErrCancellationNotAllowed)
}

func TestEstimate_UsesRestaurantConfiguration(t *testing.T) {
	repo := newFakeRepo(orderIn(domain.OrderStatusConfirmed))
	svc, _, _ := newTestService(repo, &fakeRestaurants{minutes: 20})

	est, err := svc.Estimate(context.Background(), "ord-1")

	require.NoError(t, err)
	want := time.Date(2026, 3, 14, 12, 35, 0, 0, time.UTC)
	assert.True(t, est.Estimate.Equal(want), "estimate = %v", est.Estimate)
}

func TestEstimate_FallsBackToDefaultPreparation(t *testing.T) {
	repo := newFakeRepo(orderIn(domain.OrderStatusPending))
	svc, _, _ := newTestService(repo, nil) // restaurant config missing

	est, err := svc.Estimate(context.Background(), "ord-1")

	require.NoError(t, err)
	want := time.Date(2026, 3, 14, 12, 45, 0, 0, time.UTC)
	assert.True(t, est.Estimate.Equal(want), "estimate = %v", est.Estimate)
}

func TestEstimate_UnaffectedByStatusChanges(t *testing.T) {
	repo := newFakeRepo(orderIn(domain.OrderStatusConfirmed))
	svc, _, _ := newTestService(repo, &fakeRestaurants{minutes: 20})

	before, err := svc.Estimate(context.Background(), "ord-1")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), "ord-1", domain.OrderStatusPreparing)
	require.NoError(t, err)

	after, err := svc.Estimate(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.True(t, before.Estimate.Equal(after.Estimate))
}
