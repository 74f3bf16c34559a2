package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickbite/internal/domain"
	orderrepo "quickbite/internal/repository/order"
	cartsvc "quickbite/internal/service/cart"
)

type mockRepo struct {
	created   *orderrepo.CreateOrderInput
	err       error
	callCount int
}

func (m *mockRepo) Create(_ context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error) {
	m.callCount++
	m.created = &in
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Order{
		ID:            "ord-1",
		CustomerID:    in.CustomerID,
		Items:         in.Items,
		Total:         in.Total,
		PaymentMethod: in.PaymentMethod,
		Status:        in.Status,
	}, nil
}

type mockCapturer struct {
	ref       string
	err       error
	callCount int
}

func (m *mockCapturer) Capture(_ context.Context, _ decimal.Decimal, _ string, _ domain.PaymentMethod, _ string) (string, error) {
	m.callCount++
	return m.ref, m.err
}

type mockNotifier struct {
	events []string
}

func (m *mockNotifier) Notify(_ context.Context, _, eventType, _ string) {
	m.events = append(m.events, eventType)
}

func newService(repo *mockRepo, payments *mockCapturer, n *mockNotifier) *Service {
	return New(repo, payments, n, zerolog.Nop(),
		decimal.NewFromFloat(0.10), decimal.NewFromFloat(2.99), "EUR")
}

func cartWith(t *testing.T, lines ...domain.CartLine) *cartsvc.Cart {
	t.Helper()
	c := cartsvc.New()
	for _, l := range lines {
		require.NoError(t, c.AddItem(l))
	}
	return c
}

func validInput(method domain.PaymentMethod) SubmitInput {
	return SubmitInput{
		CustomerID:      "cust-1",
		CustomerName:    "Ada",
		RestaurantID:    "rest-1",
		DeliveryAddress: "1 Main St",
		PhoneNumber:     "+3538700000",
		PaymentMethod:   method,
	}
}

func burgerLine() domain.CartLine {
	return domain.CartLine{
		ProductID: "prod-burger",
		Name:      "Burger",
		UnitPrice: decimal.NewFromFloat(6.50),
		Quantity:  2,
	}
}

func TestSubmit_EmptyCart(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(repo, &mockCapturer{}, &mockNotifier{})

	_, err := svc.Submit(context.Background(), cartsvc.New(), validInput(domain.PaymentMethodCash))

	require.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Zero(t, repo.callCount, "persistence must not be invoked for an empty cart")
}

func TestSubmit_ValidationErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SubmitInput)
		field  string
	}{
		{"missing name", func(in *SubmitInput) { in.CustomerName = "  " }, "name"},
		{"missing address", func(in *SubmitInput) { in.DeliveryAddress = "" }, "address"},
		{"missing phone", func(in *SubmitInput) { in.PhoneNumber = "" }, "phone"},
		{"bad method", func(in *SubmitInput) { in.PaymentMethod = "crypto" }, "paymentMethod"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockRepo{}
			svc := newService(repo, &mockCapturer{}, &mockNotifier{})
			cart := cartWith(t, burgerLine())

			in := validInput(domain.PaymentMethodCard)
			tc.mutate(&in)
			_, err := svc.Submit(context.Background(), cart, in)

			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tc.field, vErr.Field)
			assert.Zero(t, repo.callCount)
			assert.Len(t, cart.Lines(), 1, "cart must be preserved on failure")
		})
	}
}

func TestSubmit_CashCreatesPendingWithoutCapture(t *testing.T) {
	repo := &mockRepo{}
	payments := &mockCapturer{}
	svc := newService(repo, payments, &mockNotifier{})
	cart := cartWith(t, burgerLine())

	ord, err := svc.Submit(context.Background(), cart, validInput(domain.PaymentMethodCash))

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, ord.Status)
	assert.Zero(t, payments.callCount, "cash must not capture payment")
	assert.Empty(t, cart.Lines(), "cart clears after success")
}

func TestSubmit_CardCapturesThenCreatesConfirmed(t *testing.T) {
	repo := &mockRepo{}
	payments := &mockCapturer{ref: "pay-9"}
	notifier := &mockNotifier{}
	svc := newService(repo, payments, notifier)
	cart := cartWith(t, burgerLine())

	ord, err := svc.Submit(context.Background(), cart, validInput(domain.PaymentMethodCard))

	require.NoError(t, err)
	assert.Equal(t, 1, payments.callCount)
	assert.Equal(t, domain.OrderStatusConfirmed, ord.Status)
	assert.Equal(t, "pay-9", repo.created.PaymentReference)
	assert.NotEmpty(t, repo.created.IdempotencyKey)
	assert.Equal(t, []string{"order_placed"}, notifier.events)
	// subtotal 13.00 + tax 1.30 + fee 2.99
	assert.True(t, repo.created.Total.Equal(decimal.NewFromFloat(17.29)),
		"total = %s", repo.created.Total)
}

func TestSubmit_CaptureFailurePreservesCart(t *testing.T) {
	repo := &mockRepo{}
	payments := &mockCapturer{err: &domain.PaymentError{Reason: "declined"}}
	svc := newService(repo, payments, &mockNotifier{})
	cart := cartWith(t, burgerLine())

	_, err := svc.Submit(context.Background(), cart, validInput(domain.PaymentMethodCard))

	var payErr *domain.PaymentError
	require.True(t, errors.As(err, &payErr))
	assert.Zero(t, repo.callCount, "no order may be created after a failed capture")
	assert.Len(t, cart.Lines(), 1)
}

func TestSubmit_PersistenceFailurePreservesCart(t *testing.T) {
	repo := &mockRepo{err: errors.New("db down")}
	svc := newService(repo, &mockCapturer{}, &mockNotifier{})
	cart := cartWith(t, burgerLine())

	_, err := svc.Submit(context.Background(), cart, validInput(domain.PaymentMethodCash))

	require.Error(t, err)
	assert.Len(t, cart.Lines(), 1)
}

func TestSubmit_WalletFollowsCaptureRule(t *testing.T) {
	repo := &mockRepo{}
	payments := &mockCapturer{ref: "pay-w"}
	svc := newService(repo, payments, &mockNotifier{})
	cart := cartWith(t, burgerLine())

	ord, err := svc.Submit(context.Background(), cart, validInput(domain.PaymentMethodWallet))

	require.NoError(t, err)
	assert.Equal(t, 1, payments.callCount)
	assert.Equal(t, domain.OrderStatusConfirmed, ord.Status)
}

func TestSubmit_SnapshotFrozenAfterSubmission(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(repo, &mockCapturer{}, &mockNotifier{})
	cart := cartWith(t, burgerLine())

	ord, err := svc.Submit(context.Background(), cart, validInput(domain.PaymentMethodCash))
	require.NoError(t, err)

	// Mutating the cart after submission must not touch the order items.
	require.NoError(t, cart.AddItem(burgerLine()))
	cart.IncreaseQuantity("prod-burger", nil)

	require.Len(t, ord.Items, 1)
	assert.Equal(t, 2, ord.Items[0].Quantity)
}
