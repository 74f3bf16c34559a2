package tracking

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"quickbite/internal/domain"
	"quickbite/internal/realtime"
)

type orderGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

// Feed fans status-change events out to tracking observers. Per subscriber
// it guarantees monotonic delivery: an event that would be an illegal
// transition from the last delivered status is transport noise (duplicate
// or out-of-order redelivery) and is dropped, never delivered.
type Feed struct {
	transport realtime.Subscriber
	orders    orderGetter
	logger    zerolog.Logger

	backoffBase time.Duration
	backoffMax  time.Duration
}

func NewFeed(transport realtime.Subscriber, orders orderGetter, logger zerolog.Logger) *Feed {
	return &Feed{
		transport:   transport,
		orders:      orders,
		logger:      logger,
		backoffBase: 500 * time.Millisecond,
		backoffMax:  15 * time.Second,
	}
}

// Subscription is the unsubscribe handle returned by Subscribe.
type Subscription struct {
	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}
}

// Unsubscribe stops delivery. Safe to call any number of times; after the
// first call no further updates reach the observer.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

// Done closes when the subscription has fully stopped, either after
// Unsubscribe or when the order reached a terminal status.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Subscribe registers an observer for status changes on one order. The
// current authoritative status is delivered first, then incremental
// updates. The subscription ends itself once a terminal status has been
// delivered.
func (f *Feed) Subscribe(ctx context.Context, orderID string, onUpdate func(realtime.StatusEvent)) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{cancel: cancel, done: make(chan struct{})}

	// last is only touched by the run goroutine; per-subscriber state.
	var last domain.OrderStatus

	deliver := func(ev realtime.StatusEvent) bool {
		if last != "" && !domain.CanTransition(last, ev.Status) {
			f.logger.Debug().
				Str("order_id", orderID).
				Str("last", last.String()).
				Str("incoming", ev.Status.String()).
				Msg("dropped stale status event")
			return false
		}
		last = ev.Status
		onUpdate(ev)
		return ev.Status.IsTerminal()
	}

	go func() {
		defer close(sub.done)
		defer cancel()
		f.run(ctx, orderID, deliver)
	}()
	return sub, nil
}

// run owns one subscriber's loop: resync with the authoritative store,
// stream from the transport, reconnect with backoff when the stream drops.
func (f *Feed) run(ctx context.Context, orderID string, deliver func(realtime.StatusEvent) bool) {
	backoff := f.backoffBase

	for {
		if ctx.Err() != nil {
			return
		}

		events, err := f.transport.SubscribeStatus(ctx, orderID)
		if err != nil {
			f.logger.Warn().Err(err).Str("order_id", orderID).Msg("tracking transport unavailable, retrying")
			if !sleep(ctx, backoff) {
				return
			}
			backoff = min(backoff*2, f.backoffMax)
			continue
		}
		backoff = f.backoffBase

		// Resynchronize: the stream may have started after a change we
		// never saw, so deliver the current authoritative status first.
		if ord, err := f.orders.GetByID(ctx, orderID); err == nil {
			if terminal := deliver(realtime.StatusEvent{OrderID: orderID, Status: ord.Status, At: ord.CreatedAt}); terminal {
				return
			}
		} else if ctx.Err() == nil {
			f.logger.Warn().Err(err).Str("order_id", orderID).Msg("resync fetch failed")
		}

		streamDropped := streamEvents(ctx, orderID, events, deliver)
		if !streamDropped {
			return
		}
		if !sleep(ctx, backoff) {
			return
		}
		backoff = min(backoff*2, f.backoffMax)
	}
}

// streamEvents consumes the event channel until the subscription ends.
// It returns true when the channel closed unexpectedly and the caller
// should reconnect.
func streamEvents(ctx context.Context, orderID string, events <-chan realtime.StatusEvent, deliver func(realtime.StatusEvent) bool) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return ctx.Err() == nil
			}
			if ev.OrderID != orderID {
				continue
			}
			if terminal := deliver(ev); terminal {
				return false
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
