package realtime

import (
	"context"
	"time"

	"quickbite/internal/domain"
)

// StatusEvent is the raw status-change payload carried by the transport.
// Delivery is at-least-once; consumers must tolerate duplicates and
// reordering.
type StatusEvent struct {
	OrderID string             `json:"orderId"`
	Status  domain.OrderStatus `json:"status"`
	At      time.Time          `json:"at"`
}

// Publisher pushes status changes onto the transport.
type Publisher interface {
	PublishStatus(ctx context.Context, ev StatusEvent) error
}

// Subscriber opens a stream of status events for one order. The returned
// channel closes when ctx is cancelled or the underlying connection drops;
// a dropped connection is reported so the caller can reconnect.
type Subscriber interface {
	SubscribeStatus(ctx context.Context, orderID string) (<-chan StatusEvent, error)
}
