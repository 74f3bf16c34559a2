package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisTransport carries status events over redis pub/sub, one channel per
// order id.
type RedisTransport struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewRedisTransport(client *redis.Client, logger zerolog.Logger) *RedisTransport {
	return &RedisTransport{client: client, logger: logger}
}

func channelFor(orderID string) string {
	return fmt.Sprintf("orders:%s:status", orderID)
}

func (t *RedisTransport) PublishStatus(ctx context.Context, ev StatusEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}
	if err := t.client.Publish(ctx, channelFor(ev.OrderID), payload).Err(); err != nil {
		return fmt.Errorf("publish status event: %w", err)
	}
	return nil
}

func (t *RedisTransport) SubscribeStatus(ctx context.Context, orderID string) (<-chan StatusEvent, error) {
	sub := t.client.Subscribe(ctx, channelFor(orderID))

	// Force the subscription to be established before returning, so a
	// publish after SubscribeStatus returns cannot be missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", orderID, err)
	}

	out := make(chan StatusEvent)
	go func() {
		defer close(out)
		defer func() {
			if err := sub.Close(); err != nil {
				t.logger.Warn().Err(err).Str("order_id", orderID).Msg("close subscription")
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var ev StatusEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					t.logger.Warn().Err(err).Str("order_id", orderID).Msg("drop malformed status event")
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
