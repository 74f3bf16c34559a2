package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Notifier tells the customer about order events. Delivery is
// fire-and-forget: a notification failure must never fail the operation
// that triggered it.
type Notifier interface {
	Notify(ctx context.Context, customerID, eventType, orderID string)
}

type event struct {
	CustomerID string    `json:"customerId"`
	EventType  string    `json:"eventType"`
	OrderID    string    `json:"orderId"`
	At         time.Time `json:"at"`
}

// Kafka publishes customer notifications to a kafka topic, keyed by order
// id so events for one order stay in partition order.
type Kafka struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

func NewKafka(brokers []string, topic string, logger zerolog.Logger) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: logger,
	}
}

func (k *Kafka) Notify(ctx context.Context, customerID, eventType, orderID string) {
	payload, err := json.Marshal(event{
		CustomerID: customerID,
		EventType:  eventType,
		OrderID:    orderID,
		At:         time.Now().UTC(),
	})
	if err != nil {
		k.logger.Error().Err(err).Str("order_id", orderID).Msg("marshal notification")
		return
	}

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(orderID),
		Value: payload,
	})
	if err != nil {
		k.logger.Error().Err(err).
			Str("order_id", orderID).
			Str("event_type", eventType).
			Msg("notify customer")
	}
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
