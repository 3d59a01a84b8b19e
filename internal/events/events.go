// Package events publishes order lifecycle events for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"flowershop/internal/domain"

	"github.com/segmentio/kafka-go"
)

const (
	TypeOrderCreated     = "order.created"
	TypeStatusChanged    = "order.status_changed"
	TypeReceiptGenerated = "order.receipt_generated"
	TypeReceiptUploaded  = "order.receipt_uploaded"
)

// Event is the JSON payload of every message.
type Event struct {
	Type       string             `json:"type"`
	OrderID    string             `json:"orderId"`
	UserID     string             `json:"userId,omitempty"`
	Status     domain.OrderStatus `json:"status,omitempty"`
	Receipt    string             `json:"receipt,omitempty"`
	Total      float64            `json:"total,omitempty"`
	OccurredAt time.Time          `json:"occurredAt"`
}

// Publisher emits events. Implementations must not block for long.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes events keyed by order id so per-order ordering is kept.
type Kafka struct {
	writer messageWriter
}

func NewKafka(brokers []string, topic string) *Kafka {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
	}
	return &Kafka{writer: w}
}

func (k *Kafka) Publish(ctx context.Context, e Event) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(e.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Type)},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s order_id=%s: %w", e.Type, e.OrderID, err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
