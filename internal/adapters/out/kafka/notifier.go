// Package kafka publishes customer and courier notifications to a Kafka topic. Delivery
// to phones and inboxes is done by downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"orderhub/internal/core/ports"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Notifier implements ports.Notifier. Messages are keyed by contact so one recipient's
// notifications stay ordered within a partition.
type Notifier struct {
	w     writer
	topic string
	now   func() time.Time
}

func NewNotifier(brokers []string, topic string) *Notifier {
	return newNotifierWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}, topic)
}

func newNotifierWithWriter(w writer, topic string) *Notifier {
	return &Notifier{w: w, topic: topic, now: time.Now}
}

type notification struct {
	Kind    string         `json:"kind"`
	Contact string         `json:"contact"`
	Payload map[string]any `json:"payload,omitempty"`
	SentAt  time.Time      `json:"sentAt"`
}

func (n *Notifier) Notify(ctx context.Context, contact string, kind ports.EventKind, payload map[string]any) error {
	value, err := json.Marshal(notification{
		Kind:    string(kind),
		Contact: contact,
		Payload: payload,
		SentAt:  n.now().UTC(),
	})
	if err != nil {
		return errors.Wrap(err, "encode notification")
	}

	if err = n.w.WriteMessages(ctx, kafka.Message{
		Topic: n.topic,
		Key:   []byte(contact),
		Value: value,
	}); err != nil {
		return errors.Wrap(err, "kafka publish")
	}
	return nil
}

func (n *Notifier) Close() error {
	if c, ok := n.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
