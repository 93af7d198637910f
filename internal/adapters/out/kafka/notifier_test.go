package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"orderhub/internal/core/ports"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	last []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.last = append([]kafka.Message{}, msgs...)
	return w.err
}

func TestNotifier_Notify(t *testing.T) {
	fw := &fakeWriter{}
	n := newNotifierWithWriter(fw, "notifications")
	n.now = func() time.Time { return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC) }

	err := n.Notify(context.Background(), "+254700000001", ports.EventOrderPlaced, map[string]any{"orderNumber": "ORD-1"})

	require.NoError(t, err)
	require.Len(t, fw.last, 1)
	require.Equal(t, "notifications", fw.last[0].Topic)
	require.Equal(t, []byte("+254700000001"), fw.last[0].Key)

	var got notification
	require.NoError(t, json.Unmarshal(fw.last[0].Value, &got))
	require.Equal(t, "order_placed", got.Kind)
	require.Equal(t, "+254700000001", got.Contact)
	require.Equal(t, "ORD-1", got.Payload["orderNumber"])
	require.Equal(t, 2025, got.SentAt.Year())
}

func TestNotifier_Notify_WriterError(t *testing.T) {
	fw := &fakeWriter{err: errors.New("broker down")}
	n := newNotifierWithWriter(fw, "notifications")

	err := n.Notify(context.Background(), "a@example.com", ports.EventOrderDelivered, nil)

	require.ErrorContains(t, err, "kafka publish")
}

func TestNewNotifier(t *testing.T) {
	n := NewNotifier([]string{"localhost:0"}, "notifications")
	require.NotNil(t, n)
	require.NoError(t, n.Close())
}
