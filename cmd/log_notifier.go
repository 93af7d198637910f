package cmd

import (
	"context"
	"log/slog"

	"orderhub/internal/core/ports"
)

// logNotifier stands in for the Kafka notifier when no broker is configured.
type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) Notify(ctx context.Context, contact string, kind ports.EventKind, payload map[string]any) error {
	n.logger.InfoContext(ctx, "notification", "kind", string(kind), "contact", contact, "payload", payload)
	return nil
}
