package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewOrderNumber returns a human-readable order number such as ORD-20260115-1A2B3C4D.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "ORD-" + now.UTC().Format("20060102") + "-" + suffix
}
