package activity

import "context"

// Provenance describes where a request came from.
type Provenance struct {
	RemoteIP  string
	UserAgent string
	RequestID string
}

type provenanceKey struct{}

// WithProvenance attaches request provenance to ctx. Inbound adapters call it once per request.
func WithProvenance(ctx context.Context, p Provenance) context.Context {
	return context.WithValue(ctx, provenanceKey{}, p)
}

// ProvenanceFromContext returns the provenance attached to ctx, or nil.
func ProvenanceFromContext(ctx context.Context) *Provenance {
	p, ok := ctx.Value(provenanceKey{}).(Provenance)
	if !ok {
		return nil
	}
	return &p
}
