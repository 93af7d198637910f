package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/ports"
	"orderhub/internal/pkg/errs"
)

// PermissionResolver returns the effective permissions of an actor.
// Unknown actors yield an ObjectNotFoundError.
type PermissionResolver interface {
	Resolve(ctx context.Context, actorID kernel.UUID) (access.Permissions, error)
}

// requireCapability resolves the actor's permissions and fails with a PermissionDeniedError
// unless the capability is held. Unknown actors are denied, not reported as missing.
func requireCapability(
	ctx context.Context,
	resolver PermissionResolver,
	actorID kernel.UUID,
	capability access.Capability,
	now time.Time,
) (access.Permissions, error) {
	p, err := resolveRequester(ctx, resolver, actorID, capability)
	if err != nil {
		return access.Permissions{}, err
	}
	if !p.Allows(capability, now) {
		return access.Permissions{}, errs.NewPermissionDeniedError(string(capability))
	}
	return p, nil
}

// record appends one ledger entry carrying the provenance attached to ctx.
func record(
	ctx context.Context,
	ledger ports.ActivityRepository,
	actorID *kernel.UUID,
	action activity.Action,
	entityType, entityID string,
	details activity.Details,
	now time.Time,
) error {
	entry, err := activity.NewEntry(actorID, action, entityType, entityID, details, activity.ProvenanceFromContext(ctx), now)
	if err != nil {
		return err
	}
	return ledger.Append(ctx, entry)
}

// notify sends a notification after commit. Failures are logged and swallowed.
func notify(
	ctx context.Context,
	notifier ports.Notifier,
	logger *slog.Logger,
	contact string,
	kind ports.EventKind,
	payload map[string]any,
) {
	if notifier == nil || contact == "" {
		return
	}
	if err := notifier.Notify(ctx, contact, kind, payload); err != nil {
		logger.WarnContext(ctx, "notification failed", "kind", string(kind), "error", err)
	}
}

// resolveRequester loads the requester's permissions, denying unknown requesters.
func resolveRequester(
	ctx context.Context,
	resolver PermissionResolver,
	requesterID kernel.UUID,
	capability access.Capability,
) (access.Permissions, error) {
	p, err := resolver.Resolve(ctx, requesterID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return access.Permissions{}, errs.NewPermissionDeniedError(string(capability))
	}
	return p, err
}

// invalidate drops the cached permissions of an actor. A failure only leaves a stale
// entry until its TTL, so it is logged rather than returned.
func invalidate(ctx context.Context, cache ports.CapabilityCache, logger *slog.Logger, subject *access.Actor) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, subject.ID()); err != nil {
		logger.WarnContext(ctx, "capability cache invalidation failed", "actorId", subject.ID().String(), "error", err)
	}
}
