package commands

import (
	"context"
	"errors"
	"time"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/ports"
	"orderhub/internal/pkg/errs"
)

// Authentication outcomes reported to metrics.
const (
	AuthOutcomeSucceeded = "succeeded"
	AuthOutcomeFailed    = "failed"
	AuthOutcomeLocked    = "locked"
	AuthOutcomeRejected  = "rejected"
)

// AuthPolicy configures lockout and session lifetime.
type AuthPolicy struct {
	Lockout    access.LockoutPolicy
	SessionTTL time.Duration
}

func DefaultAuthPolicy() AuthPolicy {
	return AuthPolicy{Lockout: access.DefaultLockoutPolicy(), SessionTTL: access.DefaultSessionTTL}
}

// AuthenticateCommandHandler verifies credentials and issues sessions.
//
// The actor row is locked for the whole attempt, so concurrent attempts against the same
// account serialise and never lose a failure increment. An attempt while the account is
// locked is rejected without touching the row. The attempt that reaches the threshold is
// itself answered with AccountLocked.
type AuthenticateCommandHandler struct {
	uowFactory UoWFactory
	hasher     ports.PasswordHasher
	issuer     ports.TokenIssuer
	clock      ports.Clock
	metrics    ports.Metrics
	policy     AuthPolicy
}

func NewAuthenticateCommandHandler(
	uowFactory UoWFactory,
	hasher ports.PasswordHasher,
	issuer ports.TokenIssuer,
	clock ports.Clock,
	metrics ports.Metrics,
	policy AuthPolicy,
) AuthenticateCommandHandler {
	return AuthenticateCommandHandler{
		uowFactory: uowFactory,
		hasher:     hasher,
		issuer:     issuer,
		clock:      clock,
		metrics:    metrics,
		policy:     policy,
	}
}

func (h AuthenticateCommandHandler) Handle(ctx context.Context, command AuthenticateCommand) (access.Session, error) {
	if err := command.Validate(); err != nil {
		return access.Session{}, err
	}

	session, outcome, err := h.authenticate(ctx, command)
	h.metrics.AuthenticationFinished(outcome)
	return session, err
}

func (h AuthenticateCommandHandler) authenticate(ctx context.Context, command AuthenticateCommand) (access.Session, string, error) {
	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return access.Session{}, AuthOutcomeRejected, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	actors := uow.ActorRepository()
	actor, err := actors.FindByIdentifierForUpdate(ctx, command.Identifier())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return access.Session{}, AuthOutcomeRejected, errs.ErrInvalidCredentials
	}
	if err != nil {
		return access.Session{}, AuthOutcomeRejected, err
	}

	if err = actor.CheckCanAuthenticate(now); err != nil {
		if errors.Is(err, errs.ErrAccountLocked) {
			return access.Session{}, AuthOutcomeLocked, err
		}
		return access.Session{}, AuthOutcomeRejected, err
	}

	actorID := actor.ID()
	if !h.hasher.Verify(actor.CredentialHash(), command.Secret()) {
		locked := actor.RegisterFailedLogin(now, h.policy.Lockout)
		if err = actors.Update(ctx, actor); err != nil {
			return access.Session{}, AuthOutcomeRejected, err
		}
		if err = record(ctx, uow.ActivityRepository(), &actorID, activity.ActionAuthFailed, activity.EntityActor,
			actorID.String(), activity.Details{"attempts": actor.FailedAttempts(), "locked": locked}, now); err != nil {
			return access.Session{}, AuthOutcomeRejected, err
		}
		if err = uow.Commit(ctx); err != nil {
			return access.Session{}, AuthOutcomeRejected, err
		}
		if locked {
			return access.Session{}, AuthOutcomeLocked, errs.NewAccountLockedError(*actor.LockedUntil())
		}
		return access.Session{}, AuthOutcomeFailed, errs.ErrInvalidCredentials
	}

	actor.RegisterSuccessfulLogin(now)
	session := access.Session{
		ID:        kernel.NewUUID(),
		ActorID:   actorID,
		Role:      actor.Role(),
		IssuedAt:  now.UTC(),
		ExpiresAt: now.Add(h.policy.SessionTTL).UTC(),
	}
	if session.Token, err = h.issuer.Issue(session); err != nil {
		return access.Session{}, AuthOutcomeRejected, err
	}

	if err = actors.Update(ctx, actor); err != nil {
		return access.Session{}, AuthOutcomeRejected, err
	}
	if err = record(ctx, uow.ActivityRepository(), &actorID, activity.ActionAuthSucceeded, activity.EntityActor,
		actorID.String(), activity.Details{"sessionId": session.ID.String()}, now); err != nil {
		return access.Session{}, AuthOutcomeRejected, err
	}
	if err = uow.Commit(ctx); err != nil {
		return access.Session{}, AuthOutcomeRejected, err
	}

	return session, AuthOutcomeSucceeded, nil
}
