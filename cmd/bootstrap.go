package cmd

import (
	"context"
	"time"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/ports"
)

// BootstrapSuperAdmin creates the first super admin. It does nothing and returns false
// when an active super admin already exists, so it is safe to run on every deploy.
func BootstrapSuperAdmin(
	ctx context.Context,
	uowFactory ports.UnitOfWorkFactory,
	hasher ports.PasswordHasher,
	email, phone, name, secret string,
	now time.Time,
) (bool, error) {
	hash, err := hasher.Hash(secret)
	if err != nil {
		return false, err
	}
	admin, err := access.NewActor(kernel.NewUUID(), email, phone, name, hash, access.RoleSuperAdmin, false, now)
	if err != nil {
		return false, err
	}

	uow := uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return false, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	actors := uow.ActorRepository()
	if err = actors.LockRole(ctx, access.RoleSuperAdmin); err != nil {
		return false, err
	}
	existing, err := actors.CountActiveWithRole(ctx, access.RoleSuperAdmin)
	if err != nil {
		return false, err
	}
	if existing > 0 {
		return false, nil
	}
	if err = actors.Add(ctx, admin); err != nil {
		return false, err
	}

	entry, err := activity.NewEntry(nil, activity.ActionActorRegistered, activity.EntityActor, admin.ID().String(),
		activity.Details{"role": string(access.RoleSuperAdmin), "bootstrap": true}, nil, now)
	if err != nil {
		return false, err
	}
	if err = uow.ActivityRepository().Append(ctx, entry); err != nil {
		return false, err
	}

	return true, uow.Commit(ctx)
}
