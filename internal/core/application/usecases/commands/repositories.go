// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, authorization, one transaction
// holding the state change and its ledger entry, and notifications after commit.
package commands

import (
	"context"

	"orderhub/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order and tracking repositories within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
		TrackingRepository() ports.TrackingRepository
	}

	// CourierRepoFactory provides access to courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// AccessRepoFactory provides access to actor, role and grant repositories within a transaction.
	AccessRepoFactory interface {
		ActorRepository() ports.ActorRepository
		RoleRepository() ports.RoleRepository
		GrantRepository() ports.GrantRepository
	}

	// LedgerRepoFactory provides access to the activity ledger within a transaction.
	LedgerRepoFactory interface {
		ActivityRepository() ports.ActivityRepository
	}

	// UoW manages transactions across every aggregate type. Each command records its
	// ledger entry through the same UoW as its state change.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   ledger := uow.ActivityRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
		AccessRepoFactory
		LedgerRepoFactory
	}

	// UoWFactory creates new unit of work instances.
	UoWFactory interface {
		Create() UoW
	}
)
