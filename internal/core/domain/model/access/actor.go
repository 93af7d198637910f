package access

import (
	"errors"
	"strings"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

var (
	ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor or RestoreActor constructor")
	ErrNameIsRequired        = errs.NewValueIsRequiredError("name")
	ErrContactIsRequired     = errs.NewValueIsRequiredError("email or phone")
	ErrCredentialIsRequired  = errs.NewValueIsRequiredError("credential")
)

// Actor is anyone who interacts with the system: a customer, a staff member or a courier.
//
// Invariants:
//   - holds exactly one role at all times
//   - a guest has no credential and can never authenticate
//   - failedAttempts only grows through RegisterFailedLogin and resets on success
type Actor struct {
	id             kernel.UUID
	email          string
	phone          string
	name           string
	credentialHash string
	guest          bool
	active         bool

	failedAttempts      int
	lockedUntil         *time.Time
	lastAuthenticatedAt *time.Time

	role      RoleName
	createdAt time.Time

	guard guard.ConstructorGuard
}

// NewActor registers a new, active actor. Guests must not carry a credential hash;
// everyone else must.
func NewActor(
	id kernel.UUID,
	email, phone, name, credentialHash string,
	role RoleName,
	guest bool,
	now time.Time,
) (*Actor, error) {
	a := &Actor{
		guest:     guest,
		active:    true,
		createdAt: now.UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setContact(email, phone),
		a.setName(name),
		a.setCredential(credentialHash),
		a.setRole(role),
	); err != nil {
		return nil, err
	}

	if guest && role != RoleCustomer {
		return nil, errs.NewValueIsInvalidError("guest actors must be customers")
	}

	return a, nil
}

// RestoreActor rebuilds an actor from storage without applying registration rules.
func RestoreActor(
	id kernel.UUID,
	email, phone, name, credentialHash string,
	guest, active bool,
	failedAttempts int,
	lockedUntil, lastAuthenticatedAt *time.Time,
	role RoleName,
	createdAt time.Time,
) (*Actor, error) {
	a := &Actor{
		credentialHash:      credentialHash,
		guest:               guest,
		active:              active,
		failedAttempts:      failedAttempts,
		lockedUntil:         lockedUntil,
		lastAuthenticatedAt: lastAuthenticatedAt,
		createdAt:           createdAt,
		guard:               guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setContact(email, phone),
		a.setName(name),
		a.setRole(role),
	); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *Actor) Validate() error {
	if a == nil {
		return ErrActorIsNotConstructed
	}
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a *Actor) ID() kernel.UUID { return a.id }
func (a *Actor) Email() string { return a.email }
func (a *Actor) Phone() string { return a.phone }
func (a *Actor) Name() string { return a.name }
func (a *Actor) CredentialHash() string { return a.credentialHash }
func (a *Actor) IsGuest() bool { return a.guest }
func (a *Actor) IsActive() bool { return a.active }
func (a *Actor) FailedAttempts() int { return a.failedAttempts }
func (a *Actor) LockedUntil() *time.Time { return a.lockedUntil }
func (a *Actor) LastAuthenticatedAt() *time.Time { return a.lastAuthenticatedAt }
func (a *Actor) Role() RoleName { return a.role }
func (a *Actor) CreatedAt() time.Time { return a.createdAt }
func (a *Actor) HasRole(role RoleName) bool { return a.role == role }
func (a *Actor) IsLocked(now time.Time) bool { return a.lockedUntil != nil && now.Before(*a.lockedUntil) }

// Contact returns the address notifications are sent to, preferring the phone number.
func (a *Actor) Contact() string {
	if a.phone != "" {
		return a.phone
	}
	return a.email
}

// CheckCanAuthenticate returns the reason the actor may not attempt a login right now.
// It never mutates the actor, so a rejected attempt during lockout leaves the counter alone.
func (a *Actor) CheckCanAuthenticate(now time.Time) error {
	if !a.active {
		return errs.ErrAccountInactive
	}
	if a.guest || a.credentialHash == "" {
		return errs.ErrInvalidCredentials
	}
	if a.IsLocked(now) {
		return errs.NewAccountLockedError(*a.lockedUntil)
	}
	return nil
}

// RegisterFailedLogin counts one failed attempt and reports whether it locked the account.
// A failure after an expired lock starts counting again from one.
func (a *Actor) RegisterFailedLogin(now time.Time, policy LockoutPolicy) bool {
	if a.lockedUntil != nil && !now.Before(*a.lockedUntil) {
		a.failedAttempts = 0
		a.lockedUntil = nil
	}

	a.failedAttempts++
	if a.failedAttempts < policy.Threshold {
		return false
	}

	until := now.Add(policy.Cooldown).UTC()
	a.lockedUntil = &until
	return true
}

// RegisterSuccessfulLogin clears the failure counter and any lock.
func (a *Actor) RegisterSuccessfulLogin(now time.Time) {
	at := now.UTC()
	a.failedAttempts = 0
	a.lockedUntil = nil
	a.lastAuthenticatedAt = &at
}

// ReplaceRole swaps the actor's role set for exactly {role} in one step.
func (a *Actor) ReplaceRole(role RoleName) error {
	if !a.active {
		return errs.NewStateConflictError("actor", "is inactive and cannot change role")
	}
	if a.guest {
		return errs.NewStateConflictError("actor", "is a guest and cannot change role")
	}
	if a.role == role {
		return errs.NewStateConflictError("actor", "already holds role "+string(role))
	}
	return a.setRole(role)
}

// Deactivate soft-deletes the actor. Orders keep referencing it.
func (a *Actor) Deactivate() error {
	if !a.active {
		return errs.NewStateConflictError("actor", "is already inactive")
	}
	a.active = false
	return nil
}

func (a *Actor) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Actor) setContact(email, phone string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)
	if email == "" && phone == "" {
		return ErrContactIsRequired
	}
	if email != "" && !strings.Contains(email, "@") {
		return errs.NewValueIsInvalidError("email")
	}
	a.email = email
	a.phone = phone
	return nil
}

func (a *Actor) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	a.name = name
	return nil
}

func (a *Actor) setCredential(hash string) error {
	if a.guest {
		if hash != "" {
			return errs.NewValueIsInvalidError("guest actors cannot carry a credential")
		}
		return nil
	}
	if hash == "" {
		return ErrCredentialIsRequired
	}
	a.credentialHash = hash
	return nil
}

func (a *Actor) setRole(role RoleName) error {
	parsed, err := ParseRoleName(string(role))
	if err != nil {
		return err
	}
	a.role = parsed
	return nil
}
