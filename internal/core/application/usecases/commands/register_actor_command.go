package commands

import (
	"errors"
	"strings"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

const MinSecretLength = 8

var ErrRegisterActorCommandIsNotConstructed = errors.New(
	"RegisterActorCommand must be created via NewRegisterActorCommand constructor",
)

// RegisterActorCommand signs up a customer or a courier. Staff roles are only reachable
// through promotion. A guest registration creates a customer without a credential.
type RegisterActorCommand struct {
	email  string
	phone  string
	name   string
	secret string
	role   access.RoleName
	guest  bool

	guard guard.ConstructorGuard
}

func NewRegisterActorCommand(email, phone, name, secret, role string, guest bool) (RegisterActorCommand, error) {
	parsed, err := access.ParseRoleName(role)
	if err != nil {
		return RegisterActorCommand{}, err
	}

	var errList []error
	if parsed != access.RoleCustomer && parsed != access.RoleCourier {
		errList = append(errList, errs.NewValueIsInvalidError("role "+role+" cannot be self-registered"))
	}
	if guest {
		if parsed != access.RoleCustomer {
			errList = append(errList, errs.NewValueIsInvalidError("only customers can check out as guests"))
		}
		if secret != "" {
			errList = append(errList, errs.NewValueIsInvalidError("guests do not have a secret"))
		}
	} else if len(secret) < MinSecretLength {
		errList = append(errList, errs.NewValueIsOutOfRangeError("secret length", len(secret), MinSecretLength, "unbounded"))
	}
	if strings.TrimSpace(email) == "" && strings.TrimSpace(phone) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("email or phone"))
	}
	if strings.TrimSpace(name) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("name"))
	}
	if err = errors.Join(errList...); err != nil {
		return RegisterActorCommand{}, err
	}

	return RegisterActorCommand{
		email:  email,
		phone:  phone,
		name:   name,
		secret: secret,
		role:   parsed,
		guest:  guest,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterActorCommand) Email() string {
	return c.email
}

func (c RegisterActorCommand) Phone() string {
	return c.phone
}

func (c RegisterActorCommand) Name() string {
	return c.name
}

func (c RegisterActorCommand) Secret() string {
	return c.secret
}

func (c RegisterActorCommand) Role() access.RoleName {
	return c.role
}

func (c RegisterActorCommand) Guest() bool {
	return c.guest
}

func (c RegisterActorCommand) Validate() error {
	return c.guard.Validate(ErrRegisterActorCommandIsNotConstructed)
}
