package commands

import (
	"errors"
	"strings"

	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

var ErrAuthenticateCommandIsNotConstructed = errors.New(
	"AuthenticateCommand must be created via NewAuthenticateCommand constructor",
)

// AuthenticateCommand carries a login attempt. The identifier is an email or a phone number.
type AuthenticateCommand struct {
	identifier string
	secret     string

	guard guard.ConstructorGuard
}

func NewAuthenticateCommand(identifier, secret string) (AuthenticateCommand, error) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		identifier = strings.ToLower(identifier)
	}

	var errList []error
	if identifier == "" {
		errList = append(errList, errs.NewValueIsRequiredError("identifier"))
	}
	if secret == "" {
		errList = append(errList, errs.NewValueIsRequiredError("secret"))
	}
	if err := errors.Join(errList...); err != nil {
		return AuthenticateCommand{}, err
	}

	return AuthenticateCommand{identifier: identifier, secret: secret, guard: guard.NewConstructorGuard()}, nil
}

func (c AuthenticateCommand) Identifier() string {
	return c.identifier
}

func (c AuthenticateCommand) Secret() string {
	return c.secret
}

func (c AuthenticateCommand) Validate() error {
	return c.guard.Validate(ErrAuthenticateCommandIsNotConstructed)
}
