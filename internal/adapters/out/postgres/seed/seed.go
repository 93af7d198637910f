// Package seed loads the static role catalog and the demo menu into the database.
package seed

import (
	"context"
	_ "embed"

	"orderhub/internal/adapters/out/postgres/accessrepo"
	"orderhub/internal/adapters/out/postgres/menurepo"
	"orderhub/internal/core/domain/model/access"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed roles.yaml
var rolesYAML []byte

//go:embed menu.yaml
var menuYAML []byte

type roleFile struct {
	Roles []struct {
		Name         string   `yaml:"name"`
		Tier         int      `yaml:"tier"`
		MaxMembers   int      `yaml:"max_members"`
		Capabilities []string `yaml:"capabilities"`
	} `yaml:"roles"`
}

type menuFile struct {
	Items []struct {
		ID    string `yaml:"id"`
		Name  string `yaml:"name"`
		Price int64  `yaml:"price"`
	} `yaml:"items"`
}

// Roles parses the embedded role catalog.
func Roles() ([]access.Role, error) {
	return ParseRoles(rolesYAML)
}

// ParseRoles parses a role catalog document.
func ParseRoles(data []byte) ([]access.Role, error) {
	var f roleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse role catalog")
	}

	roles := make([]access.Role, 0, len(f.Roles))
	for _, r := range f.Roles {
		caps := make([]access.Capability, 0, len(r.Capabilities))
		for _, c := range r.Capabilities {
			caps = append(caps, access.Capability(c))
		}
		role, err := access.NewRole(access.RoleName(r.Name), caps, r.MaxMembers, r.Tier)
		if err != nil {
			return nil, errors.Wrapf(err, "role %s", r.Name)
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// Run upserts the role catalog and the menu. It is safe to run repeatedly.
func Run(ctx context.Context, db *gorm.DB) (int, int, error) {
	roles, err := Roles()
	if err != nil {
		return 0, 0, err
	}

	var menu menuFile
	if err = yaml.Unmarshal(menuYAML, &menu); err != nil {
		return 0, 0, errors.Wrap(err, "parse menu")
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roleRepo := accessrepo.NewGormRoleRepository(tx)
		for _, role := range roles {
			if upsertErr := roleRepo.Upsert(ctx, role); upsertErr != nil {
				return upsertErr
			}
		}

		catalog := menurepo.NewGormCatalog(tx)
		for _, item := range menu.Items {
			if upsertErr := catalog.Upsert(ctx, menurepo.MenuItemDTO{
				ID:        item.ID,
				Name:      item.Name,
				Price:     item.Price,
				Available: true,
			}); upsertErr != nil {
				return upsertErr
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return len(roles), len(menu.Items), nil
}
