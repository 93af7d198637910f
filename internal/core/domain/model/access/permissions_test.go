package access_test

import (
	"testing"
	"time"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) access.RoleCatalog {
	t.Helper()
	superAdmin, err := access.NewRole(access.RoleSuperAdmin, nil, 3, 3)
	require.NoError(t, err)
	admin, err := access.NewRole(access.RoleAdmin, []access.Capability{access.CapOrderConfirm, access.CapRoleManage}, 2, 2)
	require.NoError(t, err)
	customer, err := access.NewRole(access.RoleCustomer, []access.Capability{access.CapOrderCreate, access.CapDeliveryRate}, 0, 0)
	require.NoError(t, err)
	return access.NewRoleCatalog(superAdmin, admin, customer)
}

func TestResolvePermissions(t *testing.T) {
	catalog := testCatalog(t)

	t.Run("should allow role capabilities only", func(t *testing.T) {
		a := newTestActor(t, access.RoleCustomer)

		p, err := access.ResolvePermissions(a, catalog, nil, testNow)

		require.NoError(t, err)
		assert.True(t, p.Allows(access.CapOrderCreate, testNow))
		assert.False(t, p.Allows(access.CapOrderConfirm, testNow))
	})

	t.Run("should allow super admin everything", func(t *testing.T) {
		a := newTestActor(t, access.RoleSuperAdmin)

		p, err := access.ResolvePermissions(a, catalog, nil, testNow)

		require.NoError(t, err)
		for _, c := range access.KnownCapabilities() {
			assert.True(t, p.Allows(c, testNow), string(c))
		}
	})

	t.Run("should honour grants until they expire", func(t *testing.T) {
		a := newTestActor(t, access.RoleCustomer)
		live, err := access.NewGrant(a.ID(), access.CapActivityRead, kernel.NewUUID(), testNow.Add(time.Hour), testNow)
		require.NoError(t, err)
		expired := live
		expired.Capability = access.CapOrderCancel
		expired.ExpiresAt = testNow.Add(-time.Minute)

		p, err := access.ResolvePermissions(a, catalog, []access.Grant{live, expired}, testNow)

		require.NoError(t, err)
		assert.Len(t, p.Grants, 1)
		assert.True(t, p.Allows(access.CapActivityRead, testNow))
		assert.False(t, p.Allows(access.CapActivityRead, testNow.Add(2*time.Hour)))
		assert.False(t, p.Allows(access.CapOrderCancel, testNow))
	})

	t.Run("should deny inactive actors", func(t *testing.T) {
		a := newTestActor(t, access.RoleSuperAdmin)
		require.NoError(t, a.Deactivate())

		p, err := access.ResolvePermissions(a, catalog, nil, testNow)

		require.NoError(t, err)
		assert.False(t, p.Allows(access.CapOrderCreate, testNow))
	})

	t.Run("should fail for a role missing from the catalog", func(t *testing.T) {
		a := newTestActor(t, access.RoleCourier)

		_, err := access.ResolvePermissions(a, catalog, nil, testNow)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestNewGrant(t *testing.T) {
	_, err := access.NewGrant(kernel.NewUUID(), "order.fly", kernel.NewUUID(), testNow.Add(time.Hour), testNow)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = access.NewGrant(kernel.NewUUID(), access.CapOrderView, kernel.NewUUID(), testNow, testNow)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestRole(t *testing.T) {
	catalog := testCatalog(t)

	admin, err := catalog.Get(access.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, admin.IsCapped())
	assert.True(t, admin.HasCapacity(1))
	assert.False(t, admin.HasCapacity(2))

	customer, err := catalog.Get(access.RoleCustomer)
	require.NoError(t, err)
	assert.True(t, customer.HasCapacity(1_000_000))

	_, err = access.NewRole(access.RoleAdmin, []access.Capability{"bogus"}, 0, 0)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = access.NewRole(access.RoleAdmin, nil, -1, 0)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = access.ParseRoleName("owner")
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestCapabilitySet(t *testing.T) {
	a := access.NewCapabilitySet(access.CapOrderView, access.CapOrderCreate)
	b := access.NewCapabilitySet(access.CapOrderCreate, access.CapActivityRead)

	u := a.Union(b)

	assert.Equal(t, []access.Capability{access.CapActivityRead, access.CapOrderCreate, access.CapOrderView}, u.Sorted())
	assert.Len(t, a, 2)
}
