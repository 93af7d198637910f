package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/model/courier"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/ports"
	"orderhub/internal/pkg/clock"
	"orderhub/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order, observed order.Status) error {
	args := m.Called(ctx, o, observed)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByStatus(ctx context.Context, status order.Status, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListOutForDeliveryByCourier(ctx context.Context, courierID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ReleaseReservations(ctx context.Context, courierID kernel.UUID) ([]kernel.UUID, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

type MockTrackingRepository struct{ mock.Mock }

func (m *MockTrackingRepository) Append(ctx context.Context, entry order.TrackingEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTrackingRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]order.TrackingEntry, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.TrackingEntry), args.Error(1)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) Reserve(ctx context.Context, id kernel.UUID, observed int64) error {
	args := m.Called(ctx, id, observed)
	return args.Error(0)
}

func (m *MockCourierRepository) ListCandidates(ctx context.Context, now time.Time) ([]courier.Candidate, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]courier.Candidate), args.Error(1)
}

func (m *MockCourierRepository) IsEligible(ctx context.Context, id kernel.UUID, now time.Time) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}

type MockActorRepository struct{ mock.Mock }

func (m *MockActorRepository) Add(ctx context.Context, a *access.Actor) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockActorRepository) Update(ctx context.Context, a *access.Actor) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockActorRepository) Get(ctx context.Context, id kernel.UUID) (*access.Actor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*access.Actor), args.Error(1)
}

func (m *MockActorRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*access.Actor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*access.Actor), args.Error(1)
}

func (m *MockActorRepository) FindByIdentifierForUpdate(ctx context.Context, identifier string) (*access.Actor, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*access.Actor), args.Error(1)
}

func (m *MockActorRepository) LockRole(ctx context.Context, role access.RoleName) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockActorRepository) CountActiveWithRole(ctx context.Context, role access.RoleName) (int, error) {
	args := m.Called(ctx, role)
	return args.Int(0), args.Error(1)
}

type MockRoleRepository struct{ mock.Mock }

func (m *MockRoleRepository) Catalog(ctx context.Context) (access.RoleCatalog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(access.RoleCatalog), args.Error(1)
}

func (m *MockRoleRepository) Upsert(ctx context.Context, role access.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

type MockGrantRepository struct{ mock.Mock }

func (m *MockGrantRepository) Add(ctx context.Context, grant access.Grant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

func (m *MockGrantRepository) ListActive(ctx context.Context, actorID kernel.UUID, now time.Time) ([]access.Grant, error) {
	args := m.Called(ctx, actorID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]access.Grant), args.Error(1)
}

type MockActivityRepository struct{ mock.Mock }

func (m *MockActivityRepository) Append(ctx context.Context, entry activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockActivityRepository) Query(ctx context.Context, filter activity.Filter) ([]activity.Entry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]activity.Entry), args.Error(1)
}

// MockUoW records transaction calls. Repository accessors hand out the mocks it holds.
type MockUoW struct {
	mock.Mock

	orders   *MockOrderRepository
	tracking *MockTrackingRepository
	couriers *MockCourierRepository
	actors   *MockActorRepository
	roles    *MockRoleRepository
	grants   *MockGrantRepository
	ledger   *MockActivityRepository
}

func newMockUoW() *MockUoW {
	return &MockUoW{
		orders:   new(MockOrderRepository),
		tracking: new(MockTrackingRepository),
		couriers: new(MockCourierRepository),
		actors:   new(MockActorRepository),
		roles:    new(MockRoleRepository),
		grants:   new(MockGrantRepository),
		ledger:   new(MockActivityRepository),
	}
}

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository       { return m.orders }
func (m *MockUoW) TrackingRepository() ports.TrackingRepository { return m.tracking }
func (m *MockUoW) CourierRepository() ports.CourierRepository   { return m.couriers }
func (m *MockUoW) ActorRepository() ports.ActorRepository       { return m.actors }
func (m *MockUoW) RoleRepository() ports.RoleRepository         { return m.roles }
func (m *MockUoW) GrantRepository() ports.GrantRepository       { return m.grants }
func (m *MockUoW) ActivityRepository() ports.ActivityRepository { return m.ledger }

// expectTx expects one successful transaction that commits.
func (m *MockUoW) expectTx() {
	m.On("Begin", mock.Anything).Return(nil)
	m.On("Commit", mock.Anything).Return(nil)
	m.On("Rollback", mock.Anything).Return(nil)
}

// expectAbortedTx expects transactions that roll back without committing.
func (m *MockUoW) expectAbortedTx() {
	m.On("Begin", mock.Anything).Return(nil)
	m.On("Rollback", mock.Anything).Return(nil)
}

func (m *MockUoW) assertAll(t *testing.T) {
	t.Helper()
	m.AssertExpectations(t)
	m.orders.AssertExpectations(t)
	m.tracking.AssertExpectations(t)
	m.couriers.AssertExpectations(t)
	m.actors.AssertExpectations(t)
	m.roles.AssertExpectations(t)
	m.grants.AssertExpectations(t)
	m.ledger.AssertExpectations(t)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

func factoryFor(uow *MockUoW) *MockUoWFactory {
	f := new(MockUoWFactory)
	f.On("Create").Return(uow)
	return f
}

// stubResolver serves fixed permissions. Unknown actors are reported as not found.
type stubResolver map[kernel.UUID]access.Permissions

func (s stubResolver) Resolve(_ context.Context, actorID kernel.UUID) (access.Permissions, error) {
	p, ok := s[actorID]
	if !ok {
		return access.Permissions{}, errs.NewObjectNotFoundError("actor", actorID.String())
	}
	return p, nil
}

func permissionsOf(id kernel.UUID, role access.RoleName, caps ...access.Capability) access.Permissions {
	return access.Permissions{
		ActorID:      id,
		Active:       true,
		Role:         role,
		Capabilities: access.NewCapabilitySet(caps...),
	}
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, contact string, kind ports.EventKind, payload map[string]any) error {
	args := m.Called(ctx, contact, kind, payload)
	return args.Error(0)
}

type MockCapabilityCache struct{ mock.Mock }

func (m *MockCapabilityCache) Get(ctx context.Context, actorID kernel.UUID) (access.Permissions, bool, error) {
	args := m.Called(ctx, actorID)
	return args.Get(0).(access.Permissions), args.Bool(1), args.Error(2)
}

func (m *MockCapabilityCache) Set(ctx context.Context, p access.Permissions) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockCapabilityCache) Invalidate(ctx context.Context, actorID kernel.UUID) error {
	args := m.Called(ctx, actorID)
	return args.Error(0)
}

// recordingMetrics keeps every reported outcome.
type recordingMetrics struct {
	transitions []string
	assignments []string
	attempts    []int
	auth        []string
}

func (r *recordingMetrics) OrderTransitioned(from, to string) {
	r.transitions = append(r.transitions, from+"->"+to)
}

func (r *recordingMetrics) AssignmentFinished(outcome string, attempts int) {
	r.assignments = append(r.assignments, outcome)
	r.attempts = append(r.attempts, attempts)
}

func (r *recordingMetrics) AuthenticationFinished(outcome string) {
	r.auth = append(r.auth, outcome)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock() *clock.Fixed {
	return &clock.Fixed{At: testNow}
}

func newPendingOrder(t *testing.T, customerID kernel.UUID) *order.Order {
	t.Helper()
	item, err := order.NewLineItem("pilau", 2, kernel.Money(1200))
	require.NoError(t, err)
	o, _, err := order.NewOrder(kernel.NewUUID(), order.NewOrderNumber(testNow), customerID,
		[]order.LineItem{item}, "Moi Avenue 12", "+254700000001", order.PaymentMpesa,
		order.DefaultPricingPolicy(), testNow.Add(-time.Hour))
	require.NoError(t, err)
	return o
}

// newOrderIn walks a fresh order along the graph up to status.
func newOrderIn(t *testing.T, customerID kernel.UUID, status order.Status) *order.Order {
	t.Helper()
	o := newPendingOrder(t, customerID)
	path := []order.Status{order.Confirmed, order.Preparing, order.Ready}
	at := testNow.Add(-50 * time.Minute)
	for _, next := range path {
		if o.Status() == status {
			return o
		}
		_, err := o.Transition(next, "", at)
		require.NoError(t, err)
		at = at.Add(5 * time.Minute)
	}
	if o.Status() == status {
		return o
	}
	_, err := o.Dispatch(kernel.NewUUID(), at)
	require.NoError(t, err)
	if status == order.Delivered {
		_, err = o.CompleteDelivery(*o.Courier(), at.Add(5*time.Minute))
		require.NoError(t, err)
	}
	require.Equal(t, status, o.Status())
	return o
}

func newCourierWithVersion(t *testing.T, name string, version int64) *courier.Courier {
	t.Helper()
	c, err := courier.RestoreCourier(courier.State{
		ID:        kernel.NewUUID(),
		Name:      name,
		Rating:    courier.DefaultRating,
		Version:   version,
		CreatedAt: testNow.Add(-24 * time.Hour),
	})
	require.NoError(t, err)
	return c
}
