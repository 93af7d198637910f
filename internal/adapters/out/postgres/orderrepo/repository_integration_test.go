package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"orderhub/internal/adapters/out/postgres/orderrepo"
	"orderhub/internal/adapters/out/postgres/pgtest"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

// OrderRepositoryIntegrationTestSuite provides integration tests for the order and
// tracking repositories using PostgreSQL containers.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	repository *orderrepo.GormOrderRepository
	tracking   *orderrepo.GormTrackingRepository
	now        time.Time
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
	suite.repository = orderrepo.NewGormOrderRepository(suite.database.DB)
	suite.tracking = orderrepo.NewGormTrackingRepository(suite.database.DB)
	suite.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ThenGet_RestoresEveryAttribute() {
	ctx := context.Background()
	o, _ := suite.createTestOrder()

	suite.Require().NoError(suite.repository.Add(ctx, o))

	restored, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.True(o.IsEqual(restored))
	suite.Equal(o.Number(), restored.Number())
	suite.Equal(order.Pending, restored.Status())
	suite.Equal(o.Quote(), restored.Quote())
	suite.Equal(o.Items(), restored.Items())
	suite.Equal(order.PaymentMpesa, restored.PaymentMethod())
	suite.Equal(order.PaymentPending, restored.PaymentStatus())
	suite.Nil(restored.Courier())
	suite.True(o.CreatedAt().Equal(restored.CreatedAt()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_UnknownOrder_ReturnsNotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_WithObservedStatus_Persists() {
	ctx := context.Background()
	o, _ := suite.createTestOrder()
	suite.Require().NoError(suite.repository.Add(ctx, o))

	_, err := o.Transition(order.Confirmed, "", suite.now.Add(time.Minute))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, o, order.Pending))

	restored, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, restored.Status())
	suite.Require().NotNil(restored.ConfirmedAt())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleObservedStatus_ReturnsConflictAndWritesNothing() {
	ctx := context.Background()
	o, _ := suite.createTestOrder()
	suite.Require().NoError(suite.repository.Add(ctx, o))

	first, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)

	_, err = first.Transition(order.Confirmed, "", suite.now.Add(time.Minute))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, first, order.Pending))

	_, err = second.Cancel("changed my mind", suite.now.Add(2*time.Minute))
	suite.Require().NoError(err)
	err = suite.repository.Update(ctx, second, order.Pending)

	suite.Require().ErrorIs(err, errs.ErrStateConflict)
	restored, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, restored.Status())
	suite.Nil(restored.CancelledAt())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_UnknownOrder_ReturnsNotFound() {
	o, _ := suite.createTestOrder()

	err := suite.repository.Update(context.Background(), o, order.Pending)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListByStatus_ReturnsOldestFirstUpToLimit() {
	ctx := context.Background()
	var ids []kernel.UUID
	for i := 0; i < 3; i++ {
		o, _ := suite.createTestOrder()
		suite.Require().NoError(suite.repository.Add(ctx, o))
		ids = append(ids, o.ID())
		suite.now = suite.now.Add(time.Minute)
	}

	orders, err := suite.repository.ListByStatus(ctx, order.Pending, 2)

	suite.Require().NoError(err)
	suite.Require().Len(orders, 2)
	suite.Equal(ids[0], orders[0].ID())
	suite.Equal(ids[1], orders[1].ID())

	none, err := suite.repository.ListByStatus(ctx, order.Ready, 10)
	suite.Require().NoError(err)
	suite.Empty(none)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListOutForDeliveryByCourier_OnlyReturnsCarriedOrders() {
	ctx := context.Background()
	courierID := kernel.NewUUID()

	carried := suite.createOrderIn(order.Ready)
	_, err := carried.Dispatch(courierID, suite.now.Add(time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, carried))

	reserved := suite.createOrderIn(order.Confirmed)
	suite.Require().NoError(reserved.ReserveCourier(courierID))
	suite.Require().NoError(suite.repository.Add(ctx, reserved))

	orders, err := suite.repository.ListOutForDeliveryByCourier(ctx, courierID)

	suite.Require().NoError(err)
	suite.Require().Len(orders, 1)
	suite.Equal(carried.ID(), orders[0].ID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestReleaseReservations_ClearsOnlyOrdersNotHandedOver() {
	ctx := context.Background()
	courierID := kernel.NewUUID()

	confirmed := suite.createOrderIn(order.Confirmed)
	suite.Require().NoError(confirmed.ReserveCourier(courierID))
	suite.Require().NoError(suite.repository.Add(ctx, confirmed))

	ready := suite.createOrderIn(order.Confirmed)
	suite.Require().NoError(ready.ReserveCourier(courierID))
	for _, step := range []order.Status{order.Preparing, order.Ready} {
		_, err := ready.Transition(step, "", suite.now.Add(time.Minute))
		suite.Require().NoError(err)
	}
	suite.Require().NoError(suite.repository.Add(ctx, ready))

	carried := suite.createOrderIn(order.Ready)
	_, err := carried.Dispatch(courierID, suite.now.Add(time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, carried))

	other := suite.createOrderIn(order.Confirmed)
	suite.Require().NoError(other.ReserveCourier(kernel.NewUUID()))
	suite.Require().NoError(suite.repository.Add(ctx, other))

	released, err := suite.repository.ReleaseReservations(ctx, courierID)

	suite.Require().NoError(err)
	suite.ElementsMatch([]kernel.UUID{confirmed.ID(), ready.ID()}, released)
	for _, id := range released {
		restored, getErr := suite.repository.Get(ctx, id)
		suite.Require().NoError(getErr)
		suite.Nil(restored.Courier())
	}
	stillCarried, err := suite.repository.Get(ctx, carried.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(stillCarried.Courier())
	suite.Equal(courierID, *stillCarried.Courier())
	untouched, err := suite.repository.Get(ctx, other.ID())
	suite.Require().NoError(err)
	suite.NotNil(untouched.Courier())

	again, err := suite.repository.ReleaseReservations(ctx, courierID)
	suite.Require().NoError(err)
	suite.Empty(again)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestTracking_ListByOrder_KeepsInsertionOrderForEqualTimestamps() {
	ctx := context.Background()
	o, placed := suite.createTestOrder()
	suite.Require().NoError(suite.repository.Add(ctx, o))
	suite.Require().NoError(suite.tracking.Append(ctx, placed))

	confirmed, err := o.Transition(order.Confirmed, "", suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.tracking.Append(ctx, confirmed))

	point, err := kernel.NewGeoPoint(-1.2921, 36.8219)
	suite.Require().NoError(err)
	located := order.TrackingEntry{
		ID: kernel.NewUUID(), OrderID: o.ID(), Status: order.Confirmed, Location: &point, CreatedAt: suite.now,
	}
	suite.Require().NoError(suite.tracking.Append(ctx, located))

	entries, err := suite.tracking.ListByOrder(ctx, o.ID())

	suite.Require().NoError(err)
	suite.Require().Len(entries, 3)
	suite.Equal(placed.ID, entries[0].ID)
	suite.Equal(confirmed.ID, entries[1].ID)
	suite.Equal(located.ID, entries[2].ID)
	suite.Require().NotNil(entries[2].Location)
	suite.InDelta(-1.2921, entries[2].Location.Lat(), 1e-9)
	for i := 1; i < len(entries); i++ {
		suite.False(entries[i].CreatedAt.Before(entries[i-1].CreatedAt))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() (*order.Order, order.TrackingEntry) {
	item, err := order.NewLineItem("pilau", 2, 650)
	suite.Require().NoError(err)

	o, entry, err := order.NewOrder(
		kernel.NewUUID(),
		order.NewOrderNumber(suite.now),
		kernel.NewUUID(),
		[]order.LineItem{item},
		"Moi Avenue 12, Nairobi",
		"+254700000001",
		order.PaymentMpesa,
		order.DefaultPricingPolicy(),
		suite.now,
	)
	suite.Require().NoError(err)
	return o, entry
}

func (suite *OrderRepositoryIntegrationTestSuite) createOrderIn(status order.Status) *order.Order {
	o, _ := suite.createTestOrder()
	at := suite.now
	for _, step := range []order.Status{order.Confirmed, order.Preparing, order.Ready} {
		if o.Status() == status {
			break
		}
		at = at.Add(time.Minute)
		_, err := o.Transition(step, "", at)
		suite.Require().NoError(err)
	}
	suite.Require().Equal(status, o.Status())
	return o
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
