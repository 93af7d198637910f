package queries_test

import (
	"context"
	"testing"
	"time"

	"orderhub/internal/adapters/out/postgres/orderrepo"
	"orderhub/internal/adapters/out/postgres/pgtest"
	"orderhub/internal/core/application/usecases/queries"
	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/clock"
	"orderhub/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

// OrderQueriesIntegrationTestSuite runs the order read models against PostgreSQL.
type OrderQueriesIntegrationTestSuite struct {
	suite.Suite
	database *pgtest.Database
	orders   *orderrepo.GormOrderRepository
	tracking *orderrepo.GormTrackingRepository
	resolver stubResolver
	clock    *clock.Fixed

	customerID kernel.UUID
	strangerID kernel.UUID
	managerID  kernel.UUID
}

func (suite *OrderQueriesIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *OrderQueriesIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
	suite.orders = orderrepo.NewGormOrderRepository(suite.database.DB)
	suite.tracking = orderrepo.NewGormTrackingRepository(suite.database.DB)
	suite.clock = &clock.Fixed{At: testNow}

	suite.customerID = kernel.NewUUID()
	suite.strangerID = kernel.NewUUID()
	suite.managerID = kernel.NewUUID()
	suite.resolver = stubResolver{
		suite.customerID: {ActorID: suite.customerID, Active: true, Role: access.RoleCustomer},
		suite.strangerID: {ActorID: suite.strangerID, Active: true, Role: access.RoleCustomer},
		suite.managerID: {
			ActorID:      suite.managerID,
			Active:       true,
			Role:         access.RoleSubAdmin,
			Capabilities: access.NewCapabilitySet(access.CapOrderView),
		},
	}
}

func (suite *OrderQueriesIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetOrder_OwnerSeesFullView() {
	o := suite.placeOrder()

	query, err := queries.NewGetOrderQuery(o.ID(), suite.customerID)
	suite.Require().NoError(err)
	view, err := suite.getOrderHandler().Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.True(view.ID.IsEqual(o.ID()))
	suite.Equal(o.Number(), view.Number)
	suite.Equal(order.Pending.String(), view.Status)
	suite.Equal(o.Quote().Total.Int64(), view.Total)
	suite.Equal(o.Quote().Subtotal.Int64(), view.Subtotal)
	suite.Require().Len(view.Items, 2)
	suite.Equal("pilau", view.Items[0].MenuItemID)
	suite.Equal(2, view.Items[0].Quantity)
	suite.Equal(int64(1200), view.Items[0].UnitPrice)
	suite.Equal("chapati", view.Items[1].MenuItemID)
	suite.Nil(view.CourierID)
	suite.Nil(view.Rating)
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetOrder_HolderOfOrderViewIsAllowed() {
	o := suite.placeOrder()

	query, err := queries.NewGetOrderQuery(o.ID(), suite.managerID)
	suite.Require().NoError(err)
	_, err = suite.getOrderHandler().Handle(context.Background(), query)

	suite.Require().NoError(err)
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetOrder_StrangerIsDenied() {
	o := suite.placeOrder()

	query, err := queries.NewGetOrderQuery(o.ID(), suite.strangerID)
	suite.Require().NoError(err)
	_, err = suite.getOrderHandler().Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrPermissionDenied)
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetOrder_UnknownOrderIsNotFound() {
	query, err := queries.NewGetOrderQuery(kernel.NewUUID(), suite.managerID)
	suite.Require().NoError(err)
	_, err = suite.getOrderHandler().Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetOrderTrackingHistory_ChronologicalWithDispatchLocation() {
	ctx := context.Background()
	o := suite.placeOrder()
	courierID := kernel.NewUUID()

	at := testNow.Add(-50 * time.Minute)
	for _, step := range []order.Status{order.Confirmed, order.Preparing, order.Ready} {
		entry, err := o.Transition(step, "", at)
		suite.Require().NoError(err)
		suite.Require().NoError(suite.tracking.Append(ctx, entry))
		at = at.Add(5 * time.Minute)
	}
	dispatched, err := o.Dispatch(courierID, at)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.tracking.Append(ctx, dispatched))
	suite.Require().NoError(suite.orders.Update(ctx, o, order.Pending))

	suite.resolver[courierID] = access.Permissions{ActorID: courierID, Active: true, Role: access.RoleCourier}

	query, err := queries.NewGetOrderTrackingHistoryQuery(o.ID(), courierID)
	suite.Require().NoError(err)
	history, err := suite.trackingHandler().Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Require().Len(history, 5)
	expected := []order.Status{order.Pending, order.Confirmed, order.Preparing, order.Ready, order.OutForDelivery}
	for i, entry := range history {
		suite.Equal(expected[i].String(), entry.Status)
		if i > 0 {
			suite.False(entry.CreatedAt.Before(history[i-1].CreatedAt))
		}
	}
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetOrderTrackingHistory_StrangerIsDenied() {
	o := suite.placeOrder()

	query, err := queries.NewGetOrderTrackingHistoryQuery(o.ID(), suite.strangerID)
	suite.Require().NoError(err)
	_, err = suite.trackingHandler().Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrPermissionDenied)
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetOrderTrackingHistory_InactiveOwnerIsDenied() {
	o := suite.placeOrder()
	suite.resolver[suite.customerID] = access.Permissions{ActorID: suite.customerID, Role: access.RoleCustomer}

	query, err := queries.NewGetOrderTrackingHistoryQuery(o.ID(), suite.customerID)
	suite.Require().NoError(err)
	_, err = suite.trackingHandler().Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrPermissionDenied)
}

func (suite *OrderQueriesIntegrationTestSuite) getOrderHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(suite.database.DB, suite.resolver, suite.clock)
}

func (suite *OrderQueriesIntegrationTestSuite) trackingHandler() queries.GetOrderTrackingHistoryQueryHandler {
	return queries.NewGetOrderTrackingHistoryQueryHandler(suite.database.DB, suite.resolver, suite.clock)
}

func (suite *OrderQueriesIntegrationTestSuite) placeOrder() *order.Order {
	pilau, err := order.NewLineItem("pilau", 2, 1200)
	suite.Require().NoError(err)
	chapati, err := order.NewLineItem("chapati", 4, 50)
	suite.Require().NoError(err)

	o, placed, err := order.NewOrder(
		kernel.NewUUID(),
		order.NewOrderNumber(testNow),
		suite.customerID,
		[]order.LineItem{pilau, chapati},
		"Moi Avenue 12, Nairobi",
		"+254700000001",
		order.PaymentMpesa,
		order.DefaultPricingPolicy(),
		testNow.Add(-time.Hour),
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orders.Add(context.Background(), o))
	suite.Require().NoError(suite.tracking.Append(context.Background(), placed))
	return o
}

func TestOrderQueriesIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderQueriesIntegrationTestSuite))
}
