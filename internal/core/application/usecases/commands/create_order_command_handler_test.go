package commands_test

import (
	"context"
	"errors"
	"testing"

	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/ports"
	"orderhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) GetItemPrice(ctx context.Context, itemID string) (kernel.Money, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(kernel.Money), args.Error(1)
}

func newCreateOrderHandler(
	uow *MockUoW,
	resolver stubResolver,
	catalog *MockCatalog,
	notifier *MockNotifier,
) commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(factoryFor(uow), resolver, catalog, notifier, fixedClock(),
		order.DefaultPricingPolicy(), discardLogger())
}

func TestCreateOrderCommandHandler_Handle_PricesFromCatalog(t *testing.T) {
	ctx := t.Context()
	customerID := kernel.NewUUID()
	clientPrice := int64(1)

	cmd, err := commands.NewCreateOrderCommand(customerID, []commands.OrderItemInput{
		{MenuItemID: "pilau", Quantity: 2, ClientPrice: &clientPrice},
		{MenuItemID: "chapati", Quantity: 3},
	}, "Moi Avenue 12", "+254700000001", "mpesa")
	require.NoError(t, err)

	catalog := new(MockCatalog)
	catalog.On("GetItemPrice", mock.Anything, "pilau").Return(kernel.Money(1200), nil).Once()
	catalog.On("GetItemPrice", mock.Anything, "chapati").Return(kernel.Money(100), nil).Once()

	uow := newMockUoW()
	uow.expectTx()
	uow.orders.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	uow.tracking.On("Append", mock.Anything, mock.MatchedBy(func(e order.TrackingEntry) bool {
		return e.Status == order.Pending
	})).Return(nil).Once()
	uow.ledger.On("Append", mock.Anything, mock.MatchedBy(func(e activity.Entry) bool {
		return e.Action == activity.ActionOrderCreated && e.ActorID != nil && e.ActorID.IsEqual(customerID)
	})).Return(nil).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, "+254700000001", ports.EventOrderPlaced, mock.Anything).Return(nil).Once()

	resolver := stubResolver{customerID: permissionsOf(customerID, access.RoleCustomer, access.CapOrderCreate)}
	handler := newCreateOrderHandler(uow, resolver, catalog, notifier)

	o, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Pending, o.Status())
	assert.Equal(t, int64(2700), o.Quote().Subtotal.Int64())
	assert.Equal(t, int64(200), o.DeliveryFee().Int64())
	assert.Equal(t, int64(2900), o.Total().Int64())
	assert.Equal(t, int64(1200), o.Items()[0].UnitPrice().Int64())
	uow.assertAll(t)
	catalog.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_UnavailableItemWritesNothing(t *testing.T) {
	ctx := t.Context()
	customerID := kernel.NewUUID()

	cmd, err := commands.NewCreateOrderCommand(customerID, []commands.OrderItemInput{
		{MenuItemID: "ugali", Quantity: 1},
	}, "Moi Avenue 12", "+254700000001", "cash")
	require.NoError(t, err)

	catalog := new(MockCatalog)
	catalog.On("GetItemPrice", mock.Anything, "ugali").
		Return(kernel.Money(0), errs.NewItemUnavailableError("ugali")).Once()

	uow := newMockUoW()
	factory := factoryFor(uow)
	resolver := stubResolver{customerID: permissionsOf(customerID, access.RoleCustomer, access.CapOrderCreate)}
	handler := commands.NewCreateOrderCommandHandler(factory, resolver, catalog, nil, fixedClock(),
		order.DefaultPricingPolicy(), discardLogger())

	o, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrItemUnavailable)
	assert.Nil(t, o)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_WithoutCapabilityIsDenied(t *testing.T) {
	ctx := t.Context()
	courierID := kernel.NewUUID()

	cmd, err := commands.NewCreateOrderCommand(courierID, []commands.OrderItemInput{
		{MenuItemID: "pilau", Quantity: 1},
	}, "Moi Avenue 12", "+254700000001", "card")
	require.NoError(t, err)

	catalog := new(MockCatalog)
	resolver := stubResolver{courierID: permissionsOf(courierID, access.RoleCourier, access.CapDeliveryComplete)}
	handler := newCreateOrderHandler(newMockUoW(), resolver, catalog, nil)

	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	catalog.AssertNotCalled(t, "GetItemPrice", mock.Anything, mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_NotificationFailureKeepsOrder(t *testing.T) {
	ctx := t.Context()
	customerID := kernel.NewUUID()

	cmd, err := commands.NewCreateOrderCommand(customerID, []commands.OrderItemInput{
		{MenuItemID: "pilau", Quantity: 5},
	}, "Moi Avenue 12", "+254700000001", "mpesa")
	require.NoError(t, err)

	catalog := new(MockCatalog)
	catalog.On("GetItemPrice", mock.Anything, "pilau").Return(kernel.Money(1200), nil)

	uow := newMockUoW()
	uow.expectTx()
	uow.orders.On("Add", mock.Anything, mock.Anything).Return(nil)
	uow.tracking.On("Append", mock.Anything, mock.Anything).Return(nil)
	uow.ledger.On("Append", mock.Anything, mock.Anything).Return(nil)

	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("gateway down"))

	resolver := stubResolver{customerID: permissionsOf(customerID, access.RoleCustomer, access.CapOrderCreate)}
	handler := newCreateOrderHandler(uow, resolver, catalog, notifier)

	o, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, int64(0), o.DeliveryFee().Int64(), "subtotal 6000 is above the free delivery threshold")
	uow.AssertCalled(t, "Commit", mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_LedgerFailureRollsBack(t *testing.T) {
	ctx := t.Context()
	customerID := kernel.NewUUID()

	cmd, err := commands.NewCreateOrderCommand(customerID, []commands.OrderItemInput{
		{MenuItemID: "pilau", Quantity: 1},
	}, "Moi Avenue 12", "+254700000001", "mpesa")
	require.NoError(t, err)

	catalog := new(MockCatalog)
	catalog.On("GetItemPrice", mock.Anything, "pilau").Return(kernel.Money(1200), nil)

	uow := newMockUoW()
	uow.expectAbortedTx()
	uow.orders.On("Add", mock.Anything, mock.Anything).Return(nil)
	uow.tracking.On("Append", mock.Anything, mock.Anything).Return(nil)
	uow.ledger.On("Append", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	notifier := new(MockNotifier)
	resolver := stubResolver{customerID: permissionsOf(customerID, access.RoleCustomer, access.CapOrderCreate)}
	handler := newCreateOrderHandler(uow, resolver, catalog, notifier)

	_, err = handler.Handle(ctx, cmd)

	require.EqualError(t, err, "disk full")
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertCalled(t, "Rollback", mock.Anything)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockUoWFactory)
	handler := commands.NewCreateOrderCommandHandler(factory, stubResolver{}, new(MockCatalog), nil, fixedClock(),
		order.DefaultPricingPolicy(), discardLogger())

	_, err := handler.Handle(t.Context(), commands.CreateOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
