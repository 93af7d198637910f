package commands_test

import (
	"testing"
	"time"

	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/model/courier"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/ports"
	"orderhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTransitionHandler(
	uow *MockUoW,
	resolver stubResolver,
	notifier *MockNotifier,
	metrics *recordingMetrics,
) commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(factoryFor(uow), resolver, notifier, fixedClock(), metrics,
		discardLogger())
}

func TestTransitionOrderCommandHandler_Handle_StaffConfirms(t *testing.T) {
	ctx := t.Context()
	staffID := kernel.NewUUID()
	o := newPendingOrder(t, kernel.NewUUID())

	uow := newMockUoW()
	uow.expectTx()
	uow.orders.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	uow.orders.On("Update", mock.Anything, o, order.Pending).Return(nil).Once()
	uow.tracking.On("Append", mock.Anything, mock.MatchedBy(func(e order.TrackingEntry) bool {
		return e.Status == order.Confirmed && e.Note == "kitchen accepted"
	})).Return(nil).Once()
	uow.ledger.On("Append", mock.Anything, mock.MatchedBy(func(e activity.Entry) bool {
		return e.Action == activity.ActionOrderTransitioned &&
			e.Details["from"] == "PENDING" && e.Details["to"] == "CONFIRMED"
	})).Return(nil).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, o.Contact(), ports.EventOrderStatus, mock.Anything).Return(nil).Once()
	metrics := &recordingMetrics{}

	resolver := stubResolver{staffID: permissionsOf(staffID, access.RoleSubAdmin, access.CapOrderConfirm)}
	handler := newTransitionHandler(uow, resolver, notifier, metrics)

	cmd, err := commands.NewTransitionOrderCommand(o.ID(), "CONFIRMED", staffID, "kitchen accepted")
	require.NoError(t, err)

	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Confirmed, result.Status())
	require.NotNil(t, result.ConfirmedAt())
	assert.Equal(t, testNow, *result.ConfirmedAt())
	assert.Equal(t, []string{"PENDING->CONFIRMED"}, metrics.transitions)
	uow.assertAll(t)
	notifier.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_IllegalEdgeLeavesOrderUntouched(t *testing.T) {
	ctx := t.Context()
	staffID := kernel.NewUUID()
	o := newPendingOrder(t, kernel.NewUUID())

	uow := newMockUoW()
	uow.expectAbortedTx()
	uow.orders.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()

	resolver := stubResolver{staffID: permissionsOf(staffID, access.RoleSubAdmin, access.CapOrderMarkReady)}
	handler := newTransitionHandler(uow, resolver, nil, &recordingMetrics{})

	cmd, err := commands.NewTransitionOrderCommand(o.ID(), "READY", staffID, "")
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrStateConflict)
	assert.Equal(t, order.Pending, o.Status())
	assert.Nil(t, o.ReadyAt())
	uow.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	uow.tracking.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestTransitionOrderCommandHandler_Handle_MissingCapabilityIsDenied(t *testing.T) {
	ctx := t.Context()
	courierID := kernel.NewUUID()
	o := newPendingOrder(t, kernel.NewUUID())

	uow := newMockUoW()
	uow.expectAbortedTx()
	uow.orders.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()

	resolver := stubResolver{courierID: permissionsOf(courierID, access.RoleCourier, access.CapDeliveryComplete)}
	handler := newTransitionHandler(uow, resolver, nil, &recordingMetrics{})

	cmd, err := commands.NewTransitionOrderCommand(o.ID(), "CONFIRMED", courierID, "")
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	assert.Equal(t, order.Pending, o.Status())
}

func TestTransitionOrderCommandHandler_Handle_LostRaceIsConflict(t *testing.T) {
	ctx := t.Context()
	staffID := kernel.NewUUID()
	o := newPendingOrder(t, kernel.NewUUID())

	uow := newMockUoW()
	uow.expectAbortedTx()
	uow.orders.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	uow.orders.On("Update", mock.Anything, o, order.Pending).
		Return(errs.NewStateConflictError("order", "is no longer PENDING")).Once()

	metrics := &recordingMetrics{}
	resolver := stubResolver{staffID: permissionsOf(staffID, access.RoleSubAdmin, access.CapOrderConfirm)}
	handler := newTransitionHandler(uow, resolver, nil, metrics)

	cmd, err := commands.NewTransitionOrderCommand(o.ID(), "CONFIRMED", staffID, "")
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrStateConflict)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	assert.Empty(t, metrics.transitions)
}

func TestTransitionOrderCommandHandler_Handle_DeliveredBooksCourier(t *testing.T) {
	ctx := t.Context()
	staffID := kernel.NewUUID()
	o := newOrderIn(t, kernel.NewUUID(), order.OutForDelivery)
	c, err := courier.RestoreCourier(courier.State{
		ID:        *o.Courier(),
		Name:      "Wanjiru",
		Rating:    courier.DefaultRating,
		CreatedAt: testNow.Add(-24 * time.Hour),
	})
	require.NoError(t, err)

	uow := newMockUoW()
	uow.expectTx()
	uow.orders.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	uow.couriers.On("GetForUpdate", mock.Anything, c.ID()).Return(c, nil).Once()
	uow.couriers.On("Update", mock.Anything, c).Return(nil).Once()
	uow.orders.On("Update", mock.Anything, o, order.OutForDelivery).Return(nil).Once()
	uow.tracking.On("Append", mock.Anything, mock.Anything).Return(nil).Once()
	uow.ledger.On("Append", mock.Anything, mock.Anything).Return(nil).Once()

	resolver := stubResolver{staffID: permissionsOf(staffID, access.RoleAdmin, access.CapOrderDeliver)}
	handler := newTransitionHandler(uow, resolver, nil, &recordingMetrics{})

	cmd, err := commands.NewTransitionOrderCommand(o.ID(), "DELIVERED", staffID, "")
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, c.TotalDeliveries())
	assert.Equal(t, 1, c.SuccessfulDeliveries())
	assert.Equal(t, o.DeliveryFee(), c.TotalEarnings())
	uow.assertAll(t)
}

func TestCancelOrderCommandHandler_Handle(t *testing.T) {
	tests := []struct {
		name        string
		status      order.Status
		ownerCancel bool
		caps        []access.Capability
		wantErr     error
	}{
		{name: "owner cancels pending order", status: order.Pending, ownerCancel: true},
		{name: "owner cancels confirmed order", status: order.Confirmed, ownerCancel: true},
		{name: "staff cancels with capability", status: order.Pending, caps: []access.Capability{access.CapOrderCancel}},
		{name: "stranger is denied", status: order.Pending, wantErr: errs.ErrPermissionDenied},
		{name: "preparing order cannot be cancelled", status: order.Preparing, ownerCancel: true,
			wantErr: errs.ErrStateConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			customerID := kernel.NewUUID()
			o := newOrderIn(t, customerID, tt.status)

			actorID := kernel.NewUUID()
			role := access.RoleSubAdmin
			if tt.ownerCancel {
				actorID = customerID
				role = access.RoleCustomer
			}

			uow := newMockUoW()
			uow.On("Begin", mock.Anything).Return(nil)
			uow.On("Rollback", mock.Anything).Return(nil)
			uow.On("Commit", mock.Anything).Return(nil).Maybe()
			uow.orders.On("Get", mock.Anything, o.ID()).Return(o, nil)
			uow.orders.On("Update", mock.Anything, o, tt.status).Return(nil).Maybe()
			uow.tracking.On("Append", mock.Anything, mock.Anything).Return(nil).Maybe()
			uow.ledger.On("Append", mock.Anything, mock.MatchedBy(func(e activity.Entry) bool {
				return e.Action == activity.ActionOrderCancelled
			})).Return(nil).Maybe()

			resolver := stubResolver{actorID: permissionsOf(actorID, role, tt.caps...)}
			transitions := newTransitionHandler(uow, resolver, nil, &recordingMetrics{})
			handler := commands.NewCancelOrderCommandHandler(transitions)

			cmd, err := commands.NewCancelOrderCommand(o.ID(), actorID, "")
			require.NoError(t, err)

			result, err := handler.Handle(ctx, cmd)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.status, o.Status())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, order.Cancelled, result.Status())
			assert.Nil(t, result.Courier())
			assert.NotNil(t, result.CancelledAt())
		})
	}
}

func TestCancelOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	transitions := newTransitionHandler(newMockUoW(), stubResolver{}, nil, &recordingMetrics{})
	handler := commands.NewCancelOrderCommandHandler(transitions)

	_, err := handler.Handle(t.Context(), commands.CancelOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCancelOrderCommandIsNotConstructed)
}
