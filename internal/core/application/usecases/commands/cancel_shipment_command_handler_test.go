package commands_test

import (
	"testing"

	"courierpos/internal/core/application/usecases/commands"
	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/override"
	"courierpos/internal/core/domain/model/shipment"
	"courierpos/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCancelShipmentCommandHandler_Handle_SupervisorCancels(t *testing.T) {
	ctx := t.Context()
	existing := bookedShipment(t, 2200, "reg7-001")
	cmd, err := commands.NewCancelShipmentCommand(existing.ID(), supervisorActor(t),
		"duplicate booking")
	require.NoError(t, err)

	shipments := new(MockShipmentRepository)
	trail := new(MockAuditRepository)
	uow := new(MockGatedActionUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ShipmentRepository").Return(shipments).Once(),
		shipments.On("Get", ctx, existing.ID()).Return(existing, nil).Once(),
		uow.On("ShipmentRepository").Return(shipments).Once(),
		shipments.On("Update", mock.Anything, existing).Return(nil).Once(),
		uow.On("AuditRepository").Return(trail).Once(),
		trail.On("Add", mock.Anything, mock.AnythingOfType("audit.Event")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockGatedActionUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelShipmentCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))
	assert.Equal(t, shipment.Cancelled, existing.Status())
	uow.AssertExpectations(t)
}

func TestCancelShipmentCommandHandler_Handle_OperatorNeedsApproval(t *testing.T) {
	ctx := t.Context()
	existing := bookedShipment(t, 2200, "reg7-001")
	cmd, err := commands.NewCancelShipmentCommand(existing.ID(), operatorActor(t),
		"customer walked out")
	require.NoError(t, err)

	shipments := new(MockShipmentRepository)
	overrides := new(MockOverrideRepository)
	uow := new(MockGatedActionUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ShipmentRepository").Return(shipments).Once(),
		shipments.On("Get", ctx, existing.ID()).Return(existing, nil).Once(),
		uow.On("OverrideRepository").Return(overrides).Once(),
		overrides.On("FindApproved", ctx, override.ActionCancellation, existing.ID()).
			Return(nil, errs.NewObjectNotFoundError("override", existing.ID())).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockGatedActionUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelShipmentCommandHandler(factory)
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	assert.Equal(t, shipment.Booked, existing.Status())
	uow.AssertExpectations(t)
}

func TestCancelShipmentCommandHandler_Handle_OperatorWithApproval(t *testing.T) {
	ctx := t.Context()
	existing := bookedShipment(t, 2200, "reg7-001")
	operator := operatorActor(t)
	cmd, err := commands.NewCancelShipmentCommand(existing.ID(), operator,
		"customer walked out")
	require.NoError(t, err)

	target := existing.ID()
	approved := pendingOverride(t, override.ActionCancellation, operator.ID(), &target)
	require.NoError(t, approved.Approve(kernel.NewUUID(), "", approved.CreatedAt()))

	shipments := new(MockShipmentRepository)
	overrides := new(MockOverrideRepository)
	trail := new(MockAuditRepository)
	uow := new(MockGatedActionUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ShipmentRepository").Return(shipments).Once(),
		shipments.On("Get", ctx, existing.ID()).Return(existing, nil).Once(),
		uow.On("OverrideRepository").Return(overrides).Once(),
		overrides.On("FindApproved", ctx, override.ActionCancellation, existing.ID()).
			Return(approved, nil).Once(),
		uow.On("ShipmentRepository").Return(shipments).Once(),
		shipments.On("Update", mock.Anything, existing).Return(nil).Once(),
		uow.On("AuditRepository").Return(trail).Once(),
		trail.On("Add", mock.Anything, mock.AnythingOfType("audit.Event")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockGatedActionUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelShipmentCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))
	assert.Equal(t, shipment.Cancelled, existing.Status())
	uow.AssertExpectations(t)
}

func TestCancelShipmentCommandHandler_Handle_PaidShipmentConflicts(t *testing.T) {
	ctx := t.Context()
	existing := bookedShipment(t, 2200, "reg7-001")
	require.NoError(t, existing.ApplyPayment(money(t, 2200)))
	cmd, err := commands.NewCancelShipmentCommand(existing.ID(), supervisorActor(t),
		"too late")
	require.NoError(t, err)

	shipments := new(MockShipmentRepository)
	uow := new(MockGatedActionUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ShipmentRepository").Return(shipments).Once(),
		shipments.On("Get", ctx, existing.ID()).Return(existing, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockGatedActionUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelShipmentCommandHandler(factory)
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrConflict)
	uow.AssertExpectations(t)
}
