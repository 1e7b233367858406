package commands_test

import (
	"testing"

	"courierpos/internal/core/application/usecases/commands"
	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/override"
	"courierpos/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReprintLabelCommandHandler_Handle_FirstPrintIsFree(t *testing.T) {
	ctx := t.Context()
	existing := bookedShipment(t, 2200, "reg7-001")
	cmd, err := commands.NewReprintLabelCommand(existing.ID(), operatorActor(t))
	require.NoError(t, err)

	shipments := new(MockShipmentRepository)
	overrides := new(MockOverrideRepository)
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

	h := commands.NewReprintLabelCommandHandler(factory)
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, 1, result.PrintCount)
	overrides.AssertNotCalled(t, "FindApproved", mock.Anything, mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
}

func TestReprintLabelCommandHandler_Handle_ReprintWithoutApprovalDenied(t *testing.T) {
	ctx := t.Context()
	existing := bookedShipment(t, 2200, "reg7-001")
	require.NoError(t, existing.RecordLabelPrint())
	cmd, err := commands.NewReprintLabelCommand(existing.ID(), operatorActor(t))
	require.NoError(t, err)

	shipments := new(MockShipmentRepository)
	overrides := new(MockOverrideRepository)
	uow := new(MockGatedActionUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ShipmentRepository").Return(shipments).Once(),
		shipments.On("Get", ctx, existing.ID()).Return(existing, nil).Once(),
		uow.On("OverrideRepository").Return(overrides).Once(),
		overrides.On("FindApproved", ctx, override.ActionLabelReprint, existing.ID()).
			Return(nil, errs.NewObjectNotFoundError("override", existing.ID())).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockGatedActionUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewReprintLabelCommandHandler(factory)
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	assert.Equal(t, 1, existing.LabelPrintCount())
	uow.AssertExpectations(t)
}

func TestReprintLabelCommandHandler_Handle_ReprintWithApproval(t *testing.T) {
	ctx := t.Context()
	existing := bookedShipment(t, 2200, "reg7-001")
	require.NoError(t, existing.RecordLabelPrint())
	operator := operatorActor(t)
	cmd, err := commands.NewReprintLabelCommand(existing.ID(), operator)
	require.NoError(t, err)

	target := existing.ID()
	approved := pendingOverride(t, override.ActionLabelReprint, operator.ID(), &target)
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
		overrides.On("FindApproved", ctx, override.ActionLabelReprint, existing.ID()).
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

	h := commands.NewReprintLabelCommandHandler(factory)
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 2, result.PrintCount)
	uow.AssertExpectations(t)
}

func TestReprintLabelCommandHandler_Handle_SupervisorBypassesGate(t *testing.T) {
	ctx := t.Context()
	existing := bookedShipment(t, 2200, "reg7-001")
	require.NoError(t, existing.RecordLabelPrint())
	cmd, err := commands.NewReprintLabelCommand(existing.ID(), supervisorActor(t))
	require.NoError(t, err)

	shipments := new(MockShipmentRepository)
	overrides := new(MockOverrideRepository)
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

	h := commands.NewReprintLabelCommandHandler(factory)
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 2, result.PrintCount)
	overrides.AssertNotCalled(t, "FindApproved", mock.Anything, mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
}
