package commands_test

import (
	"errors"
	"testing"

	"courierpos/internal/core/application/usecases/commands"
	"courierpos/internal/core/domain/model/shipment"
	"courierpos/internal/core/domain/services"
	"courierpos/internal/core/ports"
	"courierpos/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func notFound(key string) error {
	return errs.NewObjectNotFoundError("idempotencyKey", key)
}

func TestCreateShipmentCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateShipmentCommand(operatorActor(t), testSpec(t),
		shipment.PayerSender, "reg7-001", nil)
	require.NoError(t, err)

	shipments := new(MockShipmentRepository)
	ledger := new(MockIdempotencyRepository)
	trail := new(MockAuditRepository)
	uow := new(MockShipmentUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("IdempotencyRepository").Return(ledger).Once(),
		ledger.On("Get", ctx, ports.OperationCreateShipment, "reg7-001").
			Return(ports.IdempotencyRecord{}, notFound("reg7-001")).Once(),
		uow.On("ShipmentRepository").Return(shipments).Once(),
		shipments.On("Add", mock.Anything, mock.AnythingOfType("*shipment.Shipment")).Return(nil).Once(),
		uow.On("IdempotencyRepository").Return(ledger).Once(),
		ledger.On("Add", mock.Anything, mock.AnythingOfType("ports.IdempotencyRecord")).Return(nil).Once(),
		uow.On("AuditRepository").Return(trail).Once(),
		trail.On("Add", mock.Anything, mock.AnythingOfType("audit.Event")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockShipmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	provider := new(MockRateTableProvider)
	provider.On("GetActiveVersion", ctx).Return(testVersion(t), nil).Once()

	h := commands.NewCreateShipmentCommandHandler(factory, provider, services.NewQuoteCalculator())
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.False(t, result.Replayed)
	assert.Equal(t, shipment.Booked, result.Status)
	assert.Equal(t, int64(2200), result.Quote.Total.Amount())
	shipments.AssertExpectations(t)
	ledger.AssertExpectations(t)
	trail.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCreateShipmentCommandHandler_Handle_LedgerHitReplays(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateShipmentCommand(operatorActor(t), testSpec(t),
		shipment.PayerSender, "reg7-001", nil)
	require.NoError(t, err)

	existing := bookedShipment(t, 2200, "reg7-001")

	shipments := new(MockShipmentRepository)
	ledger := new(MockIdempotencyRepository)
	uow := new(MockShipmentUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("IdempotencyRepository").Return(ledger).Once(),
		ledger.On("Get", ctx, ports.OperationCreateShipment, "reg7-001").
			Return(ports.IdempotencyRecord{
				OperationType:  ports.OperationCreateShipment,
				IdempotencyKey: "reg7-001",
				EntityID:       existing.ID(),
			}, nil).Once(),
		uow.On("ShipmentRepository").Return(shipments).Once(),
		shipments.On("Get", ctx, existing.ID()).Return(existing, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockShipmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	provider := new(MockRateTableProvider)

	h := commands.NewCreateShipmentCommandHandler(factory, provider, services.NewQuoteCalculator())
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.True(t, result.Replayed)
	assert.True(t, result.ShipmentID.IsEqual(existing.ID()))
	assert.True(t, result.Quote.IsEqual(existing.Quote()))
	provider.AssertNotCalled(t, "GetActiveVersion", mock.Anything)
	uow.AssertExpectations(t)
}

func TestCreateShipmentCommandHandler_Handle_ExpectedTotalMismatch(t *testing.T) {
	ctx := t.Context()
	expected := money(t, 9999)
	cmd, err := commands.NewCreateShipmentCommand(operatorActor(t), testSpec(t),
		shipment.PayerSender, "reg7-001", &expected)
	require.NoError(t, err)

	ledger := new(MockIdempotencyRepository)
	uow := new(MockShipmentUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("IdempotencyRepository").Return(ledger).Once(),
		ledger.On("Get", ctx, ports.OperationCreateShipment, "reg7-001").
			Return(ports.IdempotencyRecord{}, notFound("reg7-001")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockShipmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	provider := new(MockRateTableProvider)
	provider.On("GetActiveVersion", ctx).Return(testVersion(t), nil).Once()

	h := commands.NewCreateShipmentCommandHandler(factory, provider, services.NewQuoteCalculator())
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrConflict)
	uow.AssertExpectations(t)
}

func TestCreateShipmentCommandHandler_Handle_LostRaceReplaysWinner(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateShipmentCommand(operatorActor(t), testSpec(t),
		shipment.PayerSender, "reg7-001", nil)
	require.NoError(t, err)

	winner := bookedShipment(t, 2200, "reg7-001")

	shipments := new(MockShipmentRepository)
	ledger := new(MockIdempotencyRepository)
	uow := new(MockShipmentUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("IdempotencyRepository").Return(ledger).Once(),
		ledger.On("Get", ctx, ports.OperationCreateShipment, "reg7-001").
			Return(ports.IdempotencyRecord{}, notFound("reg7-001")).Once(),
		uow.On("ShipmentRepository").Return(shipments).Once(),
		shipments.On("Add", mock.Anything, mock.AnythingOfType("*shipment.Shipment")).Return(nil).Once(),
		uow.On("IdempotencyRepository").Return(ledger).Once(),
		ledger.On("Add", mock.Anything, mock.AnythingOfType("ports.IdempotencyRecord")).
			Return(errs.NewConflictError("idempotencyKey")).Once(),
	)
	uow.On("Rollback", ctx).Return(nil)

	replayShipments := new(MockShipmentRepository)
	replayLedger := new(MockIdempotencyRepository)
	replayUow := new(MockShipmentUoW)
	mock.InOrder(
		replayUow.On("Begin", ctx).Return(nil).Once(),
		replayUow.On("IdempotencyRepository").Return(replayLedger).Once(),
		replayLedger.On("Get", ctx, ports.OperationCreateShipment, "reg7-001").
			Return(ports.IdempotencyRecord{
				OperationType:  ports.OperationCreateShipment,
				IdempotencyKey: "reg7-001",
				EntityID:       winner.ID(),
			}, nil).Once(),
		replayUow.On("ShipmentRepository").Return(replayShipments).Once(),
		replayShipments.On("Get", ctx, winner.ID()).Return(winner, nil).Once(),
		replayUow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockShipmentUoWFactory)
	factory.On("Create").Return(uow).Once()
	factory.On("Create").Return(replayUow).Once()

	provider := new(MockRateTableProvider)
	provider.On("GetActiveVersion", ctx).Return(testVersion(t), nil).Once()

	h := commands.NewCreateShipmentCommandHandler(factory, provider, services.NewQuoteCalculator())
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.True(t, result.Replayed)
	assert.True(t, result.ShipmentID.IsEqual(winner.ID()))
	replayUow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateShipmentCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	factory := new(MockShipmentUoWFactory)
	provider := new(MockRateTableProvider)

	h := commands.NewCreateShipmentCommandHandler(factory, provider, services.NewQuoteCalculator())
	_, err := h.Handle(ctx, commands.CreateShipmentCommand{})
	require.Error(t, err)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateShipmentCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateShipmentCommand(operatorActor(t), testSpec(t),
		shipment.PayerSender, "reg7-001", nil)
	require.NoError(t, err)

	uow := new(MockShipmentUoW)
	factory := new(MockShipmentUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	provider := new(MockRateTableProvider)
	h := commands.NewCreateShipmentCommandHandler(factory, provider, services.NewQuoteCalculator())
	_, err = h.Handle(ctx, cmd)
	require.Error(t, err)
}
