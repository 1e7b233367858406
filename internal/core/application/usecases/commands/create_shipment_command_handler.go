package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courierpos/internal/core/domain/model/audit"
	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/quote"
	"courierpos/internal/core/domain/model/shipment"
	"courierpos/internal/core/domain/services"
	"courierpos/internal/core/ports"
	"courierpos/internal/pkg/errs"
)

// CreateShipmentResult is what booking returns, identical whether the booking
// ran for the first time or was replayed from the idempotency ledger.
type CreateShipmentResult struct {
	ShipmentID kernel.UUID
	Quote      quote.Quote
	Status     shipment.Status
	Replayed   bool
}

// CreateShipmentCommandHandler books shipments exactly once per idempotency
// key. On a ledger hit the stored shipment is returned unchanged; on a miss
// the spec is re-priced against the active rate table and the shipment, its
// ledger record and its audit event are persisted in one transaction.
//
// Two concurrent requests with the same key race on the ledger's unique
// index: the loser rolls back completely and replays the winner's result.
type CreateShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
	provider   ports.RateTableProvider
	calculator services.QuoteCalculator
}

// NewCreateShipmentCommandHandler creates a handler for shipment booking.
func NewCreateShipmentCommandHandler(
	uowFactory ShipmentUoWFactory,
	provider ports.RateTableProvider,
	calculator services.QuoteCalculator,
) CreateShipmentCommandHandler {
	return CreateShipmentCommandHandler{
		uowFactory: uowFactory,
		provider:   provider,
		calculator: calculator,
	}
}

// Handle books the shipment or replays a previous booking under the same key.
func (h *CreateShipmentCommandHandler) Handle(
	ctx context.Context,
	cmd CreateShipmentCommand,
) (CreateShipmentResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateShipmentResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CreateShipmentResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	record, err := uow.IdempotencyRepository().Get(
		ctx, ports.OperationCreateShipment, cmd.IdempotencyKey())
	if err == nil {
		return h.replay(ctx, uow, record)
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return CreateShipmentResult{}, err
	}

	version, err := h.provider.GetActiveVersion(ctx)
	if err != nil {
		return CreateShipmentResult{}, err
	}

	priced, err := h.calculator.Calculate(cmd.Spec(), *version)
	if err != nil {
		return CreateShipmentResult{}, err
	}

	if expected := cmd.ExpectedTotal(); expected != nil && !priced.Total.IsEqual(*expected) {
		return CreateShipmentResult{}, errs.NewConflictErrorWithCause("expectedTotal",
			fmt.Errorf("quoted total %s does not match expected %s", priced.Total, *expected))
	}

	now := time.Now().UTC()
	aggregate, err := shipment.NewShipment(kernel.NewUUID(), cmd.Spec(),
		cmd.PayerType(), priced, cmd.IdempotencyKey(), now)
	if err != nil {
		return CreateShipmentResult{}, err
	}

	if err = uow.ShipmentRepository().Add(ctx, aggregate); err != nil {
		return CreateShipmentResult{}, err
	}

	err = uow.IdempotencyRepository().Add(ctx, ports.IdempotencyRecord{
		OperationType:  ports.OperationCreateShipment,
		IdempotencyKey: cmd.IdempotencyKey(),
		EntityID:       aggregate.ID(),
		CreatedAt:      now,
	})
	if errors.Is(err, errs.ErrConflict) {
		// Lost the unique-index race: drop everything and replay the winner.
		_ = uow.Rollback(ctx)
		return h.replayAfterLostRace(ctx, cmd.IdempotencyKey())
	}
	if err != nil {
		return CreateShipmentResult{}, err
	}

	event, err := audit.NewEvent(kernel.NewUUID(), audit.EventShipmentCreated,
		cmd.Actor().ID(), aggregate.ID(),
		fmt.Sprintf(`{"total":"%s","rateTableVersion":"%s"}`,
			priced.Total, priced.RateTableVersion),
		now)
	if err != nil {
		return CreateShipmentResult{}, err
	}
	if err = uow.AuditRepository().Add(ctx, event); err != nil {
		return CreateShipmentResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateShipmentResult{}, err
	}

	return CreateShipmentResult{
		ShipmentID: aggregate.ID(),
		Quote:      aggregate.Quote(),
		Status:     aggregate.Status(),
	}, nil
}

func (h *CreateShipmentCommandHandler) replay(
	ctx context.Context,
	uow ShipmentUoW,
	record ports.IdempotencyRecord,
) (CreateShipmentResult, error) {
	aggregate, err := uow.ShipmentRepository().Get(ctx, record.EntityID)
	if err != nil {
		return CreateShipmentResult{}, err
	}

	return CreateShipmentResult{
		ShipmentID: aggregate.ID(),
		Quote:      aggregate.Quote(),
		Status:     aggregate.Status(),
		Replayed:   true,
	}, nil
}

func (h *CreateShipmentCommandHandler) replayAfterLostRace(
	ctx context.Context,
	key string,
) (CreateShipmentResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CreateShipmentResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	record, err := uow.IdempotencyRepository().Get(
		ctx, ports.OperationCreateShipment, key)
	if errors.Is(err, errs.ErrObjectNotFound) {
		// Winner not committed yet; the client can safely retry.
		return CreateShipmentResult{}, errs.NewConflictErrorWithCause("idempotencyKey",
			fmt.Errorf("booking with key %q is in progress", key))
	}
	if err != nil {
		return CreateShipmentResult{}, err
	}

	return h.replay(ctx, uow, record)
}
