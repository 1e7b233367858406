package commands

import (
	"context"
	"fmt"
	"time"

	"courierpos/internal/core/domain/model/audit"
	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/override"
)

// CancelShipmentCommandHandler cancels booked or partially paid shipments.
// Non-elevated actors always need an Approved cancellation override; fully
// paid shipments cannot be cancelled at all.
type CancelShipmentCommandHandler struct {
	uowFactory GatedActionUoWFactory
}

// NewCancelShipmentCommandHandler creates a handler for shipment cancellation.
func NewCancelShipmentCommandHandler(uowFactory GatedActionUoWFactory) CancelShipmentCommandHandler {
	return CancelShipmentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle cancels the shipment.
func (h *CancelShipmentCommandHandler) Handle(
	ctx context.Context,
	cmd CancelShipmentCommand,
) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.ShipmentRepository().Get(ctx, cmd.ShipmentID())
	if err != nil {
		return err
	}

	if err = requireApproval(ctx, uow, cmd.Actor(),
		override.ActionCancellation, aggregate.ID()); err != nil {
		return err
	}

	if err = aggregate.Cancel(); err != nil {
		return err
	}
	if err = uow.ShipmentRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	now := time.Now().UTC()
	event, err := audit.NewEvent(kernel.NewUUID(), audit.EventShipmentCancelled,
		cmd.Actor().ID(), aggregate.ID(),
		fmt.Sprintf(`{"reason":"%s"}`, cmd.Reason()), now)
	if err != nil {
		return err
	}
	if err = uow.AuditRepository().Add(ctx, event); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
