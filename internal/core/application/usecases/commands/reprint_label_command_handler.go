package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courierpos/internal/core/domain/model/audit"
	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/override"
	"courierpos/internal/pkg/errs"
)

// ReprintLabelResult carries the new print count after a successful print.
type ReprintLabelResult struct {
	PrintCount int
}

// ReprintLabelCommandHandler prints shipment labels. The first print runs
// ungated; every later print by a non-elevated actor requires an Approved
// label_reprint override targeting the shipment.
type ReprintLabelCommandHandler struct {
	uowFactory GatedActionUoWFactory
}

// NewReprintLabelCommandHandler creates a handler for label printing.
func NewReprintLabelCommandHandler(uowFactory GatedActionUoWFactory) ReprintLabelCommandHandler {
	return ReprintLabelCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle records the label print.
func (h *ReprintLabelCommandHandler) Handle(
	ctx context.Context,
	cmd ReprintLabelCommand,
) (ReprintLabelResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReprintLabelResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ReprintLabelResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.ShipmentRepository().Get(ctx, cmd.ShipmentID())
	if err != nil {
		return ReprintLabelResult{}, err
	}

	if aggregate.LabelPrintCount() > 0 {
		if err = requireApproval(ctx, uow, cmd.Actor(),
			override.ActionLabelReprint, aggregate.ID()); err != nil {
			return ReprintLabelResult{}, err
		}
	}

	if err = aggregate.RecordLabelPrint(); err != nil {
		return ReprintLabelResult{}, err
	}
	if err = uow.ShipmentRepository().Update(ctx, aggregate); err != nil {
		return ReprintLabelResult{}, err
	}

	now := time.Now().UTC()
	event, err := audit.NewEvent(kernel.NewUUID(), audit.EventLabelReprinted,
		cmd.Actor().ID(), aggregate.ID(),
		fmt.Sprintf(`{"printCount":%d}`, aggregate.LabelPrintCount()), now)
	if err != nil {
		return ReprintLabelResult{}, err
	}
	if err = uow.AuditRepository().Add(ctx, event); err != nil {
		return ReprintLabelResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ReprintLabelResult{}, err
	}

	return ReprintLabelResult{PrintCount: aggregate.LabelPrintCount()}, nil
}

// requireApproval enforces the supervisor gate on a shipment action. Elevated
// actors pass; everyone else needs an Approved override of the given action
// type targeting the shipment.
func requireApproval(
	ctx context.Context,
	uow GatedActionUoW,
	actor kernel.Actor,
	actionType override.ActionType,
	shipmentID kernel.UUID,
) error {
	if actor.HasElevatedRole() {
		return nil
	}

	_, err := uow.OverrideRepository().FindApproved(ctx, actionType, shipmentID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return errs.NewPermissionDeniedError(
			fmt.Sprintf("%s on shipment %s requires supervisor approval",
				actionType, shipmentID))
	}
	return err
}
