package commands

import (
	"context"
	"fmt"
	"time"

	"courierpos/internal/core/domain/model/audit"
	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/pkg/errs"
)

// RejectOverrideCommandHandler declines Pending overrides. Rejection needs an
// elevated role but no credential re-check; declining is not an elevated
// action, it just closes the request.
type RejectOverrideCommandHandler struct {
	uowFactory OverrideUoWFactory
}

// NewRejectOverrideCommandHandler creates a handler for override rejection.
func NewRejectOverrideCommandHandler(uowFactory OverrideUoWFactory) RejectOverrideCommandHandler {
	return RejectOverrideCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle rejects the override.
func (h *RejectOverrideCommandHandler) Handle(
	ctx context.Context,
	cmd RejectOverrideCommand,
) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if !cmd.Approver().HasElevatedRole() {
		return errs.NewPermissionDeniedError("override rejection requires an elevated role")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OverrideRepository().Get(ctx, cmd.OverrideID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err = aggregate.Reject(cmd.Approver().ID(), now); err != nil {
		return err
	}
	if err = uow.OverrideRepository().TransitionFromPending(ctx, aggregate); err != nil {
		return err
	}

	event, err := audit.NewEvent(kernel.NewUUID(), audit.EventOverrideRejected,
		cmd.Approver().ID(), aggregate.ID(),
		fmt.Sprintf(`{"actionType":"%s"}`, aggregate.ActionType()), now)
	if err != nil {
		return err
	}
	if err = uow.AuditRepository().Add(ctx, event); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
