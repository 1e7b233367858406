package commands

import (
	"context"
	"fmt"
	"time"

	"courierpos/internal/core/domain/model/audit"
	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/override"
	"courierpos/internal/core/ports"
	"courierpos/internal/pkg/errs"
)

// ApproveOverrideCommandHandler decides Pending overrides. The approver must
// hold an elevated role and present a fresh credential; the transition to
// Approved is a compare-and-swap in storage, so concurrent decisions on the
// same override cannot both win.
//
// An override found past its deadline is expired on the spot and the approval
// fails with a conflict.
type ApproveOverrideCommandHandler struct {
	uowFactory OverrideUoWFactory
	verifier   ports.CredentialVerifier
}

// NewApproveOverrideCommandHandler creates a handler for override approval.
func NewApproveOverrideCommandHandler(
	uowFactory OverrideUoWFactory,
	verifier ports.CredentialVerifier,
) ApproveOverrideCommandHandler {
	return ApproveOverrideCommandHandler{
		uowFactory: uowFactory,
		verifier:   verifier,
	}
}

// Handle approves the override.
func (h *ApproveOverrideCommandHandler) Handle(
	ctx context.Context,
	cmd ApproveOverrideCommand,
) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if !cmd.Approver().HasElevatedRole() {
		return errs.NewPermissionDeniedError("override approval requires an elevated role")
	}
	if err := h.verifier.Verify(ctx, cmd.Approver().ID(), cmd.Proof()); err != nil {
		return err
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
	if aggregate.IsExpired(now) {
		if err = h.expire(ctx, uow, aggregate, now); err != nil {
			return err
		}
		return errs.NewConflictErrorWithCause("override",
			fmt.Errorf("override %s expired at %s",
				aggregate.ID(), aggregate.ExpiresAt().Format(time.RFC3339)))
	}

	if err = aggregate.Approve(cmd.Approver().ID(), cmd.ApprovedData(), now); err != nil {
		return err
	}
	if err = uow.OverrideRepository().TransitionFromPending(ctx, aggregate); err != nil {
		return err
	}

	event, err := audit.NewEvent(kernel.NewUUID(), audit.EventOverrideApproved,
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

// expire performs the lazy expiry of a Pending override found past its
// deadline. A CAS conflict means someone else already decided or expired it;
// either way the approval still fails.
func (h *ApproveOverrideCommandHandler) expire(
	ctx context.Context,
	uow OverrideUoW,
	aggregate *override.Override,
	now time.Time,
) error {
	if err := aggregate.Expire(now); err != nil {
		return err
	}
	if err := uow.OverrideRepository().TransitionFromPending(ctx, aggregate); err != nil {
		return err
	}

	event, err := audit.NewSystemEvent(kernel.NewUUID(), audit.EventOverrideExpired,
		aggregate.ID(), "", now)
	if err != nil {
		return err
	}
	if err = uow.AuditRepository().Add(ctx, event); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
