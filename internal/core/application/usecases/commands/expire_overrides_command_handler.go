package commands

import (
	"context"
	"errors"
	"time"

	"courierpos/internal/core/domain/model/audit"
	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/pkg/errs"
)

// ExpireOverridesCommandHandler sweeps Pending overrides whose deadline has
// passed and moves them to Expired. Each transition is a compare-and-swap; an
// override decided between the read and the swap is skipped, not failed.
type ExpireOverridesCommandHandler struct {
	uowFactory OverrideUoWFactory
}

// NewExpireOverridesCommandHandler creates a handler for the expiry sweep.
func NewExpireOverridesCommandHandler(uowFactory OverrideUoWFactory) ExpireOverridesCommandHandler {
	return ExpireOverridesCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle expires all due overrides and returns how many were expired.
func (h *ExpireOverridesCommandHandler) Handle(
	ctx context.Context,
	cmd ExpireOverridesCommand,
) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()
	due, err := uow.OverrideRepository().GetAllPendingDue(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, aggregate := range due {
		if err = aggregate.Expire(now); err != nil {
			return 0, err
		}

		err = uow.OverrideRepository().TransitionFromPending(ctx, aggregate)
		if errors.Is(err, errs.ErrConflict) {
			continue
		}
		if err != nil {
			return 0, err
		}

		event, eventErr := audit.NewSystemEvent(kernel.NewUUID(),
			audit.EventOverrideExpired, aggregate.ID(), "", now)
		if eventErr != nil {
			return 0, eventErr
		}
		if err = uow.AuditRepository().Add(ctx, event); err != nil {
			return 0, err
		}

		expired++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return expired, nil
}
