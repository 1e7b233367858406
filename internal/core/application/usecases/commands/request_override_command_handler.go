package commands

import (
	"context"
	"fmt"
	"time"

	"courierpos/internal/core/domain/model/audit"
	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/override"
)

// RequestOverrideResult carries the identifier and deadline of the new
// Pending override.
type RequestOverrideResult struct {
	OverrideID kernel.UUID
	ExpiresAt  time.Time
}

// RequestOverrideCommandHandler creates Pending override requests with a
// configurable TTL and records the request on the audit trail.
type RequestOverrideCommandHandler struct {
	uowFactory OverrideUoWFactory
	ttl        time.Duration
}

// NewRequestOverrideCommandHandler creates a handler for override requests.
// The ttl bounds how long a request stays approvable.
func NewRequestOverrideCommandHandler(
	uowFactory OverrideUoWFactory,
	ttl time.Duration,
) RequestOverrideCommandHandler {
	return RequestOverrideCommandHandler{
		uowFactory: uowFactory,
		ttl:        ttl,
	}
}

// Handle creates the Pending override.
func (h *RequestOverrideCommandHandler) Handle(
	ctx context.Context,
	cmd RequestOverrideCommand,
) (RequestOverrideResult, error) {
	if err := cmd.Validate(); err != nil {
		return RequestOverrideResult{}, err
	}

	now := time.Now().UTC()
	aggregate, err := override.NewOverride(kernel.NewUUID(), cmd.ActionType(),
		cmd.Actor().ID(), cmd.Reason(), cmd.TargetRef(), cmd.RequestData(),
		now, h.ttl)
	if err != nil {
		return RequestOverrideResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return RequestOverrideResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OverrideRepository().Add(ctx, aggregate); err != nil {
		return RequestOverrideResult{}, err
	}

	event, err := audit.NewEvent(kernel.NewUUID(), audit.EventOverrideRequested,
		cmd.Actor().ID(), aggregate.ID(),
		fmt.Sprintf(`{"actionType":"%s","reason":"%s"}`, cmd.ActionType(), cmd.Reason()),
		now)
	if err != nil {
		return RequestOverrideResult{}, err
	}
	if err = uow.AuditRepository().Add(ctx, event); err != nil {
		return RequestOverrideResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return RequestOverrideResult{}, err
	}

	return RequestOverrideResult{
		OverrideID: aggregate.ID(),
		ExpiresAt:  aggregate.ExpiresAt(),
	}, nil
}
