package commands

import (
	"errors"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/pkg/guard"
)

var ErrRejectOverrideCommandIsNotConstructed = errors.New(
	"RejectOverrideCommand must be created via NewRejectOverrideCommand constructor",
)

// RejectOverrideCommand represents a supervisor declining a Pending override.
type RejectOverrideCommand struct { //nolint:recvcheck //using for validation
	overrideID kernel.UUID
	approver   kernel.Actor

	guard guard.ConstructorGuard
}

// NewRejectOverrideCommand creates a command to reject an override.
func NewRejectOverrideCommand(
	overrideID kernel.UUID,
	approver kernel.Actor,
) (RejectOverrideCommand, error) {
	cmd := RejectOverrideCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOverrideID(overrideID),
		cmd.setApprover(approver),
	); err != nil {
		return RejectOverrideCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RejectOverrideCommand) Validate() error {
	return c.guard.Validate(ErrRejectOverrideCommandIsNotConstructed)
}

// OverrideID returns the override to reject.
func (c RejectOverrideCommand) OverrideID() kernel.UUID {
	return c.overrideID
}

// Approver returns the deciding supervisor.
func (c RejectOverrideCommand) Approver() kernel.Actor {
	return c.approver
}

func (c *RejectOverrideCommand) setOverrideID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.overrideID = id
	return nil
}

func (c *RejectOverrideCommand) setApprover(approver kernel.Actor) error {
	if err := approver.Validate(); err != nil {
		return err
	}

	c.approver = approver
	return nil
}
