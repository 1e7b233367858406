package commands

import (
	"errors"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/pkg/errs"
	"courierpos/internal/pkg/guard"
)

var ErrApproveOverrideCommandIsNotConstructed = errors.New(
	"ApproveOverrideCommand must be created via NewApproveOverrideCommand constructor",
)

// ApproveOverrideCommand represents a supervisor approving a Pending
// override. Proof is the supervisor's fresh credential; approval never rides
// on session state alone.
type ApproveOverrideCommand struct { //nolint:recvcheck //using for validation
	overrideID   kernel.UUID
	approver     kernel.Actor
	proof        string
	approvedData string

	guard guard.ConstructorGuard
}

// NewApproveOverrideCommand creates a command to approve an override.
func NewApproveOverrideCommand(
	overrideID kernel.UUID,
	approver kernel.Actor,
	proof string,
	approvedData string,
) (ApproveOverrideCommand, error) {
	cmd := ApproveOverrideCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOverrideID(overrideID),
		cmd.setApprover(approver),
		cmd.setProof(proof),
	); err != nil {
		return ApproveOverrideCommand{}, err
	}
	cmd.approvedData = approvedData

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ApproveOverrideCommand) Validate() error {
	return c.guard.Validate(ErrApproveOverrideCommandIsNotConstructed)
}

// OverrideID returns the override to approve.
func (c ApproveOverrideCommand) OverrideID() kernel.UUID {
	return c.overrideID
}

// Approver returns the deciding supervisor.
func (c ApproveOverrideCommand) Approver() kernel.Actor {
	return c.approver
}

// Proof returns the supervisor's credential proof.
func (c ApproveOverrideCommand) Proof() string {
	return c.proof
}

// ApprovedData returns the payload the supervisor attaches to the decision.
func (c ApproveOverrideCommand) ApprovedData() string {
	return c.approvedData
}

func (c *ApproveOverrideCommand) setOverrideID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.overrideID = id
	return nil
}

func (c *ApproveOverrideCommand) setApprover(approver kernel.Actor) error {
	if err := approver.Validate(); err != nil {
		return err
	}

	c.approver = approver
	return nil
}

func (c *ApproveOverrideCommand) setProof(proof string) error {
	if proof == "" {
		return errs.NewValueIsRequiredError("proof")
	}

	c.proof = proof
	return nil
}
