package commands

import (
	"errors"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/override"
	"courierpos/internal/pkg/errs"
	"courierpos/internal/pkg/guard"
)

var ErrRequestOverrideCommandIsNotConstructed = errors.New(
	"RequestOverrideCommand must be created via NewRequestOverrideCommand constructor",
)

// RequestOverrideCommand represents an operator asking for supervisor
// authorization of an elevated action.
type RequestOverrideCommand struct { //nolint:recvcheck //using for validation
	actor       kernel.Actor
	actionType  override.ActionType
	reason      string
	targetRef   *kernel.UUID
	requestData string

	guard guard.ConstructorGuard
}

// NewRequestOverrideCommand creates a command to request an override.
// TargetRef points at the shipment the action applies to and may be nil for
// actions without a target. RequestData carries an action-specific payload.
func NewRequestOverrideCommand(
	actor kernel.Actor,
	actionType override.ActionType,
	reason string,
	targetRef *kernel.UUID,
	requestData string,
) (RequestOverrideCommand, error) {
	cmd := RequestOverrideCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor),
		cmd.setActionType(actionType),
		cmd.setReason(reason),
		cmd.setTargetRef(targetRef),
	); err != nil {
		return RequestOverrideCommand{}, err
	}
	cmd.requestData = requestData

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestOverrideCommand) Validate() error {
	return c.guard.Validate(ErrRequestOverrideCommandIsNotConstructed)
}

// Actor returns the requesting user.
func (c RequestOverrideCommand) Actor() kernel.Actor {
	return c.actor
}

// ActionType returns the elevated action to authorize.
func (c RequestOverrideCommand) ActionType() override.ActionType {
	return c.actionType
}

// Reason returns the requester's justification.
func (c RequestOverrideCommand) Reason() string {
	return c.reason
}

// TargetRef returns the entity the action applies to, or nil.
func (c RequestOverrideCommand) TargetRef() *kernel.UUID {
	return c.targetRef
}

// RequestData returns the action-specific payload.
func (c RequestOverrideCommand) RequestData() string {
	return c.requestData
}

func (c *RequestOverrideCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}

func (c *RequestOverrideCommand) setActionType(actionType override.ActionType) error {
	if err := actionType.Validate(); err != nil {
		return err
	}

	c.actionType = actionType
	return nil
}

func (c *RequestOverrideCommand) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	c.reason = reason
	return nil
}

func (c *RequestOverrideCommand) setTargetRef(targetRef *kernel.UUID) error {
	if targetRef != nil {
		if err := targetRef.Validate(); err != nil {
			return err
		}
	}

	c.targetRef = targetRef
	return nil
}
