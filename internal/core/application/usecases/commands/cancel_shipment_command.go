package commands

import (
	"errors"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/pkg/errs"
	"courierpos/internal/pkg/guard"
)

var ErrCancelShipmentCommandIsNotConstructed = errors.New(
	"CancelShipmentCommand must be created via NewCancelShipmentCommand constructor",
)

// CancelShipmentCommand represents a request to cancel a booked shipment.
// Cancellation by a non-elevated actor always requires an approved override.
type CancelShipmentCommand struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID
	actor      kernel.Actor
	reason     string

	guard guard.ConstructorGuard
}

// NewCancelShipmentCommand creates a command to cancel a shipment.
func NewCancelShipmentCommand(
	shipmentID kernel.UUID,
	actor kernel.Actor,
	reason string,
) (CancelShipmentCommand, error) {
	cmd := CancelShipmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setShipmentID(shipmentID),
		cmd.setActor(actor),
		cmd.setReason(reason),
	); err != nil {
		return CancelShipmentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCancelShipmentCommandIsNotConstructed)
}

// ShipmentID returns the shipment to cancel.
func (c CancelShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

// Actor returns the request issuer.
func (c CancelShipmentCommand) Actor() kernel.Actor {
	return c.actor
}

// Reason returns the cancellation justification.
func (c CancelShipmentCommand) Reason() string {
	return c.reason
}

func (c *CancelShipmentCommand) setShipmentID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.shipmentID = id
	return nil
}

func (c *CancelShipmentCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}

func (c *CancelShipmentCommand) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	c.reason = reason
	return nil
}
