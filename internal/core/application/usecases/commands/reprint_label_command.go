package commands

import (
	"errors"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/pkg/guard"
)

var ErrReprintLabelCommandIsNotConstructed = errors.New(
	"ReprintLabelCommand must be created via NewReprintLabelCommand constructor",
)

// ReprintLabelCommand represents a request to print a shipment label again.
// The first print is free; later prints by non-elevated roles need an
// approved override.
type ReprintLabelCommand struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID
	actor      kernel.Actor

	guard guard.ConstructorGuard
}

// NewReprintLabelCommand creates a command to reprint a label.
func NewReprintLabelCommand(
	shipmentID kernel.UUID,
	actor kernel.Actor,
) (ReprintLabelCommand, error) {
	cmd := ReprintLabelCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setShipmentID(shipmentID),
		cmd.setActor(actor),
	); err != nil {
		return ReprintLabelCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReprintLabelCommand) Validate() error {
	return c.guard.Validate(ErrReprintLabelCommandIsNotConstructed)
}

// ShipmentID returns the shipment whose label is printed.
func (c ReprintLabelCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

// Actor returns the request issuer.
func (c ReprintLabelCommand) Actor() kernel.Actor {
	return c.actor
}

func (c *ReprintLabelCommand) setShipmentID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.shipmentID = id
	return nil
}

func (c *ReprintLabelCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
