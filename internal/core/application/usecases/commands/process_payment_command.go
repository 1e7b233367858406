package commands

import (
	"errors"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/payment"
	"courierpos/internal/pkg/errs"
	"courierpos/internal/pkg/guard"
)

var ErrProcessPaymentCommandIsNotConstructed = errors.New(
	"ProcessPaymentCommand must be created via NewProcessPaymentCommand constructor",
)

// ProcessPaymentCommand represents a request to collect a payment against a
// booked shipment. Partial payments are allowed up to the outstanding balance.
type ProcessPaymentCommand struct { //nolint:recvcheck //using for validation
	actor          kernel.Actor
	shipmentID     kernel.UUID
	amount         kernel.Money
	method         payment.Method
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewProcessPaymentCommand creates a command to collect a payment.
func NewProcessPaymentCommand(
	actor kernel.Actor,
	shipmentID kernel.UUID,
	amount kernel.Money,
	method payment.Method,
	idempotencyKey string,
) (ProcessPaymentCommand, error) {
	cmd := ProcessPaymentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor),
		cmd.setShipmentID(shipmentID),
		cmd.setAmount(amount),
		cmd.setMethod(method),
		cmd.setIdempotencyKey(idempotencyKey),
	); err != nil {
		return ProcessPaymentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ProcessPaymentCommand) Validate() error {
	return c.guard.Validate(ErrProcessPaymentCommandIsNotConstructed)
}

// Actor returns the request issuer.
func (c ProcessPaymentCommand) Actor() kernel.Actor {
	return c.actor
}

// ShipmentID returns the shipment the payment is collected against.
func (c ProcessPaymentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

// Amount returns the amount tendered.
func (c ProcessPaymentCommand) Amount() kernel.Money {
	return c.amount
}

// Method returns the tender.
func (c ProcessPaymentCommand) Method() payment.Method {
	return c.method
}

// IdempotencyKey returns the client-chosen key for at-most-once collection.
func (c ProcessPaymentCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

func (c *ProcessPaymentCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}

func (c *ProcessPaymentCommand) setShipmentID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.shipmentID = id
	return nil
}

func (c *ProcessPaymentCommand) setAmount(amount kernel.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if amount.IsZero() {
		return errs.NewValueIsInvalidError("amount")
	}

	c.amount = amount
	return nil
}

func (c *ProcessPaymentCommand) setMethod(method payment.Method) error {
	if err := method.Validate(); err != nil {
		return err
	}

	c.method = method
	return nil
}

func (c *ProcessPaymentCommand) setIdempotencyKey(key string) error {
	if key == "" {
		return errs.NewValueIsRequiredError("idempotencyKey")
	}

	c.idempotencyKey = key
	return nil
}
