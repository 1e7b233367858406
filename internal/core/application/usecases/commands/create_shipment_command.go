package commands

import (
	"errors"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/quote"
	"courierpos/internal/core/domain/model/shipment"
	"courierpos/internal/pkg/errs"
	"courierpos/internal/pkg/guard"
)

var ErrCreateShipmentCommandIsNotConstructed = errors.New(
	"CreateShipmentCommand must be created via NewCreateShipmentCommand constructor",
)

// CreateShipmentCommand represents a request to book a new shipment.
// Carries the priced spec, the payer, the client's idempotency key and,
// optionally, the total the client expects so a stale quote is rejected
// instead of silently re-priced.
//
// Example:
//
//	cmd, err := NewCreateShipmentCommand(actor, spec, shipment.PayerSender, "reg7-000123", nil)
//	if err != nil {
//	    return fmt.Errorf("invalid booking request: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type CreateShipmentCommand struct { //nolint:recvcheck //using for validation
	actor          kernel.Actor
	spec           quote.ShipmentSpec
	payerType      shipment.PayerType
	idempotencyKey string
	expectedTotal  *kernel.Money

	guard guard.ConstructorGuard
}

// NewCreateShipmentCommand creates a command to book a shipment.
// ExpectedTotal is optional; when set, creation fails with a conflict if the
// recomputed quote disagrees.
func NewCreateShipmentCommand(
	actor kernel.Actor,
	spec quote.ShipmentSpec,
	payerType shipment.PayerType,
	idempotencyKey string,
	expectedTotal *kernel.Money,
) (CreateShipmentCommand, error) {
	cmd := CreateShipmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor),
		cmd.setSpec(spec),
		cmd.setPayerType(payerType),
		cmd.setIdempotencyKey(idempotencyKey),
		cmd.setExpectedTotal(expectedTotal),
	); err != nil {
		return CreateShipmentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCreateShipmentCommandIsNotConstructed)
}

// Actor returns the request issuer.
func (c CreateShipmentCommand) Actor() kernel.Actor {
	return c.actor
}

// Spec returns the shipment spec to price and book.
func (c CreateShipmentCommand) Spec() quote.ShipmentSpec {
	return c.spec
}

// PayerType returns who pays for the shipment.
func (c CreateShipmentCommand) PayerType() shipment.PayerType {
	return c.payerType
}

// IdempotencyKey returns the client-chosen key for at-most-once creation.
func (c CreateShipmentCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

// ExpectedTotal returns the total the client expects, or nil.
func (c CreateShipmentCommand) ExpectedTotal() *kernel.Money {
	return c.expectedTotal
}

func (c *CreateShipmentCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}

func (c *CreateShipmentCommand) setSpec(spec quote.ShipmentSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	c.spec = spec
	return nil
}

func (c *CreateShipmentCommand) setPayerType(payerType shipment.PayerType) error {
	if err := payerType.Validate(); err != nil {
		return err
	}

	c.payerType = payerType
	return nil
}

func (c *CreateShipmentCommand) setIdempotencyKey(key string) error {
	if key == "" {
		return errs.NewValueIsRequiredError("idempotencyKey")
	}

	c.idempotencyKey = key
	return nil
}

func (c *CreateShipmentCommand) setExpectedTotal(total *kernel.Money) error {
	if total != nil {
		if err := total.Validate(); err != nil {
			return err
		}
	}

	c.expectedTotal = total
	return nil
}
