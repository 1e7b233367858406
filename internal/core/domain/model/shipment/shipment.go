package shipment

import (
	"errors"
	"fmt"
	"time"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/quote"
	"courierpos/internal/pkg/errs"
)

// ErrShipmentIsNotConstructed is returned when a Shipment instance was not
// created through NewShipment or RestoreShipment.
var ErrShipmentIsNotConstructed = errors.New(
	"Shipment must be created via NewShipment or RestoreShipment")

// PayerType identifies who pays for the shipment.
type PayerType string

const (
	PayerSender     PayerType = "sender"
	PayerReceiver   PayerType = "receiver"
	PayerThirdParty PayerType = "third_party"
)

// Validate checks the payer type is one of the defined values.
func (p PayerType) Validate() error {
	switch p {
	case PayerSender, PayerReceiver, PayerThirdParty:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payerType",
			fmt.Errorf("%q is not a valid payer type", string(p)))
	}
}

// Shipment is the aggregate created exactly once per idempotency key. It owns
// the quote snapshot it was priced with, so the price basis stays auditable,
// and tracks payment progress and label prints.
//
// Invariants:
//   - created exactly once per (operation type, idempotency key)
//   - the embedded quote is never recomputed after creation
//   - payments never exceed the priced total
//   - terminal statuses (Paid by full collection, Cancelled) admit no
//     further mutation besides label accounting on Paid shipments
type Shipment struct {
	id             kernel.UUID
	spec           quote.ShipmentSpec
	payerType      PayerType
	quote          quote.Quote
	status         Status
	amountPaid     kernel.Money
	labelPrints    int
	idempotencyKey string
	createdAt      time.Time

	isConstructed bool
}

// NewShipment creates a Booked shipment from a priced spec. The quote must
// have been computed from the same spec; the orchestrator guarantees this by
// re-pricing inside the creation transaction.
func NewShipment(
	id kernel.UUID,
	spec quote.ShipmentSpec,
	payerType PayerType,
	priced quote.Quote,
	idempotencyKey string,
	createdAt time.Time,
) (*Shipment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := payerType.Validate(); err != nil {
		return nil, err
	}
	if idempotencyKey == "" {
		return nil, errs.NewValueIsRequiredError("idempotencyKey")
	}
	zero, err := kernel.ZeroMoney(priced.Currency)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("quote", err)
	}

	return &Shipment{
		id:             id,
		spec:           spec,
		payerType:      payerType,
		quote:          priced,
		status:         Booked,
		amountPaid:     zero,
		idempotencyKey: idempotencyKey,
		createdAt:      createdAt,
		isConstructed:  true,
	}, nil
}

// RestoreShipment reconstructs a shipment from persistence without rerunning
// creation-time checks that the stored state has already passed.
func RestoreShipment(
	id kernel.UUID,
	spec quote.ShipmentSpec,
	payerType PayerType,
	priced quote.Quote,
	status Status,
	amountPaid kernel.Money,
	labelPrints int,
	idempotencyKey string,
	createdAt time.Time,
) (*Shipment, error) {
	if err := errors.Join(
		id.Validate(),
		spec.Validate(),
		payerType.Validate(),
		status.Validate(),
		amountPaid.Validate(),
	); err != nil {
		return nil, err
	}
	if labelPrints < 0 {
		return nil, errs.NewValueIsInvalidError("labelPrints")
	}

	return &Shipment{
		id:             id,
		spec:           spec,
		payerType:      payerType,
		quote:          priced,
		status:         status,
		amountPaid:     amountPaid,
		labelPrints:    labelPrints,
		idempotencyKey: idempotencyKey,
		createdAt:      createdAt,
		isConstructed:  true,
	}, nil
}

// Validate ensures the instance came from a constructor.
func (s *Shipment) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrShipmentIsNotConstructed
	}
	return nil
}

// ID returns the shipment identifier.
func (s *Shipment) ID() kernel.UUID { return s.id }

// Spec returns the priced shipment spec.
func (s *Shipment) Spec() quote.ShipmentSpec { return s.spec }

// PayerType returns who pays for the shipment.
func (s *Shipment) PayerType() PayerType { return s.payerType }

// Quote returns the embedded quote snapshot.
func (s *Shipment) Quote() quote.Quote { return s.quote }

// Status returns the payment lifecycle status.
func (s *Shipment) Status() Status { return s.status }

// AmountPaid returns the collected total so far.
func (s *Shipment) AmountPaid() kernel.Money { return s.amountPaid }

// LabelPrintCount returns how many labels have been printed.
func (s *Shipment) LabelPrintCount() int { return s.labelPrints }

// IdempotencyKey returns the key the shipment was created under.
func (s *Shipment) IdempotencyKey() string { return s.idempotencyKey }

// CreatedAt returns the creation timestamp.
func (s *Shipment) CreatedAt() time.Time { return s.createdAt }

// OutstandingBalance returns the unpaid remainder of the priced total.
func (s *Shipment) OutstandingBalance() (kernel.Money, error) {
	return s.quote.Total.Sub(s.amountPaid)
}

// ApplyPayment records a collected amount against the priced total and moves
// the status to PartiallyPaid or Paid. Overpayment and payments against
// cancelled or fully paid shipments are conflicts.
func (s *Shipment) ApplyPayment(amount kernel.Money) error {
	if !s.status.AcceptsPayment() {
		return errs.NewConflictErrorWithCause("shipment",
			fmt.Errorf("status %s accepts no payment", s.status))
	}
	if amount.IsZero() {
		return errs.NewValueIsInvalidError("payment amount")
	}

	outstanding, err := s.OutstandingBalance()
	if err != nil {
		return err
	}
	if amount.IsGreaterThan(outstanding) {
		return errs.NewConflictErrorWithCause("payment amount",
			fmt.Errorf("%s exceeds outstanding balance %s", amount, outstanding))
	}

	paid, err := s.amountPaid.Add(amount)
	if err != nil {
		return err
	}
	s.amountPaid = paid

	if s.amountPaid.IsEqual(s.quote.Total) {
		s.status = Paid
	} else {
		s.status = PartiallyPaid
	}
	return nil
}

// RecordLabelPrint increments the print counter. Reprints past the first are
// the caller's approval concern; cancelled shipments have no label to print.
func (s *Shipment) RecordLabelPrint() error {
	if s.status == Cancelled {
		return errs.NewConflictErrorWithCause("shipment",
			fmt.Errorf("cancelled shipment %s has no label", s.id))
	}
	s.labelPrints++
	return nil
}

// Cancel transitions the shipment to Cancelled.
func (s *Shipment) Cancel() error {
	newStatus, err := s.status.Cancel()
	if err != nil {
		return err
	}
	s.status = newStatus
	return nil
}
