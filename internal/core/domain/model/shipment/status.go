package shipment

import (
	"fmt"

	"courierpos/internal/pkg/errs"
)

// Status is the payment lifecycle state of a shipment.
//
// State transitions:
//
//	Booked ──┬──> PartiallyPaid ──> Paid
//	         │          │
//	         └──> Paid  │
//	         │          │
//	         └──────────┴──> Cancelled
//
// Paid and Cancelled are terminal. PartiallyPaid may repeat as further
// partial payments arrive.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Booked is the initial status: shipment created, nothing collected.
	Booked

	// PartiallyPaid means some but not all of the priced total is collected.
	PartiallyPaid

	// Paid means the full priced total is collected.
	Paid

	// Cancelled is terminal; cancelled shipments accept no payments or prints.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:       "Unknown",
		Booked:        "Booked",
		PartiallyPaid: "PartiallyPaid",
		Paid:          "Paid",
		Cancelled:     "Cancelled",
	}
}

// Validate checks the Status is one of the defined lifecycle values.
func (s Status) Validate() error {
	switch s {
	case Booked, PartiallyPaid, Paid, Cancelled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid shipment status", s))
	}
}

// String implements fmt.Stringer; safe on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// AcceptsPayment reports whether a payment may be applied in this status.
func (s Status) AcceptsPayment() bool {
	return s == Booked || s == PartiallyPaid
}

// Cancel transitions to Cancelled. Only unpaid or partially paid shipments
// can be cancelled; a fully paid shipment is reversed via refund, which is a
// separate audited operation.
func (s Status) Cancel() (Status, error) {
	if s != Booked && s != PartiallyPaid {
		return 0, errs.NewConflictErrorWithCause("shipment",
			fmt.Errorf("%s is not a valid status to cancel", s))
	}
	return Cancelled, nil
}
