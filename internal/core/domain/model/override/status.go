package override

import (
	"fmt"

	"courierpos/internal/pkg/errs"
)

// Status is the approval lifecycle state of an override request.
//
// State transitions:
//
//	Pending ──┬──> Approved
//	          ├──> Rejected
//	          └──> Expired
//
// Approved, Rejected and Expired are terminal and write-once. The storage
// layer enforces the single transition out of Pending with a compare-and-swap
// update, so two concurrent approvers cannot both succeed.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status: requested, awaiting a decision.
	Pending

	// Approved means a supervisor authorized the action.
	Approved

	// Rejected means a supervisor declined the action.
	Rejected

	// Expired means the TTL elapsed with no decision.
	Expired
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:  "Unknown",
		Pending:  "Pending",
		Approved: "Approved",
		Rejected: "Rejected",
		Expired:  "Expired",
	}
}

// Validate checks the Status is one of the defined lifecycle values.
func (s Status) Validate() error {
	switch s {
	case Pending, Approved, Rejected, Expired:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid override status", s))
	}
}

// String implements fmt.Stringer; safe on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == Approved || s == Rejected || s == Expired
}
