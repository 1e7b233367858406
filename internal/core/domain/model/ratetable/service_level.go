package ratetable

import (
	"fmt"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/pkg/errs"
)

// ServiceLevel is the delivery speed class a shipment is booked under.
// Rate tables price per-kg rates and base freight by service level.
type ServiceLevel string

const (
	Economy  ServiceLevel = "economy"
	Standard ServiceLevel = "standard"
	Express  ServiceLevel = "express"
)

// Validate checks the service level is one of the defined values.
func (s ServiceLevel) Validate() error {
	switch s {
	case Economy, Standard, Express:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("serviceLevel",
			fmt.Errorf("%q is not a valid service level", string(s)))
	}
}

// Zone groups routes that share base freight pricing. Zone assignment is part
// of the published rate table, not of the shipment.
type Zone string

// Validate checks the zone is non-empty.
func (z Zone) Validate() error {
	if z == "" {
		return errs.NewValueIsRequiredError("zone")
	}
	return nil
}

// Route is an origin/destination branch pair. The rate table maps routes onto
// pricing zones; a route without a zone cannot be quoted.
type Route struct {
	origin      kernel.UUID
	destination kernel.UUID
}

// NewRoute creates a Route between two branches. Origin and destination must
// be valid and distinct.
func NewRoute(origin, destination kernel.UUID) (Route, error) {
	if err := origin.Validate(); err != nil {
		return Route{}, err
	}
	if err := destination.Validate(); err != nil {
		return Route{}, err
	}
	if origin.IsEqual(destination) {
		return Route{}, errs.NewValueIsInvalidErrorWithCause("route",
			fmt.Errorf("origin and destination are both %s", origin))
	}
	return Route{origin: origin, destination: destination}, nil
}

// Origin returns the origin branch id.
func (r Route) Origin() kernel.UUID {
	return r.origin
}

// Destination returns the destination branch id.
func (r Route) Destination() kernel.UUID {
	return r.destination
}

// String renders "origin->destination" for diagnostics.
func (r Route) String() string {
	return fmt.Sprintf("%s->%s", r.origin, r.destination)
}

// Validate ensures the route was created via NewRoute.
func (r Route) Validate() error {
	if err := r.origin.Validate(); err != nil {
		return err
	}
	return r.destination.Validate()
}

// InsuranceTier names a declared-value insurance level. The rate of each tier
// lives in the rate table version so it stays auditable with the quote.
type InsuranceTier string

const (
	InsuranceNone    InsuranceTier = "none"
	InsuranceBasic   InsuranceTier = "basic"
	InsuranceFull    InsuranceTier = "full"
	InsurancePremium InsuranceTier = "premium"
)

// Validate checks the tier is one of the defined values.
func (t InsuranceTier) Validate() error {
	switch t {
	case InsuranceNone, InsuranceBasic, InsuranceFull, InsurancePremium:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("insuranceTier",
			fmt.Errorf("%q is not a valid insurance tier", string(t)))
	}
}
