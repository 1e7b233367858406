// Package quote holds the pricing request and the itemized price quote value
// objects. A Quote is ephemeral: it is computed by the quote calculator,
// embedded into the shipment that consumes it, and never persisted standalone.
package quote

import (
	"fmt"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/ratetable"
	"courierpos/internal/pkg/errs"
	"courierpos/internal/pkg/guard"
)

// ErrShipmentSpecIsNotConstructed is returned when a ShipmentSpec was not
// created via NewShipmentSpec.
var ErrShipmentSpecIsNotConstructed = errs.NewValueIsRequiredError(
	"shipment spec must be created via NewShipmentSpec")

// MaxDimensionCm caps each parcel side at 100 meters. The cap keeps the
// volumetric product L×W×H×1000 within int64 (at most 1e15) for any positive
// divisor; no real parcel comes anywhere near it.
const MaxDimensionCm = 10_000

// MaxMonetaryAmount caps declared values and COD amounts at 1e12 minor units
// (ten billion whole units), keeping basis-point products within int64.
const MaxMonetaryAmount = 1_000_000_000_000

// Dimensions are parcel dimensions in whole centimeters. All three must be
// positive when dimensions are supplied at all.
type Dimensions struct {
	lengthCm int64
	widthCm  int64
	heightCm int64
}

// NewDimensions creates parcel dimensions, rejecting non-positive and
// oversized sides.
func NewDimensions(lengthCm, widthCm, heightCm int64) (Dimensions, error) {
	if lengthCm <= 0 || widthCm <= 0 || heightCm <= 0 {
		return Dimensions{}, errs.NewValueIsInvalidErrorWithCause("dimensions",
			fmt.Errorf("%dx%dx%d contains a non-positive side", lengthCm, widthCm, heightCm))
	}
	for _, side := range []int64{lengthCm, widthCm, heightCm} {
		if side > MaxDimensionCm {
			return Dimensions{}, errs.NewValueIsOutOfRangeError("dimensions", side, 1, MaxDimensionCm)
		}
	}
	return Dimensions{lengthCm: lengthCm, widthCm: widthCm, heightCm: heightCm}, nil
}

// LengthCm returns the length in centimeters.
func (d Dimensions) LengthCm() int64 { return d.lengthCm }

// WidthCm returns the width in centimeters.
func (d Dimensions) WidthCm() int64 { return d.widthCm }

// HeightCm returns the height in centimeters.
func (d Dimensions) HeightCm() int64 { return d.heightCm }

// VolumetricWeight converts the volume into a dimensional weight using the
// rate table's divisor: (L×W×H)/dimFactor kilograms, held in grams.
func (d Dimensions) VolumetricWeight(dimFactor int64) kernel.Weight {
	grams := d.lengthCm * d.widthCm * d.heightCm * 1000 / dimFactor
	w, err := kernel.NewWeight(grams)
	if err != nil {
		// Bounded sides cannot overflow the product, so the only failure is
		// a sub-gram volume rounding down to zero; bill those as one gram.
		w, _ = kernel.NewWeight(1)
	}
	return w
}

// ParcelSpec describes one parcel of a shipment for pricing: actual weight and
// optional dimensions.
type ParcelSpec struct {
	weight     kernel.Weight
	dimensions *Dimensions
}

// NewParcelSpec creates a parcel pricing spec. Dimensions are optional; when
// absent the volumetric weight is zero and actual weight bills.
func NewParcelSpec(weight kernel.Weight, dimensions *Dimensions) (ParcelSpec, error) {
	if err := weight.Validate(); err != nil {
		return ParcelSpec{}, err
	}
	return ParcelSpec{weight: weight, dimensions: dimensions}, nil
}

// Weight returns the actual weight.
func (p ParcelSpec) Weight() kernel.Weight { return p.weight }

// Dimensions returns the parcel dimensions, nil when not measured.
func (p ParcelSpec) Dimensions() *Dimensions { return p.dimensions }

// BillableWeight is the greater of actual and volumetric weight for the given
// dimensional divisor.
func (p ParcelSpec) BillableWeight(dimFactor int64) kernel.Weight {
	if p.dimensions == nil {
		return p.weight
	}
	return p.weight.Max(p.dimensions.VolumetricWeight(dimFactor))
}

// ShipmentSpec is the full pricing input: route, service level, parcels and
// the declared-value/COD/insurance options. Identical specs priced against
// the same rate table version always produce identical quotes.
type ShipmentSpec struct {
	route         ratetable.Route
	serviceLevel  ratetable.ServiceLevel
	parcels       []ParcelSpec
	declaredValue kernel.Money
	codAmount     kernel.Money
	insuranceTier ratetable.InsuranceTier

	guard guard.ConstructorGuard
}

// NewShipmentSpec creates a pricing spec. At least one parcel is required;
// declared value and COD amount may be zero but must carry a currency.
func NewShipmentSpec(
	route ratetable.Route,
	serviceLevel ratetable.ServiceLevel,
	parcels []ParcelSpec,
	declaredValue kernel.Money,
	codAmount kernel.Money,
	insuranceTier ratetable.InsuranceTier,
) (ShipmentSpec, error) {
	if err := route.Validate(); err != nil {
		return ShipmentSpec{}, err
	}
	if err := serviceLevel.Validate(); err != nil {
		return ShipmentSpec{}, err
	}
	if len(parcels) == 0 {
		return ShipmentSpec{}, errs.NewValueIsRequiredError("parcels")
	}
	for _, p := range parcels {
		if err := p.weight.Validate(); err != nil {
			return ShipmentSpec{}, err
		}
	}
	if err := declaredValue.Validate(); err != nil {
		return ShipmentSpec{}, errs.NewValueIsInvalidErrorWithCause("declaredValue", err)
	}
	if declaredValue.Amount() > MaxMonetaryAmount {
		return ShipmentSpec{}, errs.NewValueIsOutOfRangeError("declaredValue",
			declaredValue.Amount(), 0, MaxMonetaryAmount)
	}
	if err := codAmount.Validate(); err != nil {
		return ShipmentSpec{}, errs.NewValueIsInvalidErrorWithCause("codAmount", err)
	}
	if codAmount.Amount() > MaxMonetaryAmount {
		return ShipmentSpec{}, errs.NewValueIsOutOfRangeError("codAmount",
			codAmount.Amount(), 0, MaxMonetaryAmount)
	}
	if err := insuranceTier.Validate(); err != nil {
		return ShipmentSpec{}, err
	}

	copied := make([]ParcelSpec, len(parcels))
	copy(copied, parcels)

	return ShipmentSpec{
		route:         route,
		serviceLevel:  serviceLevel,
		parcels:       copied,
		declaredValue: declaredValue,
		codAmount:     codAmount,
		insuranceTier: insuranceTier,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Route returns the origin/destination pair.
func (s ShipmentSpec) Route() ratetable.Route { return s.route }

// ServiceLevel returns the booked service level.
func (s ShipmentSpec) ServiceLevel() ratetable.ServiceLevel { return s.serviceLevel }

// Parcels returns a copy of the parcel specs.
func (s ShipmentSpec) Parcels() []ParcelSpec {
	copied := make([]ParcelSpec, len(s.parcels))
	copy(copied, s.parcels)
	return copied
}

// DeclaredValue returns the declared value for insurance.
func (s ShipmentSpec) DeclaredValue() kernel.Money { return s.declaredValue }

// CODAmount returns the cash-on-delivery amount to collect.
func (s ShipmentSpec) CODAmount() kernel.Money { return s.codAmount }

// InsuranceTier returns the chosen insurance tier.
func (s ShipmentSpec) InsuranceTier() ratetable.InsuranceTier { return s.insuranceTier }

// Validate ensures the spec was created via NewShipmentSpec.
func (s ShipmentSpec) Validate() error {
	return s.guard.Validate(ErrShipmentSpecIsNotConstructed)
}
