package ratetable

import (
	"fmt"
	"time"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/pkg/errs"
	"courierpos/internal/pkg/guard"
)

// DefaultDimFactor is the dimensional divisor for volumetric weight when a
// rate table does not override it: (L×W×H cm³) / 5000 = kg.
const DefaultDimFactor = 5000

// ErrVersionIsNotConstructed is returned when a Version was not created via
// NewVersion.
var ErrVersionIsNotConstructed = errs.NewValueIsRequiredError(
	"rate table version must be created via NewVersion")

// CODMode selects how a rate table charges for cash-on-delivery handling.
type CODMode string

const (
	// CODFlat charges a fixed fee whenever a COD amount is present.
	CODFlat CODMode = "flat"
	// CODPercent charges basis points of the COD amount, with a floor.
	CODPercent CODMode = "percent"
)

// CODRule is the rate table's cash-on-delivery fee rule.
type CODRule struct {
	mode CODMode
	flat kernel.Money
	bp   int64
	min  kernel.Money
}

// NewFlatCODRule creates a flat-fee COD rule.
func NewFlatCODRule(flat kernel.Money) CODRule {
	return CODRule{mode: CODFlat, flat: flat, min: flat}
}

// NewPercentCODRule creates a percentage COD rule with a minimum fee.
func NewPercentCODRule(bp int64, minFee kernel.Money) CODRule {
	return CODRule{mode: CODPercent, bp: bp, min: minFee}
}

// Mode returns whether the rule is flat or percentage based.
func (r CODRule) Mode() CODMode { return r.mode }

// Flat returns the flat fee, meaningful for flat-mode rules.
func (r CODRule) Flat() kernel.Money { return r.flat }

// BasisPoints returns the percentage in basis points, for percent-mode rules.
func (r CODRule) BasisPoints() int64 { return r.bp }

// MinFee returns the fee floor.
func (r CODRule) MinFee() kernel.Money { return r.min }

// feeFor computes the COD fee for a non-zero collected amount.
func (r CODRule) feeFor(codAmount kernel.Money) kernel.Money {
	if r.mode == CODFlat {
		return r.flat
	}
	fee := codAmount.ApplyBasisPoints(r.bp)
	if fee.IsLessThan(r.min) {
		return r.min
	}
	return fee
}

// VersionParams carries the effective rates for building a Version. All maps
// are copied by the constructor; the published version never changes.
type VersionParams struct {
	Code        string
	Currency    string
	PublishedAt time.Time
	DimFactor   int64

	PerKgRates  map[ServiceLevel]kernel.Money
	BaseFreight map[Zone]map[ServiceLevel]kernel.Money
	RouteZones  map[Route]Zone
	Surcharges  []SurchargeRule
	InsuranceBP map[InsuranceTier]int64
	COD         CODRule
	TaxBP       int64
	FuelBP      int64
}

// Version is an immutable snapshot of the tariff: per-service-level kg rates,
// per-zone base freight, the surcharge rule set, insurance tiers, the COD
// rule, tax rate and fuel index. Quotes always record the version code they
// were computed against so a price can be re-derived later.
//
// A Version is published by a separate administrative process and never
// mutated; every accessor is read-only and safe for concurrent use.
type Version struct {
	code        string
	currency    string
	publishedAt time.Time
	dimFactor   int64

	perKgRates  map[ServiceLevel]kernel.Money
	baseFreight map[Zone]map[ServiceLevel]kernel.Money
	routeZones  map[Route]Zone
	surcharges  []SurchargeRule
	insuranceBP map[InsuranceTier]int64
	cod         CODRule
	taxBP       int64
	fuelBP      int64

	guard guard.ConstructorGuard
}

// NewVersion builds a Version from published rates, copying every map so the
// snapshot cannot alias caller state.
func NewVersion(params VersionParams) (Version, error) {
	if params.Code == "" {
		return Version{}, errs.NewValueIsRequiredError("rate table version code")
	}
	if len(params.Currency) != 3 {
		return Version{}, errs.NewValueIsInvalidError("rate table currency")
	}
	if params.TaxBP < 0 || params.FuelBP < 0 {
		return Version{}, errs.NewValueIsInvalidError("rate table percentages")
	}
	dimFactor := params.DimFactor
	if dimFactor == 0 {
		dimFactor = DefaultDimFactor
	}
	if dimFactor < 0 {
		return Version{}, errs.NewValueIsInvalidError("dim factor")
	}

	perKg := make(map[ServiceLevel]kernel.Money, len(params.PerKgRates))
	for level, rate := range params.PerKgRates {
		if err := level.Validate(); err != nil {
			return Version{}, err
		}
		perKg[level] = rate
	}

	base := make(map[Zone]map[ServiceLevel]kernel.Money, len(params.BaseFreight))
	for zone, byLevel := range params.BaseFreight {
		if err := zone.Validate(); err != nil {
			return Version{}, err
		}
		levels := make(map[ServiceLevel]kernel.Money, len(byLevel))
		for level, fee := range byLevel {
			levels[level] = fee
		}
		base[zone] = levels
	}

	routes := make(map[Route]Zone, len(params.RouteZones))
	for route, zone := range params.RouteZones {
		routes[route] = zone
	}

	insurance := make(map[InsuranceTier]int64, len(params.InsuranceBP))
	for tier, bp := range params.InsuranceBP {
		if err := tier.Validate(); err != nil {
			return Version{}, err
		}
		insurance[tier] = bp
	}

	surcharges := make([]SurchargeRule, len(params.Surcharges))
	copy(surcharges, params.Surcharges)

	return Version{
		code:        params.Code,
		currency:    params.Currency,
		publishedAt: params.PublishedAt,
		dimFactor:   dimFactor,
		perKgRates:  perKg,
		baseFreight: base,
		routeZones:  routes,
		surcharges:  surcharges,
		insuranceBP: insurance,
		cod:         params.COD,
		taxBP:       params.TaxBP,
		fuelBP:      params.FuelBP,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Code returns the snapshot identifier recorded on quotes.
func (v Version) Code() string { return v.code }

// Currency returns the tariff currency.
func (v Version) Currency() string { return v.currency }

// PublishedAt returns the publication timestamp.
func (v Version) PublishedAt() time.Time { return v.publishedAt }

// DimFactor returns the volumetric divisor.
func (v Version) DimFactor() int64 { return v.dimFactor }

// TaxBP returns the tax rate in basis points.
func (v Version) TaxBP() int64 { return v.taxBP }

// FuelBP returns the fuel index percentage in basis points.
func (v Version) FuelBP() int64 { return v.fuelBP }

// COD returns the cash-on-delivery fee rule.
func (v Version) COD() CODRule { return v.cod }

// Surcharges returns the rule set in declaration order. The slice is a copy.
func (v Version) Surcharges() []SurchargeRule {
	out := make([]SurchargeRule, len(v.surcharges))
	copy(out, v.surcharges)
	return out
}

// PerKgRates returns a copy of the per-service-level kilogram rates.
func (v Version) PerKgRates() map[ServiceLevel]kernel.Money {
	out := make(map[ServiceLevel]kernel.Money, len(v.perKgRates))
	for level, rate := range v.perKgRates {
		out[level] = rate
	}
	return out
}

// BaseFreightTable returns a copy of the zone and service-level base fees.
func (v Version) BaseFreightTable() map[Zone]map[ServiceLevel]kernel.Money {
	out := make(map[Zone]map[ServiceLevel]kernel.Money, len(v.baseFreight))
	for zone, byLevel := range v.baseFreight {
		levels := make(map[ServiceLevel]kernel.Money, len(byLevel))
		for level, fee := range byLevel {
			levels[level] = fee
		}
		out[zone] = levels
	}
	return out
}

// RouteZones returns a copy of the route to zone assignments.
func (v Version) RouteZones() map[Route]Zone {
	out := make(map[Route]Zone, len(v.routeZones))
	for route, zone := range v.routeZones {
		out[route] = zone
	}
	return out
}

// InsuranceRates returns a copy of the per-tier basis points.
func (v Version) InsuranceRates() map[InsuranceTier]int64 {
	out := make(map[InsuranceTier]int64, len(v.insuranceBP))
	for tier, bp := range v.insuranceBP {
		out[tier] = bp
	}
	return out
}

// ZoneFor resolves the pricing zone for a route. An unknown route cannot be
// quoted and yields a computation failure.
func (v Version) ZoneFor(route Route) (Zone, error) {
	zone, ok := v.routeZones[route]
	if !ok {
		return "", errs.NewComputationFailedErrorWithCause("route",
			fmt.Errorf("no zone covers route %s in rate table %s", route, v.code))
	}
	return zone, nil
}

// PerKgRate returns the per-kilogram rate for a service level.
func (v Version) PerKgRate(level ServiceLevel) (kernel.Money, error) {
	rate, ok := v.perKgRates[level]
	if !ok {
		return kernel.Money{}, errs.NewComputationFailedErrorWithCause("serviceLevel",
			fmt.Errorf("service level %q is not priced in rate table %s", level, v.code))
	}
	return rate, nil
}

// BaseFreight returns the flat fee for a zone and service level.
func (v Version) BaseFreight(zone Zone, level ServiceLevel) (kernel.Money, error) {
	byLevel, ok := v.baseFreight[zone]
	if !ok {
		return kernel.Money{}, errs.NewComputationFailedErrorWithCause("route",
			fmt.Errorf("zone %q has no base freight in rate table %s", zone, v.code))
	}
	fee, ok := byLevel[level]
	if !ok {
		return kernel.Money{}, errs.NewComputationFailedErrorWithCause("serviceLevel",
			fmt.Errorf("service level %q has no base freight for zone %q in rate table %s", level, zone, v.code))
	}
	return fee, nil
}

// InsuranceBP returns the declared-value rate for an insurance tier in basis
// points. Tiers absent from the table are uninsured and rate zero.
func (v Version) InsuranceBP(tier InsuranceTier) int64 {
	return v.insuranceBP[tier]
}

// CODFee computes the cash-on-delivery fee for the collected amount in the
// tariff currency. A zero COD amount carries no fee.
func (v Version) CODFee(amount kernel.Money) (kernel.Money, error) {
	zero, err := kernel.ZeroMoney(v.currency)
	if err != nil {
		return kernel.Money{}, err
	}
	if amount.IsZero() {
		return zero, nil
	}
	return v.cod.feeFor(amount), nil
}

// Validate ensures the version was created via NewVersion.
func (v Version) Validate() error {
	return v.guard.Validate(ErrVersionIsNotConstructed)
}
