package ratetable

import (
	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/pkg/errs"
)

// SurchargeRule is one entry of a rate table's surcharge rule set. A rule
// matches a parcel by optional criteria (minimum billable weight, service
// levels, zones); empty criteria match everything. Matching is cumulative:
// every matching rule contributes its amount and is recorded on the quote
// under its code.
type SurchargeRule struct {
	code           string
	flat           kernel.Money
	freightBP      int64
	minWeightGrams int64
	serviceLevels  []ServiceLevel
	zones          []Zone
}

// NewSurchargeRule creates a surcharge rule. Flat is added as-is; freightBP is
// applied to the parcel's base freight + weight charge. Zero minWeightGrams
// and empty level/zone lists mean "no restriction".
func NewSurchargeRule(
	code string,
	flat kernel.Money,
	freightBP int64,
	minWeightGrams int64,
	serviceLevels []ServiceLevel,
	zones []Zone,
) (SurchargeRule, error) {
	if code == "" {
		return SurchargeRule{}, errs.NewValueIsRequiredError("surcharge code")
	}
	if err := flat.Validate(); err != nil {
		return SurchargeRule{}, err
	}
	if freightBP < 0 || minWeightGrams < 0 {
		return SurchargeRule{}, errs.NewValueIsInvalidError("surcharge rule")
	}
	return SurchargeRule{
		code:           code,
		flat:           flat,
		freightBP:      freightBP,
		minWeightGrams: minWeightGrams,
		serviceLevels:  serviceLevels,
		zones:          zones,
	}, nil
}

// Code returns the surcharge code recorded on quotes.
func (r SurchargeRule) Code() string {
	return r.code
}

// Flat returns the flat component of the surcharge.
func (r SurchargeRule) Flat() kernel.Money {
	return r.flat
}

// FreightBP returns the freight-proportional component in basis points.
func (r SurchargeRule) FreightBP() int64 {
	return r.freightBP
}

// MinWeightGrams returns the billable-weight threshold, zero for none.
func (r SurchargeRule) MinWeightGrams() int64 {
	return r.minWeightGrams
}

// ServiceLevels returns a copy of the level restriction, empty for none.
func (r SurchargeRule) ServiceLevels() []ServiceLevel {
	out := make([]ServiceLevel, len(r.serviceLevels))
	copy(out, r.serviceLevels)
	return out
}

// Zones returns a copy of the zone restriction, empty for none.
func (r SurchargeRule) Zones() []Zone {
	out := make([]Zone, len(r.zones))
	copy(out, r.zones)
	return out
}

// Matches reports whether the rule applies to a parcel with the given billable
// weight on the given service level and zone.
func (r SurchargeRule) Matches(level ServiceLevel, zone Zone, billable kernel.Weight) bool {
	if r.minWeightGrams > 0 && billable.Grams() < r.minWeightGrams {
		return false
	}
	if len(r.serviceLevels) > 0 && !containsLevel(r.serviceLevels, level) {
		return false
	}
	if len(r.zones) > 0 && !containsZone(r.zones, zone) {
		return false
	}
	return true
}

// AmountFor computes the surcharge for a parcel whose base freight plus weight
// charge is freight.
func (r SurchargeRule) AmountFor(freight kernel.Money) (kernel.Money, error) {
	amount := r.flat
	if r.freightBP > 0 {
		return amount.Add(freight.ApplyBasisPoints(r.freightBP))
	}
	return amount, nil
}

func containsLevel(levels []ServiceLevel, level ServiceLevel) bool {
	for _, l := range levels {
		if l == level {
			return true
		}
	}
	return false
}

func containsZone(zones []Zone, zone Zone) bool {
	for _, z := range zones {
		if z == zone {
			return true
		}
	}
	return false
}
