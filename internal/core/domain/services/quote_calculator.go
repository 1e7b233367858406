package services

import (
	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/quote"
	"courierpos/internal/core/domain/model/ratetable"
)

// QuoteCalculator prices shipment specs against a rate table version.
//
// Calculation is pure and deterministic: the same (spec, version) pair always
// yields a byte-identical quote, independent of call time or call count. The
// transaction orchestrator leans on this when it re-prices a spec at shipment
// creation and compares the result against the quote the customer accepted.
//
// Per parcel:
//  1. volumetric weight = (L×W×H)/dimFactor, zero when dimensions are absent
//  2. billable weight = max(actual, volumetric)
//  3. base freight = zone/service-level flat fee
//  4. weight charge = billable weight × per-kg rate
//  5. surcharges: every matching rule in the rule set applies (cumulative),
//     each recorded under its code; the fuel surcharge is computed separately
//     as the fuel index applied to base freight + weight charge
//
// Shipment level: insurance fee = declared value × tier rate, COD fee per the
// table's COD rule, then subtotal, tax and total. Multi-parcel specs keep the
// per-parcel breakdown and roll the components into the aggregate quote.
//
// Failures are computation errors (unpriced route or service level) or
// validation errors; a failed calculation never returns a partial quote.
type QuoteCalculator struct{}

// NewQuoteCalculator creates a QuoteCalculator.
func NewQuoteCalculator() QuoteCalculator {
	return QuoteCalculator{}
}

// Calculate prices the spec against the rate table version.
func (c QuoteCalculator) Calculate(
	spec quote.ShipmentSpec,
	version ratetable.Version,
) (quote.Quote, error) {
	if err := spec.Validate(); err != nil {
		return quote.Quote{}, err
	}
	if err := version.Validate(); err != nil {
		return quote.Quote{}, err
	}

	zone, err := version.ZoneFor(spec.Route())
	if err != nil {
		return quote.Quote{}, err
	}
	perKg, err := version.PerKgRate(spec.ServiceLevel())
	if err != nil {
		return quote.Quote{}, err
	}
	baseFreight, err := version.BaseFreight(zone, spec.ServiceLevel())
	if err != nil {
		return quote.Quote{}, err
	}

	zero, err := kernel.ZeroMoney(version.Currency())
	if err != nil {
		return quote.Quote{}, err
	}

	agg := quote.Quote{
		BaseFreight:      zero,
		WeightCharge:     zero,
		FuelSurcharge:    zero,
		SurchargesTotal:  zero,
		InsuranceFee:     zero,
		CODFee:           zero,
		Subtotal:         zero,
		Tax:              zero,
		Total:            zero,
		Currency:         version.Currency(),
		RateTableVersion: version.Code(),
	}

	for _, parcel := range spec.Parcels() {
		detail, perr := c.priceParcel(parcel, spec.ServiceLevel(), zone, baseFreight, perKg, version, zero)
		if perr != nil {
			return quote.Quote{}, perr
		}

		agg.ParcelDetails = append(agg.ParcelDetails, detail)
		if agg.BaseFreight, err = agg.BaseFreight.Add(detail.BaseFreight); err != nil {
			return quote.Quote{}, err
		}
		if agg.WeightCharge, err = agg.WeightCharge.Add(detail.WeightCharge); err != nil {
			return quote.Quote{}, err
		}
		if agg.FuelSurcharge, err = agg.FuelSurcharge.Add(detail.FuelSurcharge); err != nil {
			return quote.Quote{}, err
		}
		if agg.SurchargesTotal, err = agg.SurchargesTotal.Add(detail.SurchargesTotal); err != nil {
			return quote.Quote{}, err
		}
		agg.AppliedSurcharges = append(agg.AppliedSurcharges, detail.AppliedSurcharges...)
	}

	if bp := version.InsuranceBP(spec.InsuranceTier()); bp > 0 && !spec.DeclaredValue().IsZero() {
		agg.InsuranceFee = spec.DeclaredValue().ApplyBasisPoints(bp)
	}
	if agg.CODFee, err = version.CODFee(spec.CODAmount()); err != nil {
		return quote.Quote{}, err
	}

	subtotal := agg.BaseFreight
	for _, part := range []kernel.Money{
		agg.WeightCharge, agg.SurchargesTotal, agg.FuelSurcharge, agg.InsuranceFee, agg.CODFee,
	} {
		if subtotal, err = subtotal.Add(part); err != nil {
			return quote.Quote{}, err
		}
	}
	agg.Subtotal = subtotal
	agg.Tax = subtotal.ApplyBasisPoints(version.TaxBP())
	if agg.Total, err = agg.Subtotal.Add(agg.Tax); err != nil {
		return quote.Quote{}, err
	}

	return agg, nil
}

// priceParcel runs the freight-side steps for one parcel.
func (c QuoteCalculator) priceParcel(
	parcel quote.ParcelSpec,
	level ratetable.ServiceLevel,
	zone ratetable.Zone,
	baseFreight kernel.Money,
	perKg kernel.Money,
	version ratetable.Version,
	zero kernel.Money,
) (quote.ParcelDetail, error) {
	billable := parcel.BillableWeight(version.DimFactor())
	weightCharge := perKg.PerWeight(billable)

	freight, err := baseFreight.Add(weightCharge)
	if err != nil {
		return quote.ParcelDetail{}, err
	}

	surchargesTotal := zero
	var applied []quote.AppliedSurcharge
	for _, rule := range version.Surcharges() {
		if !rule.Matches(level, zone, billable) {
			continue
		}
		amount, aerr := rule.AmountFor(freight)
		if aerr != nil {
			return quote.ParcelDetail{}, aerr
		}
		applied = append(applied, quote.AppliedSurcharge{Code: rule.Code(), Amount: amount})
		if surchargesTotal, err = surchargesTotal.Add(amount); err != nil {
			return quote.ParcelDetail{}, err
		}
	}

	fuel := freight.ApplyBasisPoints(version.FuelBP())

	subtotal := freight
	if subtotal, err = subtotal.Add(surchargesTotal); err != nil {
		return quote.ParcelDetail{}, err
	}
	if subtotal, err = subtotal.Add(fuel); err != nil {
		return quote.ParcelDetail{}, err
	}
	tax := subtotal.ApplyBasisPoints(version.TaxBP())
	total, err := subtotal.Add(tax)
	if err != nil {
		return quote.ParcelDetail{}, err
	}

	return quote.ParcelDetail{
		BillableWeight:    billable,
		BaseFreight:       baseFreight,
		WeightCharge:      weightCharge,
		FuelSurcharge:     fuel,
		SurchargesTotal:   surchargesTotal,
		AppliedSurcharges: applied,
		Subtotal:          subtotal,
		Tax:               tax,
		Total:             total,
	}, nil
}
