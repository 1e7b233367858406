package quote

import "courierpos/internal/core/domain/model/kernel"

// AppliedSurcharge records one surcharge rule that matched during pricing.
type AppliedSurcharge struct {
	Code   string
	Amount kernel.Money
}

// ParcelDetail is the per-parcel pricing breakdown retained on multi-parcel
// quotes. Insurance and COD are shipment-level and appear only on the
// aggregate quote.
type ParcelDetail struct {
	BillableWeight    kernel.Weight
	BaseFreight       kernel.Money
	WeightCharge      kernel.Money
	FuelSurcharge     kernel.Money
	SurchargesTotal   kernel.Money
	AppliedSurcharges []AppliedSurcharge
	Subtotal          kernel.Money
	Tax               kernel.Money
	Total             kernel.Money
}

// Quote is a fully itemized price for a shipment spec against one rate table
// version. It is a pure value: recomputing the same (spec, version) pair
// yields an identical Quote, which the orchestrator relies on when it
// re-prices at creation time.
type Quote struct {
	BaseFreight       kernel.Money
	WeightCharge      kernel.Money
	FuelSurcharge     kernel.Money
	SurchargesTotal   kernel.Money
	AppliedSurcharges []AppliedSurcharge
	InsuranceFee      kernel.Money
	CODFee            kernel.Money
	Subtotal          kernel.Money
	Tax               kernel.Money
	Total             kernel.Money
	Currency          string
	RateTableVersion  string
	ParcelDetails     []ParcelDetail
}

// IsEqual reports whether two quotes are identical in every component,
// including the per-parcel breakdowns and applied surcharge lists.
func (q Quote) IsEqual(other Quote) bool {
	if q.Currency != other.Currency || q.RateTableVersion != other.RateTableVersion {
		return false
	}
	if !q.BaseFreight.IsEqual(other.BaseFreight) ||
		!q.WeightCharge.IsEqual(other.WeightCharge) ||
		!q.FuelSurcharge.IsEqual(other.FuelSurcharge) ||
		!q.SurchargesTotal.IsEqual(other.SurchargesTotal) ||
		!q.InsuranceFee.IsEqual(other.InsuranceFee) ||
		!q.CODFee.IsEqual(other.CODFee) ||
		!q.Subtotal.IsEqual(other.Subtotal) ||
		!q.Tax.IsEqual(other.Tax) ||
		!q.Total.IsEqual(other.Total) {
		return false
	}
	if !surchargesEqual(q.AppliedSurcharges, other.AppliedSurcharges) {
		return false
	}
	if len(q.ParcelDetails) != len(other.ParcelDetails) {
		return false
	}
	for i := range q.ParcelDetails {
		if !q.ParcelDetails[i].isEqual(other.ParcelDetails[i]) {
			return false
		}
	}
	return true
}

func (d ParcelDetail) isEqual(other ParcelDetail) bool {
	if d.BillableWeight.Grams() != other.BillableWeight.Grams() {
		return false
	}
	if !d.BaseFreight.IsEqual(other.BaseFreight) ||
		!d.WeightCharge.IsEqual(other.WeightCharge) ||
		!d.FuelSurcharge.IsEqual(other.FuelSurcharge) ||
		!d.SurchargesTotal.IsEqual(other.SurchargesTotal) ||
		!d.Subtotal.IsEqual(other.Subtotal) ||
		!d.Tax.IsEqual(other.Tax) ||
		!d.Total.IsEqual(other.Total) {
		return false
	}
	return surchargesEqual(d.AppliedSurcharges, other.AppliedSurcharges)
}

func surchargesEqual(a, b []AppliedSurcharge) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Code != b[i].Code || !a[i].Amount.IsEqual(b[i].Amount) {
			return false
		}
	}
	return true
}
