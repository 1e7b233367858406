package http

import (
	"time"

	"courierpos/internal/core/application/usecases/commands"
	"courierpos/internal/core/application/usecases/queries"
	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/quote"
	"courierpos/internal/core/domain/model/ratetable"
)

// Error is the uniform error body of the API.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// DimensionsRequest carries parcel dimensions in whole centimeters.
type DimensionsRequest struct {
	LengthCm int64 `json:"length_cm"`
	WidthCm  int64 `json:"width_cm"`
	HeightCm int64 `json:"height_cm"`
}

// ParcelRequest describes one parcel to price or book.
type ParcelRequest struct {
	WeightGrams int64              `json:"weight_grams"`
	Dimensions  *DimensionsRequest `json:"dimensions,omitempty"`
}

// QuoteRequest is the pricing input shared by quote previews and bookings.
// All amounts are minor units in the given currency.
type QuoteRequest struct {
	OriginID      string          `json:"origin_id"`
	DestinationID string          `json:"destination_id"`
	ServiceLevel  string          `json:"service_level"`
	Parcels       []ParcelRequest `json:"parcels"`
	Currency      string          `json:"currency"`
	DeclaredValue int64           `json:"declared_value"`
	CODAmount     int64           `json:"cod_amount"`
	InsuranceTier string          `json:"insurance_tier"`
}

// toSpec converts the request into a domain pricing spec.
func (r QuoteRequest) toSpec() (quote.ShipmentSpec, error) {
	origin, err := kernel.UUIDFromString(r.OriginID)
	if err != nil {
		return quote.ShipmentSpec{}, err
	}
	destination, err := kernel.UUIDFromString(r.DestinationID)
	if err != nil {
		return quote.ShipmentSpec{}, err
	}
	route, err := ratetable.NewRoute(origin, destination)
	if err != nil {
		return quote.ShipmentSpec{}, err
	}

	parcels := make([]quote.ParcelSpec, 0, len(r.Parcels))
	for _, p := range r.Parcels {
		weight, wErr := kernel.NewWeight(p.WeightGrams)
		if wErr != nil {
			return quote.ShipmentSpec{}, wErr
		}
		var dims *quote.Dimensions
		if p.Dimensions != nil {
			d, dErr := quote.NewDimensions(p.Dimensions.LengthCm, p.Dimensions.WidthCm, p.Dimensions.HeightCm)
			if dErr != nil {
				return quote.ShipmentSpec{}, dErr
			}
			dims = &d
		}
		parcel, pErr := quote.NewParcelSpec(weight, dims)
		if pErr != nil {
			return quote.ShipmentSpec{}, pErr
		}
		parcels = append(parcels, parcel)
	}

	declared, err := kernel.NewMoney(r.DeclaredValue, r.Currency)
	if err != nil {
		return quote.ShipmentSpec{}, err
	}
	cod, err := kernel.NewMoney(r.CODAmount, r.Currency)
	if err != nil {
		return quote.ShipmentSpec{}, err
	}

	tier := ratetable.InsuranceTier(r.InsuranceTier)
	if r.InsuranceTier == "" {
		tier = ratetable.InsuranceNone
	}

	return quote.NewShipmentSpec(route, ratetable.ServiceLevel(r.ServiceLevel),
		parcels, declared, cod, tier)
}

// AppliedSurchargeResponse is one matched surcharge rule on a quote.
type AppliedSurchargeResponse struct {
	Code   string `json:"code"`
	Amount int64  `json:"amount"`
}

// QuoteResponse is the itemized quote returned by previews and bookings.
type QuoteResponse struct {
	BaseFreight       int64                      `json:"base_freight"`
	WeightCharge      int64                      `json:"weight_charge"`
	FuelSurcharge     int64                      `json:"fuel_surcharge"`
	SurchargesTotal   int64                      `json:"surcharges_total"`
	AppliedSurcharges []AppliedSurchargeResponse `json:"applied_surcharges"`
	InsuranceFee      int64                      `json:"insurance_fee"`
	CODFee            int64                      `json:"cod_fee"`
	Subtotal          int64                      `json:"subtotal"`
	Tax               int64                      `json:"tax"`
	Total             int64                      `json:"total"`
	Currency          string                     `json:"currency"`
	RateTableVersion  string                     `json:"rate_table_version"`
}

func quoteToResponse(q quote.Quote) QuoteResponse {
	applied := make([]AppliedSurchargeResponse, 0, len(q.AppliedSurcharges))
	for _, s := range q.AppliedSurcharges {
		applied = append(applied, AppliedSurchargeResponse{Code: s.Code, Amount: s.Amount.Amount()})
	}
	return QuoteResponse{
		BaseFreight:       q.BaseFreight.Amount(),
		WeightCharge:      q.WeightCharge.Amount(),
		FuelSurcharge:     q.FuelSurcharge.Amount(),
		SurchargesTotal:   q.SurchargesTotal.Amount(),
		AppliedSurcharges: applied,
		InsuranceFee:      q.InsuranceFee.Amount(),
		CODFee:            q.CODFee.Amount(),
		Subtotal:          q.Subtotal.Amount(),
		Tax:               q.Tax.Amount(),
		Total:             q.Total.Amount(),
		Currency:          q.Currency,
		RateTableVersion:  q.RateTableVersion,
	}
}

// CreateShipmentRequest books a shipment from a priced spec. ExpectedTotal,
// when present, pins the price the customer agreed to.
type CreateShipmentRequest struct {
	QuoteRequest
	PayerType     string `json:"payer_type"`
	ExpectedTotal *int64 `json:"expected_total,omitempty"`
}

// CreateShipmentResponse reports a booking. Replayed is true when the
// idempotency key had already been used and the original result is returned.
type CreateShipmentResponse struct {
	ShipmentID string        `json:"shipment_id"`
	Status     string        `json:"status"`
	Quote      QuoteResponse `json:"quote"`
	Replayed   bool          `json:"replayed"`
}

// ShipmentResponse is the read model of a booked shipment.
type ShipmentResponse struct {
	ID               string    `json:"id"`
	Status           string    `json:"status"`
	PayerType        string    `json:"payer_type"`
	ServiceLevel     string    `json:"service_level"`
	Currency         string    `json:"currency"`
	AmountPaid       int64     `json:"amount_paid"`
	Outstanding      int64     `json:"outstanding"`
	LabelPrints      int       `json:"label_prints"`
	BaseFreight      int64     `json:"base_freight"`
	WeightCharge     int64     `json:"weight_charge"`
	FuelSurcharge    int64     `json:"fuel_surcharge"`
	SurchargesTotal  int64     `json:"surcharges_total"`
	InsuranceFee     int64     `json:"insurance_fee"`
	CODFee           int64     `json:"cod_fee"`
	Subtotal         int64     `json:"subtotal"`
	Tax              int64     `json:"tax"`
	Total            int64     `json:"total"`
	RateTableVersion string    `json:"rate_table_version"`
	CreatedAt        time.Time `json:"created_at"`
}

func shipmentToResponse(s queries.GetShipmentQueryResponse) ShipmentResponse {
	return ShipmentResponse{
		ID:               s.ID.String(),
		Status:           s.Status,
		PayerType:        s.PayerType,
		ServiceLevel:     s.ServiceLevel,
		Currency:         s.Currency,
		AmountPaid:       s.AmountPaid,
		Outstanding:      s.Outstanding,
		LabelPrints:      s.LabelPrints,
		BaseFreight:      s.BaseFreight,
		WeightCharge:     s.WeightCharge,
		FuelSurcharge:    s.FuelSurcharge,
		SurchargesTotal:  s.SurchargesTotal,
		InsuranceFee:     s.InsuranceFee,
		CODFee:           s.CODFee,
		Subtotal:         s.Subtotal,
		Tax:              s.Tax,
		Total:            s.Total,
		RateTableVersion: s.RateTableVersion,
		CreatedAt:        s.CreatedAt,
	}
}

// PaymentRequest collects a payment against a shipment.
type PaymentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Method   string `json:"method"`
}

// PaymentResponse reports a collected payment.
type PaymentResponse struct {
	TransactionID  string `json:"transaction_id"`
	ShipmentStatus string `json:"shipment_status"`
	AmountPaid     int64  `json:"amount_paid"`
	PostingStatus  string `json:"posting_status"`
	Replayed       bool   `json:"replayed"`
}

func paymentToResponse(r commands.ProcessPaymentResult) PaymentResponse {
	return PaymentResponse{
		TransactionID:  r.TransactionID.String(),
		ShipmentStatus: r.ShipmentStatus.String(),
		AmountPaid:     r.AmountPaid.Amount(),
		PostingStatus:  string(r.PostingStatus),
		Replayed:       r.Replayed,
	}
}

// OverrideRequest opens a supervisor override request.
type OverrideRequest struct {
	ActionType  string  `json:"action_type"`
	Reason      string  `json:"reason"`
	TargetRef   *string `json:"target_ref,omitempty"`
	RequestData string  `json:"request_data,omitempty"`
}

// OverrideResponse reports a created override request.
type OverrideResponse struct {
	OverrideID string    `json:"override_id"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ApprovalRequest carries the approver's credential and optional adjusted
// terms for an approval decision.
type ApprovalRequest struct {
	Credential   string `json:"credential"`
	ApprovedData string `json:"approved_data,omitempty"`
}

// PendingOverrideResponse is one undecided override on the approval screen.
type PendingOverrideResponse struct {
	ID          string    `json:"id"`
	ActionType  string    `json:"action_type"`
	RequestedBy string    `json:"requested_by"`
	Reason      string    `json:"reason"`
	TargetRef   *string   `json:"target_ref,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func pendingOverrideToResponse(o queries.GetPendingOverridesQueryResponse) PendingOverrideResponse {
	resp := PendingOverrideResponse{
		ID:          o.ID.String(),
		ActionType:  o.ActionType,
		RequestedBy: o.RequestedBy.String(),
		Reason:      o.Reason,
		ExpiresAt:   o.ExpiresAt,
		CreatedAt:   o.CreatedAt,
	}
	if o.TargetRef != nil {
		ref := o.TargetRef.String()
		resp.TargetRef = &ref
	}
	return resp
}

// CancellationRequest voids a shipment before handover.
type CancellationRequest struct {
	Reason string `json:"reason"`
}

// ReprintResponse reports a label print.
type ReprintResponse struct {
	PrintCount int `json:"print_count"`
}
