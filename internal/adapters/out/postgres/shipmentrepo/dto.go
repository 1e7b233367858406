// Package shipmentrepo provides data transfer objects and mapping functions
// for shipment persistence. The shipment row carries the full quote snapshot
// in typed columns so read queries never reprice; the per-parcel breakdown
// lives in a child table keyed by (shipment_id, seq).
package shipmentrepo

import (
	"encoding/json"
	"time"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/quote"
	"courierpos/internal/core/domain/model/ratetable"
	"courierpos/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

// ShipmentDTO represents the database structure for persisting shipment
// aggregates. The idempotency key is uniquely indexed as a second line of
// defense behind the ledger table.
type ShipmentDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OriginID       uuid.UUID `gorm:"type:uuid"`
	DestinationID  uuid.UUID `gorm:"type:uuid"`
	ServiceLevel   string
	InsuranceTier  string
	DeclaredValue  int64
	CODAmount      int64
	PayerType      string
	Status         int `gorm:"index"`
	Currency       string
	AmountPaid     int64
	LabelPrints    int
	IdempotencyKey string      `gorm:"uniqueIndex"`
	Quote          QuoteDTO    `gorm:"embedded;embeddedPrefix:quote_"`
	Parcels        []ParcelDTO `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time
}

// TableName specifies the database table name for shipment entities.
func (ShipmentDTO) TableName() string {
	return "shipments"
}

// QuoteDTO represents the embedded quote snapshot within the shipment table.
// All amounts are minor units in the shipment's currency; the applied
// surcharge list is stored as JSONB.
type QuoteDTO struct {
	BaseFreight       int64
	WeightCharge      int64
	FuelSurcharge     int64
	SurchargesTotal   int64
	AppliedSurcharges string `gorm:"type:jsonb"`
	InsuranceFee      int64
	CODFee            int64
	Subtotal          int64
	Tax               int64
	Total             int64
	RateTableVersion  string
}

// ParcelDTO represents one parcel row of a shipment: the pricing spec it was
// booked with and its share of the quote. Seq preserves the request order.
type ParcelDTO struct {
	ShipmentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq        int       `gorm:"primaryKey"`

	WeightGrams int64
	LengthCm    *int64
	WidthCm     *int64
	HeightCm    *int64

	BillableWeightGrams int64
	BaseFreight         int64
	WeightCharge        int64
	FuelSurcharge       int64
	SurchargesTotal     int64
	AppliedSurcharges   string `gorm:"type:jsonb"`
	Subtotal            int64
	Tax                 int64
	Total               int64
}

// TableName specifies the database table name for parcel rows.
func (ParcelDTO) TableName() string {
	return "shipment_parcels"
}

// appliedSurchargeDTO is the JSON shape of one matched surcharge rule.
type appliedSurchargeDTO struct {
	Code   string `json:"code"`
	Amount int64  `json:"amount"`
}

func marshalSurcharges(applied []quote.AppliedSurcharge) (string, error) {
	dtos := make([]appliedSurchargeDTO, 0, len(applied))
	for _, s := range applied {
		dtos = append(dtos, appliedSurchargeDTO{Code: s.Code, Amount: s.Amount.Amount()})
	}
	raw, err := json.Marshal(dtos)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalSurcharges(raw string, currency string) ([]quote.AppliedSurcharge, error) {
	if raw == "" {
		return []quote.AppliedSurcharge{}, nil
	}

	var dtos []appliedSurchargeDTO
	if err := json.Unmarshal([]byte(raw), &dtos); err != nil {
		return nil, err
	}

	applied := make([]quote.AppliedSurcharge, 0, len(dtos))
	for _, dto := range dtos {
		amount, err := kernel.NewMoney(dto.Amount, currency)
		if err != nil {
			return nil, err
		}
		applied = append(applied, quote.AppliedSurcharge{Code: dto.Code, Amount: amount})
	}
	return applied, nil
}

// fromDomain converts a shipment aggregate to its database representation.
func fromDomain(aggregate *shipment.Shipment) (ShipmentDTO, error) {
	spec := aggregate.Spec()
	priced := aggregate.Quote()

	quoteSurcharges, err := marshalSurcharges(priced.AppliedSurcharges)
	if err != nil {
		return ShipmentDTO{}, err
	}

	specParcels := spec.Parcels()
	parcels := make([]ParcelDTO, 0, len(specParcels))
	for i, p := range specParcels {
		dto := ParcelDTO{
			ShipmentID:  aggregate.ID().Bytes(),
			Seq:         i,
			WeightGrams: p.Weight().Grams(),
		}
		if dims := p.Dimensions(); dims != nil {
			length, width, height := dims.LengthCm(), dims.WidthCm(), dims.HeightCm()
			dto.LengthCm = &length
			dto.WidthCm = &width
			dto.HeightCm = &height
		}

		detail := priced.ParcelDetails[i]
		detailSurcharges, sErr := marshalSurcharges(detail.AppliedSurcharges)
		if sErr != nil {
			return ShipmentDTO{}, sErr
		}
		dto.BillableWeightGrams = detail.BillableWeight.Grams()
		dto.BaseFreight = detail.BaseFreight.Amount()
		dto.WeightCharge = detail.WeightCharge.Amount()
		dto.FuelSurcharge = detail.FuelSurcharge.Amount()
		dto.SurchargesTotal = detail.SurchargesTotal.Amount()
		dto.AppliedSurcharges = detailSurcharges
		dto.Subtotal = detail.Subtotal.Amount()
		dto.Tax = detail.Tax.Amount()
		dto.Total = detail.Total.Amount()

		parcels = append(parcels, dto)
	}

	return ShipmentDTO{
		ID:             aggregate.ID().Bytes(),
		OriginID:       spec.Route().Origin().Bytes(),
		DestinationID:  spec.Route().Destination().Bytes(),
		ServiceLevel:   string(spec.ServiceLevel()),
		InsuranceTier:  string(spec.InsuranceTier()),
		DeclaredValue:  spec.DeclaredValue().Amount(),
		CODAmount:      spec.CODAmount().Amount(),
		PayerType:      string(aggregate.PayerType()),
		Status:         int(aggregate.Status()),
		Currency:       priced.Currency,
		AmountPaid:     aggregate.AmountPaid().Amount(),
		LabelPrints:    aggregate.LabelPrintCount(),
		IdempotencyKey: aggregate.IdempotencyKey(),
		Quote: QuoteDTO{
			BaseFreight:       priced.BaseFreight.Amount(),
			WeightCharge:      priced.WeightCharge.Amount(),
			FuelSurcharge:     priced.FuelSurcharge.Amount(),
			SurchargesTotal:   priced.SurchargesTotal.Amount(),
			AppliedSurcharges: quoteSurcharges,
			InsuranceFee:      priced.InsuranceFee.Amount(),
			CODFee:            priced.CODFee.Amount(),
			Subtotal:          priced.Subtotal.Amount(),
			Tax:               priced.Tax.Amount(),
			Total:             priced.Total.Amount(),
			RateTableVersion:  priced.RateTableVersion,
		},
		Parcels:   parcels,
		CreatedAt: aggregate.CreatedAt(),
	}, nil
}

// toDomain converts a database DTO back into a shipment aggregate. The spec
// and the quote are rebuilt from the same columns they were flattened from.
func toDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	origin, err := kernel.UUIDFromBytes(dto.OriginID[:])
	if err != nil {
		return nil, err
	}
	destination, err := kernel.UUIDFromBytes(dto.DestinationID[:])
	if err != nil {
		return nil, err
	}
	route, err := ratetable.NewRoute(origin, destination)
	if err != nil {
		return nil, err
	}

	money := func(amount int64) (kernel.Money, error) {
		return kernel.NewMoney(amount, dto.Currency)
	}

	specParcels := make([]quote.ParcelSpec, 0, len(dto.Parcels))
	details := make([]quote.ParcelDetail, 0, len(dto.Parcels))
	for _, p := range dto.Parcels {
		weight, wErr := kernel.NewWeight(p.WeightGrams)
		if wErr != nil {
			return nil, wErr
		}

		var dims *quote.Dimensions
		if p.LengthCm != nil && p.WidthCm != nil && p.HeightCm != nil {
			d, dErr := quote.NewDimensions(*p.LengthCm, *p.WidthCm, *p.HeightCm)
			if dErr != nil {
				return nil, dErr
			}
			dims = &d
		}

		parcelSpec, pErr := quote.NewParcelSpec(weight, dims)
		if pErr != nil {
			return nil, pErr
		}
		specParcels = append(specParcels, parcelSpec)

		detail, dErr := parcelDetailToDomain(p, dto.Currency)
		if dErr != nil {
			return nil, dErr
		}
		details = append(details, detail)
	}

	declaredValue, err := money(dto.DeclaredValue)
	if err != nil {
		return nil, err
	}
	codAmount, err := money(dto.CODAmount)
	if err != nil {
		return nil, err
	}

	spec, err := quote.NewShipmentSpec(route, ratetable.ServiceLevel(dto.ServiceLevel),
		specParcels, declaredValue, codAmount, ratetable.InsuranceTier(dto.InsuranceTier))
	if err != nil {
		return nil, err
	}

	priced, err := quoteToDomain(dto.Quote, dto.Currency, details)
	if err != nil {
		return nil, err
	}

	amountPaid, err := money(dto.AmountPaid)
	if err != nil {
		return nil, err
	}

	return shipment.RestoreShipment(id, spec, shipment.PayerType(dto.PayerType), priced,
		shipment.Status(dto.Status), amountPaid, dto.LabelPrints, dto.IdempotencyKey,
		dto.CreatedAt)
}

func quoteToDomain(dto QuoteDTO, currency string, details []quote.ParcelDetail) (quote.Quote, error) {
	applied, err := unmarshalSurcharges(dto.AppliedSurcharges, currency)
	if err != nil {
		return quote.Quote{}, err
	}

	amounts := make([]kernel.Money, 9)
	for i, raw := range []int64{
		dto.BaseFreight, dto.WeightCharge, dto.FuelSurcharge, dto.SurchargesTotal,
		dto.InsuranceFee, dto.CODFee, dto.Subtotal, dto.Tax, dto.Total,
	} {
		amounts[i], err = kernel.NewMoney(raw, currency)
		if err != nil {
			return quote.Quote{}, err
		}
	}

	return quote.Quote{
		BaseFreight:       amounts[0],
		WeightCharge:      amounts[1],
		FuelSurcharge:     amounts[2],
		SurchargesTotal:   amounts[3],
		AppliedSurcharges: applied,
		InsuranceFee:      amounts[4],
		CODFee:            amounts[5],
		Subtotal:          amounts[6],
		Tax:               amounts[7],
		Total:             amounts[8],
		Currency:          currency,
		RateTableVersion:  dto.RateTableVersion,
		ParcelDetails:     details,
	}, nil
}

func parcelDetailToDomain(dto ParcelDTO, currency string) (quote.ParcelDetail, error) {
	billable, err := kernel.NewWeight(dto.BillableWeightGrams)
	if err != nil {
		return quote.ParcelDetail{}, err
	}

	applied, err := unmarshalSurcharges(dto.AppliedSurcharges, currency)
	if err != nil {
		return quote.ParcelDetail{}, err
	}

	amounts := make([]kernel.Money, 7)
	for i, raw := range []int64{
		dto.BaseFreight, dto.WeightCharge, dto.FuelSurcharge, dto.SurchargesTotal,
		dto.Subtotal, dto.Tax, dto.Total,
	} {
		amounts[i], err = kernel.NewMoney(raw, currency)
		if err != nil {
			return quote.ParcelDetail{}, err
		}
	}

	return quote.ParcelDetail{
		BillableWeight:    billable,
		BaseFreight:       amounts[0],
		WeightCharge:      amounts[1],
		FuelSurcharge:     amounts[2],
		SurchargesTotal:   amounts[3],
		AppliedSurcharges: applied,
		Subtotal:          amounts[4],
		Tax:               amounts[5],
		Total:             amounts[6],
	}, nil
}
