// Package queries contains read-side operations of the CQRS architecture.
// Query handlers read the database directly with raw SQL and return flat
// response structs; they never load or mutate aggregates.
package queries

import (
	"errors"
	"time"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/pkg/guard"
)

var ErrGetShipmentQueryIsNotConstructed = errors.New(
	"GetShipmentQuery must be created via NewGetShipmentQuery constructor",
)

// GetShipmentQuery retrieves one shipment with its embedded quote breakdown.
type GetShipmentQuery struct {
	shipmentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetShipmentQuery creates a query for a single shipment.
func NewGetShipmentQuery(shipmentID kernel.UUID) (GetShipmentQuery, error) {
	if err := shipmentID.Validate(); err != nil {
		return GetShipmentQuery{}, err
	}
	return GetShipmentQuery{
		shipmentID: shipmentID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// ShipmentID returns the shipment to fetch.
func (q GetShipmentQuery) ShipmentID() kernel.UUID {
	return q.shipmentID
}

// Validate ensures the query was created through the constructor.
func (q GetShipmentQuery) Validate() error {
	return q.guard.Validate(ErrGetShipmentQueryIsNotConstructed)
}

// GetShipmentQueryResponse is the flat read model of a shipment: lifecycle
// state, collected amounts and the full quote breakdown in minor units.
type GetShipmentQueryResponse struct {
	ID               kernel.UUID
	Status           string
	PayerType        string
	ServiceLevel     string
	Currency         string
	AmountPaid       int64
	Outstanding      int64
	LabelPrints      int
	BaseFreight      int64
	WeightCharge     int64
	FuelSurcharge    int64
	SurchargesTotal  int64
	InsuranceFee     int64
	CODFee           int64
	Subtotal         int64
	Tax              int64
	Total            int64
	RateTableVersion string
	CreatedAt        time.Time
}
