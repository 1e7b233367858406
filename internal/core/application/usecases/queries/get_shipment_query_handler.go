package queries

import (
	"context"
	"database/sql"
	"errors"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/shipment"
	"courierpos/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetShipmentQueryHandler reads a shipment row straight from the database.
type GetShipmentQueryHandler struct {
	db *gorm.DB
}

// NewGetShipmentQueryHandler creates a handler for single-shipment reads.
func NewGetShipmentQueryHandler(db *gorm.DB) GetShipmentQueryHandler {
	return GetShipmentQueryHandler{db: db}
}

// Handle fetches the shipment and its quote columns.
func (h GetShipmentQueryHandler) Handle(
	ctx context.Context,
	query GetShipmentQuery,
) (GetShipmentQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetShipmentQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			payer_type,
			service_level,
			currency,
			amount_paid,
			label_prints,
			quote_base_freight,
			quote_weight_charge,
			quote_fuel_surcharge,
			quote_surcharges_total,
			quote_insurance_fee,
			quote_cod_fee,
			quote_subtotal,
			quote_tax,
			quote_total,
			quote_rate_table_version,
			created_at
		FROM shipments
		WHERE id = ?
	`, query.ShipmentID().Bytes()).Row()

	var resp GetShipmentQueryResponse
	var id uuid.UUID
	var status int

	err := row.Scan(
		&id,
		&status,
		&resp.PayerType,
		&resp.ServiceLevel,
		&resp.Currency,
		&resp.AmountPaid,
		&resp.LabelPrints,
		&resp.BaseFreight,
		&resp.WeightCharge,
		&resp.FuelSurcharge,
		&resp.SurchargesTotal,
		&resp.InsuranceFee,
		&resp.CODFee,
		&resp.Subtotal,
		&resp.Tax,
		&resp.Total,
		&resp.RateTableVersion,
		&resp.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetShipmentQueryResponse{}, errs.NewObjectNotFoundError(
			"shipment", query.ShipmentID().String())
	}
	if err != nil {
		return GetShipmentQueryResponse{}, err
	}

	shipmentID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetShipmentQueryResponse{}, err
	}
	resp.ID = shipmentID
	resp.Status = shipment.Status(status).String()
	resp.Outstanding = resp.Total - resp.AmountPaid

	return resp, nil
}
