package ports

import (
	"context"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/payment"
)

// PaymentRepository defines the persistence contract for payment transactions.
type PaymentRepository interface {
	// Add persists a new payment transaction to storage.
	Add(ctx context.Context, aggregate *payment.Transaction) error

	// Update persists changes to an existing payment transaction.
	// Used by reconciliation to flip the posting status.
	Update(ctx context.Context, aggregate *payment.Transaction) error

	// Get retrieves a payment transaction by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*payment.Transaction, error)

	// GetAllByShipment retrieves every payment collected against a shipment,
	// oldest first.
	GetAllByShipment(ctx context.Context, shipmentID kernel.UUID) ([]*payment.Transaction, error)
}
