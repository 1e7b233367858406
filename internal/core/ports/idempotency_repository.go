package ports

import (
	"context"
	"time"

	"courierpos/internal/core/domain/model/kernel"
)

// OperationType namespaces idempotency keys so the same client key can be
// reused across different operations without colliding.
type OperationType string

const (
	OperationCreateShipment OperationType = "create_shipment"
	OperationProcessPayment OperationType = "process_payment"
)

// IdempotencyRecord maps one (operation type, idempotency key) pair to the
// entity the first successful execution produced.
type IdempotencyRecord struct {
	OperationType  OperationType
	IdempotencyKey string
	EntityID       kernel.UUID
	CreatedAt      time.Time
}

// IdempotencyRepository defines the persistence contract for the idempotency
// ledger. Records are written in the same transaction as the entity they
// point to, so a ledger hit always has a readable winner.
type IdempotencyRepository interface {
	// Get retrieves the record for an operation and key.
	// Returns an ObjectNotFound error when the key was never used.
	Get(ctx context.Context, opType OperationType, key string) (IdempotencyRecord, error)

	// Add persists a new ledger record. Storage enforces uniqueness on
	// (operation type, idempotency key); a concurrent duplicate surfaces as a
	// Conflict error.
	Add(ctx context.Context, record IdempotencyRecord) error
}
