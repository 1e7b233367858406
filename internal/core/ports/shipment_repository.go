// Package ports defines the persistence and collaborator interfaces of the
// transaction core. These interfaces establish contracts between the domain
// layer and infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/shipment"
)

// ShipmentRepository defines the persistence contract for shipment aggregates.
type ShipmentRepository interface {
	// Add persists a new shipment aggregate to storage.
	// The shipment must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *shipment.Shipment) error

	// Update persists changes to an existing shipment aggregate.
	Update(ctx context.Context, aggregate *shipment.Shipment) error

	// Get retrieves a shipment aggregate by its unique identifier.
	// Returns an ObjectNotFound error when no such shipment exists.
	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)
}
