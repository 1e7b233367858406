package ports

import (
	"context"
	"time"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/override"
)

// OverrideRepository defines the persistence contract for supervisor override
// aggregates.
type OverrideRepository interface {
	// Add persists a new override request to storage.
	Add(ctx context.Context, aggregate *override.Override) error

	// Get retrieves an override by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*override.Override, error)

	// TransitionFromPending persists an aggregate that has just left Pending.
	// The update is a compare-and-swap on the stored status: it succeeds only
	// if the row is still Pending, otherwise it returns a Conflict error so a
	// concurrent decision never overwrites another.
	TransitionFromPending(ctx context.Context, aggregate *override.Override) error

	// FindApproved retrieves an Approved override for the given action and
	// target, or an ObjectNotFound error when none exists.
	FindApproved(ctx context.Context, actionType override.ActionType, targetRef kernel.UUID) (*override.Override, error)

	// GetAllPendingDue retrieves every Pending override whose deadline has
	// passed as of now. Used by the expiry sweep.
	GetAllPendingDue(ctx context.Context, now time.Time) ([]*override.Override, error)
}
