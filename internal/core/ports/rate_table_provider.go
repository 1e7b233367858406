package ports

import (
	"context"

	"courierpos/internal/core/domain/model/ratetable"
)

// RateTableProvider resolves the rate table version currently in effect.
// Pricing always runs against a single pinned version; the version code is
// stamped into every quote so a price can be traced back to its basis.
type RateTableProvider interface {
	// GetActiveVersion returns the published version effective right now.
	// Returns an ObjectNotFound error when no version has been published.
	GetActiveVersion(ctx context.Context) (*ratetable.Version, error)
}
