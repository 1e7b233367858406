package queries

import (
	"errors"
	"time"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/pkg/guard"
)

var ErrGetPendingOverridesQueryIsNotConstructed = errors.New(
	"GetPendingOverridesQuery must be created via NewGetPendingOverridesQuery constructor",
)

// GetPendingOverridesQuery retrieves all override requests still awaiting a
// decision, for the supervisor's approval screen.
type GetPendingOverridesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetPendingOverridesQuery creates a query for undecided overrides.
func NewGetPendingOverridesQuery() GetPendingOverridesQuery {
	return GetPendingOverridesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetPendingOverridesQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingOverridesQueryIsNotConstructed)
}

// GetPendingOverridesQueryResponse is one undecided override request.
type GetPendingOverridesQueryResponse struct {
	ID          kernel.UUID
	ActionType  string
	RequestedBy kernel.UUID
	Reason      string
	TargetRef   *kernel.UUID
	ExpiresAt   time.Time
	CreatedAt   time.Time
}
