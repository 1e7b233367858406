package queries

import (
	"context"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/override"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetPendingOverridesQueryHandler lists undecided overrides, soonest deadline
// first, so the approval screen surfaces the most urgent requests on top.
type GetPendingOverridesQueryHandler struct {
	db *gorm.DB
}

// NewGetPendingOverridesQueryHandler creates a handler for pending override reads.
func NewGetPendingOverridesQueryHandler(db *gorm.DB) GetPendingOverridesQueryHandler {
	return GetPendingOverridesQueryHandler{db: db}
}

// Handle executes the query. Overrides whose deadline already passed are
// excluded even if the sweep has not expired them yet.
func (h GetPendingOverridesQueryHandler) Handle(
	ctx context.Context,
	query GetPendingOverridesQuery,
) ([]GetPendingOverridesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	pending := make([]GetPendingOverridesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			action_type,
			requested_by,
			reason,
			target_ref,
			expires_at,
			created_at
		FROM overrides
		WHERE status = ?
		  AND expires_at > NOW()
		ORDER BY expires_at
	`, override.Pending).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetPendingOverridesQueryResponse
		var id uuid.UUID
		var requestedBy uuid.UUID
		var targetRef *uuid.UUID

		err = rows.Scan(
			&id,
			&resp.ActionType,
			&requestedBy,
			&resp.Reason,
			&targetRef,
			&resp.ExpiresAt,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		overrideID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = overrideID

		requester, reqErr := kernel.UUIDFromBytes(requestedBy[:])
		if reqErr != nil {
			return nil, reqErr
		}
		resp.RequestedBy = requester

		if targetRef != nil {
			target, refErr := kernel.UUIDFromBytes((*targetRef)[:])
			if refErr != nil {
				return nil, refErr
			}
			resp.TargetRef = &target
		}

		pending = append(pending, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return pending, nil
}
