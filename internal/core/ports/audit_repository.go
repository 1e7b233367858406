package ports

import (
	"context"

	"courierpos/internal/core/domain/model/audit"
)

// AuditRepository defines the append-only persistence contract for the audit
// trail. There is no update or delete; events are only ever added, inside the
// same transaction as the state change they record.
type AuditRepository interface {
	Add(ctx context.Context, event audit.Event) error
}
