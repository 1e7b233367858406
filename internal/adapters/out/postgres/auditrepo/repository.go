package auditrepo

import (
	"context"

	"courierpos/internal/core/domain/model/audit"

	"gorm.io/gorm"
)

// GormAuditRepository implements AuditRepository using GORM. The trail is
// append-only; there is no update, delete or read-back through this port.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GORM audit trail repository.
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Add appends an event to the trail.
func (r *GormAuditRepository) Add(ctx context.Context, event audit.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	dto := fromDomain(event)
	return r.db.WithContext(ctx).Create(&dto).Error
}
