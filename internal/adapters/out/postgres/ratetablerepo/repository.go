package ratetablerepo

import (
	"context"
	"errors"
	"time"

	"courierpos/internal/core/domain/model/ratetable"
	"courierpos/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRateTableRepository implements RateTableProvider using GORM. Versions
// are written once by an administrative seeding step and read on every quote.
type GormRateTableRepository struct {
	db *gorm.DB
}

// NewGormRateTableRepository creates a new GORM rate table repository.
func NewGormRateTableRepository(db *gorm.DB) *GormRateTableRepository {
	return &GormRateTableRepository{db: db}
}

// GetActiveVersion returns the most recently published version whose
// publication moment is not in the future.
func (r *GormRateTableRepository) GetActiveVersion(ctx context.Context) (*ratetable.Version, error) {
	var dto VersionDTO
	err := r.db.WithContext(ctx).
		Where("published_at <= ?", time.Now().UTC()).
		Order("published_at DESC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("rate table version", "active")
		}
		return nil, err
	}

	return toDomain(dto)
}

// Add publishes a new version. Republishing an existing code is a conflict;
// corrections ship as a new version.
func (r *GormRateTableRepository) Add(ctx context.Context, version ratetable.Version) error {
	if err := version.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(version)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictError("rate table version " + version.Code())
		}
		return err
	}

	return nil
}
