package overriderepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/override"
	"courierpos/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOverrideRepository implements OverrideRepository using GORM.
type GormOverrideRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOverrideRepository creates a new GORM override repository.
func NewGormOverrideRepository(db *gorm.DB, tracker aggregateTracker) *GormOverrideRepository {
	return &GormOverrideRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new override request to the database.
func (r *GormOverrideRepository) Add(ctx context.Context, aggregate *override.Override) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an override by ID.
func (r *GormOverrideRepository) Get(ctx context.Context, id kernel.UUID) (*override.Override, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OverrideDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("override", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// TransitionFromPending persists an aggregate that has just left Pending.
// The UPDATE is guarded on the stored status, so when two decisions race only
// the first one lands and the loser gets a Conflict error.
func (r *GormOverrideRepository) TransitionFromPending(ctx context.Context, aggregate *override.Override) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OverrideDTO{}).
		Where("id = ? AND status = ?", dto.ID, override.Pending).
		Updates(map[string]any{
			"status":        dto.Status,
			"approved_by":   dto.ApprovedBy,
			"approved_data": dto.ApprovedData,
			"processed_at":  dto.ProcessedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConflictErrorWithCause("override",
			fmt.Errorf("override %s was already decided", aggregate.ID()))
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// FindApproved retrieves an Approved override for the given action and target.
// When several exist the most recently decided one wins.
func (r *GormOverrideRepository) FindApproved(
	ctx context.Context,
	actionType override.ActionType,
	targetRef kernel.UUID,
) (*override.Override, error) {
	if err := actionType.Validate(); err != nil {
		return nil, err
	}
	if err := targetRef.Validate(); err != nil {
		return nil, err
	}

	var dto OverrideDTO
	err := r.db.WithContext(ctx).
		Where("action_type = ? AND target_ref = ? AND status = ?",
			string(actionType), targetRef.Bytes(), override.Approved).
		Order("processed_at DESC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("approved override",
				fmt.Sprintf("%s for %s", actionType, targetRef))
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllPendingDue retrieves every Pending override whose deadline has passed.
func (r *GormOverrideRepository) GetAllPendingDue(ctx context.Context, now time.Time) ([]*override.Override, error) {
	var dtos []OverrideDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", override.Pending, now).
		Order("expires_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	overrides := make([]*override.Override, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}

	return overrides, nil
}
