package idempotencyrepo

import (
	"context"
	"errors"
	"fmt"

	"courierpos/internal/core/ports"
	"courierpos/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormIdempotencyRepository implements IdempotencyRepository using GORM.
// Ledger rows are plain records, not aggregates, so there is no tracking.
type GormIdempotencyRepository struct {
	db *gorm.DB
}

// NewGormIdempotencyRepository creates a new GORM idempotency ledger repository.
func NewGormIdempotencyRepository(db *gorm.DB) *GormIdempotencyRepository {
	return &GormIdempotencyRepository{db: db}
}

// Get retrieves the ledger record for an operation and key.
func (r *GormIdempotencyRepository) Get(
	ctx context.Context,
	opType ports.OperationType,
	key string,
) (ports.IdempotencyRecord, error) {
	if key == "" {
		return ports.IdempotencyRecord{}, errs.NewValueIsRequiredError("idempotency key")
	}

	var dto IdempotencyRecordDTO
	err := r.db.WithContext(ctx).
		First(&dto, "operation_type = ? AND idempotency_key = ?", string(opType), key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, errs.NewObjectNotFoundError(
				"idempotency record", fmt.Sprintf("%s/%s", opType, key))
		}
		return ports.IdempotencyRecord{}, err
	}

	return toDomain(dto)
}

// Add persists a new ledger record. The unique index on
// (operation_type, idempotency_key) rejects concurrent duplicates; the
// violation surfaces as a Conflict error for the handler to resolve by
// replaying the winner.
func (r *GormIdempotencyRepository) Add(ctx context.Context, record ports.IdempotencyRecord) error {
	if record.IdempotencyKey == "" {
		return errs.NewValueIsRequiredError("idempotency key")
	}
	if err := record.EntityID.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("idempotency record",
				fmt.Errorf("key %q already used for %s", record.IdempotencyKey, record.OperationType))
		}
		return err
	}

	return nil
}
