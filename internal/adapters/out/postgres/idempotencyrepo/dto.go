// Package idempotencyrepo provides persistence for the idempotency ledger.
// The ledger is the authority on at-most-once execution: the composite unique
// index on (operation_type, idempotency_key) is what actually stops two
// racing transactions from both committing.
package idempotencyrepo

import (
	"time"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/ports"

	"github.com/google/uuid"
)

// IdempotencyRecordDTO represents one ledger row.
type IdempotencyRecordDTO struct {
	OperationType  string    `gorm:"primaryKey"`
	IdempotencyKey string    `gorm:"primaryKey"`
	EntityID       uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time
}

// TableName specifies the database table name for ledger rows.
func (IdempotencyRecordDTO) TableName() string {
	return "idempotency_records"
}

// fromDomain converts a ledger record to its database representation.
func fromDomain(record ports.IdempotencyRecord) IdempotencyRecordDTO {
	return IdempotencyRecordDTO{
		OperationType:  string(record.OperationType),
		IdempotencyKey: record.IdempotencyKey,
		EntityID:       record.EntityID.Bytes(),
		CreatedAt:      record.CreatedAt,
	}
}

// toDomain converts a database DTO to a ledger record.
func toDomain(dto IdempotencyRecordDTO) (ports.IdempotencyRecord, error) {
	entityID, err := kernel.UUIDFromBytes(dto.EntityID[:])
	if err != nil {
		return ports.IdempotencyRecord{}, err
	}

	return ports.IdempotencyRecord{
		OperationType:  ports.OperationType(dto.OperationType),
		IdempotencyKey: dto.IdempotencyKey,
		EntityID:       entityID,
		CreatedAt:      dto.CreatedAt,
	}, nil
}
