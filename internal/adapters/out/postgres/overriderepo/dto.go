// Package overriderepo provides data transfer objects and mapping functions
// for supervisor override persistence.
package overriderepo

import (
	"time"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/override"

	"github.com/google/uuid"
)

// OverrideDTO represents the database structure for persisting override
// aggregates. Status and expiry are indexed together for the expiry sweep.
type OverrideDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ActionType   string    `gorm:"index"`
	RequestedBy  uuid.UUID `gorm:"type:uuid"`
	Reason       string
	TargetRef    *uuid.UUID `gorm:"type:uuid;index"`
	RequestData  string     `gorm:"type:jsonb"`
	Status       int        `gorm:"index:idx_overrides_status_expires"`
	ExpiresAt    time.Time  `gorm:"index:idx_overrides_status_expires"`
	ApprovedBy   *uuid.UUID `gorm:"type:uuid"`
	ApprovedData string     `gorm:"type:jsonb"`
	ProcessedAt  *time.Time
	CreatedAt    time.Time
}

// TableName specifies the database table name for override entities.
func (OverrideDTO) TableName() string {
	return "overrides"
}

// fromDomain converts an override aggregate to its database representation.
func fromDomain(aggregate *override.Override) OverrideDTO {
	var targetRef *uuid.UUID
	if ref := aggregate.TargetRef(); ref != nil {
		raw := ref.Bytes()
		targetRef = &raw
	}

	var approvedBy *uuid.UUID
	if approver := aggregate.ApprovedBy(); approver != nil {
		raw := approver.Bytes()
		approvedBy = &raw
	}

	return OverrideDTO{
		ID:           aggregate.ID().Bytes(),
		ActionType:   string(aggregate.ActionType()),
		RequestedBy:  aggregate.RequestedBy().Bytes(),
		Reason:       aggregate.Reason(),
		TargetRef:    targetRef,
		RequestData:  aggregate.RequestData(),
		Status:       int(aggregate.Status()),
		ExpiresAt:    aggregate.ExpiresAt(),
		ApprovedBy:   approvedBy,
		ApprovedData: aggregate.ApprovedData(),
		ProcessedAt:  aggregate.ProcessedAt(),
		CreatedAt:    aggregate.CreatedAt(),
	}
}

// toDomain converts a database DTO to an override aggregate.
func toDomain(dto OverrideDTO) (*override.Override, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	requestedBy, err := kernel.UUIDFromBytes(dto.RequestedBy[:])
	if err != nil {
		return nil, err
	}

	var targetRef *kernel.UUID
	if dto.TargetRef != nil {
		ref, refErr := kernel.UUIDFromBytes((*dto.TargetRef)[:])
		if refErr != nil {
			return nil, refErr
		}
		targetRef = &ref
	}

	var approvedBy *kernel.UUID
	if dto.ApprovedBy != nil {
		approver, approverErr := kernel.UUIDFromBytes((*dto.ApprovedBy)[:])
		if approverErr != nil {
			return nil, approverErr
		}
		approvedBy = &approver
	}

	return override.RestoreOverride(id, override.ActionType(dto.ActionType), requestedBy,
		dto.Reason, targetRef, dto.RequestData, override.Status(dto.Status), dto.ExpiresAt,
		approvedBy, dto.ApprovedData, dto.ProcessedAt, dto.CreatedAt)
}
