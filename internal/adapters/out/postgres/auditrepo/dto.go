// Package auditrepo provides append-only persistence for audit events.
package auditrepo

import (
	"time"

	"courierpos/internal/core/domain/model/audit"

	"github.com/google/uuid"
)

// EventDTO represents one audit trail row. ActorID is NULL for events the
// system emits without a human actor, such as TTL expiry.
type EventDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EventType  string     `gorm:"index"`
	ActorID    *uuid.UUID `gorm:"type:uuid"`
	EntityID   uuid.UUID  `gorm:"type:uuid;index"`
	Details    string     `gorm:"type:jsonb"`
	OccurredAt time.Time
}

// TableName specifies the database table name for audit events.
func (EventDTO) TableName() string {
	return "audit_events"
}

// fromDomain converts an audit event to its database representation.
func fromDomain(event audit.Event) EventDTO {
	var actorID *uuid.UUID
	if actor := event.ActorID(); actor.Validate() == nil {
		raw := actor.Bytes()
		actorID = &raw
	}

	return EventDTO{
		ID:         event.ID().Bytes(),
		EventType:  string(event.Type()),
		ActorID:    actorID,
		EntityID:   event.EntityID().Bytes(),
		Details:    event.Details(),
		OccurredAt: event.OccurredAt(),
	}
}
