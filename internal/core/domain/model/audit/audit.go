// Package audit defines the append-only audit trail event. Every state
// change the transaction core performs writes one event in the same unit of
// work as the change itself, so the trail never disagrees with the data.
package audit

import (
	"errors"
	"fmt"
	"time"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/pkg/errs"
)

// ErrEventIsNotConstructed is returned when an Event instance was not created
// through NewEvent.
var ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent")

// EventType names what happened.
type EventType string

const (
	EventShipmentCreated   EventType = "shipment_created"
	EventPaymentReceived   EventType = "payment_received"
	EventLabelReprinted    EventType = "label_reprinted"
	EventShipmentCancelled EventType = "shipment_cancelled"
	EventOverrideRequested EventType = "override_requested"
	EventOverrideApproved  EventType = "override_approved"
	EventOverrideRejected  EventType = "override_rejected"
	EventOverrideExpired   EventType = "override_expired"
)

// Validate checks the event type is one of the defined values.
func (e EventType) Validate() error {
	switch e {
	case EventShipmentCreated, EventPaymentReceived, EventLabelReprinted,
		EventShipmentCancelled, EventOverrideRequested, EventOverrideApproved,
		EventOverrideRejected, EventOverrideExpired:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("eventType",
			fmt.Errorf("%q is not a valid audit event type", string(e)))
	}
}

// Event is one immutable audit trail entry. Events are only ever appended.
type Event struct {
	id         kernel.UUID
	eventType  EventType
	actorID    kernel.UUID
	entityID   kernel.UUID
	details    string
	occurredAt time.Time

	isConstructed bool
}

// NewEvent creates an audit event. Details carries an action-specific JSON
// payload and may be empty.
func NewEvent(
	id kernel.UUID,
	eventType EventType,
	actorID kernel.UUID,
	entityID kernel.UUID,
	details string,
	occurredAt time.Time,
) (Event, error) {
	if err := errors.Join(
		id.Validate(),
		eventType.Validate(),
		actorID.Validate(),
		entityID.Validate(),
	); err != nil {
		return Event{}, err
	}

	return Event{
		id:            id,
		eventType:     eventType,
		actorID:       actorID,
		entityID:      entityID,
		details:       details,
		occurredAt:    occurredAt,
		isConstructed: true,
	}, nil
}

// NewSystemEvent creates an event with no human actor, for scheduled
// transitions such as TTL expiry. ActorID is the zero UUID and is persisted
// as NULL.
func NewSystemEvent(
	id kernel.UUID,
	eventType EventType,
	entityID kernel.UUID,
	details string,
	occurredAt time.Time,
) (Event, error) {
	if err := errors.Join(
		id.Validate(),
		eventType.Validate(),
		entityID.Validate(),
	); err != nil {
		return Event{}, err
	}

	return Event{
		id:            id,
		eventType:     eventType,
		entityID:      entityID,
		details:       details,
		occurredAt:    occurredAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the instance came from the constructor.
func (e Event) Validate() error {
	if !e.isConstructed {
		return ErrEventIsNotConstructed
	}
	return nil
}

// ID returns the event identifier.
func (e Event) ID() kernel.UUID { return e.id }

// Type returns what happened.
func (e Event) Type() EventType { return e.eventType }

// ActorID returns who did it.
func (e Event) ActorID() kernel.UUID { return e.actorID }

// EntityID returns the shipment or override the event concerns.
func (e Event) EntityID() kernel.UUID { return e.entityID }

// Details returns the action-specific payload.
func (e Event) Details() string { return e.details }

// OccurredAt returns when it happened.
func (e Event) OccurredAt() time.Time { return e.occurredAt }
