package override

import (
	"errors"
	"fmt"
	"time"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/pkg/errs"
)

// ErrOverrideIsNotConstructed is returned when an Override instance was not
// created through NewOverride or RestoreOverride.
var ErrOverrideIsNotConstructed = errors.New(
	"Override must be created via NewOverride or RestoreOverride")

// ActionType is the elevated action an override authorizes.
type ActionType string

const (
	ActionDiscount      ActionType = "discount"
	ActionPriceOverride ActionType = "price_override"
	ActionRefund        ActionType = "refund"
	ActionLabelReprint  ActionType = "label_reprint"
	ActionCancellation  ActionType = "cancellation"
)

// Validate checks the action type is one of the defined values.
func (a ActionType) Validate() error {
	switch a {
	case ActionDiscount, ActionPriceOverride, ActionRefund,
		ActionLabelReprint, ActionCancellation:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("actionType",
			fmt.Errorf("%q is not a valid override action type", string(a)))
	}
}

// Override is a pending authorization for an elevated action. It is requested
// by one user and decided by a different, elevated one before the TTL runs
// out.
//
// Invariants:
//   - exactly one transition out of Pending, ever
//   - the requester can never approve their own request
//   - a Pending override past its deadline can only expire
type Override struct {
	id           kernel.UUID
	actionType   ActionType
	requestedBy  kernel.UUID
	reason       string
	targetRef    *kernel.UUID
	requestData  string
	status       Status
	expiresAt    time.Time
	approvedBy   *kernel.UUID
	approvedData string
	processedAt  *time.Time
	createdAt    time.Time

	isConstructed bool
}

// NewOverride creates a Pending override whose deadline is createdAt plus ttl.
func NewOverride(
	id kernel.UUID,
	actionType ActionType,
	requestedBy kernel.UUID,
	reason string,
	targetRef *kernel.UUID,
	requestData string,
	createdAt time.Time,
	ttl time.Duration,
) (*Override, error) {
	if err := errors.Join(
		id.Validate(),
		actionType.Validate(),
		requestedBy.Validate(),
	); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, errs.NewValueIsRequiredError("reason")
	}
	if targetRef != nil {
		if err := targetRef.Validate(); err != nil {
			return nil, err
		}
	}
	if ttl <= 0 {
		return nil, errs.NewValueIsInvalidError("ttl")
	}

	return &Override{
		id:            id,
		actionType:    actionType,
		requestedBy:   requestedBy,
		reason:        reason,
		targetRef:     targetRef,
		requestData:   requestData,
		status:        Pending,
		expiresAt:     createdAt.Add(ttl),
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// RestoreOverride reconstructs an override from persistence.
func RestoreOverride(
	id kernel.UUID,
	actionType ActionType,
	requestedBy kernel.UUID,
	reason string,
	targetRef *kernel.UUID,
	requestData string,
	status Status,
	expiresAt time.Time,
	approvedBy *kernel.UUID,
	approvedData string,
	processedAt *time.Time,
	createdAt time.Time,
) (*Override, error) {
	if err := errors.Join(
		id.Validate(),
		actionType.Validate(),
		requestedBy.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return &Override{
		id:            id,
		actionType:    actionType,
		requestedBy:   requestedBy,
		reason:        reason,
		targetRef:     targetRef,
		requestData:   requestData,
		status:        status,
		expiresAt:     expiresAt,
		approvedBy:    approvedBy,
		approvedData:  approvedData,
		processedAt:   processedAt,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the instance came from a constructor.
func (o *Override) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOverrideIsNotConstructed
	}
	return nil
}

// ID returns the override identifier.
func (o *Override) ID() kernel.UUID { return o.id }

// ActionType returns the elevated action this override authorizes.
func (o *Override) ActionType() ActionType { return o.actionType }

// RequestedBy returns the requesting user's id.
func (o *Override) RequestedBy() kernel.UUID { return o.requestedBy }

// Reason returns the requester's justification.
func (o *Override) Reason() string { return o.reason }

// TargetRef returns the entity the action applies to, if any.
func (o *Override) TargetRef() *kernel.UUID { return o.targetRef }

// RequestData returns the action-specific payload supplied at request time.
func (o *Override) RequestData() string { return o.requestData }

// Status returns the approval lifecycle status.
func (o *Override) Status() Status { return o.status }

// ExpiresAt returns the TTL deadline.
func (o *Override) ExpiresAt() time.Time { return o.expiresAt }

// ApprovedBy returns the deciding supervisor's id, if decided.
func (o *Override) ApprovedBy() *kernel.UUID { return o.approvedBy }

// ApprovedData returns the payload the supervisor attached to the decision.
func (o *Override) ApprovedData() string { return o.approvedData }

// ProcessedAt returns the decision or expiry timestamp, if any.
func (o *Override) ProcessedAt() *time.Time { return o.processedAt }

// CreatedAt returns the request timestamp.
func (o *Override) CreatedAt() time.Time { return o.createdAt }

// IsExpired reports whether a still-Pending override has passed its deadline.
func (o *Override) IsExpired(now time.Time) bool {
	return o.status == Pending && now.After(o.expiresAt)
}

// Approve moves the override to Approved, recording the approver, their
// payload and the decision time. The requester cannot approve their own
// request; a decided or expired override is a conflict.
func (o *Override) Approve(approverID kernel.UUID, data string, now time.Time) error {
	if err := approverID.Validate(); err != nil {
		return err
	}
	if approverID.IsEqual(o.requestedBy) {
		return errs.NewPermissionDeniedError("override cannot be approved by its requester")
	}
	if err := o.ensureDecidable(now); err != nil {
		return err
	}

	o.status = Approved
	o.approvedBy = &approverID
	o.approvedData = data
	o.processedAt = &now
	return nil
}

// Reject moves the override to Rejected, recording who declined it and when.
func (o *Override) Reject(approverID kernel.UUID, now time.Time) error {
	if err := approverID.Validate(); err != nil {
		return err
	}
	if err := o.ensureDecidable(now); err != nil {
		return err
	}

	o.status = Rejected
	o.approvedBy = &approverID
	o.processedAt = &now
	return nil
}

// Expire moves a Pending override past its deadline to Expired.
func (o *Override) Expire(now time.Time) error {
	if o.status != Pending {
		return errs.NewConflictErrorWithCause("override",
			fmt.Errorf("override %s is already %s", o.id, o.status))
	}
	if !now.After(o.expiresAt) {
		return errs.NewConflictErrorWithCause("override",
			fmt.Errorf("override %s has not reached its deadline", o.id))
	}

	o.status = Expired
	o.processedAt = &now
	return nil
}

func (o *Override) ensureDecidable(now time.Time) error {
	if o.status != Pending {
		return errs.NewConflictErrorWithCause("override",
			fmt.Errorf("override %s is already %s", o.id, o.status))
	}
	if o.IsExpired(now) {
		return errs.NewConflictErrorWithCause("override",
			fmt.Errorf("override %s expired at %s", o.id, o.expiresAt.Format(time.RFC3339)))
	}
	return nil
}
