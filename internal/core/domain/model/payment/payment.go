// Package payment implements the PaymentTransaction aggregate: one collected
// payment against a shipment, created exactly once per idempotency key.
package payment

import (
	"errors"
	"fmt"
	"time"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/pkg/errs"
)

// ErrTransactionIsNotConstructed is returned when a Transaction was not
// created through NewTransaction or RestoreTransaction.
var ErrTransactionIsNotConstructed = errors.New(
	"Transaction must be created via NewTransaction or RestoreTransaction")

// Method is the tender used at the counter.
type Method string

const (
	MethodCash     Method = "cash"
	MethodCard     Method = "card"
	MethodTransfer Method = "transfer"
)

// Validate checks the method is one of the defined values.
func (m Method) Validate() error {
	switch m {
	case MethodCash, MethodCard, MethodTransfer:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("method",
			fmt.Errorf("%q is not a valid payment method", string(m)))
	}
}

// PostingStatus tracks whether the accounting entry for this payment reached
// the posting service. A payment whose posting failed still commits; it is
// flagged for reconciliation instead of being rolled back.
type PostingStatus string

const (
	// Posted means the posting service accepted the accounting entry.
	Posted PostingStatus = "posted"

	// PendingReconciliation means the payment committed but the posting call
	// failed; a reconciliation process re-posts it later.
	PendingReconciliation PostingStatus = "pending_reconciliation"
)

// Validate checks the posting status is one of the defined values.
func (p PostingStatus) Validate() error {
	switch p {
	case Posted, PendingReconciliation:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("postingStatus",
			fmt.Errorf("%q is not a valid posting status", string(p)))
	}
}

// Transaction is one collected payment. It references its shipment, carries
// the amount and tender, and records whether the accounting post succeeded.
type Transaction struct {
	id             kernel.UUID
	shipmentID     kernel.UUID
	amount         kernel.Money
	method         Method
	postingStatus  PostingStatus
	idempotencyKey string
	completedAt    time.Time

	isConstructed bool
}

// NewTransaction creates a payment transaction in Posted state; the
// orchestrator downgrades it to PendingReconciliation if the posting call
// fails before commit.
func NewTransaction(
	id kernel.UUID,
	shipmentID kernel.UUID,
	amount kernel.Money,
	method Method,
	idempotencyKey string,
	completedAt time.Time,
) (*Transaction, error) {
	if err := errors.Join(
		id.Validate(),
		shipmentID.Validate(),
		amount.Validate(),
		method.Validate(),
	); err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, errs.NewValueIsInvalidError("payment amount")
	}
	if idempotencyKey == "" {
		return nil, errs.NewValueIsRequiredError("idempotencyKey")
	}

	return &Transaction{
		id:             id,
		shipmentID:     shipmentID,
		amount:         amount,
		method:         method,
		postingStatus:  Posted,
		idempotencyKey: idempotencyKey,
		completedAt:    completedAt,
		isConstructed:  true,
	}, nil
}

// RestoreTransaction reconstructs a transaction from persistence.
func RestoreTransaction(
	id kernel.UUID,
	shipmentID kernel.UUID,
	amount kernel.Money,
	method Method,
	postingStatus PostingStatus,
	idempotencyKey string,
	completedAt time.Time,
) (*Transaction, error) {
	tx, err := NewTransaction(id, shipmentID, amount, method, idempotencyKey, completedAt)
	if err != nil {
		return nil, err
	}
	if err = postingStatus.Validate(); err != nil {
		return nil, err
	}
	tx.postingStatus = postingStatus
	return tx, nil
}

// Validate ensures the instance came from a constructor.
func (t *Transaction) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTransactionIsNotConstructed
	}
	return nil
}

// ID returns the transaction identifier.
func (t *Transaction) ID() kernel.UUID { return t.id }

// ShipmentID returns the shipment this payment was collected against.
func (t *Transaction) ShipmentID() kernel.UUID { return t.shipmentID }

// Amount returns the collected amount.
func (t *Transaction) Amount() kernel.Money { return t.amount }

// Method returns the tender.
func (t *Transaction) Method() Method { return t.method }

// PostingStatus reports whether the accounting entry was posted.
func (t *Transaction) PostingStatus() PostingStatus { return t.postingStatus }

// IdempotencyKey returns the key the payment was processed under.
func (t *Transaction) IdempotencyKey() string { return t.idempotencyKey }

// CompletedAt returns the collection timestamp.
func (t *Transaction) CompletedAt() time.Time { return t.completedAt }

// MarkPendingReconciliation flags the payment after a failed posting call.
func (t *Transaction) MarkPendingReconciliation() {
	t.postingStatus = PendingReconciliation
}
