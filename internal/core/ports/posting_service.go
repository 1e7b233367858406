package ports

import (
	"context"

	"courierpos/internal/core/domain/model/payment"
)

// PostingService sends the accounting entry for a collected payment to the
// ledger system. A posting failure does not void the payment; the caller
// marks the transaction for reconciliation instead.
type PostingService interface {
	PostPayment(ctx context.Context, tx *payment.Transaction) error
}
