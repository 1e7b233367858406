// Package paymentrepo provides data transfer objects and mapping functions
// for payment transaction persistence.
package paymentrepo

import (
	"time"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/payment"

	"github.com/google/uuid"
)

// TransactionDTO represents the database structure for persisting payment
// transactions. Rows are written once per collection; only the posting
// status changes afterwards, when reconciliation resolves a failed post.
type TransactionDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentID     uuid.UUID `gorm:"type:uuid;index"`
	Amount         int64
	Currency       string
	Method         string
	PostingStatus  string `gorm:"index"`
	IdempotencyKey string
	CompletedAt    time.Time
}

// TableName specifies the database table name for payment transactions.
func (TransactionDTO) TableName() string {
	return "payment_transactions"
}

// fromDomain converts a payment transaction to its database representation.
func fromDomain(aggregate *payment.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:             aggregate.ID().Bytes(),
		ShipmentID:     aggregate.ShipmentID().Bytes(),
		Amount:         aggregate.Amount().Amount(),
		Currency:       aggregate.Amount().Currency(),
		Method:         string(aggregate.Method()),
		PostingStatus:  string(aggregate.PostingStatus()),
		IdempotencyKey: aggregate.IdempotencyKey(),
		CompletedAt:    aggregate.CompletedAt(),
	}
}

// toDomain converts a database DTO to a payment transaction aggregate.
func toDomain(dto TransactionDTO) (*payment.Transaction, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	shipmentID, err := kernel.UUIDFromBytes(dto.ShipmentID[:])
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.Amount, dto.Currency)
	if err != nil {
		return nil, err
	}

	return payment.RestoreTransaction(id, shipmentID, amount, payment.Method(dto.Method),
		payment.PostingStatus(dto.PostingStatus), dto.IdempotencyKey, dto.CompletedAt)
}
