package paymentrepo

import (
	"context"
	"errors"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/payment"
	"courierpos/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM.
type GormPaymentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormPaymentRepository creates a new GORM payment repository.
func NewGormPaymentRepository(db *gorm.DB, tracker aggregateTracker) *GormPaymentRepository {
	return &GormPaymentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new payment transaction to the database.
func (r *GormPaymentRepository) Add(ctx context.Context, aggregate *payment.Transaction) error {
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

// Update saves an existing payment transaction to the database. Used by
// reconciliation to flip the posting status.
func (r *GormPaymentRepository) Update(ctx context.Context, aggregate *payment.Transaction) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&TransactionDTO{}).
		Where("id = ?", dto.ID).
		Update("posting_status", dto.PostingStatus)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a payment transaction by ID.
func (r *GormPaymentRepository) Get(ctx context.Context, id kernel.UUID) (*payment.Transaction, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TransactionDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("payment transaction", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllByShipment retrieves every payment collected against a shipment,
// oldest first.
func (r *GormPaymentRepository) GetAllByShipment(ctx context.Context, shipmentID kernel.UUID) ([]*payment.Transaction, error) {
	if err := shipmentID.Validate(); err != nil {
		return nil, err
	}

	var dtos []TransactionDTO
	err := r.db.WithContext(ctx).
		Order("completed_at").
		Find(&dtos, "shipment_id = ?", shipmentID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	transactions := make([]*payment.Transaction, 0, len(dtos))
	for _, dto := range dtos {
		tx, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, nil
}
