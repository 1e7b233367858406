// Package postgres provides the GORM-based implementation of the Unit of Work
// pattern. A unit of work binds every repository to one database transaction,
// so an aggregate, its idempotency ledger record and its audit event commit
// or roll back together.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.ShipmentRepository().Add(ctx, aggregate); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each business operation gets a fresh instance; instances are not safe for
// concurrent use and must not be shared across goroutines.
package postgres

import (
	"context"

	"courierpos/internal/adapters/out/postgres/auditrepo"
	"courierpos/internal/adapters/out/postgres/idempotencyrepo"
	"courierpos/internal/adapters/out/postgres/overriderepo"
	"courierpos/internal/adapters/out/postgres/paymentrepo"
	"courierpos/internal/adapters/out/postgres/shipmentrepo"
	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of work.
// Kept for post-commit processing such as an outbox or event publishing.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate interface{}
}

// GormUnitOfWorkFactory creates UnitOfWork instances over one GORM connection.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances. All created instances share the provided connection pool.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork with its own transaction state and
// aggregate tracking, isolated from other in-flight operations.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction across the shipment,
// payment, override, idempotency and audit repositories.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin starts a new database transaction. Calling Begin again on an
// instance with an open transaction is a no-op rather than a nested
// transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		return uow.tx.Error
	}

	return nil
}

// Commit finalizes all changes made within the current transaction.
// Returns error if no active transaction exists or if the commit fails.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction.
// Returns error if no active transaction exists or if the rollback fails.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// conn returns the active transaction, or the main connection when no
// transaction is open.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// ShipmentRepository returns a shipment repository bound to the current
// transaction.
func (uow *GormUnitOfWork) ShipmentRepository() ports.ShipmentRepository {
	return shipmentrepo.NewGormShipmentRepository(uow.conn(), uow)
}

// PaymentRepository returns a payment repository bound to the current
// transaction.
func (uow *GormUnitOfWork) PaymentRepository() ports.PaymentRepository {
	return paymentrepo.NewGormPaymentRepository(uow.conn(), uow)
}

// OverrideRepository returns an override repository bound to the current
// transaction.
func (uow *GormUnitOfWork) OverrideRepository() ports.OverrideRepository {
	return overriderepo.NewGormOverrideRepository(uow.conn(), uow)
}

// IdempotencyRepository returns an idempotency ledger repository bound to the
// current transaction.
func (uow *GormUnitOfWork) IdempotencyRepository() ports.IdempotencyRepository {
	return idempotencyrepo.NewGormIdempotencyRepository(uow.conn())
}

// AuditRepository returns an audit trail repository bound to the current
// transaction.
func (uow *GormUnitOfWork) AuditRepository() ports.AuditRepository {
	return auditrepo.NewGormAuditRepository(uow.conn())
}

// TrackAggregate registers a domain aggregate as modified within this unit of
// work. Called by repository implementations on Add and Update.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}
