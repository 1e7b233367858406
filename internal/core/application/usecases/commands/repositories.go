// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"courierpos/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends on the narrowest interface covering the repositories it
// touches, so tests mock only what the handler actually uses.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// ShipmentRepoFactory provides access to the shipment repository within a transaction.
	ShipmentRepoFactory interface {
		ShipmentRepository() ports.ShipmentRepository
	}

	// PaymentRepoFactory provides access to the payment repository within a transaction.
	PaymentRepoFactory interface {
		PaymentRepository() ports.PaymentRepository
	}

	// OverrideRepoFactory provides access to the override repository within a transaction.
	OverrideRepoFactory interface {
		OverrideRepository() ports.OverrideRepository
	}

	// IdempotencyRepoFactory provides access to the idempotency ledger within a transaction.
	IdempotencyRepoFactory interface {
		IdempotencyRepository() ports.IdempotencyRepository
	}

	// AuditRepoFactory provides access to the audit trail within a transaction.
	AuditRepoFactory interface {
		AuditRepository() ports.AuditRepository
	}

	// ShipmentUoW manages transactions for shipment creation: the shipment,
	// its ledger record and its audit event commit together.
	ShipmentUoW interface {
		TxManager
		ShipmentRepoFactory
		IdempotencyRepoFactory
		AuditRepoFactory
	}

	// ShipmentUoWFactory creates new shipment unit of work instances.
	ShipmentUoWFactory interface {
		Create() ShipmentUoW
	}

	// PaymentUoW manages transactions for payment processing across the
	// shipment and payment aggregates plus the ledger and audit trail.
	PaymentUoW interface {
		TxManager
		ShipmentRepoFactory
		PaymentRepoFactory
		IdempotencyRepoFactory
		AuditRepoFactory
	}

	// PaymentUoWFactory creates new payment unit of work instances.
	PaymentUoWFactory interface {
		Create() PaymentUoW
	}

	// OverrideUoW manages transactions for override lifecycle operations.
	OverrideUoW interface {
		TxManager
		OverrideRepoFactory
		AuditRepoFactory
	}

	// OverrideUoWFactory creates new override unit of work instances.
	OverrideUoWFactory interface {
		Create() OverrideUoW
	}

	// GatedActionUoW manages transactions for shipment actions that may
	// require an approved override (reprint, cancellation).
	GatedActionUoW interface {
		TxManager
		ShipmentRepoFactory
		OverrideRepoFactory
		AuditRepoFactory
	}

	// GatedActionUoWFactory creates new gated action unit of work instances.
	GatedActionUoWFactory interface {
		Create() GatedActionUoW
	}
)
