package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courierpos/internal/core/domain/model/audit"
	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/payment"
	"courierpos/internal/core/domain/model/shipment"
	"courierpos/internal/core/ports"
	"courierpos/internal/pkg/errs"
)

// ProcessPaymentResult is what collection returns, identical whether the
// payment ran for the first time or was replayed from the idempotency ledger.
type ProcessPaymentResult struct {
	TransactionID  kernel.UUID
	ShipmentStatus shipment.Status
	AmountPaid     kernel.Money
	PostingStatus  payment.PostingStatus
	Replayed       bool
}

// ProcessPaymentCommandHandler collects payments exactly once per idempotency
// key. The payment transaction, the shipment status change, the ledger record
// and the audit event commit in one transaction.
//
// The accounting post runs after the payment and its ledger record are
// staged, and its failure does not roll the payment back: the transaction is
// marked PendingReconciliation and committed, because the cash drawer already
// holds the money.
type ProcessPaymentCommandHandler struct {
	uowFactory PaymentUoWFactory
	posting    ports.PostingService
}

// NewProcessPaymentCommandHandler creates a handler for payment collection.
func NewProcessPaymentCommandHandler(
	uowFactory PaymentUoWFactory,
	posting ports.PostingService,
) ProcessPaymentCommandHandler {
	return ProcessPaymentCommandHandler{
		uowFactory: uowFactory,
		posting:    posting,
	}
}

// Handle collects the payment or replays a previous collection under the same key.
func (h *ProcessPaymentCommandHandler) Handle(
	ctx context.Context,
	cmd ProcessPaymentCommand,
) (ProcessPaymentResult, error) {
	if err := cmd.Validate(); err != nil {
		return ProcessPaymentResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ProcessPaymentResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	record, err := uow.IdempotencyRepository().Get(
		ctx, ports.OperationProcessPayment, cmd.IdempotencyKey())
	if err == nil {
		return h.replay(ctx, uow, record)
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return ProcessPaymentResult{}, err
	}

	aggregate, err := uow.ShipmentRepository().Get(ctx, cmd.ShipmentID())
	if err != nil {
		return ProcessPaymentResult{}, err
	}

	if err = aggregate.ApplyPayment(cmd.Amount()); err != nil {
		return ProcessPaymentResult{}, err
	}

	now := time.Now().UTC()
	tx, err := payment.NewTransaction(kernel.NewUUID(), aggregate.ID(),
		cmd.Amount(), cmd.Method(), cmd.IdempotencyKey(), now)
	if err != nil {
		return ProcessPaymentResult{}, err
	}

	if err = uow.PaymentRepository().Add(ctx, tx); err != nil {
		return ProcessPaymentResult{}, err
	}
	if err = uow.ShipmentRepository().Update(ctx, aggregate); err != nil {
		return ProcessPaymentResult{}, err
	}

	err = uow.IdempotencyRepository().Add(ctx, ports.IdempotencyRecord{
		OperationType:  ports.OperationProcessPayment,
		IdempotencyKey: cmd.IdempotencyKey(),
		EntityID:       tx.ID(),
		CreatedAt:      now,
	})
	if errors.Is(err, errs.ErrConflict) {
		_ = uow.Rollback(ctx)
		return h.replayAfterLostRace(ctx, cmd.IdempotencyKey())
	}
	if err != nil {
		return ProcessPaymentResult{}, err
	}

	// Posting runs only once the payment row and ledger record are staged, so
	// a payment that fails to persist is never posted. A posting failure does
	// not block the commit; the transaction downgrades to reconciliation.
	if err = h.posting.PostPayment(ctx, tx); err != nil {
		tx.MarkPendingReconciliation()
		if err = uow.PaymentRepository().Update(ctx, tx); err != nil {
			return ProcessPaymentResult{}, err
		}
	}

	event, err := audit.NewEvent(kernel.NewUUID(), audit.EventPaymentReceived,
		cmd.Actor().ID(), aggregate.ID(),
		fmt.Sprintf(`{"amount":"%s","method":"%s","postingStatus":"%s"}`,
			cmd.Amount(), cmd.Method(), tx.PostingStatus()),
		now)
	if err != nil {
		return ProcessPaymentResult{}, err
	}
	if err = uow.AuditRepository().Add(ctx, event); err != nil {
		return ProcessPaymentResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ProcessPaymentResult{}, err
	}

	return ProcessPaymentResult{
		TransactionID:  tx.ID(),
		ShipmentStatus: aggregate.Status(),
		AmountPaid:     aggregate.AmountPaid(),
		PostingStatus:  tx.PostingStatus(),
	}, nil
}

func (h *ProcessPaymentCommandHandler) replay(
	ctx context.Context,
	uow PaymentUoW,
	record ports.IdempotencyRecord,
) (ProcessPaymentResult, error) {
	tx, err := uow.PaymentRepository().Get(ctx, record.EntityID)
	if err != nil {
		return ProcessPaymentResult{}, err
	}
	aggregate, err := uow.ShipmentRepository().Get(ctx, tx.ShipmentID())
	if err != nil {
		return ProcessPaymentResult{}, err
	}

	return ProcessPaymentResult{
		TransactionID:  tx.ID(),
		ShipmentStatus: aggregate.Status(),
		AmountPaid:     aggregate.AmountPaid(),
		PostingStatus:  tx.PostingStatus(),
		Replayed:       true,
	}, nil
}

func (h *ProcessPaymentCommandHandler) replayAfterLostRace(
	ctx context.Context,
	key string,
) (ProcessPaymentResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ProcessPaymentResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	record, err := uow.IdempotencyRepository().Get(
		ctx, ports.OperationProcessPayment, key)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ProcessPaymentResult{}, errs.NewConflictErrorWithCause("idempotencyKey",
			fmt.Errorf("payment with key %q is in progress", key))
	}
	if err != nil {
		return ProcessPaymentResult{}, err
	}

	return h.replay(ctx, uow, record)
}
