// Package accounting posts collected payments to the external ledger system.
// The ledger owns the accounting format; this adapter only delivers the entry.
package accounting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"courierpos/internal/core/domain/model/payment"
)

const postingTimeout = 5 * time.Second

// postingEntry is the wire form of a payment posting.
type postingEntry struct {
	TransactionID string    `json:"transaction_id"`
	ShipmentID    string    `json:"shipment_id"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	Method        string    `json:"method"`
	CompletedAt   time.Time `json:"completed_at"`
}

// HTTPPostingService delivers postings to the accounting system over HTTP.
// Failures are reported to the caller, which marks the transaction for
// reconciliation rather than voiding the payment.
type HTTPPostingService struct {
	baseURL string
	client  *http.Client
}

// NewHTTPPostingService creates a posting service against the given base URL.
func NewHTTPPostingService(baseURL string) *HTTPPostingService {
	return &HTTPPostingService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: postingTimeout},
	}
}

// PostPayment sends the accounting entry for a collected payment.
func (s *HTTPPostingService) PostPayment(ctx context.Context, tx *payment.Transaction) error {
	entry := postingEntry{
		TransactionID: tx.ID().String(),
		ShipmentID:    tx.ShipmentID().String(),
		Amount:        tx.Amount().Amount(),
		Currency:      tx.Amount().Currency(),
		Method:        string(tx.Method()),
		CompletedAt:   tx.CompletedAt(),
	}
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode posting entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/postings", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build posting request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver posting: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("accounting system rejected posting: status %d", resp.StatusCode)
	}
	return nil
}

// LogPostingService is the posting service for environments without an
// accounting system. Every posting succeeds and is written to the log.
type LogPostingService struct {
	logger *slog.Logger
}

// NewLogPostingService creates a posting service that only logs entries.
func NewLogPostingService(logger *slog.Logger) *LogPostingService {
	return &LogPostingService{logger: logger.With("component", "posting_service")}
}

// PostPayment logs the posting and succeeds.
func (s *LogPostingService) PostPayment(ctx context.Context, tx *payment.Transaction) error {
	s.logger.InfoContext(ctx, "Posted payment",
		"transaction_id", tx.ID().String(),
		"shipment_id", tx.ShipmentID().String(),
		"amount", tx.Amount().Amount(),
		"currency", tx.Amount().Currency(),
		"method", string(tx.Method()))
	return nil
}
