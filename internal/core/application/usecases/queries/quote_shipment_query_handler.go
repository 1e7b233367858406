package queries

import (
	"context"

	"courierpos/internal/core/domain/model/quote"
	"courierpos/internal/core/domain/services"
	"courierpos/internal/core/ports"
)

// QuoteShipmentQueryHandler prices specs against the active rate table.
// Purely a read: nothing is persisted, no unit of work is opened.
type QuoteShipmentQueryHandler struct {
	provider   ports.RateTableProvider
	calculator services.QuoteCalculator
}

// NewQuoteShipmentQueryHandler creates a handler for pricing previews.
func NewQuoteShipmentQueryHandler(
	provider ports.RateTableProvider,
	calculator services.QuoteCalculator,
) QuoteShipmentQueryHandler {
	return QuoteShipmentQueryHandler{
		provider:   provider,
		calculator: calculator,
	}
}

// Handle computes the quote for the spec.
func (h QuoteShipmentQueryHandler) Handle(
	ctx context.Context,
	query QuoteShipmentQuery,
) (quote.Quote, error) {
	if err := query.Validate(); err != nil {
		return quote.Quote{}, err
	}

	version, err := h.provider.GetActiveVersion(ctx)
	if err != nil {
		return quote.Quote{}, err
	}

	return h.calculator.Calculate(query.Spec(), *version)
}
