package queries

import (
	"errors"

	"courierpos/internal/core/domain/model/quote"
	"courierpos/internal/pkg/guard"
)

var ErrQuoteShipmentQueryIsNotConstructed = errors.New(
	"QuoteShipmentQuery must be created via NewQuoteShipmentQuery constructor",
)

// QuoteShipmentQuery prices a spec without booking anything. The counter uses
// it to show the customer a price before committing; the same calculation
// runs again at booking time against the then-active rate table.
type QuoteShipmentQuery struct {
	spec quote.ShipmentSpec

	guard guard.ConstructorGuard
}

// NewQuoteShipmentQuery creates a pricing preview query.
func NewQuoteShipmentQuery(spec quote.ShipmentSpec) (QuoteShipmentQuery, error) {
	if err := spec.Validate(); err != nil {
		return QuoteShipmentQuery{}, err
	}
	return QuoteShipmentQuery{
		spec:  spec,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Spec returns the spec to price.
func (q QuoteShipmentQuery) Spec() quote.ShipmentSpec {
	return q.spec
}

// Validate ensures the query was created through the constructor.
func (q QuoteShipmentQuery) Validate() error {
	return q.guard.Validate(ErrQuoteShipmentQueryIsNotConstructed)
}
