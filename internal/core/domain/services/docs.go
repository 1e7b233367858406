// Package services provides domain services for business logic that does not
// naturally belong to a single aggregate root.
//
// The package includes:
//   - QuoteCalculator: a pure, deterministic pricing function mapping a
//     shipment spec and a rate table version onto an itemized quote
//
// Domain services here are stateless; everything they need arrives as
// arguments, which is what makes quote computation reproducible.
package services
