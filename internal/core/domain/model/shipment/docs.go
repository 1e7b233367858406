// Package shipment implements the Shipment aggregate: the entity the POS
// transaction core creates exactly once per idempotency key. A shipment owns
// the quote snapshot it was priced with, its payment lifecycle status and its
// label print count. All state changes go through validated methods so the
// aggregate's invariants hold regardless of caller.
package shipment
