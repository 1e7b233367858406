// Package override implements the SupervisorOverride aggregate: a request for
// an elevated-permission action (discount, reprint, cancellation and friends)
// that an operator cannot perform alone. An override starts Pending, carries a
// TTL deadline, and ends in exactly one of Approved, Rejected or Expired. The
// aggregate validates every transition; the storage layer makes the transition
// race-free with a compare-and-swap on the Pending status.
package override
