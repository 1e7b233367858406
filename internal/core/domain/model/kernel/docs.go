// Package kernel provides core domain primitives for the courier POS system.
// It implements the fundamental building blocks shared by every aggregate:
//
//   - UUID: value object for entity identifiers with validation and comparison
//   - Money: integer minor-unit monetary amounts with basis-point arithmetic,
//     so pricing is exact and byte-deterministic
//   - Weight: gram-precision parcel weights
//   - Actor and Role: the resolved request identity passed explicitly into
//     every core operation; the core never consults ambient auth state
//
// All primitives are immutable and safe for concurrent use. Zero values are
// invalid where stated and must be created via the provided constructors.
package kernel
