// Package errs provides standardized error types for the courier POS core.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// Kinds and how callers should react to them:
//   - ValueIsRequiredError / ValueIsInvalidError / ValueIsOutOfRangeError:
//     malformed input, fix the request before retrying
//   - ObjectNotFoundError: referenced entity absent
//   - PermissionDeniedError: role or credential insufficient
//   - ConflictError: already processed, expired, or lost a race; not retryable
//     with the same inputs
//   - ComputationFailedError: a quote cannot be produced for the given
//     route/service level; no partial result exists
//
// Each type follows the same pattern: a sentinel error variable, a struct with
// detail fields, constructors with and without cause, an Error() formatter and
// an Unwrap() returning the sentinel so errors.Is can classify any error from
// this package. Storage failures are deliberately not wrapped here; they
// propagate from the persistence layer and are the only retry-safe class.
package errs
