package errs

import (
	"fmt"
	"strings"
)

// Sentinel errors for classification with errors.Is. Every concrete error type
// in this package unwraps to exactly one of these.
var (
	ErrValueIsRequired   = fmt.Errorf("value is required")
	ErrValueIsInvalid    = fmt.Errorf("value is invalid")
	ErrValueIsOutOfRange = fmt.Errorf("value is out of range")
	ErrObjectNotFound    = fmt.Errorf("object not found")
	ErrPermissionDenied  = fmt.Errorf("permission denied")
	ErrConflict          = fmt.Errorf("conflict")
	ErrComputationFailed = fmt.Errorf("computation failed")
)

// sanitize strips newlines from values interpolated into error messages so a
// single log line cannot be split by attacker-controlled input.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}

// ValueIsRequiredError indicates a required value was missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError for the given parameter.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping a cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsInvalidError indicates a value was present but malformed or
// semantically wrong.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError for the given parameter.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping a cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError indicates a numeric value fell outside its allowed bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError with the offending
// value and its bounds.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping a cause.
func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value, minValue, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (cause: %s)", msg, e.Cause)
	}
	return sanitize(msg)
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ObjectNotFoundError indicates a referenced entity does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError for the given parameter and id.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping a cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %v (cause: %s)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// PermissionDeniedError indicates the caller's role or credentials are
// insufficient for the attempted action.
type PermissionDeniedError struct {
	Action string
	Cause  error
}

// NewPermissionDeniedError creates a PermissionDeniedError for the given action.
func NewPermissionDeniedError(action string) *PermissionDeniedError {
	return &PermissionDeniedError{Action: action}
}

// NewPermissionDeniedErrorWithCause creates a PermissionDeniedError wrapping a cause.
func NewPermissionDeniedErrorWithCause(action string, cause error) *PermissionDeniedError {
	return &PermissionDeniedError{Action: action, Cause: cause}
}

func (e *PermissionDeniedError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrPermissionDenied, e.Action, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrPermissionDenied, e.Action))
}

func (e *PermissionDeniedError) Unwrap() error {
	return ErrPermissionDenied
}

// ConflictError indicates the operation lost a race or targeted an entity in a
// terminal state (already processed, expired, duplicate in flight).
type ConflictError struct {
	ParamName string
	Cause     error
}

// NewConflictError creates a ConflictError for the given parameter.
func NewConflictError(paramName string) *ConflictError {
	return &ConflictError{ParamName: paramName}
}

// NewConflictErrorWithCause creates a ConflictError wrapping a cause.
func NewConflictErrorWithCause(paramName string, cause error) *ConflictError {
	return &ConflictError{ParamName: paramName, Cause: cause}
}

func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrConflict, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrConflict, e.ParamName))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// ComputationFailedError indicates a calculation could not be carried out for
// the given inputs (unpriced route, unknown service level). No partial result
// accompanies it.
type ComputationFailedError struct {
	ParamName string
	Cause     error
}

// NewComputationFailedError creates a ComputationFailedError for the given parameter.
func NewComputationFailedError(paramName string) *ComputationFailedError {
	return &ComputationFailedError{ParamName: paramName}
}

// NewComputationFailedErrorWithCause creates a ComputationFailedError wrapping a cause.
func NewComputationFailedErrorWithCause(paramName string, cause error) *ComputationFailedError {
	return &ComputationFailedError{ParamName: paramName, Cause: cause}
}

func (e *ComputationFailedError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrComputationFailed, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrComputationFailed, e.ParamName))
}

func (e *ComputationFailedError) Unwrap() error {
	return ErrComputationFailed
}
