package http

import (
	"errors"
	"net/http"

	"courierpos/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusForError maps domain error kinds onto HTTP statuses. Anything
// unrecognized is a 500; with idempotency keys on the mutating operations a
// retry after a 500 is always safe.
func statusForError(err error) int {
	var required *errs.ValueIsRequiredError
	var invalid *errs.ValueIsInvalidError
	var outOfRange *errs.ValueIsOutOfRangeError
	var notFound *errs.ObjectNotFoundError
	var denied *errs.PermissionDeniedError
	var conflict *errs.ConflictError
	var computation *errs.ComputationFailedError

	switch {
	case errors.As(err, &required), errors.As(err, &invalid), errors.As(err, &outOfRange):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &denied):
		return http.StatusForbidden
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &computation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the uniform error body for a failed operation.
func respondError(ctx echo.Context, err error) error {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	return ctx.JSON(status, Error{Code: status, Message: message})
}
