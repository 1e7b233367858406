package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
)

// NewValidationMiddleware builds an echo middleware that validates incoming
// requests against the OpenAPI contract before they reach the handlers.
// Requests for paths outside the contract pass through untouched.
func NewValidationMiddleware(specPath string) (echo.MiddlewareFunc, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(specPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build OpenAPI router: %w", err)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()

			route, pathParams, findErr := router.FindRoute(req)
			if findErr != nil {
				if errors.Is(findErr, routers.ErrPathNotFound) ||
					errors.Is(findErr, routers.ErrMethodNotAllowed) {
					return next(ctx)
				}
				return next(ctx)
			}

			// ValidateRequest consumes the body and puts back a fresh reader,
			// so Bind in the handler still sees the full payload.
			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{
					AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				},
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				var reqErr *openapi3filter.RequestError
				if errors.As(err, &reqErr) {
					return ctx.JSON(http.StatusBadRequest, Error{
						Code:    http.StatusBadRequest,
						Message: reqErr.Error(),
					})
				}
				return ctx.JSON(http.StatusBadRequest, Error{
					Code:    http.StatusBadRequest,
					Message: "request does not match the API contract",
				})
			}

			return next(ctx)
		}
	}, nil
}
