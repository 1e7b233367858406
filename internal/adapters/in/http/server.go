package http

import (
	"net/http"
	"strings"

	"courierpos/internal/core/application/usecases/commands"
	"courierpos/internal/core/application/usecases/queries"
	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/override"
	"courierpos/internal/core/domain/model/payment"
	"courierpos/internal/core/domain/model/shipment"
	"courierpos/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	headerUserID         = "X-User-Id"
	headerUserRoles      = "X-User-Roles"
	headerIdempotencyKey = "Idempotency-Key"
)

// Server exposes the transaction core over HTTP. It translates requests into
// commands and queries and maps domain errors onto statuses; all business
// rules live in the handlers it delegates to.
type Server struct {
	createShipmentHandler  commands.CreateShipmentCommandHandler
	processPaymentHandler  commands.ProcessPaymentCommandHandler
	requestOverrideHandler commands.RequestOverrideCommandHandler
	approveOverrideHandler commands.ApproveOverrideCommandHandler
	rejectOverrideHandler  commands.RejectOverrideCommandHandler
	reprintLabelHandler    commands.ReprintLabelCommandHandler
	cancelShipmentHandler  commands.CancelShipmentCommandHandler

	quoteShipmentHandler       queries.QuoteShipmentQueryHandler
	getShipmentHandler         queries.GetShipmentQueryHandler
	getPendingOverridesHandler queries.GetPendingOverridesQueryHandler
}

// NewServer creates the HTTP server with all command and query handlers.
func NewServer(
	createShipmentHandler commands.CreateShipmentCommandHandler,
	processPaymentHandler commands.ProcessPaymentCommandHandler,
	requestOverrideHandler commands.RequestOverrideCommandHandler,
	approveOverrideHandler commands.ApproveOverrideCommandHandler,
	rejectOverrideHandler commands.RejectOverrideCommandHandler,
	reprintLabelHandler commands.ReprintLabelCommandHandler,
	cancelShipmentHandler commands.CancelShipmentCommandHandler,
	quoteShipmentHandler queries.QuoteShipmentQueryHandler,
	getShipmentHandler queries.GetShipmentQueryHandler,
	getPendingOverridesHandler queries.GetPendingOverridesQueryHandler,
) *Server {
	return &Server{
		createShipmentHandler:      createShipmentHandler,
		processPaymentHandler:      processPaymentHandler,
		requestOverrideHandler:     requestOverrideHandler,
		approveOverrideHandler:     approveOverrideHandler,
		rejectOverrideHandler:      rejectOverrideHandler,
		reprintLabelHandler:        reprintLabelHandler,
		cancelShipmentHandler:      cancelShipmentHandler,
		quoteShipmentHandler:       quoteShipmentHandler,
		getShipmentHandler:         getShipmentHandler,
		getPendingOverridesHandler: getPendingOverridesHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/quotes", s.QuoteShipment)
	api.POST("/shipments", s.CreateShipment)
	api.GET("/shipments/:id", s.GetShipment)
	api.POST("/shipments/:id/payments", s.ProcessPayment)
	api.POST("/shipments/:id/reprints", s.ReprintLabel)
	api.POST("/shipments/:id/cancellation", s.CancelShipment)
	api.POST("/overrides", s.RequestOverride)
	api.GET("/overrides/pending", s.GetPendingOverrides)
	api.POST("/overrides/:id/approval", s.ApproveOverride)
	api.POST("/overrides/:id/rejection", s.RejectOverride)
}

// actorFromRequest builds the acting user from the identity headers set by
// the API gateway.
func actorFromRequest(ctx echo.Context) (kernel.Actor, error) {
	rawID := ctx.Request().Header.Get(headerUserID)
	if rawID == "" {
		return kernel.Actor{}, errs.NewValueIsRequiredError(headerUserID + " header")
	}
	id, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return kernel.Actor{}, errs.NewValueIsInvalidErrorWithCause(headerUserID+" header", err)
	}

	rawRoles := ctx.Request().Header.Get(headerUserRoles)
	if rawRoles == "" {
		return kernel.Actor{}, errs.NewValueIsRequiredError(headerUserRoles + " header")
	}
	var roles []kernel.Role
	for _, r := range strings.Split(rawRoles, ",") {
		roles = append(roles, kernel.Role(strings.TrimSpace(r)))
	}

	return kernel.NewActor(id, roles)
}

func idempotencyKeyFromRequest(ctx echo.Context) (string, error) {
	key := ctx.Request().Header.Get(headerIdempotencyKey)
	if key == "" {
		return "", errs.NewValueIsRequiredError(headerIdempotencyKey + " header")
	}
	return key, nil
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(ctx.Param(name))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

// QuoteShipment handles POST /api/v1/quotes. Pricing is read-only; nothing
// is reserved or persisted.
func (s *Server) QuoteShipment(ctx echo.Context) error {
	var req QuoteRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	spec, err := req.toSpec()
	if err != nil {
		return respondError(ctx, err)
	}
	query, err := queries.NewQuoteShipmentQuery(spec)
	if err != nil {
		return respondError(ctx, err)
	}

	q, err := s.quoteShipmentHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, quoteToResponse(q))
}

// CreateShipment handles POST /api/v1/shipments. The Idempotency-Key header
// is mandatory; replaying a key returns the original booking.
func (s *Server) CreateShipment(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	key, err := idempotencyKeyFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var req CreateShipmentRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	spec, err := req.toSpec()
	if err != nil {
		return respondError(ctx, err)
	}

	var expectedTotal *kernel.Money
	if req.ExpectedTotal != nil {
		total, mErr := kernel.NewMoney(*req.ExpectedTotal, req.Currency)
		if mErr != nil {
			return respondError(ctx, mErr)
		}
		expectedTotal = &total
	}

	cmd, err := commands.NewCreateShipmentCommand(actor, spec,
		shipment.PayerType(req.PayerType), key, expectedTotal)
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.createShipmentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	return ctx.JSON(status, CreateShipmentResponse{
		ShipmentID: result.ShipmentID.String(),
		Status:     result.Status.String(),
		Quote:      quoteToResponse(result.Quote),
		Replayed:   result.Replayed,
	})
}

// GetShipment handles GET /api/v1/shipments/:id.
func (s *Server) GetShipment(ctx echo.Context) error {
	id, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}
	query, err := queries.NewGetShipmentQuery(id)
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.getShipmentHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, shipmentToResponse(result))
}

// ProcessPayment handles POST /api/v1/shipments/:id/payments. The
// Idempotency-Key header is mandatory; replaying a key returns the original
// transaction without collecting again.
func (s *Server) ProcessPayment(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	key, err := idempotencyKeyFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	shipmentID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var req PaymentRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	amount, err := kernel.NewMoney(req.Amount, req.Currency)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewProcessPaymentCommand(actor, shipmentID, amount,
		payment.Method(req.Method), key)
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.processPaymentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	return ctx.JSON(status, paymentToResponse(result))
}

// ReprintLabel handles POST /api/v1/shipments/:id/reprints.
func (s *Server) ReprintLabel(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	shipmentID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewReprintLabelCommand(shipmentID, actor)
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.reprintLabelHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, ReprintResponse{PrintCount: result.PrintCount})
}

// CancelShipment handles POST /api/v1/shipments/:id/cancellation.
func (s *Server) CancelShipment(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	shipmentID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var req CancellationRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	cmd, err := commands.NewCancelShipmentCommand(shipmentID, actor, req.Reason)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.cancelShipmentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// RequestOverride handles POST /api/v1/overrides.
func (s *Server) RequestOverride(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var req OverrideRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	var targetRef *kernel.UUID
	if req.TargetRef != nil {
		ref, refErr := kernel.UUIDFromString(*req.TargetRef)
		if refErr != nil {
			return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("targetRef", refErr))
		}
		targetRef = &ref
	}

	cmd, err := commands.NewRequestOverrideCommand(actor,
		override.ActionType(req.ActionType), req.Reason, targetRef, req.RequestData)
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.requestOverrideHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, OverrideResponse{
		OverrideID: result.OverrideID.String(),
		ExpiresAt:  result.ExpiresAt,
	})
}

// GetPendingOverrides handles GET /api/v1/overrides/pending.
func (s *Server) GetPendingOverrides(ctx echo.Context) error {
	query := queries.NewGetPendingOverridesQuery()

	pending, err := s.getPendingOverridesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]PendingOverrideResponse, len(pending))
	for i, o := range pending {
		response[i] = pendingOverrideToResponse(o)
	}
	return ctx.JSON(http.StatusOK, response)
}

// ApproveOverride handles POST /api/v1/overrides/:id/approval. The approver
// is identified by the user headers and authenticated by the credential in
// the body.
func (s *Server) ApproveOverride(ctx echo.Context) error {
	approver, err := actorFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	overrideID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var req ApprovalRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	cmd, err := commands.NewApproveOverrideCommand(overrideID, approver,
		req.Credential, req.ApprovedData)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.approveOverrideHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// RejectOverride handles POST /api/v1/overrides/:id/rejection.
func (s *Server) RejectOverride(ctx echo.Context) error {
	approver, err := actorFromRequest(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	overrideID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewRejectOverrideCommand(overrideID, approver)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.rejectOverrideHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
