// Package http exposes the order tracking operations over a JSON API built on
// echo. Handlers translate requests into commands and queries and map typed
// application errors to status codes.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"ordertracking/internal/core/application/usecases/commands"
	"ordertracking/internal/core/application/usecases/queries"
	"ordertracking/internal/core/domain/model/lifecycle"

	"github.com/labstack/echo/v4"
)

type (
	CreateMovementHandler interface {
		Handle(ctx context.Context, cmd commands.CreateMovementCommand) (commands.CreatedMovement, error)
	}

	RateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.RateOrderCommand) error
	}

	AddRuleHandler interface {
		Handle(ctx context.Context, cmd commands.AddRuleCommand) error
	}

	DeleteRuleHandler interface {
		Handle(ctx context.Context, cmd commands.DeleteRuleCommand) error
	}

	SetCarrierFlagsHandler interface {
		Handle(ctx context.Context, cmd commands.SetCarrierFlagsCommand) (commands.CarrierFlagsResult, error)
	}

	GetOrderStateHandler interface {
		Handle(ctx context.Context, query queries.GetOrderStateQuery) (queries.GetOrderStateQueryResponse, error)
	}

	GetStateRulesHandler interface {
		Handle(ctx context.Context, query queries.GetStateRulesQuery) (queries.GetStateRulesQueryResponse, error)
	}

	GetAllCarriersHandler interface {
		Handle(ctx context.Context, query queries.GetAllCarriersQuery) ([]queries.GetAllCarriersQueryResponse, error)
	}

	// SyncRunner triggers a guarded reconciliation of one day.
	SyncRunner interface {
		RunNow(ctx context.Context, date time.Time) (commands.SyncReport, error)
	}
)

// Handlers groups the use cases served by the API.
type Handlers struct {
	CreateMovement  CreateMovementHandler
	RateOrder       RateOrderHandler
	AddRule         AddRuleHandler
	DeleteRule      DeleteRuleHandler
	SetCarrierFlags SetCarrierFlagsHandler
	GetOrderState   GetOrderStateHandler
	GetStateRules   GetStateRulesHandler
	GetAllCarriers  GetAllCarriersHandler
	Sync            SyncRunner
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	location *time.Location
	logger   *slog.Logger
	now      func() time.Time
}

// NewServer creates the API server. location decides which calendar day a
// sync without an explicit date reconciles.
func NewServer(handlers Handlers, location *time.Location, logger *slog.Logger) *Server {
	if location == nil {
		location = time.Local
	}
	return &Server{
		handlers: handlers,
		location: location,
		logger:   logger.With("component", "http_server"),
		now:      time.Now,
	}
}

// RegisterRoutes mounts every route on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/movements", s.CreateMovement)
	api.GET("/orders/:id/state", s.GetOrderState)
	api.PUT("/orders/:id/rating", s.RateOrder)
	api.GET("/states/:id/rules", s.GetStateRules)
	api.POST("/rules", s.AddRule)
	api.DELETE("/states/:id/rules/:requiredId", s.DeleteRule)
	api.GET("/carriers", s.GetCarriers)
	api.PATCH("/carriers/:id", s.SetCarrierFlags)
	api.POST("/sync", s.RunSync)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateMovement handles POST /api/v1/movements.
func (s *Server) CreateMovement(ctx echo.Context) error {
	var body NewMovement
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCreateMovementCommand(
		body.Code,
		body.OrderID,
		lifecycle.State(body.FromStateID),
		lifecycle.State(body.ToStateID),
	)
	if err != nil {
		return s.writeError(ctx, err, "Invalid movement")
	}

	created, err := s.handlers.CreateMovement.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err, "Failed to create movement")
	}

	return ctx.JSON(http.StatusCreated, newMovement(created))
}

// GetOrderState handles GET /api/v1/orders/:id/state.
func (s *Server) GetOrderState(ctx echo.Context) error {
	query, err := queries.NewGetOrderStateQuery(ctx.Param("id"))
	if err != nil {
		return s.writeError(ctx, err, "Invalid order id")
	}

	state, err := s.handlers.GetOrderState.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err, "Failed to retrieve order state")
	}

	return ctx.JSON(http.StatusOK, newOrderState(state))
}

// RateOrder handles PUT /api/v1/orders/:id/rating.
func (s *Server) RateOrder(ctx echo.Context) error {
	var body NewRating
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRateOrderCommand(ctx.Param("id"), body.Rating)
	if err != nil {
		return s.writeError(ctx, err, "Invalid rating")
	}

	if err = s.handlers.RateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err, "Failed to rate order")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetStateRules handles GET /api/v1/states/:id/rules. The id may also be a
// state name.
func (s *Server) GetStateRules(ctx echo.Context) error {
	target, err := lifecycle.ParseState(ctx.Param("id"))
	if err != nil {
		return s.writeError(ctx, err, "Invalid state")
	}

	query, err := queries.NewGetStateRulesQuery(target)
	if err != nil {
		return s.writeError(ctx, err, "Invalid state")
	}

	rules, err := s.handlers.GetStateRules.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err, "Failed to retrieve rules")
	}

	return ctx.JSON(http.StatusOK, newStateRules(rules))
}

// AddRule handles POST /api/v1/rules.
func (s *Server) AddRule(ctx echo.Context) error {
	var body NewRule
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewAddRuleCommand(lifecycle.State(body.TargetStateID), lifecycle.State(body.RequiredStateID))
	if err != nil {
		return s.writeError(ctx, err, "Invalid rule")
	}

	if err = s.handlers.AddRule.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err, "Failed to add rule")
	}

	return ctx.NoContent(http.StatusCreated)
}

// DeleteRule handles DELETE /api/v1/states/:id/rules/:requiredId.
func (s *Server) DeleteRule(ctx echo.Context) error {
	target, err := lifecycle.ParseState(ctx.Param("id"))
	if err != nil {
		return s.writeError(ctx, err, "Invalid state")
	}
	required, err := lifecycle.ParseState(ctx.Param("requiredId"))
	if err != nil {
		return s.writeError(ctx, err, "Invalid state")
	}

	cmd, err := commands.NewDeleteRuleCommand(target, required)
	if err != nil {
		return s.writeError(ctx, err, "Invalid rule")
	}

	if err = s.handlers.DeleteRule.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err, "Failed to delete rule")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetCarriers handles GET /api/v1/carriers.
func (s *Server) GetCarriers(ctx echo.Context) error {
	carriers, err := s.handlers.GetAllCarriers.Handle(ctx.Request().Context(), queries.NewGetAllCarriersQuery())
	if err != nil {
		return s.writeError(ctx, err, "Failed to retrieve carriers")
	}

	response := make([]Carrier, len(carriers))
	for i, c := range carriers {
		response[i] = Carrier{
			ID:               c.ID,
			Name:             c.Name,
			Tracking:         c.Tracking,
			ManualSettlement: c.ManualSettlement,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// SetCarrierFlags handles PATCH /api/v1/carriers/:id.
func (s *Server) SetCarrierFlags(ctx echo.Context) error {
	carrierID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return badRequest(ctx, "Invalid carrier id")
	}

	var body CarrierFlags
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewSetCarrierFlagsCommand(carrierID, body.Tracking, body.ManualSettlement)
	if err != nil {
		return s.writeError(ctx, err, "Invalid carrier flags")
	}

	result, err := s.handlers.SetCarrierFlags.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err, "Failed to update carrier")
	}

	return ctx.JSON(http.StatusOK, CarrierFlagsResult{
		Carrier:          newCarrier(result.Carrier),
		DeletedOrders:    result.DeletedOrders,
		DeletedMovements: result.DeletedMovements,
		SettledOrders:    result.SettledOrders,
	})
}

// RunSync handles POST /api/v1/sync?date=YYYY-MM-DD. Without a date it
// reconciles today.
func (s *Server) RunSync(ctx echo.Context) error {
	date := s.now().In(s.location)
	if raw := ctx.QueryParam("date"); raw != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, raw, s.location)
		if err != nil {
			return badRequest(ctx, "Invalid date, expected YYYY-MM-DD")
		}
		date = parsed
	}

	report, err := s.handlers.Sync.RunNow(ctx.Request().Context(), date)
	if err != nil {
		return s.writeError(ctx, err, "Sales sync failed")
	}

	return ctx.JSON(http.StatusOK, newSyncReport(report))
}
