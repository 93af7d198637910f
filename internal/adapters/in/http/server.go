package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/application/usecases/queries"
	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/ports"

	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler is satisfied by every command and query handler.
type Handler[Q any, R any] interface {
	Handle(ctx context.Context, q Q) (R, error)
}

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	// Command handlers
	CreateOrder          Handler[commands.CreateOrderCommand, *order.Order]
	TransitionOrder      Handler[commands.TransitionOrderCommand, *order.Order]
	CancelOrder          Handler[commands.CancelOrderCommand, *order.Order]
	AssignCourier        Handler[commands.AssignCourierCommand, *order.Order]
	CompleteDelivery     Handler[commands.CompleteDeliveryCommand, *order.Order]
	RateDelivery         Handler[commands.RateDeliveryCommand, *order.Order]
	UpdateLocation       Handler[commands.UpdateLocationCommand, int]
	MarkPaymentCompleted Handler[commands.MarkPaymentCompletedCommand, *order.Order]
	Authenticate         Handler[commands.AuthenticateCommand, access.Session]
	RegisterActor        Handler[commands.RegisterActorCommand, *access.Actor]
	PromoteActor         Handler[commands.PromoteActorCommand, *access.Actor]
	DeactivateActor      Handler[commands.DeactivateActorCommand, *access.Actor]
	GrantCapability      Handler[commands.GrantCapabilityCommand, access.Grant]

	// Query handlers
	Authorize          Handler[queries.AuthorizeQuery, bool]
	GetOrder           Handler[queries.GetOrderQuery, queries.GetOrderQueryResponse]
	GetTrackingHistory Handler[queries.GetOrderTrackingHistoryQuery, []queries.GetOrderTrackingHistoryQueryResponse]
	QueryActivityLog   Handler[queries.QueryActivityLogQuery, []activity.Entry]
}

// Server translates HTTP requests into use case calls.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	h             Handlers
	tokens        ports.TokenIssuer
	webhookSecret string
	logger        *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
// webhookSecret authenticates the payment gateway callback.
func NewServer(h Handlers, tokens ports.TokenIssuer, webhookSecret string, logger *slog.Logger) *Server {
	return &Server{
		h:             h,
		tokens:        tokens,
		webhookSecret: webhookSecret,
		logger:        logger.With("component", "http"),
	}
}

// Register mounts every route on e and installs the error handler. Requests to documented
// routes are validated against the embedded OpenAPI document first.
func (s *Server) Register(e *echo.Echo) error {
	doc, err := OpenAPI()
	if err != nil {
		return err
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return fmt.Errorf("build openapi router: %w", err)
	}

	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.provenance)
	e.Use(s.observe)
	e.Use(validateRequests(router))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	public := e.Group("/api/v1")
	public.POST("/auth/login", s.Login)
	public.POST("/actors", s.RegisterActor)
	public.POST("/payments/callback", s.PaymentCallback)

	api := e.Group("/api/v1", s.authenticate)
	api.GET("/authorize", s.Authorize)

	api.POST("/actors/:id/promote", s.PromoteActor)
	api.POST("/actors/:id/deactivate", s.DeactivateActor)
	api.POST("/actors/:id/grants", s.GrantCapability)

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.GET("/orders/:id/tracking", s.GetTrackingHistory)
	api.POST("/orders/:id/transitions", s.TransitionOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/assign", s.AssignCourier)
	api.POST("/orders/:id/complete", s.CompleteDelivery)
	api.POST("/orders/:id/rating", s.RateDelivery)

	api.PUT("/couriers/me/location", s.UpdateLocation)

	api.GET("/activity", s.QueryActivityLog)
	return nil
}
