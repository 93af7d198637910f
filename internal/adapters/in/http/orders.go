package http

import (
	"net/http"

	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/application/usecases/queries"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

type createOrderRequest struct {
	Items []struct {
		MenuItemID string `json:"menuItemId"`
		Quantity   int    `json:"quantity"`
		Price      *int64 `json:"price"`
	} `json:"items"`
	DeliveryAddress string `json:"deliveryAddress"`
	Contact         string `json:"contact"`
	PaymentMethod   string `json:"paymentMethod"`
}

// CreateOrder handles POST /api/v1/orders. The requester is the customer.
func (s *Server) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	items := make([]commands.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, commands.OrderItemInput{MenuItemID: it.MenuItemID, Quantity: it.Quantity, ClientPrice: it.Price})
	}

	cmd, err := commands.NewCreateOrderCommand(requester(c), items, req.DeliveryAddress, req.Contact, req.PaymentMethod)
	if err != nil {
		return err
	}
	o, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toOrder(o))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderQuery(orderID, requester(c))
	if err != nil {
		return err
	}
	view, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fromOrderView(view))
}

// GetTrackingHistory handles GET /api/v1/orders/:id/tracking.
func (s *Server) GetTrackingHistory(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderTrackingHistoryQuery(orderID, requester(c))
	if err != nil {
		return err
	}
	history, err := s.h.GetTrackingHistory.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]TrackingEntry, len(history))
	for i, e := range history {
		response[i] = TrackingEntry{
			ID:        e.ID.String(),
			Status:    e.Status,
			Lat:       e.Lat,
			Lng:       e.Lng,
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		}
	}
	return c.JSON(http.StatusOK, response)
}

type transitionRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// TransitionOrder handles POST /api/v1/orders/:id/transitions.
func (s *Server) TransitionOrder(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	var req transitionRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	cmd, err := commands.NewTransitionOrderCommand(orderID, req.Status, requester(c), req.Notes)
	if err != nil {
		return err
	}
	return respondOrder(c, s.h.TransitionOrder, cmd)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	var req cancelRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	cmd, err := commands.NewCancelOrderCommand(orderID, requester(c), req.Reason)
	if err != nil {
		return err
	}
	return respondOrder(c, s.h.CancelOrder, cmd)
}

// AssignCourier handles POST /api/v1/orders/:id/assign.
func (s *Server) AssignCourier(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	requestedBy := requester(c)
	cmd, err := commands.NewAssignCourierCommand(orderID, &requestedBy)
	if err != nil {
		return err
	}
	return respondOrder(c, s.h.AssignCourier, cmd)
}

// CompleteDelivery handles POST /api/v1/orders/:id/complete. The requester is the courier.
func (s *Server) CompleteDelivery(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewCompleteDeliveryCommand(orderID, requester(c))
	if err != nil {
		return err
	}
	return respondOrder(c, s.h.CompleteDelivery, cmd)
}

type rateRequest struct {
	Rating int `json:"rating"`
}

// RateDelivery handles POST /api/v1/orders/:id/rating.
func (s *Server) RateDelivery(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	var req rateRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	cmd, err := commands.NewRateDeliveryCommand(orderID, req.Rating, requester(c))
	if err != nil {
		return err
	}
	return respondOrder(c, s.h.RateDelivery, cmd)
}

type locationRequest struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	WithTracking bool    `json:"withTracking"`
}

// UpdateLocation handles PUT /api/v1/couriers/me/location.
func (s *Server) UpdateLocation(c echo.Context) error {
	var req locationRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	cmd, err := commands.NewUpdateLocationCommand(requester(c), req.Lat, req.Lng, req.WithTracking)
	if err != nil {
		return err
	}
	touched, err := s.h.UpdateLocation.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"ordersUpdated": touched})
}

type paymentCallbackRequest struct {
	OrderID   string `json:"orderId"`
	Reference string `json:"reference"`
}

// PaymentCallback handles POST /api/v1/payments/callback from the payment gateway.
// Repeated callbacks for a paid order succeed without changes.
func (s *Server) PaymentCallback(c echo.Context) error {
	if s.webhookSecret == "" || c.Request().Header.Get("X-Webhook-Secret") != s.webhookSecret {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid webhook secret")
	}
	var req paymentCallbackRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return err
	}
	cmd, err := commands.NewMarkPaymentCompletedCommand(orderID, req.Reference)
	if err != nil {
		return err
	}
	return respondOrder(c, s.h.MarkPaymentCompleted, cmd)
}

func respondOrder[C any](c echo.Context, h Handler[C, *order.Order], cmd C) error {
	o, err := h.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrder(o))
}
