// Package http exposes the dispatch REST API. Handlers translate between the
// wire contracts and application commands and queries; no business rules live
// here.
package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createOrderHandler          commands.CreateOrderCommandHandler
	processOrderHandler         commands.ProcessOrderCommandHandler
	respondToOfferHandler       commands.RespondToOfferCommandHandler
	cancelOrderHandler          commands.CancelOrderCommandHandler
	completeOrderHandler        commands.CompleteOrderCommandHandler
	registerWorkerHandler       commands.RegisterWorkerCommandHandler
	markNotificationReadHandler commands.MarkNotificationReadCommandHandler

	getWorkerNotificationsHandler queries.GetWorkerNotificationsQueryHandler
	getOrderAssignmentsHandler    queries.GetOrderAssignmentsQueryHandler
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	processOrderHandler commands.ProcessOrderCommandHandler,
	respondToOfferHandler commands.RespondToOfferCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	completeOrderHandler commands.CompleteOrderCommandHandler,
	registerWorkerHandler commands.RegisterWorkerCommandHandler,
	markNotificationReadHandler commands.MarkNotificationReadCommandHandler,
	getWorkerNotificationsHandler queries.GetWorkerNotificationsQueryHandler,
	getOrderAssignmentsHandler queries.GetOrderAssignmentsQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:            createOrderHandler,
		processOrderHandler:           processOrderHandler,
		respondToOfferHandler:         respondToOfferHandler,
		cancelOrderHandler:            cancelOrderHandler,
		completeOrderHandler:          completeOrderHandler,
		registerWorkerHandler:         registerWorkerHandler,
		markNotificationReadHandler:   markNotificationReadHandler,
		getWorkerNotificationsHandler: getWorkerNotificationsHandler,
		getOrderAssignmentsHandler:    getOrderAssignmentsHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/:id/dispatch", s.DispatchOrder)
	api.POST("/orders/:id/response", s.RespondToOffer)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/complete", s.CompleteOrder)
	api.GET("/orders/:id/assignments", s.GetOrderAssignments)

	api.POST("/workers", s.RegisterWorker)
	api.GET("/workers/:id/notifications", s.GetWorkerNotifications)
	api.POST("/notifications/:id/read", s.MarkNotificationRead)

	e.GET("/health", s.Health)
}

// Error is the uniform error body.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func errorJSON(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{Code: code, Message: message})
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}

// NewOrder is the request body for order creation.
type NewOrder struct {
	Region      string `json:"region"`
	ServiceType string `json:"service_type"`
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var newOrder NewOrder
	if err := ctx.Bind(&newOrder); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	region, err := kernel.NewRegionCode(newOrder.Region)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid region: "+err.Error())
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, region, newOrder.ServiceType)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order data: "+err.Error())
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to create order")
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": orderID.String()})
}

// DispatchResult is the response body of an assignment trigger.
type DispatchResult struct {
	Success       bool   `json:"success"`
	AssignedCount int    `json:"assigned_count"`
	Status        string `json:"status"`
	Message       string `json:"message,omitempty"`
}

// DispatchOrder handles POST /api/v1/orders/:id/dispatch - triggers an
// assignment round. Terminal business outcomes are 200 with success false.
func (s *Server) DispatchOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	cmd, err := commands.NewProcessOrderCommand(orderID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	result, err := s.processOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return errorJSON(ctx, http.StatusNotFound, "Order not found")
		}
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to dispatch order")
	}

	return ctx.JSON(http.StatusOK, DispatchResult{
		Success:       result.Success,
		AssignedCount: result.AssignedCount,
		Status:        result.Status.String(),
		Message:       result.Message,
	})
}

// OfferResponse is the request body of a worker's answer to an offer.
type OfferResponse struct {
	WorkerID string `json:"worker_id"`
	Decision string `json:"decision"`
}

// OfferResponseResult is the response body of a processed answer.
type OfferResponseResult struct {
	OrderStatus           string `json:"order_status"`
	OfferStatus           string `json:"offer_status"`
	ReassignmentTriggered bool   `json:"reassignment_triggered"`
}

// RespondToOffer handles POST /api/v1/orders/:id/response.
func (s *Server) RespondToOffer(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	var response OfferResponse
	if err := ctx.Bind(&response); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	workerID, err := kernel.UUIDFromString(response.WorkerID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid worker id")
	}

	decision, err := commands.DecisionFromString(response.Decision)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid decision: "+err.Error())
	}

	cmd, err := commands.NewRespondToOfferCommand(orderID, workerID, decision)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid response data: "+err.Error())
	}

	result, err := s.respondToOfferHandler.Handle(ctx.Request().Context(), cmd)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return errorJSON(ctx, http.StatusNotFound, "No such offer")
	case errors.Is(err, commands.ErrOrderClosed):
		return errorJSON(ctx, http.StatusGone, "Order is no longer accepting responses")
	case errors.Is(err, commands.ErrOfferConflict):
		return errorJSON(ctx, http.StatusConflict, "Offer was already resolved")
	case errors.Is(err, commands.ErrWorkerAtCapacity):
		return errorJSON(ctx, http.StatusConflict, "Worker is at capacity")
	case err != nil:
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to process response")
	}

	return ctx.JSON(http.StatusOK, OfferResponseResult{
		OrderStatus:           result.OrderStatus.String(),
		OfferStatus:           result.OfferStatus.String(),
		ReassignmentTriggered: result.ReassignmentTriggered,
	})
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	switch handleErr := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); {
	case errors.Is(handleErr, errs.ErrObjectNotFound):
		return errorJSON(ctx, http.StatusNotFound, "Order not found")
	case errors.Is(handleErr, errs.ErrValueIsInvalid):
		return errorJSON(ctx, http.StatusConflict, "Order cannot be cancelled: "+handleErr.Error())
	case handleErr != nil:
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to cancel order")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteOrder handles POST /api/v1/orders/:id/complete.
func (s *Server) CompleteOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	cmd, err := commands.NewCompleteOrderCommand(orderID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	switch handleErr := s.completeOrderHandler.Handle(ctx.Request().Context(), cmd); {
	case errors.Is(handleErr, errs.ErrObjectNotFound):
		return errorJSON(ctx, http.StatusNotFound, "Order or accepted assignment not found")
	case errors.Is(handleErr, errs.ErrValueIsInvalid):
		return errorJSON(ctx, http.StatusConflict, "Order cannot be completed: "+handleErr.Error())
	case handleErr != nil:
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to complete order")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// Assignment is the wire shape of one offer row.
type Assignment struct {
	ID          string  `json:"id"`
	WorkerID    string  `json:"worker_id"`
	Round       int     `json:"round"`
	Status      string  `json:"status"`
	OfferedAt   string  `json:"offered_at"`
	RespondedAt *string `json:"responded_at,omitempty"`
}

// GetOrderAssignments handles GET /api/v1/orders/:id/assignments.
func (s *Server) GetOrderAssignments(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	query, err := queries.NewGetOrderAssignmentsQuery(orderID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	assignments, err := s.getOrderAssignmentsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to retrieve assignments")
	}

	response := make([]Assignment, len(assignments))
	for i, row := range assignments {
		response[i] = Assignment{
			ID:        row.ID.String(),
			WorkerID:  row.WorkerID.String(),
			Round:     row.Round,
			Status:    row.Status,
			OfferedAt: row.OfferedAt.Format(timeFormat),
		}
		if row.RespondedAt != nil {
			responded := row.RespondedAt.Format(timeFormat)
			response[i].RespondedAt = &responded
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// NewWorker is the request body for worker registration.
type NewWorker struct {
	Name              string   `json:"name"`
	MaxConcurrentJobs int      `json:"max_concurrent_jobs"`
	ServiceAreas      []string `json:"service_areas"`
}

// RegisterWorker handles POST /api/v1/workers.
func (s *Server) RegisterWorker(ctx echo.Context) error {
	var newWorker NewWorker
	if err := ctx.Bind(&newWorker); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	serviceAreas := make([]kernel.RegionCode, 0, len(newWorker.ServiceAreas))
	for _, code := range newWorker.ServiceAreas {
		region, regionErr := kernel.NewRegionCode(code)
		if regionErr != nil {
			return errorJSON(ctx, http.StatusBadRequest, "Invalid region: "+regionErr.Error())
		}
		serviceAreas = append(serviceAreas, region)
	}

	workerID := kernel.NewUUID()
	cmd, err := commands.NewRegisterWorkerCommand(workerID, newWorker.Name, newWorker.MaxConcurrentJobs, serviceAreas)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid worker data: "+err.Error())
	}

	if handleErr := s.registerWorkerHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to register worker")
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": workerID.String()})
}

// Notification is the wire shape of one notification event.
type Notification struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Kind      string `json:"kind"`
	RelatedID string `json:"related_id"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// GetWorkerNotifications handles GET /api/v1/workers/:id/notifications.
// The unread_only query parameter filters out read notifications.
func (s *Server) GetWorkerNotifications(ctx echo.Context) error {
	workerID, err := pathUUID(ctx, "id")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid worker id")
	}

	unreadOnly := ctx.QueryParam("unread_only") == "true"

	query, err := queries.NewGetWorkerNotificationsQuery(workerID, unreadOnly)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid worker id")
	}

	notifications, err := s.getWorkerNotificationsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to retrieve notifications")
	}

	response := make([]Notification, len(notifications))
	for i, row := range notifications {
		response[i] = Notification{
			ID:        row.ID.String(),
			Title:     row.Title,
			Message:   row.Message,
			Kind:      row.Kind,
			RelatedID: row.RelatedID.String(),
			Read:      row.Read,
			CreatedAt: row.CreatedAt.Format(timeFormat),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// MarkNotificationRead handles POST /api/v1/notifications/:id/read.
func (s *Server) MarkNotificationRead(ctx echo.Context) error {
	notificationID, err := pathUUID(ctx, "id")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid notification id")
	}

	cmd, err := commands.NewMarkNotificationReadCommand(notificationID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid notification id")
	}

	switch handleErr := s.markNotificationReadHandler.Handle(ctx.Request().Context(), cmd); {
	case errors.Is(handleErr, errs.ErrObjectNotFound):
		return errorJSON(ctx, http.StatusNotFound, "Notification not found")
	case handleErr != nil:
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to mark notification read")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

const timeFormat = "2006-01-02T15:04:05Z07:00"
