package handler

import (
	"context"

	tradeapp "github.com/envio/backend/internal/application/trade"
	"github.com/envio/backend/internal/domain/trade"
	"github.com/envio/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler handles order lifecycle API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create handles POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	var req tradeapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID handles GET /orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := tradeapp.OrderListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Search:   listReq.Search,
	}

	if userIDStr := c.Query("user_id"); userIDStr != "" {
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			h.BadRequest(c, "Invalid user ID format")
			return
		}
		filter.UserID = &userID
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := trade.OrderStatus(statusStr)
		if !status.IsValid() {
			h.BadRequest(c, "Invalid order status")
			return
		}
		filter.Status = &status
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, filter.Page, filter.PageSize, total)
}

// ValidatePayment handles POST /orders/:id/validate-payment
func (h *OrderHandler) ValidatePayment(c *gin.Context) {
	h.transition(c, h.orderService.ValidatePayment)
}

// RejectPayment handles POST /orders/:id/reject-payment
func (h *OrderHandler) RejectPayment(c *gin.Context) {
	actorID, orderID, ok := h.actorAndOrder(c)
	if !ok {
		return
	}

	var req tradeapp.RejectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.RejectPayment(c.Request.Context(), actorID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Process handles POST /orders/:id/process
func (h *OrderHandler) Process(c *gin.Context) {
	h.transition(c, h.orderService.Process)
}

// Ship handles POST /orders/:id/ship
func (h *OrderHandler) Ship(c *gin.Context) {
	h.transition(c, h.orderService.Ship)
}

// Deliver handles POST /orders/:id/deliver
func (h *OrderHandler) Deliver(c *gin.Context) {
	h.transition(c, h.orderService.Deliver)
}

// Complete handles POST /orders/:id/complete
func (h *OrderHandler) Complete(c *gin.Context) {
	h.transition(c, h.orderService.Complete)
}

// Cancel handles POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	actorID, orderID, ok := h.actorAndOrder(c)
	if !ok {
		return
	}

	var req tradeapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), actorID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// transition factors the shared shape of the lifecycle endpoints that
// take no body.
func (h *OrderHandler) transition(c *gin.Context, fn func(ctx context.Context, actorID, orderID uuid.UUID) (*tradeapp.OrderResponse, error)) {
	actorID, orderID, ok := h.actorAndOrder(c)
	if !ok {
		return
	}

	order, err := fn(c.Request.Context(), actorID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

func (h *OrderHandler) actorAndOrder(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return uuid.Nil, uuid.Nil, false
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return uuid.Nil, uuid.Nil, false
	}

	return actorID, orderID, true
}
