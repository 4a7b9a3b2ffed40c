package handler

import (
	"context"

	remitapp "github.com/envio/backend/internal/application/remittance"
	"github.com/envio/backend/internal/domain/remittance"
	"github.com/envio/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RemittanceHandler handles remittance lifecycle API endpoints
type RemittanceHandler struct {
	BaseHandler
	remitService *remitapp.RemittanceService
}

// NewRemittanceHandler creates a new RemittanceHandler
func NewRemittanceHandler(remitService *remitapp.RemittanceService) *RemittanceHandler {
	return &RemittanceHandler{remitService: remitService}
}

// Create handles POST /remittances
func (h *RemittanceHandler) Create(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	var req remitapp.CreateRemittanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	remit, err := h.remitService.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, remit)
}

// GetByID handles GET /remittances/:id
func (h *RemittanceHandler) GetByID(c *gin.Context) {
	remitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid remittance ID format")
		return
	}

	remit, err := h.remitService.GetByID(c.Request.Context(), remitID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, remit)
}

// List handles GET /remittances
func (h *RemittanceHandler) List(c *gin.Context) {
	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := remitapp.RemittanceListFilter{
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
		status := remittance.Status(statusStr)
		if !status.IsValid() {
			h.BadRequest(c, "Invalid remittance status")
			return
		}
		filter.Status = &status
	}

	remits, total, err := h.remitService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, remits, filter.Page, filter.PageSize, total)
}

// ValidatePayment handles POST /remittances/:id/validate-payment
func (h *RemittanceHandler) ValidatePayment(c *gin.Context) {
	h.transition(c, h.remitService.ValidatePayment)
}

// RejectPayment handles POST /remittances/:id/reject-payment
func (h *RemittanceHandler) RejectPayment(c *gin.Context) {
	actorID, remitID, ok := h.actorAndRemit(c)
	if !ok {
		return
	}

	var req remitapp.RejectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	remit, err := h.remitService.RejectPayment(c.Request.Context(), actorID, remitID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, remit)
}

// Process handles POST /remittances/:id/process
func (h *RemittanceHandler) Process(c *gin.Context) {
	h.transition(c, h.remitService.Process)
}

// Ship handles POST /remittances/:id/ship
func (h *RemittanceHandler) Ship(c *gin.Context) {
	h.transition(c, h.remitService.Ship)
}

// Deliver handles POST /remittances/:id/deliver
func (h *RemittanceHandler) Deliver(c *gin.Context) {
	h.transition(c, h.remitService.Deliver)
}

// Complete handles POST /remittances/:id/complete
func (h *RemittanceHandler) Complete(c *gin.Context) {
	h.transition(c, h.remitService.Complete)
}

// Cancel handles POST /remittances/:id/cancel
func (h *RemittanceHandler) Cancel(c *gin.Context) {
	actorID, remitID, ok := h.actorAndRemit(c)
	if !ok {
		return
	}

	var req remitapp.CancelRemittanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	remit, err := h.remitService.Cancel(c.Request.Context(), actorID, remitID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, remit)
}

func (h *RemittanceHandler) transition(c *gin.Context, fn func(ctx context.Context, actorID, remitID uuid.UUID) (*remitapp.RemittanceResponse, error)) {
	actorID, remitID, ok := h.actorAndRemit(c)
	if !ok {
		return
	}

	remit, err := fn(c.Request.Context(), actorID, remitID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, remit)
}

func (h *RemittanceHandler) actorAndRemit(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return uuid.Nil, uuid.Nil, false
	}

	remitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid remittance ID format")
		return uuid.Nil, uuid.Nil, false
	}

	return actorID, remitID, true
}
