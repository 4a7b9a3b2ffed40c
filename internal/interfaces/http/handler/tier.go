package handler

import (
	tierapp "github.com/envio/backend/internal/application/tier"
	"github.com/envio/backend/internal/domain/shared"
	"github.com/envio/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TierHandler handles customer tier endpoints
type TierHandler struct {
	BaseHandler
	tierService *tierapp.TierService
}

// NewTierHandler creates a new TierHandler
func NewTierHandler(tierService *tierapp.TierService) *TierHandler {
	return &TierHandler{tierService: tierService}
}

// Recompute handles POST /users/:id/tier/recompute
func (h *TierHandler) Recompute(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	result, err := h.tierService.Recompute(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ManualAssign handles PUT /users/:id/tier
func (h *TierHandler) ManualAssign(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var req tierapp.ManualAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	assignment, err := h.tierService.ManualAssign(c.Request.Context(), actorID, getActorRole(c), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, assignment)
}

// GetByUser handles GET /users/:id/tier
func (h *TierHandler) GetByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	assignment, err := h.tierService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, assignment)
}

// History handles GET /users/:id/tier/history
func (h *TierHandler) History(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := shared.Filter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
	}

	history, total, err := h.tierService.History(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, history, filter.Page, filter.PageSize, total)
}
