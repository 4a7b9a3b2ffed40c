package handler

import (
	auditapp "github.com/envio/backend/internal/application/audit"
	"github.com/envio/backend/internal/domain/shared"
	"github.com/envio/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// auditableTables is the closed set of entity tables exposed through
// the audit query API.
var auditableTables = map[string]bool{
	"payment_accounts": true,
	"orders":           true,
	"remittances":      true,
	"tier_assignments": true,
}

// AuditHandler handles audit trail query endpoints
type AuditHandler struct {
	BaseHandler
	auditService *auditapp.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *auditapp.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// History handles GET /audit/:table/:id
func (h *AuditHandler) History(c *gin.Context) {
	table := c.Param("table")
	if !auditableTables[table] {
		h.BadRequest(c, "Unknown entity table")
		return
	}

	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid entity ID format")
		return
	}

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	entries, total, err := h.auditService.History(c.Request.Context(), table, entityID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, filter.Page, filter.PageSize, total)
}

// ByActor handles GET /audit/actor/:userId
func (h *AuditHandler) ByActor(c *gin.Context) {
	actorID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		h.BadRequest(c, "Invalid actor ID format")
		return
	}

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	entries, total, err := h.auditService.ByActor(c.Request.Context(), actorID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, filter.Page, filter.PageSize, total)
}

func (h *AuditHandler) bindFilter(c *gin.Context) (shared.Filter, bool) {
	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return shared.Filter{}, false
	}

	return shared.Filter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
	}, true
}
