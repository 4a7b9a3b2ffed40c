package handler

import (
	"strconv"

	paymentapp "github.com/envio/backend/internal/application/payment"
	"github.com/envio/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentAccountHandler handles payment account management endpoints
type PaymentAccountHandler struct {
	BaseHandler
	accountService *paymentapp.AccountService
}

// NewPaymentAccountHandler creates a new PaymentAccountHandler
func NewPaymentAccountHandler(accountService *paymentapp.AccountService) *PaymentAccountHandler {
	return &PaymentAccountHandler{accountService: accountService}
}

// Create handles POST /payment-accounts
func (h *PaymentAccountHandler) Create(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	var req paymentapp.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	account, err := h.accountService.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, account)
}

// Update handles PUT /payment-accounts/:id
func (h *PaymentAccountHandler) Update(c *gin.Context) {
	actorID, accountID, ok := h.actorAndAccount(c)
	if !ok {
		return
	}

	var req paymentapp.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	account, err := h.accountService.Update(c.Request.Context(), actorID, accountID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// Enable handles POST /payment-accounts/:id/enable
func (h *PaymentAccountHandler) Enable(c *gin.Context) {
	actorID, accountID, ok := h.actorAndAccount(c)
	if !ok {
		return
	}

	account, err := h.accountService.Enable(c.Request.Context(), actorID, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// Disable handles POST /payment-accounts/:id/disable
func (h *PaymentAccountHandler) Disable(c *gin.Context) {
	actorID, accountID, ok := h.actorAndAccount(c)
	if !ok {
		return
	}

	account, err := h.accountService.Disable(c.Request.Context(), actorID, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// GetByID handles GET /payment-accounts/:id
func (h *PaymentAccountHandler) GetByID(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	account, err := h.accountService.GetByID(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// List handles GET /payment-accounts
func (h *PaymentAccountHandler) List(c *gin.Context) {
	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := paymentapp.AccountListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Search:   listReq.Search,
	}

	if enabledStr := c.Query("enabled"); enabledStr != "" {
		enabled, err := strconv.ParseBool(enabledStr)
		if err != nil {
			h.BadRequest(c, "Invalid enabled flag")
			return
		}
		filter.Enabled = &enabled
	}

	accounts, total, err := h.accountService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, accounts, filter.Page, filter.PageSize, total)
}

func (h *PaymentAccountHandler) actorAndAccount(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return uuid.Nil, uuid.Nil, false
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return uuid.Nil, uuid.Nil, false
	}

	return actorID, accountID, true
}
