package handler

import (
	accountapp "github.com/crm/backend/internal/application/account"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles account endpoints
type AccountHandler struct {
	BaseHandler
	service *accountapp.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(service *accountapp.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Create handles POST /accounts
func (h *AccountHandler) Create(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var cmd accountapp.CreateAccountCommand
	if !h.BindJSON(c, &cmd) {
		return
	}
	cmd.CreatedBy, cmd.ModifiedBy, cmd.CorrelationID = actor, actor, h.CorrelationID(c)

	result, err := h.service.Create(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Update handles PUT /accounts/:id
func (h *AccountHandler) Update(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var cmd accountapp.UpdateAccountCommand
	if !h.BindJSON(c, &cmd) {
		return
	}
	cmd.ID, cmd.ModifiedBy, cmd.CorrelationID = id, actor, h.CorrelationID(c)

	result, err := h.service.Update(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete handles DELETE /accounts/:id
func (h *AccountHandler) Delete(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	deleted, err := h.service.Delete(c.Request.Context(), accountapp.DeleteAccountCommand{
		ID:            id,
		ModifiedBy:    actor,
		CorrelationID: h.CorrelationID(c),
	})
	h.Deleted(c, deleted, err)
}

// GetByID handles GET /accounts/:id
func (h *AccountHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	result, err := h.service.GetByID(c.Request.Context(), accountapp.GetAccountByIDQuery{
		ID:             id,
		IncludeRetired: h.IncludeRetired(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// List handles GET /accounts
func (h *AccountHandler) List(c *gin.Context) {
	filter, ok := h.ListFilter(c)
	if !ok {
		return
	}
	page, err := h.service.List(c.Request.Context(), accountapp.ListAccountsQuery{Filter: filter})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// GetByStatus handles GET /accounts/by-status/:status
func (h *AccountHandler) GetByStatus(c *gin.Context) {
	result, err := h.service.GetByStatus(c.Request.Context(), accountapp.GetAccountsByStatusQuery{Status: c.Param("status")})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetByType handles GET /accounts/by-type/:type
func (h *AccountHandler) GetByType(c *gin.Context) {
	result, err := h.service.GetByType(c.Request.Context(), accountapp.GetAccountsByTypeQuery{Type: c.Param("type")})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
