package handler

import (
	salesapp "github.com/crm/backend/internal/application/sales"
	"github.com/gin-gonic/gin"
)

// LineItemHandler handles quote line item endpoints
type LineItemHandler struct {
	BaseHandler
	service *salesapp.LineItemService
}

// NewLineItemHandler creates a new LineItemHandler
func NewLineItemHandler(service *salesapp.LineItemService) *LineItemHandler {
	return &LineItemHandler{service: service}
}

// Create handles POST /line-items
func (h *LineItemHandler) Create(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var cmd salesapp.CreateLineItemCommand
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

// Update handles PUT /line-items/:id
func (h *LineItemHandler) Update(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var cmd salesapp.UpdateLineItemCommand
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

// Delete handles DELETE /line-items/:id
func (h *LineItemHandler) Delete(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	deleted, err := h.service.Delete(c.Request.Context(), salesapp.DeleteCommand{
		ID:            id,
		ModifiedBy:    actor,
		CorrelationID: h.CorrelationID(c),
	})
	h.Deleted(c, deleted, err)
}

// GetByID handles GET /line-items/:id
func (h *LineItemHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	result, err := h.service.GetByID(c.Request.Context(), salesapp.GetByIDQuery{ID: id, IncludeRetired: h.IncludeRetired(c)})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetByQuote handles GET /quotes/:id/line-items
func (h *LineItemHandler) GetByQuote(c *gin.Context) {
	quoteID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	result, err := h.service.GetByQuote(c.Request.Context(), quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
