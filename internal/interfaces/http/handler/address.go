package handler

import (
	contactapp "github.com/crm/backend/internal/application/contact"
	"github.com/gin-gonic/gin"
)

// AddressHandler handles address endpoints
type AddressHandler struct {
	BaseHandler
	service *contactapp.AddressService
}

// NewAddressHandler creates a new AddressHandler
func NewAddressHandler(service *contactapp.AddressService) *AddressHandler {
	return &AddressHandler{service: service}
}

// Create handles POST /addresses
func (h *AddressHandler) Create(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var cmd contactapp.CreateAddressCommand
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

// Update handles PUT /addresses/:id
func (h *AddressHandler) Update(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var cmd contactapp.UpdateAddressCommand
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

// Delete handles DELETE /addresses/:id
func (h *AddressHandler) Delete(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	deleted, err := h.service.Delete(c.Request.Context(), contactapp.DeleteCommand{
		ID:            id,
		ModifiedBy:    actor,
		CorrelationID: h.CorrelationID(c),
	})
	h.Deleted(c, deleted, err)
}

// GetByID handles GET /addresses/:id
func (h *AddressHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	result, err := h.service.GetByID(c.Request.Context(), contactapp.GetByIDQuery{ID: id, IncludeRetired: h.IncludeRetired(c)})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// List handles GET /addresses
func (h *AddressHandler) List(c *gin.Context) {
	filter, ok := h.ListFilter(c)
	if !ok {
		return
	}
	page, err := h.service.List(c.Request.Context(), contactapp.ListQuery{Filter: filter})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// GetByType handles GET /addresses/by-type/:type
func (h *AddressHandler) GetByType(c *gin.Context) {
	result, err := h.service.GetByType(c.Request.Context(), contactapp.GetAddressesByTypeQuery{Type: c.Param("type")})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
