package handler

import (
	contactapp "github.com/crm/backend/internal/application/contact"
	"github.com/gin-gonic/gin"
)

// PersonHandler handles person endpoints
type PersonHandler struct {
	BaseHandler
	service *contactapp.PersonService
}

// NewPersonHandler creates a new PersonHandler
func NewPersonHandler(service *contactapp.PersonService) *PersonHandler {
	return &PersonHandler{service: service}
}

// Create handles POST /people
func (h *PersonHandler) Create(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var cmd contactapp.CreatePersonCommand
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

// Update handles PUT /people/:id
func (h *PersonHandler) Update(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var cmd contactapp.UpdatePersonCommand
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

// Delete handles DELETE /people/:id
func (h *PersonHandler) Delete(c *gin.Context) {
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

// GetByID handles GET /people/:id
func (h *PersonHandler) GetByID(c *gin.Context) {
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

// List handles GET /people
func (h *PersonHandler) List(c *gin.Context) {
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

// GetByEmail handles GET /people/by-email?email=
func (h *PersonHandler) GetByEmail(c *gin.Context) {
	result, err := h.service.GetByEmail(c.Request.Context(), contactapp.GetPersonByEmailQuery{Email: c.Query("email")})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
