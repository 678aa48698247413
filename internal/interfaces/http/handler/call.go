package handler

import (
	activityapp "github.com/crm/backend/internal/application/activity"
	"github.com/gin-gonic/gin"
)

// CallHandler handles call endpoints
type CallHandler struct {
	BaseHandler
	service *activityapp.CallService
}

// NewCallHandler creates a new CallHandler
func NewCallHandler(service *activityapp.CallService) *CallHandler {
	return &CallHandler{service: service}
}

// Create handles POST /calls
func (h *CallHandler) Create(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var cmd activityapp.CreateCallCommand
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

// Update handles PUT /calls/:id
func (h *CallHandler) Update(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var cmd activityapp.UpdateCallCommand
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

// Delete handles DELETE /calls/:id
func (h *CallHandler) Delete(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	deleted, err := h.service.Delete(c.Request.Context(), activityapp.DeleteCommand{
		ID:            id,
		ModifiedBy:    actor,
		CorrelationID: h.CorrelationID(c),
	})
	h.Deleted(c, deleted, err)
}

// GetByID handles GET /calls/:id
func (h *CallHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	result, err := h.service.GetByID(c.Request.Context(), activityapp.GetByIDQuery{ID: id, IncludeRetired: h.IncludeRetired(c)})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// List handles GET /calls
func (h *CallHandler) List(c *gin.Context) {
	filter, ok := h.ListFilter(c)
	if !ok {
		return
	}
	page, err := h.service.List(c.Request.Context(), activityapp.ListQuery{Filter: filter})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// GetByPerson handles GET /calls/by-person/:personId
func (h *CallHandler) GetByPerson(c *gin.Context) {
	personID, ok := h.ParamID(c, "personId")
	if !ok {
		return
	}
	result, err := h.service.GetByPerson(c.Request.Context(), personID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
