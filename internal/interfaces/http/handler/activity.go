package handler

import (
	activityapp "github.com/crm/backend/internal/application/activity"
	"github.com/gin-gonic/gin"
)

// ActivityHandler handles activity endpoints
type ActivityHandler struct {
	BaseHandler
	service *activityapp.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(service *activityapp.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// Create handles POST /activities
func (h *ActivityHandler) Create(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var cmd activityapp.CreateActivityCommand
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

// Update handles PUT /activities/:id
func (h *ActivityHandler) Update(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var cmd activityapp.UpdateActivityCommand
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

// Delete handles DELETE /activities/:id
func (h *ActivityHandler) Delete(c *gin.Context) {
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

// GetByID handles GET /activities/:id
func (h *ActivityHandler) GetByID(c *gin.Context) {
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

// List handles GET /activities
func (h *ActivityHandler) List(c *gin.Context) {
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

// GetByStatus handles GET /activities/by-status/:status
func (h *ActivityHandler) GetByStatus(c *gin.Context) {
	result, err := h.service.GetByStatus(c.Request.Context(), activityapp.GetByLookupQuery{Value: c.Param("status")})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetByType handles GET /activities/by-type/:type
func (h *ActivityHandler) GetByType(c *gin.Context) {
	result, err := h.service.GetByType(c.Request.Context(), activityapp.GetByLookupQuery{Value: c.Param("type")})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetByAccount handles GET /activities/by-account/:accountId
func (h *ActivityHandler) GetByAccount(c *gin.Context) {
	accountID, ok := h.ParamID(c, "accountId")
	if !ok {
		return
	}
	result, err := h.service.GetByAccount(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
