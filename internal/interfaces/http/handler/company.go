package handler

import (
	contactapp "github.com/crm/backend/internal/application/contact"
	"github.com/gin-gonic/gin"
)

// CompanyHandler handles company endpoints
type CompanyHandler struct {
	BaseHandler
	service *contactapp.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(service *contactapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{service: service}
}

// Create handles POST /companies
func (h *CompanyHandler) Create(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var cmd contactapp.CreateCompanyCommand
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

// Update handles PUT /companies/:id
func (h *CompanyHandler) Update(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var cmd contactapp.UpdateCompanyCommand
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

// Delete handles DELETE /companies/:id
func (h *CompanyHandler) Delete(c *gin.Context) {
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

// GetByID handles GET /companies/:id
func (h *CompanyHandler) GetByID(c *gin.Context) {
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

// List handles GET /companies
func (h *CompanyHandler) List(c *gin.Context) {
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

// GetByName handles GET /companies/by-name?name=
func (h *CompanyHandler) GetByName(c *gin.Context) {
	result, err := h.service.GetByName(c.Request.Context(), contactapp.GetCompanyByNameQuery{Name: c.Query("name")})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
