package handler

import (
	"errors"

	lookupapp "github.com/crm/backend/internal/application/lookup"
	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// LookupHandler serves every reference table under /lookups/:kind
type LookupHandler struct {
	BaseHandler
	service *lookupapp.LookupService
}

// NewLookupHandler creates a new LookupHandler
func NewLookupHandler(service *lookupapp.LookupService) *LookupHandler {
	return &LookupHandler{service: service}
}

// KindInfo describes one reference table
type KindInfo struct {
	Kind  lookup.Kind `json:"kind"`
	Slug  string      `json:"slug"`
	Label string      `json:"label"`
}

// Kinds handles GET /lookups
func (h *LookupHandler) Kinds(c *gin.Context) {
	kinds := lookup.Kinds()
	out := make([]KindInfo, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, KindInfo{Kind: k, Slug: k.Slug(), Label: k.Label()})
	}
	h.Success(c, out)
}

func (h *LookupHandler) kind(c *gin.Context) (lookup.Kind, bool) {
	kind, ok := lookup.KindFromSlug(c.Param("kind"))
	if !ok {
		h.NotFound(c, "Unknown lookup kind "+c.Param("kind"))
		return "", false
	}
	return kind, true
}

// target resolves the :kind and :id of a single-value route. A value of another
// kind is reported as not found.
func (h *LookupHandler) target(c *gin.Context, includeRetired bool) (*lookupapp.LookupDTO, bool) {
	kind, ok := h.kind(c)
	if !ok {
		return nil, false
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return nil, false
	}
	result, err := h.service.GetByID(c.Request.Context(), lookupapp.GetLookupByIDQuery{ID: id, IncludeRetired: includeRetired})
	if err == nil && result.Kind != kind {
		err = shared.ErrNotFound
	}
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return result, true
}

// Create handles POST /lookups/:kind
func (h *LookupHandler) Create(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	var cmd lookupapp.CreateLookupCommand
	if !h.BindJSON(c, &cmd) {
		return
	}
	cmd.Kind, cmd.CreatedBy, cmd.ModifiedBy, cmd.CorrelationID = kind, actor, actor, h.CorrelationID(c)

	result, err := h.service.Create(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Update handles PUT /lookups/:kind/:id
func (h *LookupHandler) Update(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var cmd lookupapp.UpdateLookupCommand
	if !h.BindJSON(c, &cmd) {
		return
	}
	current, ok := h.target(c, false)
	if !ok {
		return
	}
	cmd.ID, cmd.ModifiedBy, cmd.CorrelationID = current.ID, actor, h.CorrelationID(c)

	result, err := h.service.Update(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete handles DELETE /lookups/:kind/:id
func (h *LookupHandler) Delete(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	current, err := h.service.GetByID(c.Request.Context(), lookupapp.GetLookupByIDQuery{ID: id, IncludeRetired: true})
	switch {
	case errors.Is(err, shared.ErrNotFound) || (err == nil && current.Kind != kind):
		h.Deleted(c, false, nil)
		return
	case err != nil:
		h.HandleError(c, err)
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), lookupapp.DeleteLookupCommand{
		ID:            id,
		ModifiedBy:    actor,
		CorrelationID: h.CorrelationID(c),
	})
	h.Deleted(c, deleted, err)
}

// GetByID handles GET /lookups/:kind/:id
func (h *LookupHandler) GetByID(c *gin.Context) {
	result, ok := h.target(c, h.IncludeRetired(c))
	if !ok {
		return
	}
	h.Success(c, result)
}

// List handles GET /lookups/:kind
func (h *LookupHandler) List(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	filter, ok := h.ListFilter(c)
	if !ok {
		return
	}
	page, err := h.service.List(c.Request.Context(), lookupapp.ListLookupsQuery{Kind: kind, Filter: filter})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// GetByValue handles GET /lookups/:kind/by-value/:value
func (h *LookupHandler) GetByValue(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	result, err := h.service.GetByValue(c.Request.Context(), lookupapp.GetLookupByValueQuery{Kind: kind, Value: c.Param("value")})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetByOrdinalPosition handles GET /lookups/:kind/by-position/:position
func (h *LookupHandler) GetByOrdinalPosition(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	position, ok := h.ParamInt(c, "position")
	if !ok {
		return
	}
	result, err := h.service.GetByOrdinalPosition(c.Request.Context(), lookupapp.GetLookupsByOrdinalPositionQuery{
		Kind:            kind,
		OrdinalPosition: position,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
