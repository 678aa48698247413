// Package handler holds the gin handlers of the CRM API.
package handler

import (
	"net/http"
	"strconv"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Page sends one page of a list with its meta
func Page[T any](c *gin.Context, page *shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPageResponse(page))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(
		&dto.ErrorInfo{Code: code, Message: message},
		middleware.GetRequestID(c),
	))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeNotFound, message)
}

// HandleError maps a service error to a response. Unexpected errors are logged
// here since their message never reaches the client.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	status, info := dto.FromError(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("Request failed",
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(status, dto.NewErrorResponseWithRequestID(info, middleware.GetRequestID(c)))
}

// Actor returns the acting identity of a mutation. A request without one is
// answered with 401 and ok is false.
func (h *BaseHandler) Actor(c *gin.Context) (uuid.UUID, bool) {
	actor, ok := middleware.GetActorID(c)
	if !ok {
		h.ErrorWithCode(c, dto.ErrCodeUnauthorized, "An authenticated actor is required")
		return uuid.Nil, false
	}
	return actor, true
}

// CorrelationID ties service logs and events to the HTTP request
func (h *BaseHandler) CorrelationID(c *gin.Context) string {
	return middleware.GetRequestID(c)
}

// ParamID parses a uuid path parameter
func (h *BaseHandler) ParamID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeInvalidArgument, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// ParamInt parses a non-negative integer path parameter
func (h *BaseHandler) ParamInt(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n < 0 {
		h.ErrorWithCode(c, dto.ErrCodeInvalidArgument, name+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}

// BindJSON decodes the request body, answering 400 on failure
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// BindQuery decodes query parameters, answering 400 on failure
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// ListFilter reads paging, sorting and search from the query string
func (h *BaseHandler) ListFilter(c *gin.Context) (shared.Filter, bool) {
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return shared.Filter{}, false
	}
	return req.ToFilter(), true
}

// IncludeRetired reports whether ?include_retired=true was passed
func (h *BaseHandler) IncludeRetired(c *gin.Context) bool {
	v, _ := strconv.ParseBool(c.Query("include_retired"))
	return v
}

// Deleted reports the outcome of a retire. Retiring a missing or already
// retired record is not an error.
func (h *BaseHandler) Deleted(c *gin.Context, deleted bool, err error) {
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.DeleteResult{Deleted: deleted})
}

// Changed reports whether an association mutation did anything
func (h *BaseHandler) Changed(c *gin.Context, changed bool, err error) {
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ChangeResult{Changed: changed})
}
