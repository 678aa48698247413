package middleware

import (
	"encoding/json"
	"errors"

	"github.com/crm/backend/internal/application/cqrs"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator makes gin's binding validator report json/form field names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(cqrs.FieldName)
	}
}

// BindingError maps a gin bind failure to an error body
func BindingError(err error) *dto.ErrorInfo {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return &dto.ErrorInfo{
			Code:    dto.ErrCodeValidation,
			Message: "Request validation failed",
			Details: cqrs.FromFieldErrors(fieldErrs).Violations,
		}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &dto.ErrorInfo{
			Code:    dto.ErrCodeInvalidJSON,
			Message: "Request body has a field of the wrong type",
			Details: []shared.FieldViolation{{Field: typeErr.Field, Message: typeErr.Field + " must be a " + typeErr.Type.String()}},
		}
	}

	return &dto.ErrorInfo{Code: dto.ErrCodeInvalidJSON, Message: "Request body is not valid JSON: " + err.Error()}
}

// HandleValidationError aborts the request with a bind failure
func HandleValidationError(c *gin.Context, err error) {
	info := BindingError(err)
	c.AbortWithStatusJSON(dto.GetHTTPStatus(info.Code), dto.NewErrorResponseWithRequestID(info, GetRequestID(c)))
}
