package cqrs

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	engine     *validator.Validate
	engineOnce sync.Once
)

// Engine returns the shared validator. Field names in violations come from json tags.
func Engine() *validator.Validate {
	engineOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(FieldName)
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		engine = v
	})
	return engine
}

// FieldName is the name a struct field is reported under: its json name, else its form name,
// else the Go name.
func FieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	}
	if name == "" {
		name = fld.Name
	}
	return name
}

// Violation is the result of a failed Check
type Violation struct {
	Field    string
	Message  string
	conflict bool
}

// Check is a rule the struct tags cannot express: cross-field ordering, decimal bounds, or a
// repository lookup. It returns nil when the rule holds.
type Check func(ctx context.Context) (*Violation, error)

// Validate runs the struct tag rules of cmd, then each check in order.
// Tag failures return early so repositories are not consulted for malformed input.
// Field rule failures return a *shared.ValidationError; if the only failures are uniqueness
// conflicts, an ALREADY_EXISTS domain error is returned instead. Repository errors abort
// validation and are returned unchanged.
func Validate(ctx context.Context, cmd any, checks ...Check) error {
	if err := Engine().Struct(cmd); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		return FromFieldErrors(fieldErrs)
	}

	var violations []shared.FieldViolation
	var conflict *Violation
	for _, check := range checks {
		if check == nil {
			continue
		}
		v, err := check(ctx)
		if err != nil {
			return err
		}
		if v == nil {
			continue
		}
		if v.conflict {
			if conflict == nil {
				conflict = v
			}
			continue
		}
		violations = append(violations, shared.FieldViolation{Field: v.Field, Message: v.Message})
	}

	if len(violations) > 0 {
		return &shared.ValidationError{Violations: violations}
	}
	if conflict != nil {
		return shared.NewConflictError(conflict.Message)
	}
	return nil
}

// FromFieldErrors converts validator output into a ValidationError
func FromFieldErrors(errs validator.ValidationErrors) *shared.ValidationError {
	out := &shared.ValidationError{Violations: make([]shared.FieldViolation, 0, len(errs))}
	for _, fe := range errs {
		out.Violations = append(out.Violations, shared.FieldViolation{
			Field:   fe.Field(),
			Message: Message(fe),
		})
	}
	return out
}

// Message renders a validator failure as "<field> <rule>"
func Message(fe validator.FieldError) string {
	field := fe.Field()
	isText := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "uuid":
		return field + " must be a valid UUID"
	case "min":
		if isText {
			return field + " must be at least " + fe.Param() + " characters"
		}
		return field + " must be at least " + fe.Param()
	case "max":
		if isText {
			return field + " must not exceed " + fe.Param() + " characters"
		}
		return field + " must be at most " + fe.Param()
	case "len":
		return field + " must be exactly " + fe.Param() + " characters"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "gte":
		return field + " must be greater than or equal to " + fe.Param()
	case "lte":
		return field + " must be less than or equal to " + fe.Param()
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "lt":
		return field + " must be less than " + fe.Param()
	case "numeric":
		return field + " must be numeric"
	default:
		return field + " is invalid"
	}
}
