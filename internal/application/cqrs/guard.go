package cqrs

import (
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Required names an identifier that must not be uuid.Nil
type Required struct {
	Field string
	ID    uuid.UUID
}

// ID pairs a field name with its identifier for Guard
func ID(field string, id uuid.UUID) Required {
	return Required{Field: field, ID: id}
}

// Guard rejects the first zero identifier with an INVALID_ARGUMENT error.
// Handlers call it before validation.
func Guard(required ...Required) error {
	for _, r := range required {
		if r.ID == uuid.Nil {
			return shared.NewInvalidArgumentError(r.Field + " must not be empty")
		}
	}
	return nil
}
