package activity

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for activity persistence
type Repository interface {
	shared.Repository[Activity]

	// GetByStatusID finds active activities with the given status
	GetByStatusID(ctx context.Context, statusID uuid.UUID) ([]Activity, error)

	// GetByTypeID finds active activities of the given type
	GetByTypeID(ctx context.Context, typeID uuid.UUID) ([]Activity, error)

	// GetByAccountID finds active activities recorded against an account
	GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]Activity, error)
}

// CallRepository defines the interface for call persistence
type CallRepository interface {
	shared.Repository[Call]

	// GetByPersonID finds active calls with a person, most recent first
	GetByPersonID(ctx context.Context, personID uuid.UUID) ([]Call, error)
}
