package account

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for account persistence
type Repository interface {
	shared.Repository[Account]

	// GetByStatusID finds active accounts with the given status
	GetByStatusID(ctx context.Context, statusID uuid.UUID) ([]Account, error)

	// GetByTypeID finds active accounts with the given type
	GetByTypeID(ctx context.Context, typeID uuid.UUID) ([]Account, error)

	// ExistsByAccountNumber checks if another active account uses the number
	ExistsByAccountNumber(ctx context.Context, number string, excludeID uuid.UUID) (bool, error)
}
