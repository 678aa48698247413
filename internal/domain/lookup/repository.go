package lookup

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for reference table persistence.
// Reads that take a kind are scoped to it; an id of one kind never satisfies another.
type Repository interface {
	// GetByID finds an active lookup by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Lookup, error)

	// GetAnyByID finds a lookup by ID regardless of lifecycle
	GetAnyByID(ctx context.Context, id uuid.UUID) (*Lookup, error)

	// GetByIDs finds active lookups by IDs across kinds
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Lookup, error)

	// GetAll finds all active lookups of a kind
	GetAll(ctx context.Context, kind Kind, filter shared.Filter) ([]Lookup, error)

	// Count counts active lookups of a kind
	Count(ctx context.Context, kind Kind, filter shared.Filter) (int64, error)

	// GetByValue finds the active lookup of a kind by its value, case-insensitively
	GetByValue(ctx context.Context, kind Kind, value string) (*Lookup, error)

	// GetByOrdinalPosition finds active lookups of a kind at a display position
	GetByOrdinalPosition(ctx context.Context, kind Kind, position int) ([]Lookup, error)

	// Exists checks if an active lookup of a kind exists
	Exists(ctx context.Context, kind Kind, id uuid.UUID) (bool, error)

	// ExistsByValue checks if another active lookup of a kind has the value
	ExistsByValue(ctx context.Context, kind Kind, value string, excludeID uuid.UUID) (bool, error)

	Add(ctx context.Context, l *Lookup) error
	Update(ctx context.Context, l *Lookup) error
	Delete(ctx context.Context, l *Lookup) (bool, error)
}
