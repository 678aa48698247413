package shared

import (
	"context"

	"github.com/google/uuid"
)

// Junction is a many-to-many link keyed by two ids.
// It follows the same lifecycle and audit rules as single-key records.
type Junction struct {
	FirstID   uuid.UUID
	SecondID  uuid.UUID
	Lifecycle Lifecycle
	Audit
}

// NewJunction creates an active link stamped for actor
func NewJunction(firstID, secondID, actor uuid.UUID) *Junction {
	return &Junction{
		FirstID:   firstID,
		SecondID:  secondID,
		Lifecycle: LifecycleActive,
		Audit:     NewAudit(actor, actor),
	}
}

// IsActive reports whether the link is visible to default reads
func (j *Junction) IsActive() bool {
	return j.Lifecycle == LifecycleActive
}

// Retire deactivates the link. Returns false if it was already retired.
func (j *Junction) Retire(actor uuid.UUID) bool {
	if !j.IsActive() {
		return false
	}
	j.Lifecycle = LifecycleRetired
	j.Touch(actor)
	return true
}

// Reactivate brings a retired link back. Returns false if it was already active.
func (j *Junction) Reactivate(actor uuid.UUID) bool {
	if j.IsActive() {
		return false
	}
	j.Lifecycle = LifecycleActive
	j.Touch(actor)
	return true
}

// JunctionRepository persists links keyed by (first, second).
// Default reads exclude retired links.
type JunctionRepository interface {
	// GetByID returns the active link or ErrNotFound
	GetByID(ctx context.Context, firstID, secondID uuid.UUID) (*Junction, error)
	// GetAnyByID returns the link in any lifecycle state or ErrNotFound
	GetAnyByID(ctx context.Context, firstID, secondID uuid.UUID) (*Junction, error)
	GetByFirstID(ctx context.Context, firstID uuid.UUID) ([]Junction, error)
	GetBySecondID(ctx context.Context, secondID uuid.UUID) ([]Junction, error)
	GetAll(ctx context.Context) ([]Junction, error)
	Add(ctx context.Context, link *Junction) error
	// Update persists lifecycle and audit changes of an existing link
	Update(ctx context.Context, link *Junction) error
	// Delete persists a retirement; false when the link was no longer active
	Delete(ctx context.Context, link *Junction) (bool, error)
}
