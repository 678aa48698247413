package lookup

import (
	"github.com/crm/backend/internal/application/cqrs"
	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// =============================================================================
// Commands
// =============================================================================

// CreateLookupCommand adds a value to a reference table
type CreateLookupCommand struct {
	Kind            lookup.Kind `json:"-"`
	Value           string      `json:"value" validate:"required,notblank,max=50"`
	Description     string      `json:"description" validate:"max=500"`
	OrdinalPosition int         `json:"ordinal_position" validate:"min=0"`
	CreatedBy       uuid.UUID   `json:"-"`
	ModifiedBy      uuid.UUID   `json:"-"`
	CorrelationID   string      `json:"-"`
}

// UpdateLookupCommand replaces the editable fields of a reference value
type UpdateLookupCommand struct {
	ID              uuid.UUID `json:"-"`
	Value           string    `json:"value" validate:"required,notblank,max=50"`
	Description     string    `json:"description" validate:"max=500"`
	OrdinalPosition int       `json:"ordinal_position" validate:"min=0"`
	ModifiedBy      uuid.UUID `json:"-"`
	CorrelationID   string    `json:"-"`
}

// DeleteLookupCommand retires a reference value
type DeleteLookupCommand struct {
	ID            uuid.UUID
	ModifiedBy    uuid.UUID
	CorrelationID string
}

// =============================================================================
// Queries
// =============================================================================

// GetLookupByIDQuery fetches one value; IncludeRetired also returns retired values
type GetLookupByIDQuery struct {
	ID             uuid.UUID
	IncludeRetired bool
}

// ListLookupsQuery pages through the active values of a kind
type ListLookupsQuery struct {
	Kind   lookup.Kind
	Filter shared.Filter
}

// GetLookupByValueQuery finds a value of a kind by its text
type GetLookupByValueQuery struct {
	Kind  lookup.Kind
	Value string `validate:"required,max=50"`
}

// GetLookupsByOrdinalPositionQuery finds values of a kind at a display position
type GetLookupsByOrdinalPositionQuery struct {
	Kind            lookup.Kind
	OrdinalPosition int `validate:"min=0"`
}

// =============================================================================
// DTOs
// =============================================================================

// LookupDTO is the details shape of a reference value
type LookupDTO struct {
	ID          uuid.UUID   `json:"id"`
	Kind        lookup.Kind `json:"kind"`
	Value       string      `json:"value"`
	Description string      `json:"description"`
	cqrs.AuditDTO
}

// LookupSummary is the list shape of a reference value
type LookupSummary struct {
	ID              uuid.UUID `json:"id"`
	Value           string    `json:"value"`
	Description     string    `json:"description"`
	OrdinalPosition int       `json:"ordinal_position"`
}

// ToLookupDTO maps a domain lookup to its details DTO
func ToLookupDTO(l *lookup.Lookup) *LookupDTO {
	return &LookupDTO{
		ID:          l.ID,
		Kind:        l.Kind,
		Value:       l.Value,
		Description: l.Description,
		AuditDTO:    cqrs.ToAuditDTO(&l.BaseEntity),
	}
}

// ToLookupSummary maps a domain lookup to its list DTO
func ToLookupSummary(l *lookup.Lookup) LookupSummary {
	return LookupSummary{
		ID:              l.ID,
		Value:           l.Value,
		Description:     l.Description,
		OrdinalPosition: l.OrdinalPosition,
	}
}

func (c CreateLookupCommand) fields() lookup.Fields {
	return lookup.Fields{Value: c.Value, Description: c.Description, OrdinalPosition: c.OrdinalPosition}
}

func (c UpdateLookupCommand) fields() lookup.Fields {
	return lookup.Fields{Value: c.Value, Description: c.Description, OrdinalPosition: c.OrdinalPosition}
}
