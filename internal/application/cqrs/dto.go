package cqrs

import (
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AuditDTO is the lifecycle and attribution block of every details DTO
type AuditDTO struct {
	OrdinalPosition int       `json:"ordinal_position"`
	Active          bool      `json:"active"`
	CreatedBy       uuid.UUID `json:"created_by"`
	CreatedDate     time.Time `json:"created_date"`
	ModifiedBy      uuid.UUID `json:"modified_by"`
	ModifiedDate    time.Time `json:"modified_date"`
}

// ToAuditDTO projects the shared entity fields
func ToAuditDTO(e *shared.BaseEntity) AuditDTO {
	return AuditDTO{
		OrdinalPosition: e.OrdinalPosition,
		Active:          e.IsActive(),
		CreatedBy:       e.CreatedBy,
		CreatedDate:     e.CreatedDate,
		ModifiedBy:      e.ModifiedBy,
		ModifiedDate:    e.ModifiedDate,
	}
}
