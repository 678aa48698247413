package models

import (
	"github.com/crm/backend/internal/domain/lookup"
)

// LookupModel is the persistence model for every reference table row
type LookupModel struct {
	EntityModel
	Kind        string `gorm:"type:varchar(40);not null;index:idx_lookup_kind_value,priority:1"`
	Value       string `gorm:"type:varchar(50);not null"`
	ValueKey    string `gorm:"type:varchar(200);not null;index:idx_lookup_kind_value,priority:2"`
	Description string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (LookupModel) TableName() string {
	return "lookups"
}

// ToDomain converts the persistence model to a domain Lookup
func (m *LookupModel) ToDomain() *lookup.Lookup {
	return &lookup.Lookup{
		BaseEntity:  m.EntityModel.ToDomain(),
		Kind:        lookup.Kind(m.Kind),
		Value:       m.Value,
		Description: m.Description,
	}
}

// FromDomain populates the persistence model from a domain Lookup
func (m *LookupModel) FromDomain(l *lookup.Lookup) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.Kind = string(l.Kind)
	m.Value = l.Value
	m.ValueKey = lookup.NormalizeValue(l.Value)
	m.Description = l.Description
}
