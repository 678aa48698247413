package models

import (
	"time"

	"github.com/crm/backend/internal/domain/activity"
	"github.com/google/uuid"
)

// ActivityModel is the persistence model for the Activity domain entity
type ActivityModel struct {
	EntityModel
	Subject          string     `gorm:"type:varchar(100);not null"`
	Description      string     `gorm:"type:text"`
	ActivityTypeID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ActivityStatusID uuid.UUID  `gorm:"type:uuid;not null;index"`
	AccountID        *uuid.UUID `gorm:"type:uuid;index"`
	PersonID         *uuid.UUID `gorm:"type:uuid;index"`
	StartDate        time.Time  `gorm:"not null"`
	CompletionDate   *time.Time
}

// TableName returns the table name for GORM
func (ActivityModel) TableName() string {
	return "activities"
}

// ToDomain converts the persistence model to a domain Activity
func (m *ActivityModel) ToDomain() *activity.Activity {
	return &activity.Activity{
		BaseEntity:       m.EntityModel.ToDomain(),
		Subject:          m.Subject,
		Description:      m.Description,
		ActivityTypeID:   m.ActivityTypeID,
		ActivityStatusID: m.ActivityStatusID,
		AccountID:        m.AccountID,
		PersonID:         m.PersonID,
		StartDate:        m.StartDate.UTC(),
		CompletionDate:   timePtrUTC(m.CompletionDate),
	}
}

// FromDomain populates the persistence model from a domain Activity
func (m *ActivityModel) FromDomain(a *activity.Activity) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Subject = a.Subject
	m.Description = a.Description
	m.ActivityTypeID = a.ActivityTypeID
	m.ActivityStatusID = a.ActivityStatusID
	m.AccountID = a.AccountID
	m.PersonID = a.PersonID
	m.StartDate = a.StartDate.UTC()
	m.CompletionDate = timePtrUTC(a.CompletionDate)
}

// CallModel is the persistence model for the Call domain entity
type CallModel struct {
	EntityModel
	PersonID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	PhoneID         uuid.UUID  `gorm:"type:uuid;not null"`
	ActivityID      *uuid.UUID `gorm:"type:uuid"`
	Direction       string     `gorm:"type:varchar(10);not null"`
	CallDate        time.Time  `gorm:"not null"`
	DurationSeconds int        `gorm:"not null;default:0"`
	Notes           string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CallModel) TableName() string {
	return "calls"
}

// ToDomain converts the persistence model to a domain Call
func (m *CallModel) ToDomain() *activity.Call {
	return &activity.Call{
		BaseEntity:      m.EntityModel.ToDomain(),
		PersonID:        m.PersonID,
		PhoneID:         m.PhoneID,
		ActivityID:      m.ActivityID,
		Direction:       activity.Direction(m.Direction),
		CallDate:        m.CallDate.UTC(),
		DurationSeconds: m.DurationSeconds,
		Notes:           m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Call
func (m *CallModel) FromDomain(c *activity.Call) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.PersonID = c.PersonID
	m.PhoneID = c.PhoneID
	m.ActivityID = c.ActivityID
	m.Direction = string(c.Direction)
	m.CallDate = c.CallDate.UTC()
	m.DurationSeconds = c.DurationSeconds
	m.Notes = c.Notes
}
