package activity

import (
	"time"

	"github.com/crm/backend/internal/application/cqrs"
	"github.com/crm/backend/internal/domain/activity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CreateActivityCommand represents a request to create an activity
type CreateActivityCommand struct {
	Subject          string     `json:"subject" validate:"required,notblank,max=100"`
	Description      string     `json:"description" validate:"max=4000"`
	ActivityTypeID   uuid.UUID  `json:"activity_type_id" validate:"required"`
	ActivityStatusID uuid.UUID  `json:"activity_status_id" validate:"required"`
	AccountID        *uuid.UUID `json:"account_id"`
	PersonID         *uuid.UUID `json:"person_id"`
	StartDate        time.Time  `json:"start_date" validate:"required"`
	CompletionDate   *time.Time `json:"completion_date"`
	OrdinalPosition  int        `json:"ordinal_position" validate:"min=0"`
	CreatedBy        uuid.UUID  `json:"-"`
	ModifiedBy       uuid.UUID  `json:"-"`
	CorrelationID    string     `json:"-"`
}

// UpdateActivityCommand replaces the editable fields of an activity
type UpdateActivityCommand struct {
	ID               uuid.UUID  `json:"-"`
	Subject          string     `json:"subject" validate:"required,notblank,max=100"`
	Description      string     `json:"description" validate:"max=4000"`
	ActivityTypeID   uuid.UUID  `json:"activity_type_id" validate:"required"`
	ActivityStatusID uuid.UUID  `json:"activity_status_id" validate:"required"`
	AccountID        *uuid.UUID `json:"account_id"`
	PersonID         *uuid.UUID `json:"person_id"`
	StartDate        time.Time  `json:"start_date" validate:"required"`
	CompletionDate   *time.Time `json:"completion_date"`
	OrdinalPosition  int        `json:"ordinal_position" validate:"min=0"`
	ModifiedBy       uuid.UUID  `json:"-"`
	CorrelationID    string     `json:"-"`
}

// CreateCallCommand represents a request to log a call
type CreateCallCommand struct {
	PersonID        uuid.UUID          `json:"person_id" validate:"required"`
	PhoneID         uuid.UUID          `json:"phone_id" validate:"required"`
	ActivityID      *uuid.UUID         `json:"activity_id"`
	Direction       activity.Direction `json:"direction" validate:"required,oneof=inbound outbound"`
	CallDate        time.Time          `json:"call_date" validate:"required"`
	DurationSeconds int                `json:"duration_seconds" validate:"min=0"`
	Notes           string             `json:"notes" validate:"max=4000"`
	OrdinalPosition int                `json:"ordinal_position" validate:"min=0"`
	CreatedBy       uuid.UUID          `json:"-"`
	ModifiedBy      uuid.UUID          `json:"-"`
	CorrelationID   string             `json:"-"`
}

// UpdateCallCommand replaces the editable fields of a call
type UpdateCallCommand struct {
	ID              uuid.UUID          `json:"-"`
	PersonID        uuid.UUID          `json:"person_id" validate:"required"`
	PhoneID         uuid.UUID          `json:"phone_id" validate:"required"`
	ActivityID      *uuid.UUID         `json:"activity_id"`
	Direction       activity.Direction `json:"direction" validate:"required,oneof=inbound outbound"`
	CallDate        time.Time          `json:"call_date" validate:"required"`
	DurationSeconds int                `json:"duration_seconds" validate:"min=0"`
	Notes           string             `json:"notes" validate:"max=4000"`
	OrdinalPosition int                `json:"ordinal_position" validate:"min=0"`
	ModifiedBy      uuid.UUID          `json:"-"`
	CorrelationID   string             `json:"-"`
}

// DeleteCommand retires an activity or call
type DeleteCommand struct {
	ID            uuid.UUID
	ModifiedBy    uuid.UUID
	CorrelationID string
}

// GetByIDQuery fetches one activity or call
type GetByIDQuery struct {
	ID             uuid.UUID
	IncludeRetired bool
}

// ListQuery pages through active records
type ListQuery struct {
	Filter shared.Filter
}

// GetByLookupQuery selects activities by a status or type value, e.g. "Completed"
type GetByLookupQuery struct {
	Value string `validate:"required,max=50"`
}

// ActivityDTO is the details shape of an activity
type ActivityDTO struct {
	ID               uuid.UUID  `json:"id"`
	Subject          string     `json:"subject"`
	Description      string     `json:"description"`
	ActivityTypeID   uuid.UUID  `json:"activity_type_id"`
	ActivityType     string     `json:"activity_type"`
	ActivityStatusID uuid.UUID  `json:"activity_status_id"`
	ActivityStatus   string     `json:"activity_status"`
	AccountID        *uuid.UUID `json:"account_id,omitempty"`
	AccountName      string     `json:"account_name,omitempty"`
	PersonID         *uuid.UUID `json:"person_id,omitempty"`
	PersonName       string     `json:"person_name,omitempty"`
	StartDate        time.Time  `json:"start_date"`
	CompletionDate   *time.Time `json:"completion_date,omitempty"`
	Completed        bool       `json:"completed"`
	cqrs.AuditDTO
}

// ActivitySummary is the list shape of an activity
type ActivitySummary struct {
	ID              uuid.UUID `json:"id"`
	Subject         string    `json:"subject"`
	ActivityType    string    `json:"activity_type"`
	ActivityStatus  string    `json:"activity_status"`
	AccountName     string    `json:"account_name,omitempty"`
	PersonName      string    `json:"person_name,omitempty"`
	StartDate       time.Time `json:"start_date"`
	Completed       bool      `json:"completed"`
	OrdinalPosition int       `json:"ordinal_position"`
	Active          bool      `json:"active"`
}

// CallDTO is the details shape of a call
type CallDTO struct {
	ID              uuid.UUID          `json:"id"`
	PersonID        uuid.UUID          `json:"person_id"`
	PersonName      string             `json:"person_name"`
	PhoneID         uuid.UUID          `json:"phone_id"`
	ActivityID      *uuid.UUID         `json:"activity_id,omitempty"`
	Direction       activity.Direction `json:"direction"`
	CallDate        time.Time          `json:"call_date"`
	DurationSeconds int                `json:"duration_seconds"`
	Notes           string             `json:"notes"`
	cqrs.AuditDTO
}

// CallSummary is the list shape of a call
type CallSummary struct {
	ID              uuid.UUID          `json:"id"`
	PersonName      string             `json:"person_name"`
	Direction       activity.Direction `json:"direction"`
	CallDate        time.Time          `json:"call_date"`
	DurationSeconds int                `json:"duration_seconds"`
	OrdinalPosition int                `json:"ordinal_position"`
	Active          bool               `json:"active"`
}

// ToActivityDTO maps an activity to its details DTO. Names are filled by the caller.
func ToActivityDTO(a *activity.Activity) *ActivityDTO {
	return &ActivityDTO{
		ID:               a.ID,
		Subject:          a.Subject,
		Description:      a.Description,
		ActivityTypeID:   a.ActivityTypeID,
		ActivityStatusID: a.ActivityStatusID,
		AccountID:        a.AccountID,
		PersonID:         a.PersonID,
		StartDate:        a.StartDate,
		CompletionDate:   a.CompletionDate,
		Completed:        a.IsCompleted(),
		AuditDTO:         cqrs.ToAuditDTO(&a.BaseEntity),
	}
}

// ToActivitySummary maps an activity to its list DTO. Names are filled by the caller.
func ToActivitySummary(a *activity.Activity) ActivitySummary {
	return ActivitySummary{
		ID:              a.ID,
		Subject:         a.Subject,
		StartDate:       a.StartDate,
		Completed:       a.IsCompleted(),
		OrdinalPosition: a.OrdinalPosition,
		Active:          a.IsActive(),
	}
}

// ToCallDTO maps a call to its details DTO
func ToCallDTO(c *activity.Call) *CallDTO {
	return &CallDTO{
		ID:              c.ID,
		PersonID:        c.PersonID,
		PhoneID:         c.PhoneID,
		ActivityID:      c.ActivityID,
		Direction:       c.Direction,
		CallDate:        c.CallDate,
		DurationSeconds: c.DurationSeconds,
		Notes:           c.Notes,
		AuditDTO:        cqrs.ToAuditDTO(&c.BaseEntity),
	}
}

// ToCallSummary maps a call to its list DTO
func ToCallSummary(c *activity.Call) CallSummary {
	return CallSummary{
		ID:              c.ID,
		Direction:       c.Direction,
		CallDate:        c.CallDate,
		DurationSeconds: c.DurationSeconds,
		OrdinalPosition: c.OrdinalPosition,
		Active:          c.IsActive(),
	}
}

func (c CreateActivityCommand) fields() activity.Fields {
	return activity.Fields{
		Subject: c.Subject, Description: c.Description,
		ActivityTypeID: c.ActivityTypeID, ActivityStatusID: c.ActivityStatusID,
		AccountID: c.AccountID, PersonID: c.PersonID,
		StartDate: c.StartDate, CompletionDate: c.CompletionDate,
		OrdinalPosition: c.OrdinalPosition,
	}
}

func (c UpdateActivityCommand) fields() activity.Fields {
	return activity.Fields{
		Subject: c.Subject, Description: c.Description,
		ActivityTypeID: c.ActivityTypeID, ActivityStatusID: c.ActivityStatusID,
		AccountID: c.AccountID, PersonID: c.PersonID,
		StartDate: c.StartDate, CompletionDate: c.CompletionDate,
		OrdinalPosition: c.OrdinalPosition,
	}
}

func (c CreateCallCommand) fields() activity.CallFields {
	return activity.CallFields{
		PersonID: c.PersonID, PhoneID: c.PhoneID, ActivityID: c.ActivityID,
		Direction: c.Direction, CallDate: c.CallDate, DurationSeconds: c.DurationSeconds,
		Notes: c.Notes, OrdinalPosition: c.OrdinalPosition,
	}
}

func (c UpdateCallCommand) fields() activity.CallFields {
	return activity.CallFields{
		PersonID: c.PersonID, PhoneID: c.PhoneID, ActivityID: c.ActivityID,
		Direction: c.Direction, CallDate: c.CallDate, DurationSeconds: c.DurationSeconds,
		Notes: c.Notes, OrdinalPosition: c.OrdinalPosition,
	}
}
