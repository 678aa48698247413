// Package activity models scheduled work against accounts and the calls made to contacts.
package activity

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Activity is a task, meeting or follow-up tracked against an account or person
type Activity struct {
	shared.BaseEntity
	Subject          string
	Description      string
	ActivityTypeID   uuid.UUID
	ActivityStatusID uuid.UUID
	AccountID        *uuid.UUID
	PersonID         *uuid.UUID
	StartDate        time.Time
	CompletionDate   *time.Time
}

// Fields are the caller-supplied attributes of an activity
type Fields struct {
	Subject          string
	Description      string
	ActivityTypeID   uuid.UUID
	ActivityStatusID uuid.UUID
	AccountID        *uuid.UUID
	PersonID         *uuid.UUID
	StartDate        time.Time
	CompletionDate   *time.Time
	OrdinalPosition  int
}

// NewActivity creates a new active activity
func NewActivity(f Fields, createdBy, modifiedBy uuid.UUID) *Activity {
	a := &Activity{BaseEntity: shared.NewBaseEntity(f.OrdinalPosition, createdBy, modifiedBy)}
	a.assign(f)
	return a
}

// Apply overwrites the caller-supplied attributes and stamps the actor
func (a *Activity) Apply(f Fields, actor uuid.UUID) {
	a.assign(f)
	a.OrdinalPosition = f.OrdinalPosition
	a.Touch(actor)
}

// IsCompleted reports whether a completion date is recorded
func (a *Activity) IsCompleted() bool {
	return a.CompletionDate != nil
}

func (a *Activity) assign(f Fields) {
	a.Subject = strings.TrimSpace(f.Subject)
	a.Description = f.Description
	a.ActivityTypeID = f.ActivityTypeID
	a.ActivityStatusID = f.ActivityStatusID
	a.AccountID = f.AccountID
	a.PersonID = f.PersonID
	a.StartDate = f.StartDate
	a.CompletionDate = f.CompletionDate
}
