package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/activity"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormActivityRepository implements activity.Repository using GORM
type GormActivityRepository struct {
	*gormRepository[activity.Activity, models.ActivityModel, *models.ActivityModel]
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{
		gormRepository: newGormRepository[activity.Activity, models.ActivityModel, *models.ActivityModel](
			db, []string{"subject", "start_date", "completion_date"}, "subject", "description"),
	}
}

// GetByStatusID finds active activities with the given status
func (r *GormActivityRepository) GetByStatusID(ctx context.Context, statusID uuid.UUID) ([]activity.Activity, error) {
	return r.findWhere(ctx, "start_date", "activity_status_id = ?", statusID)
}

// GetByTypeID finds active activities of the given type
func (r *GormActivityRepository) GetByTypeID(ctx context.Context, typeID uuid.UUID) ([]activity.Activity, error) {
	return r.findWhere(ctx, "start_date", "activity_type_id = ?", typeID)
}

// GetByAccountID finds active activities recorded against an account
func (r *GormActivityRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]activity.Activity, error) {
	return r.findWhere(ctx, "start_date", "account_id = ?", accountID)
}

// GormCallRepository implements activity.CallRepository using GORM
type GormCallRepository struct {
	*gormRepository[activity.Call, models.CallModel, *models.CallModel]
}

// NewGormCallRepository creates a new GormCallRepository
func NewGormCallRepository(db *gorm.DB) *GormCallRepository {
	return &GormCallRepository{
		gormRepository: newGormRepository[activity.Call, models.CallModel, *models.CallModel](
			db, []string{"call_date", "duration_seconds", "direction"}, "notes"),
	}
}

// GetByPersonID finds active calls with a person, most recent first
func (r *GormCallRepository) GetByPersonID(ctx context.Context, personID uuid.UUID) ([]activity.Call, error) {
	return r.findWhere(ctx, "call_date DESC", "person_id = ?", personID)
}

var (
	_ activity.Repository     = (*GormActivityRepository)(nil)
	_ activity.CallRepository = (*GormCallRepository)(nil)
)
