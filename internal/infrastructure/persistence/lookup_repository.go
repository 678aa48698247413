package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLookupRepository implements lookup.Repository over the single lookups table.
// Kind-taking reads add a kind condition to every query.
type GormLookupRepository struct {
	*gormRepository[lookup.Lookup, models.LookupModel, *models.LookupModel]
}

// NewGormLookupRepository creates a new GormLookupRepository
func NewGormLookupRepository(db *gorm.DB) *GormLookupRepository {
	return &GormLookupRepository{
		gormRepository: newGormRepository[lookup.Lookup, models.LookupModel, *models.LookupModel](
			db, []string{"value"}, "value", "description"),
	}
}

func (r *GormLookupRepository) ofKind(ctx context.Context, kind lookup.Kind) *gorm.DB {
	return r.active(ctx).Where("kind = ?", string(kind))
}

// GetAll finds one page of active lookups of a kind
func (r *GormLookupRepository) GetAll(ctx context.Context, kind lookup.Kind, filter shared.Filter) ([]lookup.Lookup, error) {
	f := filter.Normalize()
	query := r.applyOrder(r.applySearch(r.ofKind(ctx, kind), f.Search), f)
	return r.find(query.Offset(f.Offset()).Limit(f.PageSize))
}

// Count counts active lookups of a kind
func (r *GormLookupRepository) Count(ctx context.Context, kind lookup.Kind, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applySearch(r.ofKind(ctx, kind), filter.Search).Count(&count).Error
	return count, err
}

// GetByValue finds the active lookup of a kind by its value, case-insensitively
func (r *GormLookupRepository) GetByValue(ctx context.Context, kind lookup.Kind, value string) (*lookup.Lookup, error) {
	return r.first(r.ofKind(ctx, kind).Where("value_key = ?", lookup.NormalizeValue(value)))
}

// GetByOrdinalPosition finds active lookups of a kind at a display position
func (r *GormLookupRepository) GetByOrdinalPosition(ctx context.Context, kind lookup.Kind, position int) ([]lookup.Lookup, error) {
	return r.find(r.ofKind(ctx, kind).Where("ordinal_position = ?", position).Order("value_key").Order("id"))
}

// Exists checks if an active lookup of a kind has the id
func (r *GormLookupRepository) Exists(ctx context.Context, kind lookup.Kind, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.ofKind(ctx, kind).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByValue checks if another active lookup of a kind has the value
func (r *GormLookupRepository) ExistsByValue(ctx context.Context, kind lookup.Kind, value string, excludeID uuid.UUID) (bool, error) {
	var count int64
	err := r.ofKind(ctx, kind).
		Where("value_key = ? AND id <> ?", lookup.NormalizeValue(value), excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ lookup.Repository = (*GormLookupRepository)(nil)
