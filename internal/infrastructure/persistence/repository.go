package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	lifecycleActive  = shared.LifecycleActive.String()
	lifecycleRetired = shared.LifecycleRetired.String()
)

// model ties a GORM model to the domain entity it stores
type model[T, M any] interface {
	*M
	ToDomain() *T
	FromDomain(*T)
	Entity() *models.EntityModel
}

// gormRepository implements shared.Repository for any entity whose table carries the
// EntityModel columns. Entity repositories embed it and add their finders.
type gormRepository[T, M any, PM model[T, M]] struct {
	db         *gorm.DB
	sortFields map[string]bool
	searchable []string
}

func newGormRepository[T, M any, PM model[T, M]](db *gorm.DB, sortFields []string, searchable ...string) *gormRepository[T, M, PM] {
	return &gormRepository[T, M, PM]{
		db:         db,
		sortFields: SortFields(sortFields...),
		searchable: searchable,
	}
}

// active scopes a query to the model's table and to rows visible to default reads
func (r *gormRepository[T, M, PM]) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(new(M)).Where("lifecycle = ?", lifecycleActive)
}

// GetByID returns the active record or shared.ErrNotFound
func (r *gormRepository[T, M, PM]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return r.first(r.active(ctx).Where("id = ?", id))
}

// GetAnyByID returns the record in any lifecycle state
func (r *gormRepository[T, M, PM]) GetAnyByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return r.first(r.db.WithContext(ctx).Model(new(M)).Where("id = ?", id))
}

// GetByIDs returns the active records among ids
func (r *gormRepository[T, M, PM]) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	return r.find(r.active(ctx).Where("id IN ?", ids))
}

// GetAll returns one page of active records
func (r *gormRepository[T, M, PM]) GetAll(ctx context.Context, filter shared.Filter) ([]T, error) {
	f := filter.Normalize()
	query := r.applyOrder(r.applySearch(r.active(ctx), f.Search), f)
	return r.find(query.Offset(f.Offset()).Limit(f.PageSize))
}

// Count counts the active records matching the filter's search term
func (r *gormRepository[T, M, PM]) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applySearch(r.active(ctx), filter.Search).Count(&count).Error
	return count, err
}

// Exists reports whether an active record has the id
func (r *gormRepository[T, M, PM]) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.active(ctx).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Add inserts a new record
func (r *gormRepository[T, M, PM]) Add(ctx context.Context, entity *T) error {
	var m M
	PM(&m).FromDomain(entity)
	return r.db.WithContext(ctx).Create(&m).Error
}

// Update overwrites every column of an active record except its identity and creation stamp
func (r *gormRepository[T, M, PM]) Update(ctx context.Context, entity *T) error {
	var m M
	PM(&m).FromDomain(entity)
	result := r.db.WithContext(ctx).Model(&m).
		Where("lifecycle = ?", lifecycleActive).
		Select("*").
		Omit("id", "created_by", "created_date").
		Updates(&m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete persists a retirement. The row is only touched while still active, so two concurrent
// deletes cannot both succeed.
func (r *gormRepository[T, M, PM]) Delete(ctx context.Context, entity *T) (bool, error) {
	var m M
	PM(&m).FromDomain(entity)
	base := PM(&m).Entity()
	result := r.active(ctx).Where("id = ?", base.ID).Updates(map[string]any{
		"lifecycle":     lifecycleRetired,
		"modified_by":   base.ModifiedBy,
		"modified_date": base.ModifiedDate,
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// findWhere lists active records matching a condition in the given order
func (r *gormRepository[T, M, PM]) findWhere(ctx context.Context, order string, query string, args ...any) ([]T, error) {
	return r.find(r.active(ctx).Where(query, args...).Order(order).Order("id"))
}

// firstWhere returns the first active record matching a condition
func (r *gormRepository[T, M, PM]) firstWhere(ctx context.Context, query string, args ...any) (*T, error) {
	return r.first(r.active(ctx).Where(query, args...))
}

// existsOther reports whether another active record has the value in column, case-insensitively
func (r *gormRepository[T, M, PM]) existsOther(ctx context.Context, column, value string, excludeID uuid.UUID) (bool, error) {
	var count int64
	err := r.active(ctx).
		Where("LOWER("+column+") = LOWER(?) AND id <> ?", strings.TrimSpace(value), excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormRepository[T, M, PM]) first(query *gorm.DB) (*T, error) {
	var m M
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return PM(&m).ToDomain(), nil
}

func (r *gormRepository[T, M, PM]) find(query *gorm.DB) ([]T, error) {
	var rows []M
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]T, len(rows))
	for i := range rows {
		out[i] = *PM(&rows[i]).ToDomain()
	}
	return out, nil
}

// applySearch matches the term against the searchable columns, case-insensitively
func (r *gormRepository[T, M, PM]) applySearch(query *gorm.DB, search string) *gorm.DB {
	term := strings.TrimSpace(search)
	if term == "" || len(r.searchable) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(term) + "%"
	conds := make([]string, len(r.searchable))
	args := make([]any, len(r.searchable))
	for i, col := range r.searchable {
		conds[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where(strings.Join(conds, " OR "), args...)
}

// applyOrder sorts by a whitelisted column, falling back to ordinal_position; id breaks ties
func (r *gormRepository[T, M, PM]) applyOrder(query *gorm.DB, f shared.Filter) *gorm.DB {
	col := ValidateSortField(f.OrderBy, r.sortFields, "ordinal_position")
	return query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: ValidateSortOrder(f.OrderDir) == "DESC"}).
		Order("id")
}
