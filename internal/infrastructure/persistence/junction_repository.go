package persistence

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormJunctionRepository implements shared.JunctionRepository for one many-to-many table.
// Its two key columns are read back as first_id and second_id.
type GormJunctionRepository struct {
	db     *gorm.DB
	table  string
	first  string
	second string
}

// NewGormJunctionRepository creates a junction repository over table keyed by (first, second)
func NewGormJunctionRepository(db *gorm.DB, table, first, second string) *GormJunctionRepository {
	return &GormJunctionRepository{db: db, table: table, first: first, second: second}
}

// NewContactJunctionRepository creates the repository behind one contact association
func NewContactJunctionRepository(db *gorm.DB, a contact.Association) *GormJunctionRepository {
	switch a {
	case contact.PersonPhones:
		return NewGormJunctionRepository(db, string(a), "person_id", "phone_id")
	case contact.CompanyPhones:
		return NewGormJunctionRepository(db, string(a), "company_id", "phone_id")
	case contact.PersonAddresses:
		return NewGormJunctionRepository(db, string(a), "person_id", "address_id")
	case contact.CompanyAddresses:
		return NewGormJunctionRepository(db, string(a), "company_id", "address_id")
	}
	panic("unknown contact association: " + string(a))
}

func (r *GormJunctionRepository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.table).Select(
		r.first+" AS first_id", r.second+" AS second_id",
		"lifecycle", "created_by", "created_date", "modified_by", "modified_date",
	)
}

func (r *GormJunctionRepository) key(q *gorm.DB, firstID, secondID uuid.UUID) *gorm.DB {
	return q.Where(r.first+" = ? AND "+r.second+" = ?", firstID, secondID)
}

// GetByID returns the active link or shared.ErrNotFound
func (r *GormJunctionRepository) GetByID(ctx context.Context, firstID, secondID uuid.UUID) (*shared.Junction, error) {
	return r.take(r.key(r.query(ctx), firstID, secondID).Where("lifecycle = ?", lifecycleActive))
}

// GetAnyByID returns the link in any lifecycle state or shared.ErrNotFound
func (r *GormJunctionRepository) GetAnyByID(ctx context.Context, firstID, secondID uuid.UUID) (*shared.Junction, error) {
	return r.take(r.key(r.query(ctx), firstID, secondID))
}

// GetByFirstID lists the active links of a first key
func (r *GormJunctionRepository) GetByFirstID(ctx context.Context, firstID uuid.UUID) ([]shared.Junction, error) {
	return r.find(r.query(ctx).Where(r.first+" = ? AND lifecycle = ?", firstID, lifecycleActive))
}

// GetBySecondID lists the active links of a second key
func (r *GormJunctionRepository) GetBySecondID(ctx context.Context, secondID uuid.UUID) ([]shared.Junction, error) {
	return r.find(r.query(ctx).Where(r.second+" = ? AND lifecycle = ?", secondID, lifecycleActive))
}

// GetAll lists every active link
func (r *GormJunctionRepository) GetAll(ctx context.Context) ([]shared.Junction, error) {
	return r.find(r.query(ctx).Where("lifecycle = ?", lifecycleActive))
}

// Add inserts a new link
func (r *GormJunctionRepository) Add(ctx context.Context, link *shared.Junction) error {
	return r.db.WithContext(ctx).Table(r.table).Create(map[string]any{
		r.first:         link.FirstID,
		r.second:        link.SecondID,
		"lifecycle":     link.Lifecycle.String(),
		"created_by":    link.CreatedBy,
		"created_date":  link.CreatedDate.UTC(),
		"modified_by":   link.ModifiedBy,
		"modified_date": link.ModifiedDate.UTC(),
	}).Error
}

// Update persists lifecycle and audit changes of an existing link
func (r *GormJunctionRepository) Update(ctx context.Context, link *shared.Junction) error {
	result := r.key(r.db.WithContext(ctx).Table(r.table), link.FirstID, link.SecondID).
		Updates(map[string]any{
			"lifecycle":     link.Lifecycle.String(),
			"modified_by":   link.ModifiedBy,
			"modified_date": link.ModifiedDate.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete persists a retirement; false when the link was no longer active
func (r *GormJunctionRepository) Delete(ctx context.Context, link *shared.Junction) (bool, error) {
	result := r.key(r.db.WithContext(ctx).Table(r.table), link.FirstID, link.SecondID).
		Where("lifecycle = ?", lifecycleActive).
		Updates(map[string]any{
			"lifecycle":     lifecycleRetired,
			"modified_by":   link.ModifiedBy,
			"modified_date": link.ModifiedDate.UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *GormJunctionRepository) take(q *gorm.DB) (*shared.Junction, error) {
	var row models.JunctionModel
	if err := q.Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

func (r *GormJunctionRepository) find(q *gorm.DB) ([]shared.Junction, error) {
	var rows []models.JunctionModel
	if err := q.Order("created_date").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]shared.Junction, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var _ shared.JunctionRepository = (*GormJunctionRepository)(nil)
