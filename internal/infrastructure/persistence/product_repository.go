package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements sales.ProductRepository using GORM
type GormProductRepository struct {
	*gormRepository[sales.Product, models.ProductModel, *models.ProductModel]
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{
		gormRepository: newGormRepository[sales.Product, models.ProductModel, *models.ProductModel](
			db, []string{"name", "sku", "unit_price"}, "name", "sku", "description"),
	}
}

// GetByName finds the active product with the name, case-insensitively
func (r *GormProductRepository) GetByName(ctx context.Context, name string) (*sales.Product, error) {
	return r.firstWhere(ctx, "LOWER(name) = LOWER(?)", name)
}

// ExistsByName checks if another active product uses the name
func (r *GormProductRepository) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	return r.existsOther(ctx, "name", name, excludeID)
}

var _ sales.ProductRepository = (*GormProductRepository)(nil)
