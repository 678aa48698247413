package persistence

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSalesOrderRepository implements sales.SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	*gormRepository[sales.SalesOrder, models.SalesOrderModel, *models.SalesOrderModel]
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{
		gormRepository: newGormRepository[sales.SalesOrder, models.SalesOrderModel, *models.SalesOrderModel](
			db, []string{"order_number", "order_date", "ship_date", "total_amount"}, "order_number", "notes"),
	}
}

// GetByStatusID finds active orders with the given status
func (r *GormSalesOrderRepository) GetByStatusID(ctx context.Context, statusID uuid.UUID) ([]sales.SalesOrder, error) {
	return r.findWhere(ctx, "order_date", "sales_order_status_id = ?", statusID)
}

// GetByOrderDateRange finds active orders with from <= order date <= to
func (r *GormSalesOrderRepository) GetByOrderDateRange(ctx context.Context, from, to time.Time) ([]sales.SalesOrder, error) {
	return r.findWhere(ctx, "order_date", "order_date >= ? AND order_date <= ?", from.UTC(), to.UTC())
}

// ExistsByOrderNumber checks if another active order uses the number
func (r *GormSalesOrderRepository) ExistsByOrderNumber(ctx context.Context, number string, excludeID uuid.UUID) (bool, error) {
	return r.existsOther(ctx, "order_number", number, excludeID)
}

var _ sales.SalesOrderRepository = (*GormSalesOrderRepository)(nil)
