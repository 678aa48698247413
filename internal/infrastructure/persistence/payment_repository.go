package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/payment"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentRepository implements payment.Repository using GORM
type GormPaymentRepository struct {
	*gormRepository[payment.Payment, models.PaymentModel, *models.PaymentModel]
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{
		gormRepository: newGormRepository[payment.Payment, models.PaymentModel, *models.PaymentModel](
			db, []string{"payment_date", "amount", "reference_number"}, "reference_number", "notes"),
	}
}

// GetBySalesOrderID finds active payments against an order, oldest first
func (r *GormPaymentRepository) GetBySalesOrderID(ctx context.Context, salesOrderID uuid.UUID) ([]payment.Payment, error) {
	return r.findWhere(ctx, "payment_date", "sales_order_id = ?", salesOrderID)
}

// GetByAccountID finds active payments made by an account, oldest first
func (r *GormPaymentRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]payment.Payment, error) {
	return r.findWhere(ctx, "payment_date", "account_id = ?", accountID)
}

var _ payment.Repository = (*GormPaymentRepository)(nil)
