package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/account"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAccountRepository implements account.Repository using GORM
type GormAccountRepository struct {
	*gormRepository[account.Account, models.AccountModel, *models.AccountModel]
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{
		gormRepository: newGormRepository[account.Account, models.AccountModel, *models.AccountModel](
			db, []string{"name", "account_number"}, "name", "account_number", "description"),
	}
}

// GetByStatusID finds active accounts with the given status
func (r *GormAccountRepository) GetByStatusID(ctx context.Context, statusID uuid.UUID) ([]account.Account, error) {
	return r.findWhere(ctx, "ordinal_position", "account_status_id = ?", statusID)
}

// GetByTypeID finds active accounts with the given type
func (r *GormAccountRepository) GetByTypeID(ctx context.Context, typeID uuid.UUID) ([]account.Account, error) {
	return r.findWhere(ctx, "ordinal_position", "account_type_id = ?", typeID)
}

// ExistsByAccountNumber checks if another active account uses the number
func (r *GormAccountRepository) ExistsByAccountNumber(ctx context.Context, number string, excludeID uuid.UUID) (bool, error) {
	return r.existsOther(ctx, "account_number", number, excludeID)
}

// Ensure GormAccountRepository implements account.Repository
var _ account.Repository = (*GormAccountRepository)(nil)
