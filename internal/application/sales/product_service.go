package sales

import (
	"context"
	"strings"

	"github.com/crm/backend/internal/application/cqrs"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService handles product catalog commands and queries
type ProductService struct {
	repo   sales.ProductRepository
	events shared.EventPublisher
	logger *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(repo sales.ProductRepository, events shared.EventPublisher, logger *zap.Logger) *ProductService {
	return &ProductService{repo: repo, events: events, logger: logger}
}

// Create adds a product
func (s *ProductService) Create(ctx context.Context, cmd CreateProductCommand) (*ProductDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "product.create", zap.String("correlation_id", cmd.CorrelationID))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("created_by", cmd.CreatedBy), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected product create")
	}
	if err := cqrs.Validate(ctx, cmd, s.checks(cmd.Name, cmd.UnitPrice, uuid.Nil)...); err != nil {
		return nil, op.Fail(err, "Product validation failed")
	}

	p := sales.NewProduct(cmd.fields(), cmd.CreatedBy, cmd.ModifiedBy)
	if err := s.repo.Add(ctx, p); err != nil {
		return nil, op.Fail(err, "Failed to create product")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged("product", p.ID, shared.ChangeCreated, cmd.CreatedBy))
	op.Succeed("Product created", zap.String("product_id", p.ID.String()))
	return ToProductDTO(p), nil
}

// Update replaces the editable fields of an active product
func (s *ProductService) Update(ctx context.Context, cmd UpdateProductCommand) (*ProductDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "product.update",
		zap.String("product_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected product update")
	}
	if err := cqrs.Validate(ctx, cmd, s.checks(cmd.Name, cmd.UnitPrice, cmd.ID)...); err != nil {
		return nil, op.Fail(err, "Product validation failed")
	}

	p, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, op.Fail(err, "Failed to load product")
	}
	p.Apply(cmd.fields(), cmd.ModifiedBy)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, op.Fail(err, "Failed to update product")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged("product", p.ID, shared.ChangeUpdated, cmd.ModifiedBy))
	op.Succeed("Product updated")
	return ToProductDTO(p), nil
}

// Delete retires a product; false when missing or already retired
func (s *ProductService) Delete(ctx context.Context, cmd DeleteCommand) (bool, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "product.delete",
		zap.String("product_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return false, op.Fail(err, "Rejected product delete")
	}
	return cqrs.Retire[sales.Product](ctx, op, s.repo, s.events, "product", cmd.ID, cmd.ModifiedBy)
}

// GetByID returns a product
func (s *ProductService) GetByID(ctx context.Context, q GetByIDQuery) (*ProductDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "product.get_by_id", zap.String("product_id", q.ID.String()))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", q.ID)); err != nil {
		return nil, op.Fail(err, "Rejected product query")
	}
	p, err := cqrs.Load[sales.Product](ctx, s.repo, q.ID, q.IncludeRetired)
	if err != nil {
		return nil, op.Fail(err, "Failed to get product")
	}

	op.Succeed("Product fetched")
	return ToProductDTO(p), nil
}

// List pages through active products
func (s *ProductService) List(ctx context.Context, q ListQuery) (*shared.Paginated[ProductSummary], error) {
	ctx, op := cqrs.Start(ctx, s.logger, "product.list")
	defer op.End()

	page, err := cqrs.Page[sales.Product, ProductSummary](ctx, s.repo, q.Filter, cqrs.Plain(ToProductSummary))
	if err != nil {
		return nil, op.Fail(err, "Failed to list products")
	}

	op.Succeed("Products listed", zap.Int("count", len(page.Items)))
	return page, nil
}

// GetByName finds the active product with a name, case-insensitively
func (s *ProductService) GetByName(ctx context.Context, q GetProductByNameQuery) (*ProductDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "product.get_by_name", zap.String("name", q.Name))
	defer op.End()

	if err := cqrs.Validate(ctx, q); err != nil {
		return nil, op.Fail(err, "Product query validation failed")
	}
	p, err := s.repo.GetByName(ctx, strings.TrimSpace(q.Name))
	if err != nil {
		return nil, op.Fail(err, "Failed to get product by name")
	}

	op.Succeed("Product fetched")
	return ToProductDTO(p), nil
}

func (s *ProductService) checks(name string, price decimal.Decimal, excludeID uuid.UUID) []cqrs.Check {
	name = strings.TrimSpace(name)
	return []cqrs.Check{
		cqrs.DecimalAtLeast("unit_price", price, decimal.Zero),
		cqrs.Unique("name", "a product named "+name+" already exists", func(ctx context.Context) (bool, error) {
			return s.repo.ExistsByName(ctx, name, excludeID)
		}),
	}
}
