package testutil

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/account"
	"github.com/crm/backend/internal/domain/activity"
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/payment"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/google/uuid"
)

// MockAccountRepository is a testify mock of account.Repository
type MockAccountRepository struct {
	MockRepository[account.Account]
}

func (m *MockAccountRepository) GetByStatusID(ctx context.Context, statusID uuid.UUID) ([]account.Account, error) {
	args := m.Called(ctx, statusID)
	return sliceOf[account.Account](args.Get(0)), args.Error(1)
}

func (m *MockAccountRepository) GetByTypeID(ctx context.Context, typeID uuid.UUID) ([]account.Account, error) {
	args := m.Called(ctx, typeID)
	return sliceOf[account.Account](args.Get(0)), args.Error(1)
}

func (m *MockAccountRepository) ExistsByAccountNumber(ctx context.Context, number string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, number, excludeID)
	return args.Bool(0), args.Error(1)
}

// MockPersonRepository is a testify mock of contact.PersonRepository
type MockPersonRepository struct {
	MockRepository[contact.Person]
}

func (m *MockPersonRepository) GetByEmail(ctx context.Context, email string) (*contact.Person, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contact.Person), args.Error(1)
}

func (m *MockPersonRepository) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

// MockCompanyRepository is a testify mock of contact.CompanyRepository
type MockCompanyRepository struct {
	MockRepository[contact.Company]
}

func (m *MockCompanyRepository) GetByName(ctx context.Context, name string) (*contact.Company, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contact.Company), args.Error(1)
}

func (m *MockCompanyRepository) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

// MockAddressRepository is a testify mock of contact.AddressRepository
type MockAddressRepository struct {
	MockRepository[contact.Address]
}

func (m *MockAddressRepository) GetByTypeID(ctx context.Context, typeID uuid.UUID) ([]contact.Address, error) {
	args := m.Called(ctx, typeID)
	return sliceOf[contact.Address](args.Get(0)), args.Error(1)
}

// MockPhoneRepository is a testify mock of contact.PhoneRepository
type MockPhoneRepository struct {
	MockRepository[contact.Phone]
}

func (m *MockPhoneRepository) GetByTypeID(ctx context.Context, typeID uuid.UUID) ([]contact.Phone, error) {
	args := m.Called(ctx, typeID)
	return sliceOf[contact.Phone](args.Get(0)), args.Error(1)
}

// MockActivityRepository is a testify mock of activity.Repository
type MockActivityRepository struct {
	MockRepository[activity.Activity]
}

func (m *MockActivityRepository) GetByStatusID(ctx context.Context, statusID uuid.UUID) ([]activity.Activity, error) {
	args := m.Called(ctx, statusID)
	return sliceOf[activity.Activity](args.Get(0)), args.Error(1)
}

func (m *MockActivityRepository) GetByTypeID(ctx context.Context, typeID uuid.UUID) ([]activity.Activity, error) {
	args := m.Called(ctx, typeID)
	return sliceOf[activity.Activity](args.Get(0)), args.Error(1)
}

func (m *MockActivityRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]activity.Activity, error) {
	args := m.Called(ctx, accountID)
	return sliceOf[activity.Activity](args.Get(0)), args.Error(1)
}

// MockCallRepository is a testify mock of activity.CallRepository
type MockCallRepository struct {
	MockRepository[activity.Call]
}

func (m *MockCallRepository) GetByPersonID(ctx context.Context, personID uuid.UUID) ([]activity.Call, error) {
	args := m.Called(ctx, personID)
	return sliceOf[activity.Call](args.Get(0)), args.Error(1)
}

// MockProductRepository is a testify mock of sales.ProductRepository
type MockProductRepository struct {
	MockRepository[sales.Product]
}

func (m *MockProductRepository) GetByName(ctx context.Context, name string) (*sales.Product, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

// MockQuoteRepository is a testify mock of sales.QuoteRepository
type MockQuoteRepository struct {
	MockRepository[sales.Quote]
}

func (m *MockQuoteRepository) LoadLineItems(ctx context.Context, quote *sales.Quote) error {
	return m.Called(ctx, quote).Error(0)
}

func (m *MockQuoteRepository) GetByStatusID(ctx context.Context, statusID uuid.UUID) ([]sales.Quote, error) {
	args := m.Called(ctx, statusID)
	return sliceOf[sales.Quote](args.Get(0)), args.Error(1)
}

func (m *MockQuoteRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]sales.Quote, error) {
	args := m.Called(ctx, accountID)
	return sliceOf[sales.Quote](args.Get(0)), args.Error(1)
}

func (m *MockQuoteRepository) ExistsByQuoteNumber(ctx context.Context, number string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, number, excludeID)
	return args.Bool(0), args.Error(1)
}

// MockQuoteLineItemRepository is a testify mock of sales.QuoteLineItemRepository
type MockQuoteLineItemRepository struct {
	MockRepository[sales.QuoteLineItem]
}

func (m *MockQuoteLineItemRepository) GetByQuoteID(ctx context.Context, quoteID uuid.UUID) ([]sales.QuoteLineItem, error) {
	args := m.Called(ctx, quoteID)
	return sliceOf[sales.QuoteLineItem](args.Get(0)), args.Error(1)
}

// MockSalesOrderRepository is a testify mock of sales.SalesOrderRepository
type MockSalesOrderRepository struct {
	MockRepository[sales.SalesOrder]
}

func (m *MockSalesOrderRepository) GetByStatusID(ctx context.Context, statusID uuid.UUID) ([]sales.SalesOrder, error) {
	args := m.Called(ctx, statusID)
	return sliceOf[sales.SalesOrder](args.Get(0)), args.Error(1)
}

func (m *MockSalesOrderRepository) GetByOrderDateRange(ctx context.Context, from, to time.Time) ([]sales.SalesOrder, error) {
	args := m.Called(ctx, from, to)
	return sliceOf[sales.SalesOrder](args.Get(0)), args.Error(1)
}

func (m *MockSalesOrderRepository) ExistsByOrderNumber(ctx context.Context, number string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, number, excludeID)
	return args.Bool(0), args.Error(1)
}

// MockPaymentRepository is a testify mock of payment.Repository
type MockPaymentRepository struct {
	MockRepository[payment.Payment]
}

func (m *MockPaymentRepository) GetBySalesOrderID(ctx context.Context, salesOrderID uuid.UUID) ([]payment.Payment, error) {
	args := m.Called(ctx, salesOrderID)
	return sliceOf[payment.Payment](args.Get(0)), args.Error(1)
}

func (m *MockPaymentRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]payment.Payment, error) {
	args := m.Called(ctx, accountID)
	return sliceOf[payment.Payment](args.Get(0)), args.Error(1)
}

func sliceOf[T any](v any) []T {
	if v == nil {
		return nil
	}
	return v.([]T)
}
