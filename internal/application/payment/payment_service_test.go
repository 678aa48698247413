package payment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/account"
	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/payment"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	testActor    = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	testOrderID  = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	testAccount  = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	testMethodID = uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")
)

type fixture struct {
	service  *PaymentService
	repo     *testutil.MockPaymentRepository
	orders   *testutil.MockSalesOrderRepository
	accounts *testutil.MockAccountRepository
	lookups  *testutil.MockLookupRepository
	events   *testutil.RecordingPublisher
}

func newFixture() *fixture {
	f := &fixture{
		repo:     new(testutil.MockPaymentRepository),
		orders:   new(testutil.MockSalesOrderRepository),
		accounts: new(testutil.MockAccountRepository),
		lookups:  new(testutil.MockLookupRepository),
		events:   new(testutil.RecordingPublisher),
	}
	f.service = NewPaymentService(f.repo, f.orders, f.accounts, f.lookups, f.events, zap.NewNop())
	return f
}

func (f *fixture) expectRefs() {
	f.orders.On("Exists", mock.Anything, testOrderID).Return(true, nil)
	f.accounts.On("Exists", mock.Anything, testAccount).Return(true, nil)
	f.lookups.On("Exists", mock.Anything, lookup.KindPaymentMethod, testMethodID).Return(true, nil)
}

func validCreate() CreatePaymentCommand {
	return CreatePaymentCommand{
		SalesOrderID:    testOrderID,
		AccountID:       testAccount,
		PaymentMethodID: testMethodID,
		Amount:          decimal.RequireFromString("120.00"),
		PaymentDate:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ReferenceNumber: " CHK-42 ",
		CreatedBy:       testActor,
		ModifiedBy:      testActor,
	}
}

func TestPaymentService_Create_Success(t *testing.T) {
	f := newFixture()
	f.expectRefs()
	f.repo.On("Add", mock.Anything, mock.AnythingOfType("*payment.Payment")).Return(nil)
	order := sales.NewSalesOrder(sales.SalesOrderFields{OrderNumber: "SO-7", AccountID: testAccount, OrderDate: time.Now()}, testActor, testActor)
	order.ID = testOrderID
	acct := account.NewAccount(account.Fields{Name: "Acme Corporation"}, testActor, testActor)
	acct.ID = testAccount
	f.orders.On("GetByIDs", mock.Anything, []uuid.UUID{testOrderID}).Return([]sales.SalesOrder{*order}, nil)
	f.accounts.On("GetByIDs", mock.Anything, []uuid.UUID{testAccount}).Return([]account.Account{*acct}, nil)
	f.lookups.On("GetByIDs", mock.Anything, []uuid.UUID{testMethodID}).Return([]lookup.Lookup{
		{BaseEntity: shared.BaseEntity{ID: testMethodID}, Value: "Check"},
	}, nil)

	dto, err := f.service.Create(context.Background(), validCreate())

	require.NoError(t, err)
	assert.Equal(t, "CHK-42", dto.ReferenceNumber)
	assert.Equal(t, "120.00", dto.Amount.StringFixed(2))
	assert.Equal(t, "SO-7", dto.OrderNumber)
	assert.Equal(t, "Acme Corporation", dto.AccountName)
	assert.Equal(t, "Check", dto.PaymentMethod)
	require.Len(t, f.events.Changes(), 1)
	assert.Equal(t, "payment", f.events.Changes()[0].AggregateType())
}

func TestPaymentService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cmd *CreatePaymentCommand)
		field  string
	}{
		{"zero amount", func(cmd *CreatePaymentCommand) { cmd.Amount = decimal.Zero }, "amount"},
		{"negative amount", func(cmd *CreatePaymentCommand) { cmd.Amount = decimal.NewFromInt(-5) }, "amount"},
		{"reference too long", func(cmd *CreatePaymentCommand) { cmd.ReferenceNumber = strings.Repeat("r", 51) }, "reference_number"},
		{"notes too long", func(cmd *CreatePaymentCommand) { cmd.Notes = strings.Repeat("n", 1001) }, "notes"},
		{"missing payment date", func(cmd *CreatePaymentCommand) { cmd.PaymentDate = time.Time{} }, "payment_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.expectRefs()
			cmd := validCreate()
			tt.mutate(&cmd)

			_, err := f.service.Create(context.Background(), cmd)

			ve, ok := shared.AsValidationError(err)
			require.True(t, ok, "expected validation error, got %v", err)
			_, ok = ve.Field(tt.field)
			assert.True(t, ok)
			f.repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
		})
	}
}

func TestPaymentService_Create_UnknownMethod(t *testing.T) {
	f := newFixture()
	f.orders.On("Exists", mock.Anything, testOrderID).Return(true, nil)
	f.accounts.On("Exists", mock.Anything, testAccount).Return(true, nil)
	f.lookups.On("Exists", mock.Anything, lookup.KindPaymentMethod, testMethodID).Return(false, nil)

	_, err := f.service.Create(context.Background(), validCreate())

	ve, ok := shared.AsValidationError(err)
	require.True(t, ok)
	v, ok := ve.Field("payment_method_id")
	require.True(t, ok)
	assert.Equal(t, "payment_method_id references an unknown payment method", v.Message)
}

func TestPaymentService_GetBySalesOrder(t *testing.T) {
	f := newFixture()
	order := sales.NewSalesOrder(sales.SalesOrderFields{OrderNumber: "SO-7", AccountID: testAccount, OrderDate: time.Now()}, testActor, testActor)
	acct := account.NewAccount(account.Fields{Name: "Acme Corporation"}, testActor, testActor)
	p := payment.NewPayment(payment.Fields{
		SalesOrderID: order.ID, AccountID: acct.ID, PaymentMethodID: testMethodID,
		Amount: decimal.NewFromInt(50), PaymentDate: time.Now(),
	}, testActor, testActor)

	f.repo.On("GetBySalesOrderID", mock.Anything, order.ID).Return([]payment.Payment{*p}, nil)
	f.orders.On("GetByIDs", mock.Anything, []uuid.UUID{order.ID}).Return([]sales.SalesOrder{*order}, nil)
	f.accounts.On("GetByIDs", mock.Anything, []uuid.UUID{acct.ID}).Return([]account.Account{*acct}, nil)
	f.lookups.On("GetByIDs", mock.Anything, []uuid.UUID{testMethodID}).Return([]lookup.Lookup{
		{BaseEntity: shared.BaseEntity{ID: testMethodID}, Value: "Wire Transfer"},
	}, nil)

	items, err := f.service.GetBySalesOrder(context.Background(), order.ID)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SO-7", items[0].OrderNumber)
	assert.Equal(t, "Acme Corporation", items[0].AccountName)
	assert.Equal(t, "Wire Transfer", items[0].PaymentMethod)
}

func TestPaymentService_Delete_Missing(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	f.repo.On("GetByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	deleted, err := f.service.Delete(context.Background(), DeletePaymentCommand{ID: id, ModifiedBy: testActor})

	require.NoError(t, err)
	assert.False(t, deleted)
	f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	assert.Empty(t, f.events.Events())
}
