package account

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/crm/backend/internal/domain/account"
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	service   *AccountService
	repo      *testutil.MockAccountRepository
	lookups   *testutil.MockLookupRepository
	companies *testutil.MockCompanyRepository
	events    *testutil.RecordingPublisher
}

func newFixture() *fixture {
	f := &fixture{
		repo:      new(testutil.MockAccountRepository),
		lookups:   new(testutil.MockLookupRepository),
		companies: new(testutil.MockCompanyRepository),
		events:    new(testutil.RecordingPublisher),
	}
	f.service = NewAccountService(f.repo, f.lookups, f.companies, f.events, zap.NewNop())
	return f
}

var (
	testActor    = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	testStatusID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	testTypeID   = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

func (f *fixture) expectLookups(statusOK, typeOK bool) {
	f.lookups.On("Exists", mock.Anything, lookup.KindAccountStatus, testStatusID).Return(statusOK, nil)
	f.lookups.On("Exists", mock.Anything, lookup.KindAccountType, testTypeID).Return(typeOK, nil)
}

// expectNames serves the status and type values the details shape resolves
func (f *fixture) expectNames() {
	status := lookup.Lookup{Kind: lookup.KindAccountStatus, Value: "Active"}
	status.ID = testStatusID
	kind := lookup.Lookup{Kind: lookup.KindAccountType, Value: "Customer"}
	kind.ID = testTypeID
	f.lookups.On("GetByIDs", mock.Anything, []uuid.UUID{testStatusID, testTypeID}).Return([]lookup.Lookup{status, kind}, nil)
}

func validCreate() CreateAccountCommand {
	return CreateAccountCommand{
		Name:            "Acme Corporation",
		AccountStatusID: testStatusID,
		AccountTypeID:   testTypeID,
		CreatedBy:       testActor,
		ModifiedBy:      testActor,
	}
}

func createTestAccount() *account.Account {
	return account.NewAccount(account.Fields{
		Name:            "Acme Corporation",
		AccountNumber:   "AC-001",
		AccountStatusID: testStatusID,
		AccountTypeID:   testTypeID,
	}, testActor, testActor)
}

func TestAccountService_Create_Success(t *testing.T) {
	f := newFixture()
	f.expectLookups(true, true)
	f.expectNames()
	f.repo.On("Add", mock.Anything, mock.AnythingOfType("*account.Account")).Return(nil)

	result, err := f.service.Create(context.Background(), validCreate())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.ID)
	assert.Equal(t, "Acme Corporation", result.Name)
	assert.Equal(t, "Active", result.AccountStatus)
	assert.Equal(t, "Customer", result.AccountType)
	assert.True(t, result.Active)
	assert.Equal(t, result.CreatedDate, result.ModifiedDate)
	require.Len(t, f.events.Changes(), 1)
	assert.Equal(t, "account", f.events.Changes()[0].AggregateType())
	f.repo.AssertExpectations(t)
}

func TestAccountService_Create_Validation(t *testing.T) {
	t.Run("name at max length passes", func(t *testing.T) {
		f := newFixture()
		f.expectLookups(true, true)
		f.expectNames()
		f.repo.On("Add", mock.Anything, mock.Anything).Return(nil)

		cmd := validCreate()
		cmd.Name = strings.Repeat("n", 100)
		_, err := f.service.Create(context.Background(), cmd)
		assert.NoError(t, err)
	})

	t.Run("name over max length fails", func(t *testing.T) {
		f := newFixture()
		cmd := validCreate()
		cmd.Name = strings.Repeat("n", 101)

		_, err := f.service.Create(context.Background(), cmd)

		ve, ok := shared.AsValidationError(err)
		require.True(t, ok)
		_, ok = ve.Field("name")
		assert.True(t, ok)
		f.repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newFixture()
		f.expectLookups(false, true)

		_, err := f.service.Create(context.Background(), validCreate())

		ve, ok := shared.AsValidationError(err)
		require.True(t, ok)
		v, ok := ve.Field("account_status_id")
		require.True(t, ok)
		assert.Equal(t, "account_status_id references an unknown account status", v.Message)
	})

	t.Run("unknown company", func(t *testing.T) {
		f := newFixture()
		f.expectLookups(true, true)
		companyID := uuid.New()
		f.companies.On("Exists", mock.Anything, companyID).Return(false, nil)

		cmd := validCreate()
		cmd.CompanyID = &companyID
		_, err := f.service.Create(context.Background(), cmd)

		ve, ok := shared.AsValidationError(err)
		require.True(t, ok)
		_, ok = ve.Field("company_id")
		assert.True(t, ok)
	})

	t.Run("duplicate account number", func(t *testing.T) {
		f := newFixture()
		f.expectLookups(true, true)
		f.repo.On("ExistsByAccountNumber", mock.Anything, "AC-001", uuid.Nil).Return(true, nil)

		cmd := validCreate()
		cmd.AccountNumber = " AC-001 "
		_, err := f.service.Create(context.Background(), cmd)

		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	})

	t.Run("missing actor", func(t *testing.T) {
		f := newFixture()
		cmd := validCreate()
		cmd.ModifiedBy = uuid.Nil

		_, err := f.service.Create(context.Background(), cmd)

		assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
	})
}

func TestAccountService_Update_PreservesCreated(t *testing.T) {
	f := newFixture()
	existing := createTestAccount()
	created := existing.CreatedDate
	editor := uuid.New()

	f.expectLookups(true, true)
	f.expectNames()
	f.repo.On("ExistsByAccountNumber", mock.Anything, "AC-002", existing.ID).Return(false, nil)
	f.repo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
	f.repo.On("Update", mock.Anything, existing).Return(nil)

	result, err := f.service.Update(context.Background(), UpdateAccountCommand{
		ID:              existing.ID,
		Name:            "Acme Holdings",
		AccountNumber:   "AC-002",
		AccountStatusID: testStatusID,
		AccountTypeID:   testTypeID,
		ModifiedBy:      editor,
	})

	require.NoError(t, err)
	assert.Equal(t, "Acme Holdings", result.Name)
	assert.Equal(t, "AC-002", result.AccountNumber)
	assert.Equal(t, testActor, result.CreatedBy)
	assert.Equal(t, created, result.CreatedDate)
	assert.Equal(t, editor, result.ModifiedBy)
	assert.True(t, result.ModifiedDate.After(created))
	assert.Equal(t, "Active", result.AccountStatus)
}

func TestAccountService_Create_NameResolutionFailureKeepsResult(t *testing.T) {
	f := newFixture()
	f.expectLookups(true, true)
	f.repo.On("Add", mock.Anything, mock.Anything).Return(nil)
	f.lookups.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	result, err := f.service.Create(context.Background(), validCreate())

	require.NoError(t, err, "the account is already written")
	assert.Equal(t, "Acme Corporation", result.Name)
	assert.Empty(t, result.AccountStatus)
	assert.Len(t, f.events.Changes(), 1)
}

func TestAccountService_Update_NotFound(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	f.expectLookups(true, true)
	f.repo.On("GetByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := f.service.Update(context.Background(), UpdateAccountCommand{
		ID: id, Name: "X", AccountStatusID: testStatusID, AccountTypeID: testTypeID, ModifiedBy: testActor,
	})

	assert.ErrorIs(t, err, shared.ErrNotFound)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAccountService_Delete_Idempotent(t *testing.T) {
	f := newFixture()
	existing := createTestAccount()

	f.repo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil).Once()
	f.repo.On("Delete", mock.Anything, existing).Return(true, nil).Once()
	f.repo.On("GetByID", mock.Anything, existing.ID).Return(nil, shared.ErrNotFound).Once()

	first, err := f.service.Delete(context.Background(), DeleteAccountCommand{ID: existing.ID, ModifiedBy: testActor})
	require.NoError(t, err)
	assert.True(t, first)
	assert.False(t, existing.IsActive())

	second, err := f.service.Delete(context.Background(), DeleteAccountCommand{ID: existing.ID, ModifiedBy: testActor})
	require.NoError(t, err)
	assert.False(t, second)

	f.repo.AssertNumberOfCalls(t, "Delete", 1)
	assert.Len(t, f.events.Changes(), 1)
}

func TestAccountService_GetByID_ResolvesNames(t *testing.T) {
	f := newFixture()
	existing := createTestAccount()
	company := contact.NewCompany(contact.CompanyFields{Name: "Acme Parent"}, testActor, testActor)
	existing.CompanyID = &company.ID

	status := lookup.Lookup{Kind: lookup.KindAccountStatus, Value: "Active"}
	status.ID = testStatusID
	kind := lookup.Lookup{Kind: lookup.KindAccountType, Value: "Customer"}
	kind.ID = testTypeID

	f.repo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
	f.lookups.On("GetByIDs", mock.Anything, []uuid.UUID{testStatusID, testTypeID}).Return([]lookup.Lookup{status, kind}, nil)
	f.companies.On("GetByIDs", mock.Anything, []uuid.UUID{company.ID}).Return([]contact.Company{*company}, nil)

	result, err := f.service.GetByID(context.Background(), GetAccountByIDQuery{ID: existing.ID})

	require.NoError(t, err)
	assert.Equal(t, "Active", result.AccountStatus)
	assert.Equal(t, "Customer", result.AccountType)
	assert.Equal(t, "Acme Parent", result.CompanyName)
}

func TestAccountService_List_BatchesEnrichment(t *testing.T) {
	f := newFixture()
	a1, a2 := createTestAccount(), createTestAccount()
	items := []account.Account{*a1, *a2}
	filter := shared.DefaultFilter()

	status := lookup.Lookup{Value: "Active"}
	status.ID = testStatusID

	f.repo.On("GetAll", mock.Anything, filter).Return(items, nil)
	f.repo.On("Count", mock.Anything, filter).Return(int64(2), nil)
	f.lookups.On("GetByIDs", mock.Anything, []uuid.UUID{testStatusID, testTypeID}).Return([]lookup.Lookup{status}, nil).Once()

	page, err := f.service.List(context.Background(), ListAccountsQuery{})

	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Active", page.Items[1].AccountStatus)
	assert.Equal(t, "", page.Items[1].AccountType)
	f.lookups.AssertNumberOfCalls(t, "GetByIDs", 1)
	f.companies.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
}

func TestAccountService_GetByStatus(t *testing.T) {
	t.Run("known status", func(t *testing.T) {
		f := newFixture()
		status := &lookup.Lookup{Kind: lookup.KindAccountStatus, Value: "Active"}
		status.ID = testStatusID
		items := []account.Account{*createTestAccount()}

		f.lookups.On("GetByValue", mock.Anything, lookup.KindAccountStatus, "Active").Return(status, nil)
		f.repo.On("GetByStatusID", mock.Anything, testStatusID).Return(items, nil)
		f.lookups.On("GetByIDs", mock.Anything, mock.Anything).Return([]lookup.Lookup{*status}, nil)

		result, err := f.service.GetByStatus(context.Background(), GetAccountsByStatusQuery{Status: "Active"})

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "Active", result[0].AccountStatus)
	})

	t.Run("unknown status is empty", func(t *testing.T) {
		f := newFixture()
		f.lookups.On("GetByValue", mock.Anything, lookup.KindAccountStatus, "Dormant").Return(nil, shared.ErrNotFound)

		result, err := f.service.GetByStatus(context.Background(), GetAccountsByStatusQuery{Status: "Dormant"})

		require.NoError(t, err)
		assert.Empty(t, result)
		f.repo.AssertNotCalled(t, "GetByStatusID", mock.Anything, mock.Anything)
	})
}
