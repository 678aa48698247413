//go:build integration

package integration

import (
	"context"
	"testing"

	accountapp "github.com/crm/backend/internal/application/account"
	lookupapp "github.com/crm/backend/internal/application/lookup"
	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var actor = uuid.MustParse("22222222-2222-2222-2222-222222222222")

func TestSeededLookups(t *testing.T) {
	db := NewTestDB(t)
	repo := persistence.NewGormLookupRepository(db)
	ctx := context.Background()

	for _, kind := range lookup.Kinds() {
		n, err := repo.Count(ctx, kind, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Positive(t, n, "no seeded values for %s", kind)
	}

	active, err := repo.GetByValue(ctx, lookup.KindAccountStatus, "ACTIVE")
	require.NoError(t, err)
	assert.Equal(t, "Active", active.Value)
	assert.Equal(t, uuid.Nil, active.CreatedBy)
}

func TestLookupService_Postgres(t *testing.T) {
	db := NewTestDB(t)
	events := &testutil.RecordingPublisher{}
	svc := lookupapp.NewLookupService(persistence.NewGormLookupRepository(db), events, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, lookupapp.CreateLookupCommand{
		Kind:       lookup.KindPaymentMethod,
		Value:      "Crypto",
		CreatedBy:  actor,
		ModifiedBy: actor,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, lookupapp.CreateLookupCommand{
		Kind:       lookup.KindPaymentMethod,
		Value:      " crypto ",
		CreatedBy:  actor,
		ModifiedBy: actor,
	})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	deleted, err := svc.Delete(ctx, lookupapp.DeleteLookupCommand{ID: created.ID, ModifiedBy: actor})
	require.NoError(t, err)
	assert.True(t, deleted)

	// a retired value no longer blocks its text
	_, err = svc.Create(ctx, lookupapp.CreateLookupCommand{
		Kind:       lookup.KindPaymentMethod,
		Value:      "Crypto",
		CreatedBy:  actor,
		ModifiedBy: actor,
	})
	require.NoError(t, err)
	assert.Len(t, events.Changes(), 3)
}

func TestAccountService_Postgres(t *testing.T) {
	db := NewTestDB(t)
	lookups := persistence.NewGormLookupRepository(db)
	svc := accountapp.NewAccountService(
		persistence.NewGormAccountRepository(db),
		lookups,
		persistence.NewGormCompanyRepository(db),
		&testutil.RecordingPublisher{},
		zap.NewNop(),
	)
	ctx := context.Background()

	status, err := lookups.GetByValue(ctx, lookup.KindAccountStatus, "Active")
	require.NoError(t, err)
	customer, err := lookups.GetByValue(ctx, lookup.KindAccountType, "Customer")
	require.NoError(t, err)

	acct, err := svc.Create(ctx, accountapp.CreateAccountCommand{
		Name:            "Initech",
		AccountNumber:   "IN-100",
		AccountStatusID: status.ID,
		AccountTypeID:   customer.ID,
		CreatedBy:       actor,
		ModifiedBy:      actor,
	})
	require.NoError(t, err)
	assert.Equal(t, "Active", acct.AccountStatus)
	assert.Equal(t, "Customer", acct.AccountType)

	t.Run("account number is unique among active accounts", func(t *testing.T) {
		_, err := svc.Create(ctx, accountapp.CreateAccountCommand{
			Name:            "Initech Two",
			AccountNumber:   "IN-100",
			AccountStatusID: status.ID,
			AccountTypeID:   customer.ID,
			CreatedBy:       actor,
			ModifiedBy:      actor,
		})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("finders resolve lookup values", func(t *testing.T) {
		byStatus, err := svc.GetByStatus(ctx, accountapp.GetAccountsByStatusQuery{Status: "active"})
		require.NoError(t, err)
		require.Len(t, byStatus, 1)
		assert.Equal(t, acct.ID, byStatus[0].ID)

		page, err := svc.List(ctx, accountapp.ListAccountsQuery{Filter: shared.Filter{Search: "inite"}})
		require.NoError(t, err)
		assert.EqualValues(t, 1, page.Total)
	})

	t.Run("soft delete", func(t *testing.T) {
		deleted, err := svc.Delete(ctx, accountapp.DeleteAccountCommand{ID: acct.ID, ModifiedBy: actor})
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = svc.GetByID(ctx, accountapp.GetAccountByIDQuery{ID: acct.ID})
		assert.ErrorIs(t, err, shared.ErrNotFound)

		retired, err := svc.GetByID(ctx, accountapp.GetAccountByIDQuery{ID: acct.ID, IncludeRetired: true})
		require.NoError(t, err)
		assert.False(t, retired.Active)
	})
}
