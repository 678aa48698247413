package persistence

import (
	"context"
	"testing"

	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormJunctionRepository_Lifecycle(t *testing.T) {
	repo := NewContactJunctionRepository(newTestDB(t), contact.PersonPhones)
	ctx := context.Background()

	personID, phoneID, otherPhone := uuid.New(), uuid.New(), uuid.New()
	link := shared.NewJunction(personID, phoneID, testActor)
	require.NoError(t, repo.Add(ctx, link))
	require.NoError(t, repo.Add(ctx, shared.NewJunction(personID, otherPhone, testActor)))

	got, err := repo.GetByID(ctx, personID, phoneID)
	require.NoError(t, err)
	assert.Equal(t, personID, got.FirstID)
	assert.Equal(t, phoneID, got.SecondID)
	assert.True(t, got.IsActive())

	byPerson, err := repo.GetByFirstID(ctx, personID)
	require.NoError(t, err)
	assert.Len(t, byPerson, 2)

	byPhone, err := repo.GetBySecondID(ctx, phoneID)
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, personID, byPhone[0].FirstID)

	t.Run("retire", func(t *testing.T) {
		require.True(t, got.Retire(testActor))
		deleted, err := repo.Delete(ctx, got)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, got)
		require.NoError(t, err)
		assert.False(t, deleted)

		_, err = repo.GetByID(ctx, personID, phoneID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("reactivate", func(t *testing.T) {
		retired, err := repo.GetAnyByID(ctx, personID, phoneID)
		require.NoError(t, err)
		require.False(t, retired.IsActive())

		require.True(t, retired.Reactivate(testActor))
		require.NoError(t, repo.Update(ctx, retired))

		again, err := repo.GetByID(ctx, personID, phoneID)
		require.NoError(t, err)
		assert.True(t, again.IsActive())
	})

	t.Run("update of a missing link", func(t *testing.T) {
		err := repo.Update(ctx, shared.NewJunction(uuid.New(), uuid.New(), testActor))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestNewContactJunctionRepository_Columns(t *testing.T) {
	db := newTestDB(t)
	tests := []struct {
		association contact.Association
		first       string
		second      string
	}{
		{contact.PersonPhones, "person_id", "phone_id"},
		{contact.CompanyPhones, "company_id", "phone_id"},
		{contact.PersonAddresses, "person_id", "address_id"},
		{contact.CompanyAddresses, "company_id", "address_id"},
	}
	for _, tt := range tests {
		t.Run(string(tt.association), func(t *testing.T) {
			repo := NewContactJunctionRepository(db, tt.association)
			assert.Equal(t, string(tt.association), repo.table)
			assert.Equal(t, tt.first, repo.first)
			assert.Equal(t, tt.second, repo.second)
			assert.True(t, db.Migrator().HasColumn(repo.table, tt.first))
			assert.True(t, db.Migrator().HasColumn(repo.table, tt.second))
		})
	}

	assert.Panics(t, func() { NewContactJunctionRepository(db, contact.Association("nope")) })
}
