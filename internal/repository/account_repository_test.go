package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/repository/testutil"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_Introspect(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	deps, err := NewAccountRepository(testDB.DB).Introspect(context.Background())
	require.NoError(t, err)

	tables := make([]string, 0, len(deps))
	for _, d := range deps {
		tables = append(tables, d.Table)
		assert.Equal(t, services.CascadeDelete, d.Action)
	}
	assert.Contains(t, tables, "activity_logs")
	assert.Contains(t, tables, "pet_states")
	assert.NotContains(t, tables, "users")
}

func TestAccountRepository_DeleteLeavesNoRows(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	users := NewUserRepository(testDB.DB)
	pets := NewPetRepository(testDB.DB)
	activity := NewActivityRepository(testDB.DB)
	repo := NewAccountRepository(testDB.DB)

	owner := testutil.CreateTestUser(1, "leaving", 40)
	friend := testutil.CreateTestUser(2, "staying", 0)
	require.NoError(t, users.Create(ctx, owner))
	require.NoError(t, users.Create(ctx, friend))

	_, err := users.SetReferrer(ctx, friend.WalletAddress, owner.WalletAddress)
	require.NoError(t, err)
	_, err = pets.Upsert(ctx, &models.PetState{WalletAddress: owner.WalletAddress, Health: 100, Happiness: 100, Hunger: 100, Cleanliness: 100, Energy: 100, LastStateUpdate: time.Now(), QualityScore: 100})
	require.NoError(t, err)
	require.NoError(t, activity.Record(ctx, &models.ActivityLog{WalletAddress: owner.WalletAddress, Action: models.ActivityFeed, PointsDelta: 10}))

	for _, dep := range Dependents {
		_, err := repo.Apply(ctx, dep, owner.WalletAddress)
		require.NoError(t, err)
	}
	n, err := repo.DeleteUser(ctx, owner.WalletAddress)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	for _, table := range []string{"users", "pet_states", "activity_logs"} {
		var count int64
		require.NoError(t, testDB.DB.Table(table).Where("wallet_address = ?", owner.WalletAddress).Count(&count).Error)
		assert.Zero(t, count, table)
	}

	got, err := users.GetByWallet(ctx, friend.WalletAddress)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.ReferredBy)
	assert.NotNil(t, got.ReferredAt)
	assert.True(t, got.Referred())
}

func TestAccountRepository_OrphanedReferralStaysApplied(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	users := NewUserRepository(testDB.DB)
	repo := NewAccountRepository(testDB.DB)

	owner := testutil.CreateTestUser(1, "leaving", 0)
	friend := testutil.CreateTestUser(2, "orphan", 0)
	other := testutil.CreateTestUser(3, "second_chance", 0)
	for _, u := range []*models.User{owner, friend, other} {
		require.NoError(t, users.Create(ctx, u))
	}

	ok, err := users.SetReferrer(ctx, friend.WalletAddress, owner.WalletAddress)
	require.NoError(t, err)
	require.True(t, ok)

	accounts := services.NewAccountService(NewStore(testDB.DB), repo, Dependents, cache.Noop{})
	_, err = accounts.DeleteAccount(ctx, owner.WalletAddress)
	require.NoError(t, err)

	_, err = services.NewReferralService(NewStore(testDB.DB), cache.Noop{}).
		ApplyReferral(ctx, friend.WalletAddress, other.ReferralCode)
	assert.ErrorIs(t, err, services.ErrAlreadyReferred)

	ok, err = users.SetReferrer(ctx, friend.WalletAddress, other.WalletAddress)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := users.GetByWallet(ctx, other.WalletAddress)
	require.NoError(t, err)
	assert.Zero(t, got.ReferralCount)
}
