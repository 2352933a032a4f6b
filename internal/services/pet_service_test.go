package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/services/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPetService(store *testhelpers.MockStore, c cache.LeaderboardCache) *services.PetService {
	return services.NewPetService(store, c, services.NewReferralService(store, c))
}

func TestPetService_GetPetState(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid wallet", func(t *testing.T) {
		store := testhelpers.NewMockStore()
		_, err := newPetService(store, cache.Noop{}).GetPetState(ctx, "0x1234")
		assert.True(t, errors.Is(err, services.ErrValidation))
	})

	t.Run("unknown user", func(t *testing.T) {
		store := testhelpers.NewMockStore()
		store.UserRepo.On("GetByWallet", mock.Anything, walletA).Return(nil, nil)

		_, err := newPetService(store, cache.Noop{}).GetPetState(ctx, walletA)
		assert.ErrorIs(t, err, services.ErrUserNotFound)
		assert.True(t, errors.Is(err, services.ErrNotFound))
	})

	t.Run("creates default pet on first read", func(t *testing.T) {
		store := testhelpers.NewMockStore()
		store.UserRepo.On("GetByWallet", mock.Anything, walletA).Return(newUser(walletA, "alice", "AAAA1111", 0), nil)
		store.PetRepo.On("Get", mock.Anything, walletA).Return(nil, nil)
		store.PetRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*models.PetState")).Return(true, nil)

		res, err := newPetService(store, cache.Noop{}).GetPetState(ctx, walletA)
		require.NoError(t, err)
		assert.False(t, res.Degraded)
		assert.Equal(t, 100, res.State.Health)
		assert.Equal(t, 100, res.State.QualityScore)
		assert.False(t, res.State.IsDead)
		store.AssertExpectations(t)
	})

	t.Run("storage failure degrades to default", func(t *testing.T) {
		store := testhelpers.NewMockStore()
		store.UserRepo.On("GetByWallet", mock.Anything, walletA).Return(nil, errors.New("connection refused"))

		res, err := newPetService(store, cache.Noop{}).GetPetState(ctx, walletA)
		require.NoError(t, err)
		assert.True(t, res.Degraded)
		assert.Equal(t, 100, res.State.Hunger)
		assert.Equal(t, walletA, res.State.WalletAddress)
	})
}

func TestPetService_UpsertPetState(t *testing.T) {
	ctx := context.Background()

	t.Run("clamps values and applies death rule", func(t *testing.T) {
		store := testhelpers.NewMockStore()
		store.UserRepo.On("GetByWallet", mock.Anything, walletA).Return(newUser(walletA, "alice", "AAAA1111", 0), nil)
		store.PetRepo.On("Get", mock.Anything, walletA).Return(nil, nil)
		store.PetRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*models.PetState")).Return(true, nil)

		state, created, err := newPetService(store, cache.Noop{}).UpsertPetState(ctx, walletA, services.PetStateUpdate{
			Health: intPtr(150),
			Hunger: intPtr(-5),
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, 100, state.Health)
		assert.Equal(t, 0, state.Hunger)
		assert.True(t, state.IsDead)
	})

	t.Run("absent fields keep stored values", func(t *testing.T) {
		store := testhelpers.NewMockStore()
		stored := &models.PetState{
			WalletAddress: walletA, Health: 60, Happiness: 40, Hunger: 70, Cleanliness: 80, Energy: 30,
			LastStateUpdate: time.Now().Add(-time.Hour), QualityScore: 56, LastMessage: strPtr("hi"),
		}
		store.UserRepo.On("GetByWallet", mock.Anything, walletA).Return(newUser(walletA, "alice", "AAAA1111", 0), nil)
		store.PetRepo.On("Get", mock.Anything, walletA).Return(stored, nil)
		store.PetRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*models.PetState")).Return(false, nil)

		state, created, err := newPetService(store, cache.Noop{}).UpsertPetState(ctx, walletA, services.PetStateUpdate{
			Energy:       intPtr(70),
			LastReaction: strPtr("happy"),
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, 40, state.Happiness)
		assert.Equal(t, 70, state.Energy)
		assert.Equal(t, "hi", *state.LastMessage)
		assert.Equal(t, "happy", *state.LastReaction)
		assert.False(t, state.IsDead)
	})

	t.Run("unknown user", func(t *testing.T) {
		store := testhelpers.NewMockStore()
		store.UserRepo.On("GetByWallet", mock.Anything, walletA).Return(nil, nil)

		_, _, err := newPetService(store, cache.Noop{}).UpsertPetState(ctx, walletA, services.PetStateUpdate{})
		assert.ErrorIs(t, err, services.ErrUserNotFound)
	})

	t.Run("write failure is a persistence error", func(t *testing.T) {
		store := testhelpers.NewMockStore()
		store.UserRepo.On("GetByWallet", mock.Anything, walletA).Return(newUser(walletA, "alice", "AAAA1111", 0), nil)
		store.PetRepo.On("Get", mock.Anything, walletA).Return(nil, nil)
		store.PetRepo.On("Upsert", mock.Anything, mock.Anything).Return(false, errors.New("disk full"))

		_, _, err := newPetService(store, cache.Noop{}).UpsertPetState(ctx, walletA, services.PetStateUpdate{})
		assert.True(t, errors.Is(err, services.ErrPersistence))
	})
}

func TestPetService_Interact(t *testing.T) {
	ctx := context.Background()

	t.Run("feed awards points and logs activity", func(t *testing.T) {
		store := testhelpers.NewMockStore()
		c := new(testhelpers.MockLeaderboardCache)
		stored := &models.PetState{
			WalletAddress: walletA, Health: 50, Happiness: 50, Hunger: 50, Cleanliness: 50, Energy: 50,
			LastStateUpdate: time.Now(), QualityScore: 50,
		}
		store.UserRepo.On("GetByWallet", mock.Anything, walletA).Return(newUser(walletA, "alice", "AAAA1111", 10), nil)
		store.PetRepo.On("Get", mock.Anything, walletA).Return(stored, nil)
		store.PetRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*models.PetState")).Return(false, nil)
		store.UserRepo.On("AddPoints", mock.Anything, walletA, int64(10)).Return(int64(10), nil)
		store.ActivityRepo.On("Record", mock.Anything, mock.MatchedBy(func(e *models.ActivityLog) bool {
			return e.WalletAddress == walletA && e.Action == models.ActivityFeed && e.PointsDelta == 10
		})).Return(nil)
		c.On("Invalidate", mock.Anything).Return()

		res, err := newPetService(store, c).Interact(ctx, walletA, "feed")
		require.NoError(t, err)
		assert.Equal(t, int64(10), res.PointsAwarded)
		assert.Equal(t, int64(10), res.Points)
		assert.Equal(t, 70, res.State.Hunger)
		assert.Equal(t, 55, res.State.Energy)
		assert.Equal(t, 59, res.State.Health)
		assert.Equal(t, "feed", *res.State.LastReaction)
		assert.Equal(t, 1, store.Transactions)
		store.AssertExpectations(t)
		c.AssertExpectations(t)
	})

	t.Run("dead pet", func(t *testing.T) {
		store := testhelpers.NewMockStore()
		stored := &models.PetState{WalletAddress: walletA, Hunger: 0, IsDead: true, LastStateUpdate: time.Now()}
		store.UserRepo.On("GetByWallet", mock.Anything, walletA).Return(newUser(walletA, "alice", "AAAA1111", 0), nil)
		store.PetRepo.On("Get", mock.Anything, walletA).Return(stored, nil)

		_, err := newPetService(store, cache.Noop{}).Interact(ctx, walletA, "play")
		assert.ErrorIs(t, err, services.ErrPetDead)
		assert.True(t, errors.Is(err, services.ErrConflict))
		store.PetRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("decay death is stored before refusing", func(t *testing.T) {
		store := testhelpers.NewMockStore()
		c := new(testhelpers.MockLeaderboardCache)
		stored := &models.PetState{
			WalletAddress: walletA, Health: 50, Happiness: 50, Hunger: 50, Cleanliness: 50, Energy: 50,
			LastStateUpdate: time.Now().Add(-72 * time.Hour), QualityScore: 50,
		}
		store.UserRepo.On("GetByWallet", mock.Anything, walletA).Return(newUser(walletA, "alice", "AAAA1111", 0), nil)
		store.PetRepo.On("Get", mock.Anything, walletA).Return(stored, nil)
		store.PetRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(s *models.PetState) bool {
			return s.IsDead && s.Hunger == 0 && s.LastReaction == nil
		})).Return(false, nil).Once()

		_, err := newPetService(store, c).Interact(ctx, walletA, "feed")
		assert.ErrorIs(t, err, services.ErrPetDead)
		store.PetRepo.AssertExpectations(t)
		store.UserRepo.AssertNotCalled(t, "AddPoints", mock.Anything, mock.Anything, mock.Anything)
		store.ActivityRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
		c.AssertNotCalled(t, "Invalidate", mock.Anything)
	})

	t.Run("unknown action", func(t *testing.T) {
		store := testhelpers.NewMockStore()
		_, err := newPetService(store, cache.Noop{}).Interact(ctx, walletA, "dance")
		assert.ErrorIs(t, err, services.ErrInvalidAction)
		assert.Equal(t, 0, store.Transactions)
	})
}

func TestPetService_Activity(t *testing.T) {
	ctx := context.Background()
	store := testhelpers.NewMockStore()
	store.ActivityRepo.On("ListByWallet", mock.Anything, walletA, 20).Return([]models.ActivityLog{}, nil).Once()
	store.ActivityRepo.On("ListByWallet", mock.Anything, walletA, 100).Return([]models.ActivityLog{}, nil).Once()

	svc := newPetService(store, cache.Noop{})
	_, err := svc.Activity(ctx, walletA, 0)
	require.NoError(t, err)
	_, err = svc.Activity(ctx, walletA, 5000)
	require.NoError(t, err)
	store.AssertExpectations(t)
}
