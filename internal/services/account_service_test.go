package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/services/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var declared = []services.Dependent{
	{Table: "activity_logs", Column: "wallet_address", Action: services.CascadeDelete},
	{Table: "pet_states", Column: "wallet_address", Action: services.CascadeDelete},
	{Table: "users", Column: "referred_by", Action: services.CascadeNullify},
}

func TestAccountService_DeleteAccount(t *testing.T) {
	ctx := context.Background()
	systemLogs := services.Dependent{Table: "system_logs", Column: "wallet_address", Action: services.CascadeDelete}

	t.Run("merges introspected tables and skips failures", func(t *testing.T) {
		store := testhelpers.NewMockStore()
		accounts := new(testhelpers.MockAccountRepository)
		store.UserRepo.On("GetByWallet", mock.Anything, walletA).Return(newUser(walletA, "alice", "AAAA1111", 0), nil)
		accounts.On("Introspect", mock.Anything).Return([]services.Dependent{declared[0], declared[1], systemLogs}, nil)
		accounts.On("Apply", mock.Anything, declared[0], walletA).Return(int64(2), nil)
		accounts.On("Apply", mock.Anything, declared[1], walletA).Return(int64(0), errors.New("lock timeout"))
		accounts.On("Apply", mock.Anything, declared[2], walletA).Return(int64(1), nil)
		accounts.On("Apply", mock.Anything, systemLogs, walletA).Return(int64(1), nil)
		accounts.On("DeleteUser", mock.Anything, walletA).Return(int64(1), nil)

		report, err := services.NewAccountService(store, accounts, declared, cache.Noop{}).DeleteAccount(ctx, walletA)
		require.NoError(t, err)
		assert.Equal(t, []string{"pet_states"}, report.Skipped)
		assert.Len(t, report.Tables, 3)
		assert.Equal(t, int64(4), report.RowsRemoved)
		accounts.AssertExpectations(t)
	})

	t.Run("introspection failure falls back to declared list", func(t *testing.T) {
		store := testhelpers.NewMockStore()
		accounts := new(testhelpers.MockAccountRepository)
		store.UserRepo.On("GetByWallet", mock.Anything, walletA).Return(newUser(walletA, "alice", "AAAA1111", 0), nil)
		accounts.On("Introspect", mock.Anything).Return(nil, errors.New("permission denied"))
		accounts.On("Apply", mock.Anything, mock.Anything, walletA).Return(int64(0), nil)
		accounts.On("DeleteUser", mock.Anything, walletA).Return(int64(1), nil)

		report, err := services.NewAccountService(store, accounts, declared, cache.Noop{}).DeleteAccount(ctx, walletA)
		require.NoError(t, err)
		assert.Len(t, report.Tables, 3)
		accounts.AssertNumberOfCalls(t, "Apply", 3)
	})

	t.Run("unknown user", func(t *testing.T) {
		store := testhelpers.NewMockStore()
		accounts := new(testhelpers.MockAccountRepository)
		store.UserRepo.On("GetByWallet", mock.Anything, walletA).Return(nil, nil)

		_, err := services.NewAccountService(store, accounts, declared, cache.Noop{}).DeleteAccount(ctx, walletA)
		assert.ErrorIs(t, err, services.ErrUserNotFound)
		accounts.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("user delete failure is reported", func(t *testing.T) {
		store := testhelpers.NewMockStore()
		accounts := new(testhelpers.MockAccountRepository)
		store.UserRepo.On("GetByWallet", mock.Anything, walletA).Return(newUser(walletA, "alice", "AAAA1111", 0), nil)
		accounts.On("Introspect", mock.Anything).Return([]services.Dependent{}, nil)
		accounts.On("Apply", mock.Anything, mock.Anything, walletA).Return(int64(0), nil)
		accounts.On("DeleteUser", mock.Anything, walletA).Return(int64(0), errors.New("fk violation"))

		_, err := services.NewAccountService(store, accounts, declared, cache.Noop{}).DeleteAccount(ctx, walletA)
		assert.True(t, errors.Is(err, services.ErrPersistence))
	})
}
