package testhelpers

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/services"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByWallet(ctx context.Context, wallet string) (*models.User, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UsernameTaken(ctx context.Context, username, exceptWallet string) (bool, error) {
	args := m.Called(ctx, username, exceptWallet)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateUsername(ctx context.Context, wallet, username string) error {
	args := m.Called(ctx, wallet, username)
	return args.Error(0)
}

func (m *MockUserRepository) SetPointsIfHigher(ctx context.Context, wallet string, points int64) (bool, error) {
	args := m.Called(ctx, wallet, points)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AddPoints(ctx context.Context, wallet string, delta int64) (int64, error) {
	args := m.Called(ctx, wallet, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) SetReferrer(ctx context.Context, wallet, referrer string) (bool, error) {
	args := m.Called(ctx, wallet, referrer)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) IncrementReferralCount(ctx context.Context, wallet string, max int) (bool, error) {
	args := m.Called(ctx, wallet, max)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AddReferralBonus(ctx context.Context, wallet string, amount int64) error {
	args := m.Called(ctx, wallet, amount)
	return args.Error(0)
}

func (m *MockUserRepository) MarkReferralBonusPaid(ctx context.Context, wallet string) (bool, error) {
	args := m.Called(ctx, wallet)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ListRanked(ctx context.Context, limit, offset int) ([]models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) CountRanked(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountDistinctPointsAbove(ctx context.Context, points int64) (int64, error) {
	args := m.Called(ctx, points)
	return args.Get(0).(int64), args.Error(1)
}

// MockPetRepository is a mock implementation of PetRepository
type MockPetRepository struct {
	mock.Mock
}

func (m *MockPetRepository) Get(ctx context.Context, wallet string) (*models.PetState, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PetState), args.Error(1)
}

func (m *MockPetRepository) Upsert(ctx context.Context, state *models.PetState) (bool, error) {
	args := m.Called(ctx, state)
	return args.Bool(0), args.Error(1)
}

// MockActivityRepository is a mock implementation of ActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Record(ctx context.Context, entry *models.ActivityLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockActivityRepository) ListByWallet(ctx context.Context, wallet string, limit int) ([]models.ActivityLog, error) {
	args := m.Called(ctx, wallet, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ActivityLog), args.Error(1)
}

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Introspect(ctx context.Context) ([]services.Dependent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.Dependent), args.Error(1)
}

func (m *MockAccountRepository) Apply(ctx context.Context, dep services.Dependent, wallet string) (int64, error) {
	args := m.Called(ctx, dep, wallet)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) DeleteUser(ctx context.Context, wallet string) (int64, error) {
	args := m.Called(ctx, wallet)
	return args.Get(0).(int64), args.Error(1)
}

// MockChallengeRepository is a mock implementation of ChallengeRepository
type MockChallengeRepository struct {
	mock.Mock
}

func (m *MockChallengeRepository) Put(ctx context.Context, c *models.AuthChallenge) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockChallengeRepository) Get(ctx context.Context, wallet string) (*models.AuthChallenge, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthChallenge), args.Error(1)
}

func (m *MockChallengeRepository) Consume(ctx context.Context, wallet, nonce string, now time.Time) (bool, error) {
	args := m.Called(ctx, wallet, nonce, now)
	return args.Bool(0), args.Error(1)
}

// MockStore hands out the mock repositories. Transaction runs fn directly
// against the same mocks and counts how often it was entered.
type MockStore struct {
	UserRepo     *MockUserRepository
	PetRepo      *MockPetRepository
	ActivityRepo *MockActivityRepository
	Transactions int
}

func NewMockStore() *MockStore {
	return &MockStore{
		UserRepo:     new(MockUserRepository),
		PetRepo:      new(MockPetRepository),
		ActivityRepo: new(MockActivityRepository),
	}
}

func (m *MockStore) Users() services.UserRepository         { return m.UserRepo }
func (m *MockStore) Pets() services.PetRepository           { return m.PetRepo }
func (m *MockStore) Activity() services.ActivityRepository { return m.ActivityRepo }

func (m *MockStore) Transaction(ctx context.Context, fn func(tx services.Store) error) error {
	m.Transactions++
	return fn(m)
}

// AssertExpectations checks every repository mock.
func (m *MockStore) AssertExpectations(t mock.TestingT) {
	m.UserRepo.AssertExpectations(t)
	m.PetRepo.AssertExpectations(t)
	m.ActivityRepo.AssertExpectations(t)
}

// MockLeaderboardCache is a mock implementation of cache.LeaderboardCache
type MockLeaderboardCache struct {
	mock.Mock
}

func (m *MockLeaderboardCache) GetPage(ctx context.Context, limit, offset int) (*cache.Page, int64, bool) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Bool(2)
	}
	return args.Get(0).(*cache.Page), args.Get(1).(int64), args.Bool(2)
}

func (m *MockLeaderboardCache) SetPage(ctx context.Context, generation int64, limit, offset int, page *cache.Page) {
	m.Called(ctx, generation, limit, offset, page)
}

func (m *MockLeaderboardCache) Invalidate(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockLeaderboardCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
