package services

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"
)

// UserRepository persists users. Getters return (nil, nil) when no row exists.
type UserRepository interface {
	GetByWallet(ctx context.Context, wallet string) (*models.User, error)
	GetByReferralCode(ctx context.Context, code string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UsernameTaken(ctx context.Context, username, exceptWallet string) (bool, error)
	UpdateUsername(ctx context.Context, wallet, username string) error

	// SetPointsIfHigher writes points only when they exceed the stored value.
	SetPointsIfHigher(ctx context.Context, wallet string, points int64) (bool, error)
	AddPoints(ctx context.Context, wallet string, delta int64) (int64, error)

	// SetReferrer writes referred_by and referred_at only if no referral was
	// ever applied.
	SetReferrer(ctx context.Context, wallet, referrer string) (bool, error)
	// IncrementReferralCount increments only while the count is below max.
	IncrementReferralCount(ctx context.Context, wallet string, max int) (bool, error)
	AddReferralBonus(ctx context.Context, wallet string, amount int64) error
	// MarkReferralBonusPaid flips referral_bonus_paid from false to true.
	MarkReferralBonusPaid(ctx context.Context, wallet string) (bool, error)

	ListRanked(ctx context.Context, limit, offset int) ([]models.User, error)
	CountRanked(ctx context.Context) (int64, error)
	CountDistinctPointsAbove(ctx context.Context, points int64) (int64, error)
}

// PetRepository persists pet states keyed by wallet.
type PetRepository interface {
	Get(ctx context.Context, wallet string) (*models.PetState, error)
	// Upsert inserts or updates by wallet and reports whether a row was created.
	Upsert(ctx context.Context, state *models.PetState) (bool, error)
}

type ActivityRepository interface {
	Record(ctx context.Context, entry *models.ActivityLog) error
	ListByWallet(ctx context.Context, wallet string, limit int) ([]models.ActivityLog, error)
}

// Store groups the repositories that share a transaction.
type Store interface {
	Users() UserRepository
	Pets() PetRepository
	Activity() ActivityRepository

	// Transaction runs fn with a Store bound to one database transaction,
	// retrying transient failures.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// CascadeAction is what happens to a dependent row when its wallet is removed.
type CascadeAction int

const (
	CascadeDelete CascadeAction = iota
	CascadeNullify
)

// Dependent is one foreign-key edge pointing at users.wallet_address.
type Dependent struct {
	Table  string
	Column string
	Action CascadeAction
}

// AccountRepository executes account deletion steps. Each call is independent
// so a failing table does not abort the others.
type AccountRepository interface {
	// Introspect lists tables carrying a wallet_address column, users excluded.
	Introspect(ctx context.Context) ([]Dependent, error)
	Apply(ctx context.Context, dep Dependent, wallet string) (int64, error)
	DeleteUser(ctx context.Context, wallet string) (int64, error)
}

// ChallengeRepository persists sign-in nonces, one per wallet.
type ChallengeRepository interface {
	Put(ctx context.Context, c *models.AuthChallenge) error
	Get(ctx context.Context, wallet string) (*models.AuthChallenge, error)
	// Consume deletes the challenge only if it still holds nonce and is
	// unexpired at now.
	Consume(ctx context.Context, wallet, nonce string, now time.Time) (bool, error)
}
