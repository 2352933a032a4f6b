package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/wallet"
)

const (
	// ReferralThreshold is the score a referred player must reach before
	// their referrer is paid.
	ReferralThreshold int64 = 100
	MaxReferralBonus  int64 = 1000
)

// ReferralBonus is ten percent of the referred player's points, capped.
func ReferralBonus(points int64) int64 {
	bonus := points / 10
	if bonus > MaxReferralBonus {
		return MaxReferralBonus
	}
	return bonus
}

type ReferralService struct {
	store Store
	cache cache.LeaderboardCache
}

func NewReferralService(store Store, c cache.LeaderboardCache) *ReferralService {
	return &ReferralService{store: store, cache: c}
}

// ReferralInfo is the public view of a referral code owner.
type ReferralInfo struct {
	Username      string
	ReferralCode  string
	ReferralCount int
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCode checks that code exists and its owner can accept more referrals.
func (s *ReferralService) ValidateCode(ctx context.Context, code string) (*ReferralInfo, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, ErrMissingReferralCode
	}
	referrer, err := s.store.Users().GetByReferralCode(ctx, code)
	if err != nil {
		return nil, storeError("get referrer", err)
	}
	if referrer == nil {
		return nil, ErrReferralCodeNotFound
	}
	if referrer.ReferralCount >= models.MaxReferrals {
		return nil, ErrReferrerAtCap
	}
	return &ReferralInfo{
		Username:      referrer.Username,
		ReferralCode:  referrer.ReferralCode,
		ReferralCount: referrer.ReferralCount,
	}, nil
}

// ApplyReferral links the wallet's user to the owner of code. It returns the
// bonus paid to the referrer right away, which is non-zero only when the
// referred player already has enough points.
func (s *ReferralService) ApplyReferral(ctx context.Context, addr, code string) (int64, error) {
	walletAddr, err := wallet.Normalize(addr)
	if err != nil {
		return 0, invalidWallet(err)
	}
	code = normalizeCode(code)
	if code == "" {
		return 0, ErrMissingReferralCode
	}

	var bonus int64
	err = s.store.Transaction(ctx, func(tx Store) error {
		bonus = 0
		users := tx.Users()

		user, err := users.GetByWallet(ctx, walletAddr)
		if err != nil {
			return storeError("get user", err)
		}
		if user == nil {
			return ErrUserNotFound
		}
		if user.Referred() {
			return ErrAlreadyReferred
		}
		if user.ReferralCode == code {
			return ErrSelfReferral
		}

		referrer, err := users.GetByReferralCode(ctx, code)
		if err != nil {
			return storeError("get referrer", err)
		}
		if referrer == nil {
			return ErrReferralCodeNotFound
		}
		if referrer.WalletAddress == walletAddr {
			return ErrSelfReferral
		}
		if referrer.ReferralCount >= models.MaxReferrals {
			return ErrReferrerAtCap
		}

		ok, err := users.SetReferrer(ctx, walletAddr, referrer.WalletAddress)
		if err != nil {
			return storeError("set referrer", err)
		}
		if !ok {
			return ErrAlreadyReferred
		}
		ok, err = users.IncrementReferralCount(ctx, referrer.WalletAddress, models.MaxReferrals)
		if err != nil {
			return storeError("increment referral count", err)
		}
		if !ok {
			return ErrReferrerAtCap
		}

		bonus, err = s.CheckThreshold(ctx, tx, walletAddr)
		return err
	})
	if err != nil {
		return 0, err
	}

	slog.Info("referral applied", "wallet_address", walletAddr, "referral_code", code, "bonus", bonus)
	if bonus > 0 {
		s.cache.Invalidate(ctx)
	}
	return bonus, nil
}

// CheckThreshold pays the one-time referral bonus once a referred player has
// reached ReferralThreshold points. It must run on the Store of the
// transaction that changed the points. It returns the amount paid, or zero.
func (s *ReferralService) CheckThreshold(ctx context.Context, tx Store, walletAddr string) (int64, error) {
	users := tx.Users()
	user, err := users.GetByWallet(ctx, walletAddr)
	if err != nil {
		return 0, storeError("get user", err)
	}
	if user == nil || user.ReferredBy == nil || user.ReferralBonusPaid || user.Points < ReferralThreshold {
		return 0, nil
	}

	bonus := ReferralBonus(user.Points)
	paid, err := users.MarkReferralBonusPaid(ctx, walletAddr)
	if err != nil {
		return 0, storeError("mark referral bonus", err)
	}
	if !paid {
		return 0, nil
	}

	referrer := *user.ReferredBy
	if err := users.AddReferralBonus(ctx, referrer, bonus); err != nil {
		return 0, storeError("add referral bonus", err)
	}
	if err := tx.Activity().Record(ctx, &models.ActivityLog{
		WalletAddress: referrer,
		Action:        models.ActivityReferralBonus,
		PointsDelta:   bonus,
		CreatedAt:     time.Now(),
	}); err != nil {
		return 0, storeError("record activity", err)
	}
	return bonus, nil
}
