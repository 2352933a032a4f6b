package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/wallet"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

type LeaderboardService struct {
	store     Store
	cache     cache.LeaderboardCache
	users     *UserService
	referrals *ReferralService
}

func NewLeaderboardService(store Store, c cache.LeaderboardCache, users *UserService, referrals *ReferralService) *LeaderboardService {
	return &LeaderboardService{store: store, cache: c, users: users, referrals: referrals}
}

// ClampPage normalizes leaderboard paging input.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ListTop returns one page of players with positive points. Rank is the
// position in the ordering, so a page starting at offset 6 begins at rank 7.
func (s *LeaderboardService) ListTop(ctx context.Context, limit, offset int) (*cache.Page, error) {
	limit, offset = ClampPage(limit, offset)

	page, generation, ok := s.cache.GetPage(ctx, limit, offset)
	if ok {
		return page, nil
	}

	users := s.store.Users()
	ranked, err := users.ListRanked(ctx, limit, offset)
	if err != nil {
		return nil, storeError("list leaderboard", err)
	}
	total, err := users.CountRanked(ctx)
	if err != nil {
		return nil, storeError("count leaderboard", err)
	}

	page = &cache.Page{
		Entries: make([]models.LeaderboardEntry, 0, len(ranked)),
		Total:   total,
	}
	for i, u := range ranked {
		page.Entries = append(page.Entries, models.LeaderboardEntry{
			Rank:          int64(offset + i + 1),
			WalletAddress: u.WalletAddress,
			Username:      u.Username,
			Points:        u.Points,
		})
	}
	s.cache.SetPage(ctx, generation, limit, offset, page)
	return page, nil
}

// denseRank is one plus the number of distinct higher scores. Players without
// points are unranked (0).
func denseRank(ctx context.Context, users UserRepository, points int64) (int64, error) {
	if points <= 0 {
		return 0, nil
	}
	above, err := users.CountDistinctPointsAbove(ctx, points)
	if err != nil {
		return 0, storeError("count distinct points", err)
	}
	return above + 1, nil
}

// GetRank returns the wallet's dense rank and the number of ranked players.
func (s *LeaderboardService) GetRank(ctx context.Context, addr string) (int64, int64, error) {
	walletAddr, err := wallet.Normalize(addr)
	if err != nil {
		return 0, 0, invalidWallet(err)
	}
	users := s.store.Users()
	user, err := users.GetByWallet(ctx, walletAddr)
	if err != nil {
		return 0, 0, storeError("get user", err)
	}
	if user == nil {
		return 0, 0, ErrUserNotFound
	}
	rank, err := denseRank(ctx, users, user.Points)
	if err != nil {
		return 0, 0, err
	}
	total, err := users.CountRanked(ctx)
	if err != nil {
		return 0, 0, storeError("count leaderboard", err)
	}
	return rank, total, nil
}

// SubmitResult reports the outcome of a score submission. Warning carries a
// non-fatal username problem.
type SubmitResult struct {
	Updated      bool
	Points       int64
	BonusAwarded int64
	Warning      string
}

// SubmitPoints records a client-reported score. Points never go down: the
// stored value changes only when the new score is higher.
func (s *LeaderboardService) SubmitPoints(ctx context.Context, addr string, points int64, username string) (*SubmitResult, error) {
	if points < 0 {
		return nil, ErrInvalidPoints
	}
	user, err := s.users.EnsureUser(ctx, addr, "")
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{Points: user.Points}
	if username != "" && username != user.Username {
		err := s.users.UpdateUsername(ctx, user.WalletAddress, username)
		switch {
		case err == nil:
		case errors.Is(err, ErrConflict), errors.Is(err, ErrValidation):
			slog.Warn("username not updated on score submit", "wallet_address", user.WalletAddress, "error", err.Error())
			result.Warning = err.Error()
		default:
			return nil, err
		}
	}

	err = s.store.Transaction(ctx, func(tx Store) error {
		users := tx.Users()
		current, err := users.GetByWallet(ctx, user.WalletAddress)
		if err != nil {
			return storeError("get user", err)
		}
		if current == nil {
			return ErrUserNotFound
		}

		updated, err := users.SetPointsIfHigher(ctx, user.WalletAddress, points)
		if err != nil {
			return storeError("set points", err)
		}
		result.Updated = updated
		result.Points = current.Points
		if !updated {
			return nil
		}
		result.Points = points

		if err := tx.Activity().Record(ctx, &models.ActivityLog{
			WalletAddress: user.WalletAddress,
			Action:        models.ActivityPointsSync,
			PointsDelta:   points - current.Points,
			CreatedAt:     time.Now(),
		}); err != nil {
			return storeError("record activity", err)
		}

		bonus, err := s.referrals.CheckThreshold(ctx, tx, user.WalletAddress)
		if err != nil {
			return err
		}
		result.BonusAwarded = bonus
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Updated {
		s.cache.Invalidate(ctx)
	}
	return result, nil
}
