package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) first(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByWallet(ctx context.Context, wallet string) (*models.User, error) {
	user, err := r.first(ctx, "wallet_address = ?", wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", wallet, err)
	}
	return user, nil
}

func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	user, err := r.first(ctx, "referral_code = ?", code)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by referral code: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.WalletAddress, err)
	}
	return nil
}

func (r *UserRepository) UsernameTaken(ctx context.Context, username, exceptWallet string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(username) = LOWER(?) AND wallet_address <> ?", username, exceptWallet).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) UpdateUsername(ctx context.Context, wallet, username string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("wallet_address = ?", wallet).
		Update("username", username)
	if result.Error != nil {
		return fmt.Errorf("failed to update username for %s: %w", wallet, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", wallet, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *UserRepository) SetPointsIfHigher(ctx context.Context, wallet string, points int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("wallet_address = ? AND points < ?", wallet, points).
		Updates(map[string]interface{}{
			"points":             points,
			"last_points_update": time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to set points for %s: %w", wallet, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *UserRepository) AddPoints(ctx context.Context, wallet string, delta int64) (int64, error) {
	var points int64
	err := r.db.WithContext(ctx).Raw(`
		UPDATE users
		SET points = GREATEST(points + ?, 0), last_points_update = NOW(), updated_at = NOW()
		WHERE wallet_address = ?
		RETURNING points
	`, delta, wallet).Row().Scan(&points)
	if err != nil {
		return 0, fmt.Errorf("failed to add points for %s: %w", wallet, err)
	}
	return points, nil
}

func (r *UserRepository) SetReferrer(ctx context.Context, wallet, referrer string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("wallet_address = ? AND referred_by IS NULL AND referred_at IS NULL", wallet).
		Updates(map[string]interface{}{
			"referred_by": referrer,
			"referred_at": time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to set referrer for %s: %w", wallet, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *UserRepository) IncrementReferralCount(ctx context.Context, wallet string, max int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("wallet_address = ? AND referral_count < ?", wallet, max).
		UpdateColumn("referral_count", gorm.Expr("referral_count + 1"))
	if result.Error != nil {
		return false, fmt.Errorf("failed to increment referral count for %s: %w", wallet, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *UserRepository) AddReferralBonus(ctx context.Context, wallet string, amount int64) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("wallet_address = ?", wallet).
		Updates(map[string]interface{}{
			"points":             gorm.Expr("points + ?", amount),
			"referral_points":    gorm.Expr("referral_points + ?", amount),
			"last_points_update": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to add referral bonus for %s: %w", wallet, result.Error)
	}
	return nil
}

func (r *UserRepository) MarkReferralBonusPaid(ctx context.Context, wallet string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("wallet_address = ? AND referral_bonus_paid = ?", wallet, false).
		UpdateColumn("referral_bonus_paid", true)
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark referral bonus for %s: %w", wallet, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListRanked returns users with positive points, highest first. Ties keep
// signup order so pages are stable.
func (r *UserRepository) ListRanked(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("points > 0").
		Order("points DESC, created_at ASC, wallet_address ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list leaderboard: %w", err)
	}
	return users, nil
}

func (r *UserRepository) CountRanked(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("points > 0").Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count ranked users: %w", err)
	}
	return total, nil
}

func (r *UserRepository) CountDistinctPointsAbove(ctx context.Context, points int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("points > ? AND points > 0", points).
		Distinct("points").
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count distinct points: %w", err)
	}
	return n, nil
}
