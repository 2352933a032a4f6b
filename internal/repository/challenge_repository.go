package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChallengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// Put stores c, replacing any earlier challenge for the same wallet.
func (r *ChallengeRepository) Put(ctx context.Context, c *models.AuthChallenge) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wallet_address"}},
		DoUpdates: clause.AssignmentColumns([]string{"nonce", "message", "expires_at", "created_at"}),
	}).Create(c).Error
	if err != nil {
		return fmt.Errorf("failed to store challenge for %s: %w", c.WalletAddress, err)
	}
	return nil
}

func (r *ChallengeRepository) Get(ctx context.Context, wallet string) (*models.AuthChallenge, error) {
	var c models.AuthChallenge
	err := r.db.WithContext(ctx).Where("wallet_address = ?", wallet).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge for %s: %w", wallet, err)
	}
	return &c, nil
}

// Consume deletes the challenge if it still carries nonce and has not
// expired. Only one caller can consume a given nonce.
func (r *ChallengeRepository) Consume(ctx context.Context, wallet, nonce string, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("wallet_address = ? AND nonce = ? AND expires_at > ?", wallet, nonce, now).
		Delete(&models.AuthChallenge{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to consume challenge for %s: %w", wallet, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteExpired prunes challenges that expired before cutoff.
func (r *ChallengeRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at < ?", cutoff).Delete(&models.AuthChallenge{})
	return result.RowsAffected, result.Error
}
