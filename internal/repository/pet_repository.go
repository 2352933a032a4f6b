package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"
	"gorm.io/gorm"
)

type PetRepository struct {
	db *gorm.DB
}

func NewPetRepository(db *gorm.DB) *PetRepository {
	return &PetRepository{db: db}
}

func (r *PetRepository) Get(ctx context.Context, wallet string) (*models.PetState, error) {
	var state models.PetState
	err := r.db.WithContext(ctx).Where("wallet_address = ?", wallet).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pet state for %s: %w", wallet, err)
	}
	return &state, nil
}

// Upsert writes the full row. xmax is zero only for a freshly inserted tuple,
// which tells inserts from updates in one round trip.
func (r *PetRepository) Upsert(ctx context.Context, s *models.PetState) (bool, error) {
	var inserted bool
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO pet_states (
			wallet_address, health, happiness, hunger, cleanliness, energy,
			is_dead, last_state_update, quality_score, last_message, last_reaction
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (wallet_address) DO UPDATE SET
			health = EXCLUDED.health,
			happiness = EXCLUDED.happiness,
			hunger = EXCLUDED.hunger,
			cleanliness = EXCLUDED.cleanliness,
			energy = EXCLUDED.energy,
			is_dead = EXCLUDED.is_dead,
			last_state_update = EXCLUDED.last_state_update,
			quality_score = EXCLUDED.quality_score,
			last_message = EXCLUDED.last_message,
			last_reaction = EXCLUDED.last_reaction
		RETURNING (xmax = 0) AS inserted
	`,
		s.WalletAddress, s.Health, s.Happiness, s.Hunger, s.Cleanliness, s.Energy,
		s.IsDead, s.LastStateUpdate, s.QualityScore, s.LastMessage, s.LastReaction,
	).Row().Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert pet state for %s: %w", s.WalletAddress, err)
	}
	return inserted, nil
}
