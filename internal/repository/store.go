package repository

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/services"
	"gorm.io/gorm"
)

// Store implements services.Store on a gorm handle, which is either the pool
// or an open transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() services.UserRepository         { return &UserRepository{db: s.db} }
func (s *Store) Pets() services.PetRepository           { return &PetRepository{db: s.db} }
func (s *Store) Activity() services.ActivityRepository { return &ActivityRepository{db: s.db} }

func (s *Store) Transaction(ctx context.Context, fn func(tx services.Store) error) error {
	return database.WithRetryTx(ctx, s.db, func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}
