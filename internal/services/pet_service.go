package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/pet"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/wallet"
)

const (
	DefaultActivityLimit = 20
	MaxActivityLimit     = 100
)

type PetService struct {
	store     Store
	cache     cache.LeaderboardCache
	referrals *ReferralService
	now       func() time.Time
}

func NewPetService(store Store, c cache.LeaderboardCache, referrals *ReferralService) *PetService {
	return &PetService{store: store, cache: c, referrals: referrals, now: time.Now}
}

// PetStateResult is a pet read. Degraded is set when storage failed and the
// state is the default pet rather than the stored one.
type PetStateResult struct {
	State    models.PetState
	Degraded bool
}

// PetStateUpdate is a partial update. Nil fields keep their stored value.
type PetStateUpdate struct {
	Health       *int
	Happiness    *int
	Hunger       *int
	Cleanliness  *int
	Energy       *int
	IsDead       *bool
	QualityScore *int
	LastMessage  *string
	LastReaction *string
}

// InteractResult is the pet after an action and the points it earned.
type InteractResult struct {
	State         models.PetState
	PointsAwarded int64
	Points        int64
	BonusAwarded  int64
}

func toStats(s *models.PetState) pet.Stats {
	return pet.Stats{
		Health:      s.Health,
		Happiness:   s.Happiness,
		Hunger:      s.Hunger,
		Cleanliness: s.Cleanliness,
		Energy:      s.Energy,
		IsDead:      s.IsDead,
	}
}

func applyStats(s *models.PetState, st pet.Stats) {
	s.Health = st.Health
	s.Happiness = st.Happiness
	s.Hunger = st.Hunger
	s.Cleanliness = st.Cleanliness
	s.Energy = st.Energy
	s.IsDead = st.IsDead
}

func defaultPetState(walletAddr string, now time.Time) models.PetState {
	st := pet.Default()
	state := models.PetState{WalletAddress: walletAddr, LastStateUpdate: now}
	applyStats(&state, st)
	state.QualityScore = pet.Quality(st)
	return state
}

// GetPetState returns the stored pet, creating the default one on first read.
// Storage failures are logged and answered with a degraded default pet.
func (s *PetService) GetPetState(ctx context.Context, addr string) (*PetStateResult, error) {
	walletAddr, err := wallet.Normalize(addr)
	if err != nil {
		return nil, invalidWallet(err)
	}
	now := s.now().UTC()
	degraded := func(op string, err error) (*PetStateResult, error) {
		slog.Error("pet state read degraded", "wallet_address", walletAddr, "action", op, "error", err.Error())
		return &PetStateResult{State: defaultPetState(walletAddr, now), Degraded: true}, nil
	}

	user, err := s.store.Users().GetByWallet(ctx, walletAddr)
	if err != nil {
		return degraded("get_user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	pets := s.store.Pets()
	state, err := pets.Get(ctx, walletAddr)
	if err != nil {
		return degraded("get_pet", err)
	}
	if state != nil {
		return &PetStateResult{State: *state}, nil
	}

	fresh := defaultPetState(walletAddr, now)
	if _, err := pets.Upsert(ctx, &fresh); err != nil {
		return degraded("create_pet", err)
	}
	return &PetStateResult{State: fresh}, nil
}

// UpsertPetState merges update into the stored (or default) pet and writes
// it. Values are clamped to [0,100] and a pet that meets the death rule is
// marked dead. It reports whether the row was created.
func (s *PetService) UpsertPetState(ctx context.Context, addr string, update PetStateUpdate) (*models.PetState, bool, error) {
	walletAddr, err := wallet.Normalize(addr)
	if err != nil {
		return nil, false, invalidWallet(err)
	}

	user, err := s.store.Users().GetByWallet(ctx, walletAddr)
	if err != nil {
		return nil, false, storeError("get user", err)
	}
	if user == nil {
		return nil, false, ErrUserNotFound
	}

	now := s.now().UTC()
	pets := s.store.Pets()
	existing, err := pets.Get(ctx, walletAddr)
	if err != nil {
		return nil, false, storeError("get pet", err)
	}
	state := defaultPetState(walletAddr, now)
	if existing != nil {
		state = *existing
	}

	st := mergeStats(toStats(&state), update)
	applyStats(&state, st)
	if update.QualityScore != nil {
		state.QualityScore = pet.Clamp(*update.QualityScore)
	} else {
		state.QualityScore = pet.Quality(st)
	}
	if update.LastMessage != nil {
		state.LastMessage = update.LastMessage
	}
	if update.LastReaction != nil {
		state.LastReaction = update.LastReaction
	}
	state.LastStateUpdate = now

	created, err := pets.Upsert(ctx, &state)
	if err != nil {
		return nil, false, storeError("upsert pet", err)
	}
	return &state, created, nil
}

func mergeStats(st pet.Stats, u PetStateUpdate) pet.Stats {
	set := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	set(&st.Health, u.Health)
	set(&st.Happiness, u.Happiness)
	set(&st.Hunger, u.Hunger)
	set(&st.Cleanliness, u.Cleanliness)
	set(&st.Energy, u.Energy)
	if u.IsDead != nil {
		st.IsDead = *u.IsDead
	}
	return pet.Normalize(st)
}

// Interact applies decay since the last update, performs action and credits
// the points, all in one transaction.
func (s *PetService) Interact(ctx context.Context, addr, action string) (*InteractResult, error) {
	walletAddr, err := wallet.Normalize(addr)
	if err != nil {
		return nil, invalidWallet(err)
	}
	act, err := pet.ParseAction(action)
	if err != nil {
		return nil, ErrInvalidAction
	}

	var (
		result *InteractResult
		died   bool
	)
	err = s.store.Transaction(ctx, func(tx Store) error {
		result, died = nil, false
		now := s.now().UTC()

		user, err := tx.Users().GetByWallet(ctx, walletAddr)
		if err != nil {
			return storeError("get user", err)
		}
		if user == nil {
			return ErrUserNotFound
		}

		pets := tx.Pets()
		existing, err := pets.Get(ctx, walletAddr)
		if err != nil {
			return storeError("get pet", err)
		}
		state := defaultPetState(walletAddr, now)
		if existing != nil {
			state = *existing
		}

		st := pet.Decay(toStats(&state), now.Sub(state.LastStateUpdate))
		if st.IsDead && !state.IsDead {
			// Decay killed the pet. Persist the death before refusing the action.
			applyStats(&state, st)
			state.QualityScore = pet.Quality(st)
			state.LastStateUpdate = now
			if _, err := pets.Upsert(ctx, &state); err != nil {
				return storeError("upsert pet", err)
			}
			died = true
			return nil
		}

		st, awarded, err := pet.Apply(st, act)
		if errors.Is(err, pet.ErrPetDead) {
			return ErrPetDead
		}
		if err != nil {
			return ErrInvalidAction
		}

		applyStats(&state, st)
		state.QualityScore = pet.Quality(st)
		state.LastStateUpdate = now
		reaction := string(act)
		state.LastReaction = &reaction

		if _, err := pets.Upsert(ctx, &state); err != nil {
			return storeError("upsert pet", err)
		}
		points, err := tx.Users().AddPoints(ctx, walletAddr, awarded)
		if err != nil {
			return storeError("add points", err)
		}
		if err := tx.Activity().Record(ctx, &models.ActivityLog{
			WalletAddress: walletAddr,
			Action:        string(act),
			PointsDelta:   awarded,
			CreatedAt:     now,
		}); err != nil {
			return storeError("record activity", err)
		}

		bonus, err := s.referrals.CheckThreshold(ctx, tx, walletAddr)
		if err != nil {
			return err
		}

		result = &InteractResult{State: state, PointsAwarded: awarded, Points: points, BonusAwarded: bonus}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if died {
		slog.Info("pet died of neglect", "wallet_address", walletAddr, "action", string(act))
		return nil, ErrPetDead
	}

	s.cache.Invalidate(ctx)
	return result, nil
}

// Activity lists the wallet's most recent point-bearing events.
func (s *PetService) Activity(ctx context.Context, addr string, limit int) ([]models.ActivityLog, error) {
	walletAddr, err := wallet.Normalize(addr)
	if err != nil {
		return nil, invalidWallet(err)
	}
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		limit = MaxActivityLimit
	}
	entries, err := s.store.Activity().ListByWallet(ctx, walletAddr, limit)
	if err != nil {
		return nil, storeError("list activity", err)
	}
	return entries, nil
}
