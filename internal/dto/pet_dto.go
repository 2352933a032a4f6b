package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/services"
)

// PetStateFields is the writable part of a pet. Omitted fields are nil.
type PetStateFields struct {
	Health       *int    `json:"health"`
	Happiness    *int    `json:"happiness"`
	Hunger       *int    `json:"hunger"`
	Cleanliness  *int    `json:"cleanliness"`
	Energy       *int    `json:"energy"`
	IsDead       *bool   `json:"isDead"`
	QualityScore *int    `json:"qualityScore"`
	LastMessage  *string `json:"lastMessage"`
	LastReaction *string `json:"lastReaction"`
}

// PetStateRequest accepts the fields either at the top level or nested under
// petState. Nested values win when both are sent.
type PetStateRequest struct {
	WalletAddress string `json:"walletAddress"`
	PetStateFields
	PetState *PetStateFields `json:"petState"`
}

// Update collapses the two accepted shapes into one service update.
func (r *PetStateRequest) Update() services.PetStateUpdate {
	f := r.PetStateFields
	if n := r.PetState; n != nil {
		f.Health = pick(n.Health, f.Health)
		f.Happiness = pick(n.Happiness, f.Happiness)
		f.Hunger = pick(n.Hunger, f.Hunger)
		f.Cleanliness = pick(n.Cleanliness, f.Cleanliness)
		f.Energy = pick(n.Energy, f.Energy)
		f.IsDead = pick(n.IsDead, f.IsDead)
		f.QualityScore = pick(n.QualityScore, f.QualityScore)
		f.LastMessage = pick(n.LastMessage, f.LastMessage)
		f.LastReaction = pick(n.LastReaction, f.LastReaction)
	}
	return services.PetStateUpdate{
		Health:       f.Health,
		Happiness:    f.Happiness,
		Hunger:       f.Hunger,
		Cleanliness:  f.Cleanliness,
		Energy:       f.Energy,
		IsDead:       f.IsDead,
		QualityScore: f.QualityScore,
		LastMessage:  f.LastMessage,
		LastReaction: f.LastReaction,
	}
}

func pick[T any](preferred, fallback *T) *T {
	if preferred != nil {
		return preferred
	}
	return fallback
}

type PetStateData struct {
	Health          int       `json:"health"`
	Happiness       int       `json:"happiness"`
	Hunger          int       `json:"hunger"`
	Cleanliness     int       `json:"cleanliness"`
	Energy          int       `json:"energy"`
	IsDead          bool      `json:"isDead"`
	LastStateUpdate time.Time `json:"lastStateUpdate"`
	QualityScore    int       `json:"qualityScore"`
	LastMessage     *string   `json:"lastMessage"`
	LastReaction    *string   `json:"lastReaction"`
}

func NewPetStateData(s models.PetState) PetStateData {
	return PetStateData{
		Health:          s.Health,
		Happiness:       s.Happiness,
		Hunger:          s.Hunger,
		Cleanliness:     s.Cleanliness,
		Energy:          s.Energy,
		IsDead:          s.IsDead,
		LastStateUpdate: s.LastStateUpdate,
		QualityScore:    s.QualityScore,
		LastMessage:     s.LastMessage,
		LastReaction:    s.LastReaction,
	}
}

type PetStateResponse struct {
	Success  bool         `json:"success"`
	Data     PetStateData `json:"data"`
	Degraded bool         `json:"degraded,omitempty"`
	Warning  string       `json:"warning,omitempty"`
}

type InteractRequest struct {
	WalletAddress string `json:"walletAddress"`
	Action        string `json:"action"`
}

type InteractData struct {
	PetState      PetStateData `json:"petState"`
	PointsAwarded int64        `json:"pointsAwarded"`
	Points        int64        `json:"points"`
}

type InteractResponse struct {
	Success bool         `json:"success"`
	Data    InteractData `json:"data"`
}

type ActivityResponse struct {
	Success bool                 `json:"success"`
	Data    []models.ActivityLog `json:"data"`
}
