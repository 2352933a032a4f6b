// Package pet holds the stat arithmetic for pets: clamping, the weighted
// health formula, time decay and player actions.
package pet

import (
	"errors"
	"math"
	"time"
)

const (
	MinStat = 0
	MaxStat = 100
)

var (
	ErrUnknownAction = errors.New("unknown pet action")
	ErrPetDead       = errors.New("pet is dead")
)

// Action is a player interaction.
type Action string

const (
	Feed  Action = "feed"
	Play  Action = "play"
	Clean Action = "clean"
)

// Stats is the mutable part of a pet.
type Stats struct {
	Health      int
	Happiness   int
	Hunger      int
	Cleanliness int
	Energy      int
	IsDead      bool
}

// Per-hour decay rates.
const (
	hungerDecay      = 4.0
	happinessDecay   = 3.0
	cleanlinessDecay = 2.0
	energyDecay      = 2.0
)

type effect struct {
	hunger, happiness, cleanliness, energy int
	points                                 int64
}

var effects = map[Action]effect{
	Feed:  {hunger: 20, energy: 5, points: 10},
	Play:  {happiness: 20, energy: -10, hunger: -5, points: 15},
	Clean: {cleanliness: 25, happiness: 5, points: 10},
}

// ParseAction validates a client-supplied action name.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if _, ok := effects[a]; !ok {
		return "", ErrUnknownAction
	}
	return a, nil
}

func Clamp(v int) int {
	if v < MinStat {
		return MinStat
	}
	if v > MaxStat {
		return MaxStat
	}
	return v
}

// Health weighs hunger 0.4 and the other three stats 0.2 each. hungerRaw is
// the unclamped hunger value; anything above 100 is overfeeding and is
// subtracted from the result.
func Health(hungerRaw, happiness, cleanliness, energy int) int {
	h := 0.4*float64(Clamp(hungerRaw)) +
		0.2*float64(Clamp(happiness)) +
		0.2*float64(Clamp(cleanliness)) +
		0.2*float64(Clamp(energy))
	if hungerRaw > MaxStat {
		h -= float64(hungerRaw - MaxStat)
	}
	return Clamp(int(math.Round(h)))
}

// Dead reports the death rule: health or hunger at zero.
func Dead(s Stats) bool {
	return s.Health <= MinStat || s.Hunger <= MinStat
}

// Normalize clamps every stat and applies the death rule. A pet already
// marked dead stays dead.
func Normalize(s Stats) Stats {
	s.Health = Clamp(s.Health)
	s.Happiness = Clamp(s.Happiness)
	s.Hunger = Clamp(s.Hunger)
	s.Cleanliness = Clamp(s.Cleanliness)
	s.Energy = Clamp(s.Energy)
	s.IsDead = s.IsDead || Dead(s)
	return s
}

// Default is a freshly adopted pet.
func Default() Stats {
	return Stats{Health: MaxStat, Happiness: MaxStat, Hunger: MaxStat, Cleanliness: MaxStat, Energy: MaxStat}
}

// Decay lowers stats for the elapsed time and recomputes health.
func Decay(s Stats, elapsed time.Duration) Stats {
	if s.IsDead || elapsed <= 0 {
		return Normalize(s)
	}
	hours := elapsed.Hours()
	s.Hunger = Clamp(s.Hunger - int(math.Round(hungerDecay*hours)))
	s.Happiness = Clamp(s.Happiness - int(math.Round(happinessDecay*hours)))
	s.Cleanliness = Clamp(s.Cleanliness - int(math.Round(cleanlinessDecay*hours)))
	s.Energy = Clamp(s.Energy - int(math.Round(energyDecay*hours)))
	s.Health = Health(s.Hunger, s.Happiness, s.Cleanliness, s.Energy)
	return Normalize(s)
}

// Apply performs an action and returns the new stats with the points earned.
func Apply(s Stats, a Action) (Stats, int64, error) {
	e, ok := effects[a]
	if !ok {
		return s, 0, ErrUnknownAction
	}
	if s.IsDead {
		return s, 0, ErrPetDead
	}

	hungerRaw := s.Hunger + e.hunger
	s.Happiness = Clamp(s.Happiness + e.happiness)
	s.Cleanliness = Clamp(s.Cleanliness + e.cleanliness)
	s.Energy = Clamp(s.Energy + e.energy)
	s.Health = Health(hungerRaw, s.Happiness, s.Cleanliness, s.Energy)
	s.Hunger = Clamp(hungerRaw)
	return Normalize(s), e.points, nil
}

// Quality is the rounded mean of the five stats.
func Quality(s Stats) int {
	sum := s.Health + s.Happiness + s.Hunger + s.Cleanliness + s.Energy
	return int(math.Round(float64(sum) / 5))
}
