package models

import "time"

// PetState holds the five pet stats for one wallet.
type PetState struct {
	WalletAddress   string    `gorm:"primaryKey;size:128" json:"walletAddress"`
	Health          int       `gorm:"not null;default:100" json:"health"`
	Happiness       int       `gorm:"not null;default:100" json:"happiness"`
	Hunger          int       `gorm:"not null;default:100" json:"hunger"`
	Cleanliness     int       `gorm:"not null;default:100" json:"cleanliness"`
	Energy          int       `gorm:"not null;default:100" json:"energy"`
	IsDead          bool      `gorm:"not null;default:false" json:"isDead"`
	LastStateUpdate time.Time `gorm:"not null" json:"lastStateUpdate"`
	QualityScore    int       `gorm:"not null;default:100" json:"qualityScore"`
	LastMessage     *string   `gorm:"type:text" json:"lastMessage,omitempty"`
	LastReaction    *string   `gorm:"size:64" json:"lastReaction,omitempty"`
}
