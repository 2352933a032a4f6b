package models

import "time"

// AuthChallenge is the outstanding sign-in nonce for a wallet. A new
// challenge replaces the previous one; a successful sign-in deletes it.
type AuthChallenge struct {
	WalletAddress string    `gorm:"primaryKey;size:128" json:"walletAddress"`
	Nonce         string    `gorm:"size:64;not null" json:"nonce"`
	Message       string    `gorm:"type:text;not null" json:"message"`
	ExpiresAt     time.Time `gorm:"not null;index" json:"expiresAt"`
	CreatedAt     time.Time `json:"createdAt"`
}
