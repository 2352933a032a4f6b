package models

import "time"

// MaxReferrals is the program-wide cap on referrals per user.
const MaxReferrals = 50

// User is a player identified by wallet address.
type User struct {
	WalletAddress     string     `gorm:"primaryKey;size:128" json:"walletAddress"`
	Username          string     `gorm:"size:32;not null" json:"username"`
	Points            int64      `gorm:"not null;default:0;index" json:"points"`
	ReferralCode      string     `gorm:"size:16;not null;uniqueIndex" json:"referralCode"`
	ReferralCount     int        `gorm:"not null;default:0" json:"referralCount"`
	ReferralPoints    int64      `gorm:"not null;default:0" json:"referralPoints"`
	ReferredBy        *string    `gorm:"size:128;index" json:"referredBy,omitempty"`
	ReferredAt        *time.Time `json:"referredAt,omitempty"`
	ReferralBonusPaid bool       `gorm:"not null;default:false" json:"-"`
	UID               string     `gorm:"column:uid;size:64;not null;uniqueIndex" json:"uid"`
	LastPointsUpdate  time.Time  `json:"lastPointsUpdate"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`

	PetState     *PetState     `gorm:"foreignKey:WalletAddress;references:WalletAddress;constraint:OnDelete:CASCADE" json:"-"`
	ActivityLogs []ActivityLog `gorm:"foreignKey:WalletAddress;references:WalletAddress;constraint:OnDelete:CASCADE" json:"-"`
}

// Referred reports whether a referral was ever applied. ReferredBy is cleared
// when the referrer deletes their account; ReferredAt never is.
func (u *User) Referred() bool {
	return u.ReferredBy != nil || u.ReferredAt != nil
}
