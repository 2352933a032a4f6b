package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActivityFeed          = "feed"
	ActivityPlay          = "play"
	ActivityClean         = "clean"
	ActivityReferralBonus = "referral_bonus"
	ActivityPointsSync    = "points_sync"
)

// ActivityLog records point-bearing events per wallet.
type ActivityLog struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WalletAddress string    `gorm:"size:128;not null;index" json:"walletAddress"`
	Action        string    `gorm:"size:32;not null" json:"action"`
	PointsDelta   int64     `gorm:"not null;default:0" json:"pointsDelta"`
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`
}
