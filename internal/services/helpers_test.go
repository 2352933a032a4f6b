package services_test

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"
)

const (
	walletA = "0x00000000000000000000000000000000000000aa"
	walletB = "0x00000000000000000000000000000000000000bb"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func newUser(wallet, username, code string, points int64) *models.User {
	return &models.User{
		WalletAddress:    wallet,
		Username:         username,
		ReferralCode:     code,
		Points:           points,
		UID:              "uid-" + code,
		LastPointsUpdate: time.Now(),
	}
}
