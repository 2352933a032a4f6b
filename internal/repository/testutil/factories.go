package testutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"
	"github.com/google/uuid"
)

// WalletFor builds a deterministic lowercase EVM address from n.
func WalletFor(n int) string {
	return fmt.Sprintf("0x%040x", n)
}

// CreateTestUser returns an unsaved user with unique identifiers.
func CreateTestUser(n int, username string, points int64) *models.User {
	return &models.User{
		WalletAddress:    WalletFor(n),
		Username:         username,
		Points:           points,
		ReferralCode:     strings.ToUpper(uuid.NewString()[:8]),
		UID:              uuid.NewString(),
		LastPointsUpdate: time.Now(),
	}
}
