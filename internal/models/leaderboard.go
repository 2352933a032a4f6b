package models

// LeaderboardEntry is a ranked read projection of User.
type LeaderboardEntry struct {
	Rank          int64  `json:"rank"`
	WalletAddress string `json:"walletAddress"`
	Username      string `json:"username"`
	Points        int64  `json:"points"`
}
