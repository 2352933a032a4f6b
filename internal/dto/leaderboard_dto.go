package dto

import "github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"

type PageMeta struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

type LeaderboardResponse struct {
	Success bool                      `json:"success"`
	Data    []models.LeaderboardEntry `json:"data"`
	Meta    *PageMeta                 `json:"meta,omitempty"`
	Error   string                    `json:"error,omitempty"`
}

type SubmitPointsRequest struct {
	WalletAddress string `json:"walletAddress"`
	Points        *int64 `json:"points"`
	Username      string `json:"username"`
}

type SubmitPointsResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Updated bool   `json:"updated"`
	Points  int64  `json:"points"`
	Warning string `json:"warning,omitempty"`
}

type RankData struct {
	Rank  int64 `json:"rank"`
	Total int64 `json:"total"`
}

type RankResponse struct {
	Success bool     `json:"success"`
	Data    RankData `json:"data"`
}
