package dto

import (
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/services"
)

type EnsureUserRequest struct {
	WalletAddress string `json:"walletAddress"`
	UID           string `json:"uid"`
}

type UserResponse struct {
	Success bool         `json:"success"`
	Data    *models.User `json:"data"`
	Token   string       `json:"token,omitempty"`
}

type UserWithRank struct {
	User *models.User `json:"user"`
	Rank int64        `json:"rank"`
}

type UserWithRankResponse struct {
	Success bool         `json:"success"`
	Data    UserWithRank `json:"data"`
}

const (
	AccountOperationDelete = "delete"
	AccountOperationUpdate = "update"
)

type AccountRequest struct {
	WalletAddress string `json:"walletAddress"`
	Operation     string `json:"operation"`
	Username      string `json:"username"`
}

type CheckUsernameRequest struct {
	Username string `json:"username"`
}

type CheckUsernameResponse struct {
	Success   bool `json:"success"`
	Available bool `json:"available"`
}

type DeletionResponse struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message"`
	Data    *services.DeletionReport `json:"data,omitempty"`
}
