package dto

import "time"

type ChallengeRequest struct {
	WalletAddress string `json:"walletAddress"`
}

type ChallengeData struct {
	WalletAddress string    `json:"walletAddress"`
	Nonce         string    `json:"nonce"`
	Message       string    `json:"message"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

type ChallengeResponse struct {
	Success bool          `json:"success"`
	Data    ChallengeData `json:"data"`
}

// SignInRequest carries a personal_sign signature over the challenge message.
type SignInRequest struct {
	WalletAddress string `json:"walletAddress"`
	Signature     string `json:"signature"`
}
