package dto

type ReferralInfo struct {
	Username      string `json:"username"`
	ReferralCode  string `json:"referralCode"`
	ReferralCount int    `json:"referralCount"`
}

type ReferralInfoResponse struct {
	Success bool         `json:"success"`
	Data    ReferralInfo `json:"data"`
}

type ApplyReferralRequest struct {
	WalletAddress string `json:"walletAddress"`
	ReferralCode  string `json:"referralCode"`
}

type ApplyReferralResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	BonusAwarded int64  `json:"bonusAwarded"`
}
