package handlers

import (
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ReferralHandler struct {
	referralService *services.ReferralService
}

func NewReferralHandler(referralService *services.ReferralService) *ReferralHandler {
	return &ReferralHandler{referralService: referralService}
}

func (h *ReferralHandler) Validate(c *fiber.Ctx) error {
	info, err := h.referralService.ValidateCode(c.UserContext(), c.Query("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReferralInfoResponse{
		Success: true,
		Data: dto.ReferralInfo{
			Username:      info.Username,
			ReferralCode:  info.ReferralCode,
			ReferralCount: info.ReferralCount,
		},
	})
}

func (h *ReferralHandler) Apply(c *fiber.Ctx) error {
	var req dto.ApplyReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	bonus, err := h.referralService.ApplyReferral(c.UserContext(), req.WalletAddress, req.ReferralCode)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ApplyReferralResponse{Success: true, Message: "Referral applied", BonusAwarded: bonus})
}
