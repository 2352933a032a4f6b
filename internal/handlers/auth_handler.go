package handlers

import (
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Challenge(c *fiber.Ctx) error {
	var req dto.ChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ch, err := h.authService.Challenge(c.UserContext(), req.WalletAddress)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ChallengeResponse{
		Success: true,
		Data: dto.ChallengeData{
			WalletAddress: ch.WalletAddress,
			Nonce:         ch.Nonce,
			Message:       ch.Message,
			ExpiresAt:     ch.ExpiresAt,
		},
	})
}

// SignIn exchanges a signed challenge for a session token.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Signature == "" {
		return badRequest(c, "signature is required")
	}

	res, err := h.authService.SignIn(c.UserContext(), req.WalletAddress, req.Signature)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.UserResponse{Success: true, Data: res.User, Token: res.Token})
}
