package handlers

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/wallet"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// EnsureUser creates the wallet's user on first visit. It grants no session;
// tokens come from the signed challenge in AuthHandler.
func (h *UserHandler) EnsureUser(c *fiber.Ctx) error {
	var req dto.EnsureUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.userService.EnsureUser(c.UserContext(), req.WalletAddress, req.UID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.UserResponse{Success: true, Data: user})
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	res, err := h.userService.GetUser(c.UserContext(), c.Query("walletAddress"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.UserWithRankResponse{
		Success: true,
		Data:    dto.UserWithRank{User: res.User, Rank: res.Rank},
	})
}

// Account handles delete and rename for the authenticated wallet. The body
// wallet must match the token.
func (h *UserHandler) Account(c *fiber.Ctx) error {
	var req dto.AccountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	addr, err := wallet.Normalize(req.WalletAddress)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if addr != session.GetWallet(c) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Wallet does not match the authenticated session",
		})
	}

	switch strings.ToLower(strings.TrimSpace(req.Operation)) {
	case dto.AccountOperationDelete:
		report, err := h.userService.DeleteUser(c.UserContext(), addr)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.DeletionResponse{Success: true, Message: "Account deleted", Data: report})

	case dto.AccountOperationUpdate:
		if strings.TrimSpace(req.Username) == "" {
			return badRequest(c, "username is required for update")
		}
		if err := h.userService.UpdateUsername(c.UserContext(), addr, req.Username); err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.MessageResponse{Success: true, Message: "Username updated"})

	default:
		return badRequest(c, "operation must be delete or update")
	}
}

func (h *UserHandler) CheckUsername(c *fiber.Ctx) error {
	var req dto.CheckUsernameRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	available, err := h.userService.UsernameAvailable(c.UserContext(), req.Username)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CheckUsernameResponse{Success: true, Available: available})
}
