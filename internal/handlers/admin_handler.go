package handlers

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	accountService *services.AccountService
}

func NewAdminHandler(accountService *services.AccountService) *AdminHandler {
	return &AdminHandler{accountService: accountService}
}

func (h *AdminHandler) DeleteAccount(c *fiber.Ctx) error {
	addr := c.Params("wallet")
	report, err := h.accountService.DeleteAccount(c.UserContext(), addr)
	if err != nil {
		return respondError(c, err)
	}

	slog.Info("admin deleted account", "wallet_address", report.WalletAddress, "trace_id", requestID(c))
	return c.JSON(dto.DeletionResponse{Success: true, Message: "Account deleted", Data: report})
}
