package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/wallet"
	"github.com/gofiber/fiber/v2"
)

// AdminToken marks requests carrying the configured X-Admin-Token. It never
// rejects; AdminRequired decides.
func AdminToken(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" {
			got := c.Get("X-Admin-Token")
			if subtle.ConstantTimeCompare([]byte(got), []byte(cfg.AdminToken)) == 1 {
				session.MarkAdminToken(c)
			}
		}
		return c.Next()
	}
}

// AdminRequired admits requests with a valid admin token or a JWT whose
// wallet is listed in ADMIN_WALLETS.
func AdminRequired(cfg *config.Config) fiber.Handler {
	adminWallets := parseWallets(cfg.AdminWallets)

	return func(c *fiber.Ctx) error {
		if session.HasAdminToken(c) {
			return c.Next()
		}

		addr, err := session.WalletFromToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if contains(adminWallets, addr) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

// parseWallets splits a comma list and normalizes each address. Malformed
// entries are dropped.
func parseWallets(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		addr, err := wallet.Normalize(p)
		if err == nil {
			result = append(result, addr)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
