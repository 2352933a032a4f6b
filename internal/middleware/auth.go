package middleware

import (
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/session"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtProtected(cfg, nil)
}

// JWTUnlessAdminToken is JWTProtected, skipped for requests already
// authorized by AdminToken.
func JWTUnlessAdminToken(cfg *config.Config) fiber.Handler {
	return jwtProtected(cfg, session.HasAdminToken)
}

func jwtProtected(cfg *config.Config, skip func(*fiber.Ctx) bool) fiber.Handler {
	return jwtware.New(jwtware.Config{
		Filter:     skip,
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// WalletSession resolves the wallet from the verified token and stores it in
// the request locals. Must run after JWTProtected.
func WalletSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if session.HasAdminToken(c) {
			return c.Next()
		}
		addr, err := session.WalletFromToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: token carries no wallet",
			})
		}
		session.SetWallet(c, addr)
		return c.Next()
	}
}
