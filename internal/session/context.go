// Package session reads the authenticated wallet from a request.
package session

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/wallet"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenLocal  = "user"
	walletLocal = "wallet_address"
	adminLocal  = "admin_token"
)

var (
	ErrNoToken    = errors.New("invalid token in context")
	ErrBadClaims  = errors.New("invalid claims")
	ErrMissingSub = errors.New("missing sub claim")
)

// WalletFromToken extracts the normalized wallet from the JWT sub claim.
func WalletFromToken(c *fiber.Ctx) (string, error) {
	token, ok := c.Locals(tokenLocal).(*jwt.Token)
	if !ok || token == nil {
		return "", ErrNoToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrBadClaims
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrMissingSub
	}

	return wallet.Normalize(sub)
}

// SetWallet stores the authenticated wallet for later handlers.
func SetWallet(c *fiber.Ctx, addr string) {
	c.Locals(walletLocal, addr)
}

// GetWallet returns the wallet stored by SetWallet, or "".
func GetWallet(c *fiber.Ctx) string {
	if addr, ok := c.Locals(walletLocal).(string); ok {
		return addr
	}
	return ""
}

// MarkAdminToken records that the request carried a valid admin token.
func MarkAdminToken(c *fiber.Ctx) {
	c.Locals(adminLocal, true)
}

func HasAdminToken(c *fiber.Ctx) bool {
	ok, _ := c.Locals(adminLocal).(bool)
	return ok
}
