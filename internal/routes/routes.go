package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Pet         *handlers.PetHandler
	Leaderboard *handlers.LeaderboardHandler
	Referral    *handlers.ReferralHandler
	Admin       *handlers.AdminHandler
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Wallet sign-in: personal_sign over a one-time challenge
	auth := api.Group("/auth")
	auth.Post("/challenge", h.Auth.Challenge)
	auth.Post("/verify", h.Auth.SignIn)

	// Users
	api.Post("/user", h.User.EnsureUser)
	api.Get("/user", h.User.GetUser)
	api.Post("/user/account", middleware.JWTProtected(cfg), middleware.WalletSession(), h.User.Account)
	api.Post("/check-username", h.User.CheckUsername)

	// Pets
	api.Get("/pet-state", h.Pet.GetPetState)
	api.Post("/pet-state", h.Pet.UpsertPetState)
	api.Post("/pet-state/interact", h.Pet.Interact)
	api.Get("/pet-state/activity", h.Pet.Activity)

	// Leaderboard
	api.Get("/leaderboard", h.Leaderboard.List)
	api.Post("/leaderboard", h.Leaderboard.Submit)
	api.Get("/leaderboard/rank", h.Leaderboard.Rank)

	// Referrals
	api.Get("/referral", h.Referral.Validate)
	api.Post("/referral", h.Referral.Apply)

	// Admin: X-Admin-Token, or a JWT for a wallet in ADMIN_WALLETS
	admin := api.Group("/admin",
		middleware.AdminToken(cfg),
		middleware.JWTUnlessAdminToken(cfg),
		middleware.AdminRequired(cfg),
	)
	admin.Delete("/accounts/:wallet", h.Admin.DeleteAccount)
}
