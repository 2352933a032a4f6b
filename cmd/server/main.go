package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db, 5*time.Second)
	slog.SetDefault(slog.New(logging.NewMultiHandler(logging.StdoutHandler(), pgLogHandler)))

	// Retention for system and activity logs and stale sign-in challenges
	activityRepo := repository.NewActivityRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	scheduler, err := logging.StartCleanup(
		logging.RetentionJob{Name: "system_logs_retention", Keep: logging.Days(cfg.LogRetentionDays), Prune: logging.PruneSystemLogs(db)},
		logging.RetentionJob{Name: "activity_logs_retention", Keep: logging.Days(cfg.ActivityRetentionDays), Prune: activityRepo.DeleteOlderThan},
		logging.RetentionJob{Name: "auth_challenges_retention", Keep: time.Hour, Prune: challengeRepo.DeleteExpired},
	)
	if err != nil {
		slog.Error("retention scheduler failed", "error", err)
		os.Exit(1)
	}

	// Leaderboard cache (optional)
	leaderboardCache, rdb := connectCache(cfg)

	// Services
	store := repository.NewStore(db)
	accountService := services.NewAccountService(store, repository.NewAccountRepository(db), repository.Dependents, leaderboardCache)
	referralService := services.NewReferralService(store, leaderboardCache)
	userService := services.NewUserService(store, accountService, services.NewContentFilter(), services.TokenConfig{
		Secret: cfg.JWTSecret,
		Expiry: cfg.JWTAccessExpiry,
	})
	authService := services.NewAuthService(challengeRepo, userService, cfg.AuthChallengeTTL)
	leaderboardService := services.NewLeaderboardService(store, leaderboardCache, userService, referralService)
	petService := services.NewPetService(store, leaderboardCache, referralService)

	// Handlers
	h := routes.Handlers{
		Health: handlers.NewHealthHandler(func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}, leaderboardCache),
		Auth:        handlers.NewAuthHandler(authService),
		User:        handlers.NewUserHandler(userService),
		Pet:         handlers.NewPetHandler(petService),
		Leaderboard: handlers.NewLeaderboardHandler(leaderboardService),
		Referral:    handlers.NewReferralHandler(referralService),
		Admin:       handlers.NewAdminHandler(accountService),
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	app := newApp(cfg)
	routes.Setup(app, cfg, h)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	if err := scheduler.Shutdown(); err != nil {
		slog.Error("scheduler shutdown error", "error", err)
	}
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	closeResources(db, rdb)
	slog.Info("server stopped")
}

// connectCache returns the Redis-backed cache when REDIS_ADDR is set and
// reachable, otherwise the no-op cache.
func connectCache(cfg *config.Config) (cache.LeaderboardCache, *redis.Client) {
	if cfg.RedisAddr == "" {
		slog.Info("leaderboard cache disabled")
		return cache.Noop{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		slog.Warn("redis unavailable, leaderboard cache disabled", "addr", cfg.RedisAddr, "error", err)
		return cache.Noop{}, nil
	}
	slog.Info("leaderboard cache connected", "addr", cfg.RedisAddr, "ttl", cfg.LeaderboardCacheTTL.String())
	return cache.NewRedis(rdb, cfg.LeaderboardCacheTTL), rdb
}

func newApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())
	return app
}

func closeResources(db *gorm.DB, rdb *redis.Client) {
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   true,
		"message": message,
	})
}
