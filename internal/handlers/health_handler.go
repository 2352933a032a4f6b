package handlers

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	pingDB func(ctx context.Context) error
	cache  cache.LeaderboardCache
}

func NewHealthHandler(pingDB func(ctx context.Context) error, c cache.LeaderboardCache) *HealthHandler {
	return &HealthHandler{pingDB: pingDB, cache: c}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := "ok"
	dbStatus := "ok"
	if err := h.pingDB(ctx); err != nil {
		dbStatus = "unhealthy: " + err.Error()
		status = "degraded"
	}

	cacheStatus := "ok"
	if err := h.cache.Ping(ctx); err != nil {
		cacheStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Cache:     cacheStatus,
	})
}
