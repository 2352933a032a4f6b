package handlers

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// List never fails the request: a storage error yields an empty board with
// success=false so clients keep rendering.
func (h *LeaderboardHandler) List(c *fiber.Ctx) error {
	limit, offset := services.ClampPage(
		c.QueryInt("limit", services.DefaultLeaderboardLimit),
		c.QueryInt("offset", 0),
	)

	page, err := h.leaderboardService.ListTop(c.UserContext(), limit, offset)
	if err != nil {
		slog.Error("leaderboard unavailable", "trace_id", requestID(c), "action", "list_leaderboard", "error", err.Error())
		return c.JSON(dto.LeaderboardResponse{
			Success: false,
			Data:    []models.LeaderboardEntry{},
			Error:   "Leaderboard is temporarily unavailable",
		})
	}

	return c.JSON(dto.LeaderboardResponse{
		Success: true,
		Data:    page.Entries,
		Meta:    &dto.PageMeta{Total: page.Total, Limit: limit, Offset: offset},
	})
}

func (h *LeaderboardHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitPointsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.WalletAddress == "" || req.Points == nil {
		return badRequest(c, "walletAddress and points are required")
	}

	res, err := h.leaderboardService.SubmitPoints(c.UserContext(), req.WalletAddress, *req.Points, req.Username)
	if err != nil {
		return respondError(c, err)
	}

	message := "Points unchanged"
	if res.Updated {
		message = "Points updated"
	}
	return c.JSON(dto.SubmitPointsResponse{
		Success: true,
		Message: message,
		Updated: res.Updated,
		Points:  res.Points,
		Warning: res.Warning,
	})
}

func (h *LeaderboardHandler) Rank(c *fiber.Ctx) error {
	rank, total, err := h.leaderboardService.GetRank(c.UserContext(), c.Query("walletAddress"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.RankResponse{Success: true, Data: dto.RankData{Rank: rank, Total: total}})
}
