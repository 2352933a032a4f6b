package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// errorStatus maps a service error to its HTTP status and client message.
// Server errors never expose details.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrPetDead):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusBadRequest, err.Error()
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status, message := errorStatus(err)
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed",
			"trace_id", requestID(c),
			"action", c.Method()+" "+c.Path(),
			"error", err.Error(),
		)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
