package handlers

import (
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PetHandler struct {
	petService *services.PetService
}

func NewPetHandler(petService *services.PetService) *PetHandler {
	return &PetHandler{petService: petService}
}

func (h *PetHandler) GetPetState(c *fiber.Ctx) error {
	res, err := h.petService.GetPetState(c.UserContext(), c.Query("walletAddress"))
	if err != nil {
		return respondError(c, err)
	}

	resp := dto.PetStateResponse{Success: true, Data: dto.NewPetStateData(res.State)}
	if res.Degraded {
		resp.Degraded = true
		resp.Warning = "Pet state is temporarily unavailable; showing defaults"
	}
	return c.JSON(resp)
}

// UpsertPetState answers 201 when the pet row was created and 200 otherwise.
func (h *PetHandler) UpsertPetState(c *fiber.Ctx) error {
	var req dto.PetStateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	_, created, err := h.petService.UpsertPetState(c.UserContext(), req.WalletAddress, req.Update())
	if err != nil {
		return respondError(c, err)
	}

	if created {
		return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Success: true, Message: "Pet state created"})
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Pet state updated"})
}

func (h *PetHandler) Interact(c *fiber.Ctx) error {
	var req dto.InteractRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	res, err := h.petService.Interact(c.UserContext(), req.WalletAddress, req.Action)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.InteractResponse{
		Success: true,
		Data: dto.InteractData{
			PetState:      dto.NewPetStateData(res.State),
			PointsAwarded: res.PointsAwarded,
			Points:        res.Points,
		},
	})
}

func (h *PetHandler) Activity(c *fiber.Ctx) error {
	entries, err := h.petService.Activity(c.UserContext(), c.Query("walletAddress"), c.QueryInt("limit", services.DefaultActivityLimit))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ActivityResponse{Success: true, Data: entries})
}
