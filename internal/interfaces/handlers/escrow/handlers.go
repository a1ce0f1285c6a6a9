package escrow

import (
	escrowsvc "unistay-backend/internal/application/escrow"
	"unistay-backend/internal/middleware"
	"unistay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *escrowsvc.Service
}

// GET /api/v1/escrow/landlord
func (h *Handlers) GetLandlordEscrow(c *fiber.Ctx) error {
	actor, _ := middleware.GetAuthUser(c)
	out, err := h.Service.GetLandlordEscrow(c.Context(), actor.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Escrow records fetched successfully", out)
}

// GET /api/v1/escrow/student
func (h *Handlers) GetStudentEscrow(c *fiber.Ctx) error {
	actor, _ := middleware.GetAuthUser(c)
	out, err := h.Service.GetStudentEscrow(c.Context(), actor.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Escrow records fetched successfully", out)
}

// GET /api/v1/escrow/booking/:bookingId
func (h *Handlers) GetEscrowByBooking(c *fiber.Ctx) error {
	actor, _ := middleware.GetAuthUser(c)
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return response.Error(c, 400, "Invalid booking id")
	}
	out, err := h.Service.GetEscrowByBooking(c.Context(), bookingID, actor.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Escrow record fetched successfully", out)
}

// POST /api/v1/escrow/:escrowId/accept — landlord only
func (h *Handlers) Accept(c *fiber.Ctx) error {
	actor, _ := middleware.GetAuthUser(c)
	escrowID, err := uuid.Parse(c.Params("escrowId"))
	if err != nil {
		return response.Error(c, 400, "Invalid escrow id")
	}
	out, err := h.Service.ReleaseEscrowByID(c.Context(), escrowID, actor.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Escrow released to landlord", out)
}

type declineBody struct {
	Reason string `json:"reason"`
}

// POST /api/v1/escrow/:escrowId/decline — landlord only
func (h *Handlers) Decline(c *fiber.Ctx) error {
	actor, _ := middleware.GetAuthUser(c)
	escrowID, err := uuid.Parse(c.Params("escrowId"))
	if err != nil {
		return response.Error(c, 400, "Invalid escrow id")
	}
	var body declineBody
	_ = c.BodyParser(&body)
	out, err := h.Service.RefundEscrowByID(c.Context(), escrowID, actor.UserID, body.Reason)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Escrow refunded to student", out)
}
