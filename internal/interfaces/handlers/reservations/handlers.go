package reservations

import (
	resvc "unistay-backend/internal/application/reservations"
	"unistay-backend/internal/domain"
	"unistay-backend/internal/middleware"
	"unistay-backend/internal/pkg/response"
	"unistay-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *resvc.Service
}

type createReservationBody struct {
	PropertyID string `json:"property_id" validate:"required,uuid4"`
	Message    string `json:"message"`
}

// POST /api/v1/reservations — student only
func (h *Handlers) CreateReservation(c *fiber.Ctx) error {
	actor, _ := middleware.GetAuthUser(c)
	var body createReservationBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, 400, "Invalid request body")
	}
	if err := validation.Struct(body); err != nil {
		return response.FromError(c, err)
	}
	propertyID, err := uuid.Parse(body.PropertyID)
	if err != nil {
		return response.Error(c, 400, "Invalid property_id format")
	}
	reservation, err := h.Service.CreateReservation(c.Context(), actor.UserID, propertyID, body.Message)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Reservation created successfully", reservation)
}

// GET /api/v1/reservations — student or landlord view depending on role
func (h *Handlers) GetReservations(c *fiber.Ctx) error {
	actor, _ := middleware.GetAuthUser(c)
	var (
		out []resvc.View
		err error
	)
	if actor.Role == domain.RoleLandlord {
		out, err = h.Service.GetLandlordReservations(c.Context(), actor.UserID)
	} else {
		out, err = h.Service.GetStudentReservations(c.Context(), actor.UserID)
	}
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Reservations fetched successfully", out)
}

type updateReservationBody struct {
	Status          string `json:"status" validate:"required,oneof=approved rejected"`
	RejectionReason string `json:"rejection_reason"`
}

// PATCH /api/v1/reservations/:id/status — landlord only
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	actor, _ := middleware.GetAuthUser(c)
	reservationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid reservation id")
	}
	var body updateReservationBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, 400, "Invalid request body")
	}
	if err := validation.Struct(body); err != nil {
		return response.FromError(c, err)
	}
	reservation, err := h.Service.UpdateReservationStatus(c.Context(), reservationID, actor.UserID, body.Status, body.RejectionReason)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Reservation status updated", reservation)
}

// DELETE /api/v1/reservations/:id — student cancel
func (h *Handlers) Cancel(c *fiber.Ctx) error {
	actor, _ := middleware.GetAuthUser(c)
	reservationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid reservation id")
	}
	reservation, err := h.Service.CancelReservation(c.Context(), reservationID, actor.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Reservation cancelled", reservation)
}

// POST /api/v1/reservations/expire — admin only (on-demand sweep)
func (h *Handlers) Expire(c *fiber.Ctx) error {
	expired, err := h.Service.ExpireOldReservations(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Expired reservations swept", fiber.Map{"expired": expired})
}
