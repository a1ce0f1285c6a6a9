package bookings

import (
	"time"

	booksvc "unistay-backend/internal/application/bookings"
	"unistay-backend/internal/domain"
	"unistay-backend/internal/middleware"
	"unistay-backend/internal/pkg/response"
	"unistay-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *booksvc.Service
}

type createBookingBody struct {
	PropertyID     string  `json:"property_id" validate:"required,uuid4"`
	LandlordID     string  `json:"landlord_id" validate:"required,uuid4"`
	ReservationID  string  `json:"reservation_id"`
	MoveInDate     string  `json:"move_in_date" validate:"required"`
	DurationMonths int     `json:"duration_months"`
	PaymentMethod  string  `json:"payment_method"`
	TotalAmount    float64 `json:"total_amount"`
}

// POST /api/v1/bookings — student only
func (h *Handlers) CreateBooking(c *fiber.Ctx) error {
	actor, _ := middleware.GetAuthUser(c)
	var body createBookingBody
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
	landlordID, err := uuid.Parse(body.LandlordID)
	if err != nil {
		return response.Error(c, 400, "Invalid landlord_id format")
	}
	moveIn, err := time.Parse("2006-01-02", body.MoveInDate)
	if err != nil {
		return response.Error(c, 400, "Invalid move_in_date format, expected YYYY-MM-DD")
	}
	var reservationID *uuid.UUID
	if body.ReservationID != "" {
		id, err := uuid.Parse(body.ReservationID)
		if err != nil {
			return response.Error(c, 400, "Invalid reservation_id format")
		}
		reservationID = &id
	}
	booking, err := h.Service.CreateBooking(c.Context(), booksvc.CreateBookingInput{
		StudentID:      actor.UserID,
		PropertyID:     propertyID,
		LandlordID:     landlordID,
		ReservationID:  reservationID,
		MoveInDate:     moveIn,
		DurationMonths: body.DurationMonths,
		PaymentMethod:  body.PaymentMethod,
		TotalAmount:    body.TotalAmount,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Booking created successfully", booking)
}

// GET /api/v1/bookings — student or landlord view depending on role
func (h *Handlers) GetBookings(c *fiber.Ctx) error {
	actor, _ := middleware.GetAuthUser(c)
	var (
		out []booksvc.View
		err error
	)
	if actor.Role == domain.RoleLandlord {
		out, err = h.Service.GetLandlordBookings(c.Context(), actor.UserID)
	} else {
		out, err = h.Service.GetStudentBookings(c.Context(), actor.UserID)
	}
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Bookings fetched successfully", out)
}

// GET /api/v1/bookings/:id
func (h *Handlers) GetBookingByID(c *fiber.Ctx) error {
	actor, _ := middleware.GetAuthUser(c)
	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid booking id")
	}
	booking, err := h.Service.GetBookingByID(c.Context(), bookingID, actor.UserID, actor.Role)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Booking fetched successfully", booking)
}

type updateBookingBody struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected cancelled confirmed active"`
}

// PATCH /api/v1/bookings/:id/status — role gated; landlord approval/rejection
// carries the escrow side effect.
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	actor, _ := middleware.GetAuthUser(c)
	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid booking id")
	}
	var body updateBookingBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, 400, "Invalid request body")
	}
	if err := validation.Struct(body); err != nil {
		return response.FromError(c, err)
	}
	booking, err := h.Service.UpdateBookingStatus(c.Context(), bookingID, actor.UserID, actor.Role, body.Status)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Booking status updated", booking)
}

// DELETE /api/v1/bookings/:id — student cancel
func (h *Handlers) Cancel(c *fiber.Ctx) error {
	actor, _ := middleware.GetAuthUser(c)
	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid booking id")
	}
	booking, err := h.Service.CancelBooking(c.Context(), bookingID, actor.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Booking cancelled", booking)
}
