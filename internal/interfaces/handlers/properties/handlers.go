package properties

import (
	propsvc "unistay-backend/internal/application/properties"
	"unistay-backend/internal/middleware"
	"unistay-backend/internal/pkg/response"
	"unistay-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Handlers struct {
	Service *propsvc.Service
}

type createPropertyBody struct {
	Title             string         `json:"title" validate:"required"`
	Description       string         `json:"description"`
	Address           string         `json:"address" validate:"required"`
	City              string         `json:"city" validate:"required"`
	MonthlyRent       float64        `json:"monthly_rent" validate:"required,gt=0"`
	AllowReservations *bool          `json:"allow_reservations"`
	EnableDownpayment bool           `json:"enable_downpayment"`
	DownpaymentAmount float64        `json:"downpayment_amount"`
	Amenities         datatypes.JSON `json:"amenities"`
	ImageURLs         []string       `json:"image_urls"`
	PrimaryImageIndex int            `json:"primary_image_index"`
}

// POST /api/v1/properties — landlord only
func (h *Handlers) CreateProperty(c *fiber.Ctx) error {
	actor, _ := middleware.GetAuthUser(c)
	var body createPropertyBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, 400, "Invalid request body")
	}
	if err := validation.Struct(body); err != nil {
		return response.FromError(c, err)
	}
	allowReservations := true
	if body.AllowReservations != nil {
		allowReservations = *body.AllowReservations
	}
	property, err := h.Service.CreateProperty(c.Context(), propsvc.CreatePropertyInput{
		LandlordID:        actor.UserID,
		Title:             body.Title,
		Description:       body.Description,
		Address:           body.Address,
		City:              body.City,
		MonthlyRent:       body.MonthlyRent,
		AllowReservations: allowReservations,
		EnableDownpayment: body.EnableDownpayment,
		DownpaymentAmount: body.DownpaymentAmount,
		Amenities:         body.Amenities,
		ImageURLs:         body.ImageURLs,
		PrimaryImageIndex: body.PrimaryImageIndex,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Property created successfully", property)
}

// GET /api/v1/properties?city=&max_rent=
func (h *Handlers) ListAvailable(c *fiber.Ctx) error {
	filter := propsvc.ListFilter{
		City:    c.Query("city"),
		MaxRent: c.QueryFloat("max_rent"),
	}
	out, err := h.Service.ListAvailable(c.Context(), filter)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Properties fetched successfully", out)
}

// GET /api/v1/properties/mine — landlord only
func (h *Handlers) ListMine(c *fiber.Ctx) error {
	actor, _ := middleware.GetAuthUser(c)
	out, err := h.Service.GetLandlordProperties(c.Context(), actor.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Properties fetched successfully", out)
}

// GET /api/v1/properties/:id
func (h *Handlers) GetProperty(c *fiber.Ctx) error {
	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid property id")
	}
	property, err := h.Service.GetProperty(c.Context(), propertyID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Property fetched successfully", property)
}

type updatePropertyBody struct {
	Title             *string  `json:"title"`
	Description       *string  `json:"description"`
	MonthlyRent       *float64 `json:"monthly_rent"`
	AllowReservations *bool    `json:"allow_reservations"`
	EnableDownpayment *bool    `json:"enable_downpayment"`
	DownpaymentAmount *float64 `json:"downpayment_amount"`
	Available         *bool    `json:"available"`
}

// PATCH /api/v1/properties/:id — landlord only
func (h *Handlers) UpdateProperty(c *fiber.Ctx) error {
	actor, _ := middleware.GetAuthUser(c)
	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid property id")
	}
	var body updatePropertyBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, 400, "Invalid request body")
	}
	property, err := h.Service.UpdateProperty(c.Context(), propertyID, actor.UserID, propsvc.UpdatePropertyInput{
		Title:             body.Title,
		Description:       body.Description,
		MonthlyRent:       body.MonthlyRent,
		AllowReservations: body.AllowReservations,
		EnableDownpayment: body.EnableDownpayment,
		DownpaymentAmount: body.DownpaymentAmount,
		Available:         body.Available,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Property updated successfully", property)
}

type verifyPropertyBody struct {
	Status string `json:"status" validate:"required,oneof=verified rejected"`
}

// PATCH /api/v1/properties/:id/verify — admin only
func (h *Handlers) VerifyProperty(c *fiber.Ctx) error {
	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid property id")
	}
	var body verifyPropertyBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, 400, "Invalid request body")
	}
	if err := validation.Struct(body); err != nil {
		return response.FromError(c, err)
	}
	property, err := h.Service.VerifyProperty(c.Context(), propertyID, body.Status)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Property verification updated", property)
}
