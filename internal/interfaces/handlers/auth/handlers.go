package auth

import (
	"time"

	authsvc "unistay-backend/internal/application/auth"
	"unistay-backend/internal/middleware"
	"unistay-backend/internal/pkg/response"
	"unistay-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

const tokenTTL = 24 * time.Hour

type Handlers struct {
	Service   *authsvc.Service
	JWTSecret string
}

// POST /api/v1/auth/register
func (h *Handlers) Register(c *fiber.Ctx) error {
	var body authsvc.RegisterInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, 400, "Invalid request body")
	}
	if err := validation.Struct(body); err != nil {
		return response.FromError(c, err)
	}
	user, err := h.Service.Register(c.Context(), body)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "User registered successfully", user)
}

// POST /api/v1/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var body authsvc.LoginInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, 400, "Invalid request body")
	}
	if err := validation.Struct(body); err != nil {
		return response.FromError(c, err)
	}
	user, err := h.Service.Login(c.Context(), body)
	if err != nil {
		return response.FromError(c, err)
	}
	token, err := middleware.IssueToken(h.JWTSecret, user.UserID, user.Role, tokenTTL)
	if err != nil {
		return response.Error(c, 500, "Internal Server Error")
	}
	return response.Success(c, "Login successful", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// GET /api/v1/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	actor, ok := middleware.GetAuthUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	user, err := h.Service.GetUser(c.Context(), actor.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "User fetched successfully", user)
}
