package response

import (
	"unistay-backend/internal/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
)

// Success sends 200 with the standard success shape.
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// Created sends 201 with the standard success shape.
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// Error sends the standard error shape with an explicit status code.
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// FromError translates a service error through the taxonomy mapping.
func FromError(c *fiber.Ctx, err error) error {
	return Error(c, apperrors.StatusOf(err), apperrors.PublicMessage(err))
}

// Unauthorized sends 401 in the standard error shape.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}
