package notifications

import (
	notifsvc "unistay-backend/internal/application/notifications"
	"unistay-backend/internal/middleware"
	"unistay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *notifsvc.Service
}

// GET /api/v1/notifications
func (h *Handlers) List(c *fiber.Ctx) error {
	actor, _ := middleware.GetAuthUser(c)
	out, err := h.Service.GetUserNotifications(c.Context(), actor.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Notifications fetched successfully", out)
}

// PATCH /api/v1/notifications/:id/read
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	actor, _ := middleware.GetAuthUser(c)
	notificationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid notification id")
	}
	out, err := h.Service.MarkRead(c.Context(), notificationID, actor.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Notification marked as read", out)
}
