package health

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Handlers struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// GET /health/json
func (h *Handlers) JSON(c *fiber.Ctx) error {
	dbStatus := "ok"
	if h.DB == nil {
		dbStatus = "not configured"
	} else if sqlDB, err := h.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
	}

	redisStatus := "ok"
	if h.Rdb == nil {
		redisStatus = "not configured"
	} else if err := h.Rdb.Ping(c.Context()).Err(); err != nil {
		redisStatus = "down"
	}

	status := fiber.StatusOK
	if dbStatus == "down" || redisStatus == "down" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"success": status == fiber.StatusOK,
		"data": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}
