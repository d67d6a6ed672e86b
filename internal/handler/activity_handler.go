package handler

import (
	"strconv"

	"winehouse-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ActivityHandler struct {
	service service.ActivityService
}

func NewActivityHandler(s service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: s}
}

// GetActivityLogs lists audit entries
// Query params: user_id, limit (default 100)
func (h *ActivityHandler) GetActivityLogs(c *fiber.Ctx) error {
	var filter service.ActivityFilter

	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
		}
		filter.UserID = &id
	}
	filter.Limit, _ = strconv.Atoi(c.Query("limit", "100"))

	logs, err := h.service.List(filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch activity logs"})
	}
	return c.JSON(logs)
}
