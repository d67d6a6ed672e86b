package handler

import (
	"strconv"

	"winehouse-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AttendanceHandler struct {
	service service.AttendanceService
}

func NewAttendanceHandler(s service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: s}
}

// ClockIn opens today's attendance record for the caller
// POST /api/v1/attendance/clock-in
func (h *AttendanceHandler) ClockIn(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return respondError(c, err)
	}

	record, err := h.service.ClockIn(actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Clocked in", "data": record})
}

// ClockOut closes the caller's open record
// POST /api/v1/attendance/clock-out
func (h *AttendanceHandler) ClockOut(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return respondError(c, err)
	}

	record, err := h.service.ClockOut(actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Clocked out", "data": record})
}

func (h *AttendanceHandler) GetToday(c *fiber.Ctx) error {
	records, err := h.service.Today()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch attendance"})
	}
	return c.JSON(records)
}

func (h *AttendanceHandler) GetActiveStaff(c *fiber.Ctx) error {
	users, err := h.service.ActiveStaff()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch active staff"})
	}
	return c.JSON(users)
}

// GetMyHistory returns the caller's recent attendance
// GET /api/v1/attendance/me?limit=31
func (h *AttendanceHandler) GetMyHistory(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return respondError(c, err)
	}
	return h.history(c, actor.ID.String())
}

// GetUserHistory returns one user's recent attendance
// GET /api/v1/attendance/users/:id?limit=31
func (h *AttendanceHandler) GetUserHistory(c *fiber.Ctx) error {
	return h.history(c, c.Params("id"))
}

func (h *AttendanceHandler) history(c *fiber.Ctx, rawID string) error {
	id, err := parseUUID(rawID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "31"))
	records, err := h.service.History(id, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch attendance"})
	}
	return c.JSON(records)
}
