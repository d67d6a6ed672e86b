package handler

import (
	"errors"
	"log"

	"winehouse-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// getActor builds the caller identity from the JWT context (set by auth middleware)
func getActor(c *fiber.Ctx) (service.Actor, error) {
	raw, _ := c.Locals("user_id").(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return service.Actor{}, service.ErrUnauthenticated
	}
	name, _ := c.Locals("user_name").(string)
	role, _ := c.Locals("user_role").(string)
	return service.Actor{ID: id, Username: name, Role: role}, nil
}

// Helper untuk parse UUID dari string
func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

func parseIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return parseUUID(c.Params(name))
}

// errorStatus maps service errors onto HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrSessionTimeout),
		errors.Is(err, service.ErrSessionReplaced):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrCannotDeleteAdmin):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrReportNotPending),
		errors.Is(err, service.ErrReportNotRejected),
		errors.Is(err, service.ErrAlreadyClockedIn),
		errors.Is(err, service.ErrNotClockedIn),
		errors.Is(err, service.ErrUsernameTaken):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrWrongPassword):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
		msg = "Internal Server Error"
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
