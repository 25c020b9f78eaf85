package handlers

import (
	"github.com/campusmove/moving_marketplace/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// currentUserID pulls the authenticated user's id out of the JWT set by
// the Protected middleware.
func currentUserID(c *fiber.Ctx) uuid.UUID {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	id, _ := uuid.Parse(claims["user_id"].(string))
	return id
}

// statusForKind maps a core error kind to its stable HTTP status.
func statusForKind(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation:
		return fiber.StatusBadRequest
	case services.KindConflict:
		return fiber.StatusConflict
	case services.KindAuthorization:
		return fiber.StatusForbidden
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindContention:
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// serviceError translates a core error into its stable HTTP status.
func serviceError(c *fiber.Ctx, err error) error {
	kind, ok := services.KindOf(err)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.Status(statusForKind(kind)).JSON(fiber.Map{"error": err.Error()})
}

// reviewError is serviceError with one override: a duplicate review is a
// conflict internally, but the review surface reports it as a plain bad
// request. 409 is reserved for scheduling conflicts.
func reviewError(c *fiber.Ctx, err error) error {
	if services.IsConflict(err) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return serviceError(c, err)
}
