package handlers

import (
	"errors"
	"log"

	"tokorate/internal/repositories"
	"tokorate/internal/services"

	"github.com/gofiber/fiber/v2"
)

// respondServiceError translates a service or repository error into the
// response envelope. notFoundMessage names the entity for the 404 case.
// Anything outside the known taxonomy becomes a generic 500 with the
// original fault logged server-side only.
func respondServiceError(c *fiber.Ctx, err error, notFoundMessage string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": notFoundMessage,
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid credentials",
		})
	case errors.Is(err, services.ErrWrongPassword):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Current password is incorrect",
		})
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrOwnStoreRating):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  "error",
			"message": forbiddenMessage(err),
		})
	case errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Email already in use",
		})
	case errors.Is(err, services.ErrSelfDelete):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Admin cannot delete their own account",
		})
	case errors.Is(err, services.ErrNotAStoreOwner):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "The specified user is not a store owner",
		})
	case errors.Is(err, repositories.ErrDuplicate):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "A record with those unique fields already exists",
		})
	default:
		log.Printf("Unhandled error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Server error",
		})
	}
}

func forbiddenMessage(err error) string {
	if errors.Is(err, services.ErrOwnStoreRating) {
		return "You cannot rate your own store"
	}
	return "Not authorized to perform this action"
}
