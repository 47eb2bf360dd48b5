package middleware

import (
	"fmt"
	"strings"

	"tokorate/internal/models"
	"tokorate/internal/services"

	"github.com/gofiber/fiber/v2"
)

// localsUserKey is where AuthRequired stores the authenticated user in
// the request context.
const localsUserKey = "currentUser"

// AuthRequired extracts a bearer token from the Authorization header or,
// failing that, the token cookie, verifies it, and resolves it to a live
// user record stored in the request locals. Every failure mode gets the
// same 401 body so the response leaks nothing about the cause.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tokenString string

		authHeader := c.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else if cookie := c.Cookies("token"); cookie != "" {
			tokenString = cookie
		}

		if tokenString == "" {
			return unauthorized(c)
		}

		user, err := authService.CurrentUser(tokenString)
		if err != nil {
			return unauthorized(c)
		}

		c.Locals(localsUserKey, user)
		return c.Next()
	}
}

// RequireRoles rejects authenticated users whose role is not in the
// allow-list. It must run after AuthRequired.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return unauthorized(c)
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  "error",
			"message": fmt.Sprintf("User role %s is not authorized to access this route", user.Role),
		})
	}
}

// CurrentUser returns the authenticated user AuthRequired stored in the
// request locals, or nil on an unauthenticated request.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localsUserKey).(*models.User)
	return user
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status":  "error",
		"message": "Not authorized to access this route",
	})
}
