package handlers

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const passwordSpecials = "!@#$%^&*"

// newValidator builds a validator with the strongpassword rule
// registered: at least one uppercase letter and one special character.
func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for a blank tag or nil func.
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		var upper, special bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsUpper(r):
				upper = true
			case strings.ContainsRune(passwordSpecials, r):
				special = true
			}
		}
		return upper && special
	})
	return v
}

// validationErrorResponse shapes a 400 with per-field messages.
func validationErrorResponse(c *fiber.Ctx, err error) error {
	errorMessages := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  "error",
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
