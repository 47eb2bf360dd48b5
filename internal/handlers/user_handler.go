package handlers

import (
	"log"

	"tokorate/internal/middleware"
	"tokorate/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for a user's own profile and rating
// activity.
type UserHandler struct {
	userService *services.UserService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the user routes. All of them require
// authentication.
func (h *UserHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	userRoutes := router.Group("/users", authRequired)
	userRoutes.Get("/profile", h.HandleProfile)
	userRoutes.Put("/profile", h.HandleUpdateProfile)
	userRoutes.Get("/ratings", h.HandleRatings)
	userRoutes.Get("/dashboard-stats", h.HandleDashboardStats)
}

// HandleProfile returns the acting user's record.
func (h *UserHandler) HandleProfile(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   middleware.CurrentUser(c),
	})
}

// ProfileUpdateRequest represents the request body for a profile
// update. Absent fields are left untouched.
type ProfileUpdateRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"omitempty,max=400"`
}

// HandleUpdateProfile rewrites the supplied profile fields.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	var req ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing profile update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	updated, err := h.userService.UpdateProfile(actor, req.Name, req.Email, req.Address)
	if err != nil {
		return respondServiceError(c, err, "User not found")
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   updated,
	})
}

// HandleRatings lists the acting user's ratings with store names.
func (h *UserHandler) HandleRatings(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	ratings, err := h.userService.Ratings(actor.ID)
	if err != nil {
		return respondServiceError(c, err, "User not found")
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"count":  len(ratings),
		"data":   ratings,
	})
}

// HandleDashboardStats returns the acting user's rating activity
// numbers.
func (h *UserHandler) HandleDashboardStats(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	stats, err := h.userService.DashboardStats(actor.ID)
	if err != nil {
		return respondServiceError(c, err, "User not found")
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"stats":  stats,
	})
}
