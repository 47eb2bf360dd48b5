package handlers

import (
	"log"
	"time"

	"tokorate/internal/middleware"
	"tokorate/internal/models"
	"tokorate/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	cookieTTL   time.Duration
}

// NewAuthHandler creates a new AuthHandler. cookieTTL controls how long
// the issued token cookie lives.
func NewAuthHandler(authService *services.AuthService, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    newValidator(),
		cookieTTL:   cookieTTL,
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/password-update", authRequired, h.HandlePasswordUpdate)
	authRoutes.Get("/logout", authRequired, h.HandleLogout)
	authRoutes.Get("/me", authRequired, h.HandleMe)
}

// sendTokenResponse delivers the token both in the body and as an
// http-only cookie.
func (h *AuthHandler) sendTokenResponse(c *fiber.Ctx, status int, token string, user *models.User) error {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(h.cookieTTL),
		HTTPOnly: true,
	})
	return c.Status(status).JSON(fiber.Map{
		"status": "success",
		"token":  token,
		"data":   user,
	})
}

// SignupRequest represents the request body for registration. The model
// never deserializes its password field, so signup goes through this
// DTO.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=20,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=16,strongpassword"`
	Address  string `json:"address" validate:"max=400"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user store_owner"`
}

// HandleSignup handles new user registration. The role defaults to
// "user" unless the request specifies one.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing signup request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Role:     req.Role,
	}
	if err := h.authService.Register(&user); err != nil {
		return respondServiceError(c, err, "User not found")
	}

	token, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		return respondServiceError(c, err, "User not found")
	}
	return h.sendTokenResponse(c, fiber.StatusCreated, token, &user)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	token, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return respondServiceError(c, err, "User not found")
	}
	return h.sendTokenResponse(c, fiber.StatusOK, token, user)
}

// PasswordUpdateRequest represents the request body for a password
// change.
type PasswordUpdateRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=16,strongpassword"`
}

// HandlePasswordUpdate verifies the current password, replaces it, and
// re-issues a token.
func (h *AuthHandler) HandlePasswordUpdate(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	var req PasswordUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing password update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	token, user, err := h.authService.UpdatePassword(actor.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return respondServiceError(c, err, "User not found")
	}
	return h.sendTokenResponse(c, fiber.StatusOK, token, user)
}

// HandleLogout overwrites the token cookie with an immediately-expiring
// placeholder. Already-issued tokens stay valid until they expire; the
// server keeps no revocation list.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "none",
		Expires:  time.Now().Add(10 * time.Second),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Logged out successfully",
	})
}

// HandleMe returns the authenticated user.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   middleware.CurrentUser(c),
	})
}
