package handlers

import (
	"log"

	"tokorate/internal/middleware"
	"tokorate/internal/models"
	"tokorate/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the administrator HTTP endpoints.
type AdminHandler struct {
	adminService *services.AdminService
	validate     *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		validate:     newValidator(),
	}
}

// RegisterRoutes registers the admin routes. Every route requires
// authentication and the admin role.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	adminRoutes := router.Group("/admin", authRequired, middleware.RequireRoles(models.RoleAdmin))

	adminRoutes.Get("/users", h.HandleListUsers)
	adminRoutes.Post("/users", h.HandleCreateUser)
	adminRoutes.Get("/users/:id", h.HandleGetUser)
	adminRoutes.Put("/users/:id", h.HandleUpdateUser)
	adminRoutes.Delete("/users/:id", h.HandleDeleteUser)

	adminRoutes.Get("/stores", h.HandleListStores)
	adminRoutes.Post("/stores", h.HandleCreateStore)
	adminRoutes.Delete("/stores/:id", h.HandleDeleteStore)

	adminRoutes.Get("/dashboard-stats", h.HandleDashboardStats)
}

// HandleListUsers retrieves all users.
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.adminService.ListUsers()
	if err != nil {
		return respondServiceError(c, err, "User not found")
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"count":  len(users),
		"data":   users,
	})
}

// HandleGetUser retrieves a single user.
func (h *AdminHandler) HandleGetUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c, "user")
	}
	user, err := h.adminService.GetUser(uint(id))
	if err != nil {
		return respondServiceError(c, err, "User not found")
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   user,
	})
}

// HandleCreateUser registers a user on behalf of an admin, with any
// role. Reuses the signup DTO since the shape is the same.
func (h *AdminHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create user request body: %v", err)
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
	if err := h.adminService.CreateUser(&user); err != nil {
		return respondServiceError(c, err, "User not found")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"data":   user,
	})
}

// UserUpdateRequest represents the admin user-update request body.
// Absent fields are left untouched; a supplied password is re-hashed.
type UserUpdateRequest struct {
	Name     string `json:"name" validate:"omitempty,min=20,max=60"`
	Email    string `json:"email" validate:"omitempty,email"`
	Address  string `json:"address" validate:"omitempty,max=400"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user store_owner"`
	Password string `json:"password" validate:"omitempty,min=8,max=16,strongpassword"`
}

// HandleUpdateUser rewrites the supplied fields of a user, including
// role changes.
func (h *AdminHandler) HandleUpdateUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c, "user")
	}

	var req UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update user request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	fields := make(map[string]interface{})
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Email != "" {
		fields["email"] = req.Email
	}
	if req.Address != "" {
		fields["address"] = req.Address
	}
	if req.Role != "" {
		fields["role"] = req.Role
	}
	if req.Password != "" {
		fields["password"] = req.Password
	}
	if len(fields) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "No fields to update",
		})
	}

	user, err := h.adminService.UpdateUser(uint(id), fields)
	if err != nil {
		return respondServiceError(c, err, "User not found")
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   user,
	})
}

// HandleDeleteUser removes a user; their stores and ratings are removed
// by the database cascade.
func (h *AdminHandler) HandleDeleteUser(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c, "user")
	}
	if err := h.adminService.DeleteUser(actor, uint(id)); err != nil {
		return respondServiceError(c, err, "User not found")
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "User deleted successfully",
	})
}

// HandleListStores retrieves all stores with owner details and average
// ratings.
func (h *AdminHandler) HandleListStores(c *fiber.Ctx) error {
	stores, err := h.adminService.ListStores()
	if err != nil {
		return respondServiceError(c, err, "Store not found")
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"count":  len(stores),
		"data":   stores,
	})
}

// AdminStoreRequest represents the admin store-creation request body,
// which names an explicit owner.
type AdminStoreRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required,max=400"`
	OwnerID uint   `json:"owner_id" validate:"required"`
}

// HandleCreateStore creates a store for an explicit owner, who must
// hold the store_owner role.
func (h *AdminHandler) HandleCreateStore(c *fiber.Ctx) error {
	var req AdminStoreRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create store request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	store := &models.Store{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		OwnerID: req.OwnerID,
	}
	if err := h.adminService.CreateStore(store); err != nil {
		return respondServiceError(c, err, "Store owner not found")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"data":   store,
	})
}

// HandleDeleteStore removes a store and its ratings.
func (h *AdminHandler) HandleDeleteStore(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c, "store")
	}
	if err := h.adminService.DeleteStore(uint(id)); err != nil {
		return respondServiceError(c, err, "Store not found")
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Store deleted successfully",
	})
}

// HandleDashboardStats returns the aggregate dashboard numbers.
func (h *AdminHandler) HandleDashboardStats(c *fiber.Ctx) error {
	summary, err := h.adminService.DashboardStats()
	if err != nil {
		return respondServiceError(c, err, "Stats not found")
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"stats": fiber.Map{
			"totalUsers":    summary.TotalUsers,
			"totalStores":   summary.TotalStores,
			"totalRatings":  summary.TotalRatings,
			"averageRating": summary.AverageRating,
		},
		"data": summary,
	})
}
