package handlers

import (
	"log"

	"tokorate/internal/middleware"
	"tokorate/internal/models"
	"tokorate/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// StoreHandler handles HTTP requests for stores and their ratings.
type StoreHandler struct {
	storeService *services.StoreService
	validate     *validator.Validate
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(storeService *services.StoreService) *StoreHandler {
	return &StoreHandler{
		storeService: storeService,
		validate:     newValidator(),
	}
}

// RegisterRoutes registers the store routes. The owner profile routes
// must come before the parameterized ones so "owner" is not read as a
// store id.
func (h *StoreHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	storeRoutes := router.Group("/stores")
	storeRoutes.Get("/", h.HandleListStores)

	storeRoutes.Get("/owner/profile", authRequired, h.HandleOwnerProfile)
	storeRoutes.Put("/owner/profile", authRequired, h.HandleUpdateOwnerProfile)

	storeRoutes.Get("/:id", h.HandleGetStore)
	storeRoutes.Get("/:id/ratings", h.HandleStoreRatings)
	storeRoutes.Post("/:id/ratings", authRequired, h.HandleRateStore)
	storeRoutes.Put("/:id", authRequired, h.HandleUpdateStore)

	storeRoutes.Post("/", authRequired, h.HandleCreateStore)
}

// HandleListStores retrieves all stores with their average ratings.
func (h *StoreHandler) HandleListStores(c *fiber.Ctx) error {
	stores, err := h.storeService.ListStores()
	if err != nil {
		return respondServiceError(c, err, "Store not found")
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"count":  len(stores),
		"data":   stores,
	})
}

// HandleGetStore retrieves a single store with its average rating.
func (h *StoreHandler) HandleGetStore(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c, "store")
	}
	store, err := h.storeService.GetStore(uint(id))
	if err != nil {
		return respondServiceError(c, err, "Store not found")
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   store,
	})
}

// StoreRequest represents the request body for store creation.
type StoreRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required,max=400"`
}

// HandleCreateStore creates a store owned by the acting user.
func (h *StoreHandler) HandleCreateStore(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	var req StoreRequest
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

	store := &models.Store{Name: req.Name, Email: req.Email, Address: req.Address}
	if err := h.storeService.CreateStore(actor, store); err != nil {
		return respondServiceError(c, err, "Store not found")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"data":   store,
	})
}

// StoreUpdateRequest represents the request body for a store update.
// Absent fields are left untouched.
type StoreUpdateRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"omitempty,max=400"`
}

// HandleUpdateStore rewrites the supplied fields of a store. Restricted
// to the owner of record or an admin.
func (h *StoreHandler) HandleUpdateStore(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c, "store")
	}

	var req StoreUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update store request body: %v", err)
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
	if len(fields) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "No fields to update",
		})
	}

	store, err := h.storeService.UpdateStore(actor, uint(id), fields)
	if err != nil {
		return respondServiceError(c, err, "Store not found")
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   store,
	})
}

// HandleStoreRatings lists a store's ratings with the raters' names.
func (h *StoreHandler) HandleStoreRatings(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c, "store")
	}
	ratings, err := h.storeService.StoreRatings(uint(id))
	if err != nil {
		return respondServiceError(c, err, "Store not found")
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"count":  len(ratings),
		"data":   ratings,
	})
}

// RatingRequest represents the request body for a rating submission.
type RatingRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// HandleRateStore creates or overwrites the acting user's rating for a
// store. 201 on first submission, 200 on overwrite.
func (h *StoreHandler) HandleRateStore(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c, "store")
	}

	var req RatingRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing rating request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	rating, created, err := h.storeService.RateStore(actor, uint(id), req.Rating, req.Comment)
	if err != nil {
		return respondServiceError(c, err, "Store not found")
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"status": "success",
		"data":   rating,
	})
}

// HandleOwnerProfile returns the store-owner profile projection.
func (h *StoreHandler) HandleOwnerProfile(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	profile, err := h.storeService.OwnerProfile(actor)
	if err != nil {
		return respondServiceError(c, err, "User not found")
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   profile,
	})
}

// OwnerProfileRequest represents the request body for an owner profile
// update.
type OwnerProfileRequest struct {
	Name string `json:"name" validate:"required"`
}

// HandleUpdateOwnerProfile rewrites the owner's name.
func (h *StoreHandler) HandleUpdateOwnerProfile(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	var req OwnerProfileRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing owner profile request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	profile, err := h.storeService.UpdateOwnerProfile(actor, req.Name)
	if err != nil {
		return respondServiceError(c, err, "User not found")
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   profile,
	})
}

// invalidID shapes the 400 for a non-numeric path id.
func invalidID(c *fiber.Ctx, entity string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  "error",
		"message": "Invalid " + entity + " id",
	})
}
