package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"

	"tokorate/internal/handlers"
	"tokorate/internal/middleware"
	"tokorate/internal/models"
	"tokorate/internal/repositories"
	"tokorate/internal/services"
	"tokorate/pkg/rabbitmq"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=tokorate port=5432 sslmode=disable")
	viper.SetDefault("JWT_SECRET", "change_me_in_production")
	viper.SetDefault("JWT_EXPIRES_HOURS", 24)
	viper.SetDefault("COOKIE_EXPIRE_DAYS", 30)
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Database ---
	// TranslateError maps driver duplicate-key errors onto
	// gorm.ErrDuplicatedKey, which the repositories depend on.
	db, err := gorm.Open(postgres.Open(viper.GetString("DATABASE_DSN")), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Store{}, &models.Rating{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Printf("RabbitMQ unavailable, rating events disabled: %v", err)
			mqClient = nil
		} else {
			defer mqClient.Close()
		}
	}

	app := newApp(db, mqClient)

	seedDatabase(db)

	// --- Rating event consumer ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for rating events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received rating event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeRatingEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// newApp wires repositories, services, handlers, and routes into a
// Fiber app. The RabbitMQ client may be nil.
func newApp(db *gorm.DB, mqClient *rabbitmq.Client) *fiber.App {
	// Repositories
	userRepo := repositories.NewGORMUserRepository(db)
	storeRepo := repositories.NewGORMStoreRepository(db)
	ratingRepo := repositories.NewGORMRatingRepository(db)
	statsRepo := repositories.NewGORMStatsRepository(db)

	tokenTTL := time.Duration(viper.GetInt("JWT_EXPIRES_HOURS")) * time.Hour
	cookieTTL := time.Duration(viper.GetInt("COOKIE_EXPIRE_DAYS")) * 24 * time.Hour

	// Services
	authService := services.NewAuthService(userRepo, viper.GetString("JWT_SECRET"), tokenTTL)
	storeService := services.NewStoreService(storeRepo, ratingRepo, statsRepo, userRepo, mqClient)
	userService := services.NewUserService(userRepo, ratingRepo, statsRepo)
	adminService := services.NewAdminService(userRepo, storeRepo, statsRepo, authService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, cookieTTL)
	storeHandler := handlers.NewStoreHandler(storeService)
	userHandler := handlers.NewUserHandler(userService)
	adminHandler := handlers.NewAdminHandler(adminService)

	app := fiber.New()
	app.Use(logger.New())

	api := app.Group("/api")
	authRequired := middleware.AuthRequired(authService)

	authHandler.RegisterRoutes(api, authRequired)
	storeHandler.RegisterRoutes(api, authRequired)
	userHandler.RegisterRoutes(api, authRequired)
	adminHandler.RegisterRoutes(api, authRequired)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}

// seedDatabase creates the default accounts and sample stores when they
// are absent, so a fresh install is immediately usable.
func seedDatabase(db *gorm.DB) {
	userRepo := repositories.NewGORMUserRepository(db)
	storeRepo := repositories.NewGORMStoreRepository(db)
	tokenTTL := time.Duration(viper.GetInt("JWT_EXPIRES_HOURS")) * time.Hour
	authService := services.NewAuthService(userRepo, viper.GetString("JWT_SECRET"), tokenTTL)

	seedUsers := []models.User{
		{Name: "System Administrator Account", Email: "admin@example.com", Password: "Admin123!", Address: "Admin Address", Role: models.RoleAdmin},
		{Name: "Regular Demonstration User One", Email: "user@example.com", Password: "User1234!", Address: "User Address", Role: models.RoleUser},
		{Name: "Demonstration Store Owner One", Email: "storeowner@example.com", Password: "Store123!", Address: "Store Owner Address", Role: models.RoleStoreOwner},
	}

	for i := range seedUsers {
		if _, err := userRepo.GetByEmail(seedUsers[i].Email); err == nil {
			continue
		} else if !errors.Is(err, repositories.ErrNotFound) {
			log.Printf("Error checking seed user %s: %v", seedUsers[i].Email, err)
			continue
		}
		if err := authService.Register(&seedUsers[i]); err != nil {
			log.Printf("Error seeding user %s: %v", seedUsers[i].Email, err)
		} else {
			log.Printf("Seeded user: %s (role %s)", seedUsers[i].Email, seedUsers[i].Role)
		}
	}

	owner, err := userRepo.GetByEmail("storeowner@example.com")
	if err != nil {
		return
	}

	seedStores := []models.Store{
		{Name: "Corner Grocery", Email: "grocery@example.com", Address: "1 Market St", OwnerID: owner.ID},
		{Name: "Downtown Books", Email: "books@example.com", Address: "2 Library Ln", OwnerID: owner.ID},
	}
	for i := range seedStores {
		if err := storeRepo.Create(&seedStores[i]); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				continue
			}
			log.Printf("Error seeding store %s: %v", seedStores[i].Name, err)
		} else {
			log.Printf("Seeded store: %s (ID: %d)", seedStores[i].Name, seedStores[i].ID)
		}
	}
}
