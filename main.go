package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"moodiary/internal/handlers"
	"moodiary/internal/middleware"
	"moodiary/internal/models"
	"moodiary/internal/repositories"
	"moodiary/internal/services"
	"moodiary/pkg/rabbitmq"

	"github.com/spf13/viper"
)

// NewApp wires repositories, services and handlers into a Fiber app. The
// stores and the message client are passed in explicitly; nothing is held in
// package-level state. mqClient may be nil when messaging is disabled.
func NewApp(db *gorm.DB, mqClient *rabbitmq.Client, jwtSecret string, mode services.UpsertMode) (*fiber.App, *services.AuthService) {
	userRepo := repositories.NewGORMUserRepository(db)
	entryRepo := repositories.NewGORMEntryRepository(db)

	authService := services.NewAuthService(userRepo, jwtSecret)
	entryService := services.NewEntryService(entryRepo, mqClient, mode)

	authHandler := handlers.NewAuthHandler(authService)
	entryHandler := handlers.NewEntryHandler(entryService)
	statsHandler := handlers.NewStatsHandler(entryService)

	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")

	// Public routes
	authHandler.RegisterRoutes(apiV1)

	// Protected routes (require JWT authentication)
	protected := apiV1.Group("", middleware.AuthRequired(authService))
	entryHandler.RegisterRoutes(protected)
	statsHandler.RegisterRoutes(protected)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app, authService
}

// openDatabase opens the configured GORM backend and migrates the schema.
// TranslateError makes unique-constraint violations surface as
// gorm.ErrDuplicatedKey on both drivers.
func openDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.MoodEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func main() {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "moodiary.db")
	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables messaging
	viper.SetDefault("UPSERT_MODE", string(services.UpsertByDate))
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	db, err := openDatabase(viper.GetString("DATABASE_DRIVER"), viper.GetString("DATABASE_DSN"))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var mqClient *rabbitmq.Client
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: url})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	} else {
		log.Println("RABBITMQ_URL not set, entry events will not be published")
	}

	app, _ := NewApp(db, mqClient, viper.GetString("JWT_SECRET"), services.UpsertMode(viper.GetString("UPSERT_MODE")))

	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for entry events...")
			handler := func(msg amqp.Delivery) error {
				log.Printf("Received entry event (tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeEntryEvents(handler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

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
