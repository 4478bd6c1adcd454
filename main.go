package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"livemart/internal/config"
	"livemart/internal/handlers"
	"livemart/internal/middleware"
	"livemart/internal/models"
	"livemart/internal/repositories"
	"livemart/internal/services"
	"livemart/pkg/logging"
	"livemart/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()
	log := logging.New(logging.Options{ServiceName: "livemart", Level: cfg.LogLevel})

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	var mqClient *rabbitmq.Client
	if cfg.RabbitMQEnabled {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer mqClient.Close()

		go func() {
			if consumeErr := mqClient.ConsumeOrderEvents(func(msg amqp.Delivery) error {
				log.Info().Str("body", string(msg.Body)).Msg("order event received")
				return nil
			}); consumeErr != nil {
				log.Error().Err(consumeErr).Msg("order event consumer stopped")
			}
		}()
	}

	app, seedService := newApp(cfg, db, mqClient, log)

	if cfg.SeedOnStart {
		if err := seedService.Seed(context.Background()); err != nil {
			log.Error().Err(err).Msg("startup seed failed")
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.AppPort).Msg("starting server")
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-quit
	log.Info().Msg("shutting down")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("server stopped")
}

// openDatabase connects to the configured store and runs migrations.
func openDatabase(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DatabaseDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Purchase{},
		&models.Feedback{},
	); err != nil {
		return nil, err
	}
	return db, nil
}

// newApp wires repositories, services, and handlers into a Fiber app. The
// seed service is returned separately so startup seeding can reuse it.
func newApp(cfg config.Config, db *gorm.DB, mqClient *rabbitmq.Client, log zerolog.Logger) (*fiber.App, *services.SeedService) {
	userRepo := repositories.NewGORMUserRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	purchaseRepo := repositories.NewGORMPurchaseRepository(db)
	feedbackRepo := repositories.NewGORMFeedbackRepository(db)

	var events services.OrderEventPublisher
	if mqClient != nil {
		events = mqClient
	}

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, log)
	productService := services.NewProductService(productRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	cartService := services.NewCartService(cartRepo, productRepo)
	checkoutService := services.NewCheckoutService(
		orderRepo, productRepo, cartRepo, userRepo, purchaseRepo,
		events, cfg.DefaultPaymentMethod, cfg.StoreTimeout, log,
	)
	dashboardService := services.NewDashboardService(productRepo, orderRepo, purchaseRepo)
	feedbackService := services.NewFeedbackService(feedbackRepo, productRepo, userRepo)
	seedService := services.NewSeedService(userRepo, categoryRepo, productRepo, log)

	app := fiber.New()
	app.Use(logger.New())

	api := app.Group("/api")
	protected := app.Group("/api", middleware.Protected(authService))

	handlers.NewAuthHandler(authService).RegisterRoutes(api)
	handlers.NewSeedHandler(seedService).RegisterRoutes(api)
	handlers.NewProductHandler(productService).RegisterRoutes(api, protected)
	handlers.NewCategoryHandler(categoryService).RegisterRoutes(api, protected)
	handlers.NewFeedbackHandler(feedbackService).RegisterRoutes(api, protected)
	handlers.NewCartHandler(cartService).RegisterRoutes(protected)
	handlers.NewOrderHandler(checkoutService).RegisterRoutes(protected)
	handlers.NewDashboardHandler(dashboardService).RegisterRoutes(protected)

	api.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			status = "degraded"
		}
		return c.JSON(fiber.Map{
			"status": status,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	return app, seedService
}
