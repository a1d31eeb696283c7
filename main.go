package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bagbanter-api/src/config"
	"bagbanter-api/src/controllers"
	"bagbanter-api/src/controllers/middleware"
	"bagbanter-api/src/infrastructure"
	"bagbanter-api/src/infrastructure/cache"
	"bagbanter-api/src/infrastructure/log"
	"bagbanter-api/src/infrastructure/mongo"
	"bagbanter-api/src/infrastructure/rabbitmq"
	"bagbanter-api/src/services/auth"
	"bagbanter-api/src/services/dlq"
	"bagbanter-api/src/services/events"
	"bagbanter-api/src/services/inventory"
	"bagbanter-api/src/services/notification"
	notificationHandlers "bagbanter-api/src/services/notification/handlers"
	"bagbanter-api/src/services/order/domain"
	"bagbanter-api/src/services/order/domain/persistence"
	"bagbanter-api/src/services/stats"

	_ "bagbanter-api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/swaggo/fiber-swagger"
)

// @title                       BagBanter API
// @version                     1.0
// @description                 Storefront catalog, checkout and the admin order desk.
// @BasePath                    /
// @securityDefinitions.apikey  AdminSession
// @in                          header
// @name                        Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configs, err := config.LoadConfig()
	if err != nil {
		log.NewLogger("info").Fatal(ctx, "Failed to load configuration", err)
	}
	logger := log.NewLogger(configs.LogLevel)
	logger.Info(ctx, "Configuration loaded successfully")

	client, err := mongo.GetMongoClient(configs)
	if err != nil {
		logger.Fatal(ctx, "Failed to connect to MongoDB", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal(ctx, "MongoDB ping failed", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()
	logger.Info(ctx, "MongoDB connection successful")

	db := client.Database(configs.MongoDBDatabaseName)
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal(ctx, "Failed to create indexes", err)
	}

	orderRepository := persistence.NewOrderRepository(db)
	productRepository := inventory.NewProductRepository(db)
	inventoryService := inventory.NewInventoryService(logger, productRepository)

	if configs.SeedCatalog {
		if err := seedProducts(ctx, inventoryService, logger); err != nil {
			logger.Fatal(ctx, "Failed to seed products", err)
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	var rabbitmqService *rabbitmq.RabbitMQService
	if configs.RabbitMQURL != "" {
		rabbitmqService, err = rabbitmq.NewRabbitMQService(configs.RabbitMQURL, configs.RabbitMQExchange, events.Topics)
		if err != nil {
			logger.Fatal(ctx, "Failed to create RabbitMQ service", err)
		}
		defer rabbitmqService.Close()
		publisher = rabbitmqService
		logger.Info(ctx, "RabbitMQ connection successful")
	} else {
		logger.Warn(ctx, "RABBITMQ_URL not set, order events are not published")
	}

	var revocations auth.RevocationStore = auth.NoRevocations{}
	if configs.RedisAddr != "" {
		redisClient := cache.NewRedisClient(configs.RedisAddr, configs.RedisPassword)
		defer redisClient.Close()
		store := cache.NewRevocationStore(redisClient)
		if err := store.Ping(ctx); err != nil {
			logger.Fatal(ctx, "Redis ping failed", err)
		}
		revocations = store
		logger.Info(ctx, "Redis connection successful")
	} else {
		logger.Warn(ctx, "REDIS_ADDR not set, logout only clears the session cookie")
	}

	authenticator := auth.NewAuthenticator(logger, auth.Identity{
		Email:    configs.AdminEmail,
		Password: configs.AdminPassword,
		Secret:   configs.SessionSecret,
		TTL:      configs.SessionTTL,
	}, revocations)
	orderService := domain.NewOrderService(logger, orderRepository, inventoryService, publisher)
	statsService := stats.NewStatsService(logger, orderRepository)

	if rabbitmqService != nil {
		notificationService := notification.NewNotificationService(logger)
		eventListener := infrastructure.NewEventListener(rabbitmqService, logger)

		eventListener.RegisterHandler(events.OrderCreated, notificationHandlers.NewOrderCreatedEventHandler(notificationService, logger))
		eventListener.RegisterHandler(events.OrderStatusUpdated, notificationHandlers.NewOrderStatusUpdatedEventHandler(notificationService, logger))
		eventListener.RegisterHandler(events.OrderDeleted, notificationHandlers.NewOrderDeletedEventHandler(notificationService, logger))
		for _, topic := range events.Topics {
			eventListener.RegisterHandler(rabbitmq.DeadLetterQueue(topic), dlq.NewDLQHandler(orderRepository, topic, logger))
		}

		go func() {
			if err := eventListener.StartListening(ctx); err != nil {
				logger.Exception(ctx, "Event listeners stopped", err)
			}
		}()
		logger.Info(ctx, "Event listeners started successfully")
	}

	app := fiber.New(fiber.Config{
		ServerHeader: "BagBanter-API",
		ErrorHandler: middleware.ErrorHandler(logger),
	})

	app.Use(middleware.RequestLogger(logger))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(configs.AllowedOrigins, ","),
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + middleware.HeaderCorrelationID,
	}))

	app.Get("/api/swagger/*", fiberSwagger.WrapHandler)
	app.Get("/api/healthCheck", func(c *fiber.Ctx) error {
		if err := client.Ping(c.UserContext(), nil); err != nil {
			logger.Exception(c.UserContext(), "Health check: MongoDB ping failed", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
		}

		if rabbitmqService != nil && !rabbitmqService.IsHealthy() {
			logger.Warn(c.UserContext(), "Health check: RabbitMQ connection is unhealthy")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
				"error":  "message queue connection failed",
			})
		}

		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
		})
	})

	requireAdmin := middleware.RequireAdmin(authenticator, logger)
	controllers.NewAuthController(authenticator, logger, configs.CookieSecure).Route(app, requireAdmin)
	controllers.NewOrderController(orderService, logger).Route(app, requireAdmin)
	controllers.NewInventoryController(inventoryService, logger).Route(app, requireAdmin)
	controllers.NewStatsController(statsService, logger).Route(app, requireAdmin)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	serverShutdown := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Starting server on port "+configs.Port)
		if err := app.Listen(":" + configs.Port); err != nil {
			serverShutdown <- err
		}
	}()

	select {
	case <-c:
		logger.Info(ctx, "Shutdown signal received, shutting down gracefully...")
	case err := <-serverShutdown:
		logger.Exception(ctx, "Server error occurred", err)
	}

	// stops the event listeners
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Exception(ctx, "Server shutdown error", err)
	}

	logger.Info(ctx, "Server shutdown complete")
}

// seedProducts fills an empty catalog with the launch collection.
func seedProducts(ctx context.Context, inventoryService inventory.InventoryService, logger log.Logger) error {
	products := []inventory.Product{
		{
			Name:       "Kente Weave Tote",
			Price:      350,
			Category:   "totes",
			StockCount: 12,
			IsFeatured: true,
			Variants:   []inventory.Variant{{Color: "gold", Stock: 6}, {Color: "green", Stock: 6}},
		},
		{
			Name:          "Mini Crossbody",
			Price:         220,
			OriginalPrice: 260,
			Category:      "crossbody",
			StockCount:    20,
		},
		{
			Name:       "Evening Clutch",
			Price:      180,
			Category:   "clutches",
			StockCount: 8,
			Variants:   []inventory.Variant{{Color: "black", Stock: 5}, {Color: "silver", Stock: 3}},
		},
		{
			Name:       "Leather Backpack",
			Price:      480,
			Category:   "backpacks",
			StockCount: 6,
			IsFeatured: true,
		},
	}

	for _, product := range products {
		if err := inventoryService.SeedProduct(ctx, product); err != nil {
			logger.Exception(ctx, "Failed to seed product: "+product.Name, err)
			return err
		}
	}

	logger.Info(ctx, "Products seeded successfully")
	return nil
}
