package main

import (
	"context"
	"log"

	_ "labflow/api/swagger" // swagger docs
	"labflow/internal/cache"
	"labflow/internal/config"
	"labflow/internal/database"
	"labflow/internal/handler"
	"labflow/internal/middleware"
	"labflow/internal/mirror"
	"labflow/internal/repository"
	"labflow/internal/service"
	"labflow/internal/sheet"
	"labflow/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           LabFlow API
// @version         1.0
// @description     Dental lab operations API: order tracking over remote sheets, calendar, finance and inventory.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	db, err := database.NewConnection(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Optional Redis snapshot cache. Without it the dashboard simply
	// starts empty until the first sheet fetch lands.
	var snapshots *cache.SnapshotStore
	if cfg.RedisURL != "" {
		redisClient, err := cache.Connect(cfg.RedisURL)
		if err != nil {
			log.Println("Redis unavailable, running without snapshot cache:", err)
		} else {
			snapshots = cache.NewSnapshotStore(redisClient)
			log.Println("Connected to Redis successfully.")
		}
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Remote sheet clients share one HTTP client
	sheetClient := sheet.NewClient(cfg.RequestTimeout)
	ordersClient := sheet.NewOrdersClient(sheetClient, cfg.Endpoint(config.EndpointOrders), cfg.Endpoint(config.EndpointOrdersDesigner))
	financeClient := sheet.NewFinanceClient(sheetClient, cfg.Endpoint(config.EndpointIncome), cfg.Endpoint(config.EndpointExpense))
	evidenceClient := sheet.NewEvidenceClient(sheetClient, cfg.Endpoint(config.EndpointEvidence))
	inventoryClient := sheet.NewInventoryClient(sheetClient, cfg.Endpoint(config.EndpointInventory))

	coordinator := mirror.NewCoordinator(wsHub)

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	eventRepo := repository.NewEventRepository(db)
	pendienteRepo := repository.NewPendienteRepository(db)

	userService := service.NewUserService(userRepo, tokenRepo)
	orderService := service.NewOrderService(ordersClient, coordinator, auditRepo, snapshots)
	eventService := service.NewEventService(eventRepo, txManager)
	pendienteService := service.NewPendienteService(pendienteRepo)
	financeService := service.NewFinanceService(financeClient, auditRepo)
	evidenceService := service.NewEvidenceService(evidenceClient, auditRepo)
	inventoryService := service.NewInventoryService(inventoryClient, wsHub)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	orderHandler := handler.NewOrderHandler(orderService, cfg.Endpoint(config.EndpointReceipt))
	eventHandler := handler.NewEventHandler(eventService, pendienteService)
	financeHandler := handler.NewFinanceHandler(financeService)
	evidenceHandler := handler.NewEvidenceHandler(evidenceService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	auditHandler := handler.NewAuditHandler(auditService)

	ctx := context.Background()

	// Warm the order mirror; a failed first fetch is not fatal since the
	// snapshot cache may already have rows to serve.
	if err := orderService.Refresh(ctx); err != nil {
		log.Println("Initial order fetch failed:", err)
	}

	inventoryService.StartAutoRefresh(ctx, cfg.InventoryRefreshInterval)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	orderHandler.RegisterRoutes(router.Group(""))
	eventHandler.RegisterRoutes(router.Group(""))
	financeHandler.RegisterRoutes(router.Group(""))
	evidenceHandler.RegisterRoutes(router.Group(""))
	inventoryHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	log.Printf("Server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
