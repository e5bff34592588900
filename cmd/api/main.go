package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-beauty-pos/internal/handler"
	"go-beauty-pos/internal/middleware"
	"go-beauty-pos/internal/model"
	"go-beauty-pos/internal/repository"
	"go-beauty-pos/internal/service"
	"go-beauty-pos/internal/ws"
	"go-beauty-pos/pkg/database"
	applogger "go-beauty-pos/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found")
	}
	applogger.Init()

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (use a dedicated migration tool in production)
	db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Discount{},
		&model.Transaction{},
		&model.TransactionItem{},
		&model.StockMovement{},
		&model.Feedback{},
		&model.FarewellMessage{},
	)

	// 3. Seed roles, admin user, and farewell messages
	seedDefaults(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	discountRepo := repository.NewDiscountRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)
	feedbackRepo := repository.NewFeedbackRepo(db)
	farewellRepo := repository.NewFarewellMessageRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	checkoutStore := repository.NewCheckoutStore(db)

	catalogService := service.NewCatalogService(productRepo, categoryRepo, movementRepo, db, wsHub)
	discountService := service.NewDiscountService(discountRepo)
	checkoutService := service.NewCheckoutService(checkoutStore, txRepo, wsHub)
	feedbackService := service.NewFeedbackService(feedbackRepo, txRepo)
	dashService := service.NewDashboardService(productRepo, txRepo, movementRepo)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, roleRepo)

	productHandler := handler.NewProductHandler(catalogService)
	categoryHandler := handler.NewCategoryHandler(catalogService)
	discountHandler := handler.NewDiscountHandler(discountService)
	txHandler := handler.NewTransactionHandler(checkoutService, farewellRepo)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService)
	farewellHandler := handler.NewFarewellHandler(farewellRepo)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "ChicCheckout POS v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth(userRepo))
	managers := middleware.RequireRole(model.RoleAdmin, model.RoleManager)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	// Dashboard Routes (authenticated users can view)
	protected.Get("/dashboard/stats", dashHandler.GetStats)
	protected.Get("/dashboard/sales-chart", dashHandler.GetSalesChart)
	protected.Get("/dashboard/stock-flow", dashHandler.GetStockFlow)

	// Product Routes (writes restricted to admin/manager)
	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/reports/low-stock", productHandler.GetLowStockProducts)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Get("/products/:id/movements", productHandler.GetStockMovements)
	protected.Post("/products", managers, productHandler.CreateProduct)
	protected.Put("/products/:id", managers, productHandler.UpdateProduct)
	protected.Delete("/products/:id", managers, productHandler.DeleteProduct)
	protected.Post("/products/:id/adjust-stock", managers, productHandler.AdjustStock)

	// Category Routes
	protected.Get("/categories", categoryHandler.GetCategories)
	protected.Get("/categories/:id", categoryHandler.GetCategory)
	protected.Post("/categories", managers, categoryHandler.CreateCategory)
	protected.Put("/categories/:id", managers, categoryHandler.UpdateCategory)
	protected.Delete("/categories/:id", managers, categoryHandler.DeleteCategory)

	// Discount Routes (every cashier can read, only admin/manager can edit)
	protected.Get("/discounts", discountHandler.GetDiscounts)
	protected.Get("/discounts/active", discountHandler.GetActiveDiscounts)
	protected.Get("/discounts/:id", discountHandler.GetDiscount)
	protected.Post("/discounts", managers, discountHandler.CreateDiscount)
	protected.Put("/discounts/:id", managers, discountHandler.UpdateDiscount)
	protected.Delete("/discounts/:id", managers, discountHandler.DeleteDiscount)

	// Transaction Routes (any authenticated cashier can sell)
	protected.Post("/transactions/checkout", txHandler.Checkout)
	protected.Get("/transactions", txHandler.GetTransactions)
	protected.Get("/transactions/reports/daily", txHandler.GetDailySales)
	protected.Get("/transactions/reports/monthly", managers, txHandler.GetMonthlyReport)
	protected.Get("/transactions/:id", txHandler.GetTransaction)

	// Feedback Routes
	protected.Post("/feedback", feedbackHandler.CreateFeedback)
	protected.Get("/feedback", feedbackHandler.GetFeedback)
	protected.Get("/feedback/analytics", managers, feedbackHandler.GetAnalytics)
	protected.Get("/feedback/:id", feedbackHandler.GetFeedbackByID)

	// Farewell Message Routes
	protected.Get("/farewell-messages", farewellHandler.GetMessages)
	protected.Get("/farewell-messages/random", farewellHandler.GetRandomMessage)
	protected.Post("/farewell-messages", managers, farewellHandler.CreateMessage)
	protected.Put("/farewell-messages/:id", managers, farewellHandler.UpdateMessage)
	protected.Delete("/farewell-messages/:id", managers, farewellHandler.DeleteMessage)

	// User Management Routes (admin only)
	protected.Get("/users", adminOnly, userHandler.GetUsers)
	protected.Get("/users/:id", adminOnly, userHandler.GetUser)
	protected.Post("/users", adminOnly, userHandler.CreateUser)
	protected.Put("/users/:id", adminOnly, userHandler.UpdateUser)
	protected.Delete("/users/:id", adminOnly, userHandler.DeleteUser)

	// Role Routes
	protected.Get("/roles", roleHandler.GetRoles)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic().Err(err).Msg("server stopped")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// seedDefaults creates the fixed roles, a default admin account, and the
// stock farewell messages if they don't exist yet.
func seedDefaults(db *gorm.DB) {
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)
	farewellRepo := repository.NewFarewellMessageRepo(db)

	if err := roleRepo.SeedDefaults(); err != nil {
		log.Warn().Err(err).Msg("failed to seed roles")
	}

	if err := farewellRepo.SeedDefaults(); err != nil {
		log.Warn().Err(err).Msg("failed to seed farewell messages")
	}

	if _, err := userRepo.FindByEmail("admin@example.com"); err != nil {
		adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
		if err != nil {
			log.Warn().Err(err).Msg("admin role missing, skipping admin seed")
			return
		}

		admin := &model.User{
			Email:       "admin@example.com",
			FullName:    "Store Administrator",
			PhoneNumber: "",
			RoleID:      &adminRole.ID,
			IsActive:    true,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Warn().Err(err).Msg("failed to hash admin password")
			return
		}
		if err := userRepo.Create(admin); err != nil {
			log.Warn().Err(err).Msg("failed to create admin user")
		} else {
			log.Info().Msg("Admin user created: admin@example.com / admin123")
		}
	}
}
