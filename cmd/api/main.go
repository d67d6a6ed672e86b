package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"winehouse-pos/internal/handler"
	"winehouse-pos/internal/middleware"
	"winehouse-pos/internal/model"
	"winehouse-pos/internal/repository"
	"winehouse-pos/internal/service"
	"winehouse-pos/internal/ws"
	"winehouse-pos/pkg/config"
	"winehouse-pos/pkg/database"
	"winehouse-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	jwt.Configure(cfg.JWTSecret, cfg.JWTTTL)

	// 2. Setup Database
	db := database.ConnectDB(cfg.DatabaseURL)
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// 3. Repositories
	productRepo := repository.NewProductRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	stockRepo := repository.NewStockRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	reportRepo := repository.NewProductStatusRepo(db)
	activityRepo := repository.NewActivityLogRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)
	attendanceRepo := repository.NewAttendanceRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	systemRepo := repository.NewSystemRepo(db)

	// 4. Seed privileges, roles and the first-admin flag
	if err := service.NewSystemService(privilegeRepo, roleRepo, systemRepo, userRepo).Initialize(); err != nil {
		log.Fatalf("Initialization failed: %v", err)
	}

	// 5. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 6. Dependency Injection (Wiring Layers)
	activityService := service.NewActivityService(activityRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, wsHub)
	authService := service.NewAuthService(userRepo, roleRepo, activityService, wsHub, cfg.SessionIdleTimeout)
	userService := service.NewUserService(userRepo, activityService)
	catalogService := service.NewCatalogService(productRepo, supplierRepo, stockRepo, activityService, wsHub)
	salesService := service.NewSalesService(productRepo, stockRepo, txRepo, activityService, wsHub)
	reportService := service.NewReportService(reportRepo, productRepo, stockRepo, activityService, notificationService, wsHub, service.ReportOptions{
		RequireRejectionNotes: cfg.RequireRejectionNotes,
		Location:              cfg.Location,
	})
	attendanceService := service.NewAttendanceService(attendanceRepo, userRepo, activityService, wsHub, cfg.Location)
	dashService := service.NewDashboardService(txRepo, userRepo, cfg.LowStockThreshold, cfg.Location)

	h := handlers{
		auth:         handler.NewAuthHandler(authService),
		user:         handler.NewUserHandler(userService),
		catalog:      handler.NewCatalogHandler(catalogService),
		sales:        handler.NewSalesHandler(salesService),
		report:       handler.NewReportHandler(reportService),
		attendance:   handler.NewAttendanceHandler(attendanceService),
		notification: handler.NewNotificationHandler(notificationService),
		activity:     handler.NewActivityHandler(activityService),
		dashboard:    handler.NewDashboardHandler(dashService),
		role:         handler.NewRoleHandler(roleRepo, privilegeRepo),
	}

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Wine House POS v1.0",
		ErrorHandler: errorHandler,
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	registerRoutes(app, h, userRepo, wsHub)

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

type handlers struct {
	auth         *handler.AuthHandler
	user         *handler.UserHandler
	catalog      *handler.CatalogHandler
	sales        *handler.SalesHandler
	report       *handler.ReportHandler
	attendance   *handler.AttendanceHandler
	notification *handler.NotificationHandler
	activity     *handler.ActivityHandler
	dashboard    *handler.DashboardHandler
	role         *handler.RoleHandler
}

func registerRoutes(app *fiber.App, h handlers, userRepo repository.UserRepository, wsHub *ws.Hub) {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", h.auth.Register)
	auth.Post("/login", h.auth.Login)
	auth.Post("/validate-token", h.auth.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), h.auth.Heartbeat)
	auth.Post("/change-password", middleware.RequireAuth(userRepo), h.auth.ChangePassword)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))
	priv := middleware.RequirePrivilege

	// Dashboard
	protected.Get("/dashboard/stats", priv(model.PrivDashboardView), h.dashboard.GetDashboardStats)
	protected.Get("/dashboard/sales-trend", priv(model.PrivDashboardView), h.dashboard.GetSalesTrend)
	protected.Get("/dashboard/today-transactions", priv(model.PrivTransactionView), h.dashboard.GetTodayTransactions)

	// Catalog
	protected.Get("/products", priv(model.PrivProductView), h.catalog.GetProducts)
	protected.Get("/products/:id", priv(model.PrivProductView), h.catalog.GetProduct)
	protected.Get("/products/:id/stocks", priv(model.PrivStockView), h.catalog.GetProductStocks)
	protected.Post("/products", priv(model.PrivProductCreate), h.catalog.CreateProduct)
	protected.Get("/suppliers", priv(model.PrivSupplierView), h.catalog.GetSuppliers)
	protected.Post("/suppliers", priv(model.PrivSupplierCreate), h.catalog.CreateSupplier)
	protected.Get("/stocks", priv(model.PrivStockView), h.catalog.GetStocks)
	protected.Post("/stocks", priv(model.PrivStockCreate), h.catalog.CreateStock)

	// Sales
	protected.Get("/transactions", priv(model.PrivTransactionView), h.sales.GetTransactions)
	protected.Get("/transactions/:id", priv(model.PrivTransactionView), h.sales.GetTransaction)
	protected.Post("/transactions", priv(model.PrivTransactionCreate), h.sales.CreateTransaction)

	// Expired / damaged product reports
	protected.Get("/product-statuses", priv(model.PrivReportView), h.report.GetReports)
	protected.Get("/product-statuses/export", priv(model.PrivReportExport), h.report.ExportReports)
	protected.Get("/product-statuses/:id", priv(model.PrivReportView), h.report.GetReport)
	protected.Post("/product-statuses", priv(model.PrivReportCreate), h.report.SubmitReport)
	protected.Put("/product-statuses/:id", priv(model.PrivReportCreate), h.report.ReviseReport)
	protected.Put("/product-statuses/:id/review", priv(model.PrivReportReview), h.report.ReviewReport)

	// Attendance
	protected.Post("/attendance/clock-in", h.attendance.ClockIn)
	protected.Post("/attendance/clock-out", h.attendance.ClockOut)
	protected.Get("/attendance/me", h.attendance.GetMyHistory)
	protected.Get("/attendance/today", priv(model.PrivAttendanceView), h.attendance.GetToday)
	protected.Get("/attendance/active-staff", priv(model.PrivAttendanceView), h.attendance.GetActiveStaff)
	protected.Get("/attendance/users/:id", priv(model.PrivAttendanceView), h.attendance.GetUserHistory)

	// Notifications (always the caller's own inbox)
	protected.Get("/notifications", h.notification.GetNotifications)
	protected.Get("/notifications/unread-count", h.notification.GetUnreadCount)
	protected.Put("/notifications/:id/read", h.notification.MarkRead)

	// Activity log
	protected.Get("/activity-logs", priv(model.PrivActivityView), h.activity.GetActivityLogs)

	// Users
	protected.Get("/users/me", h.user.GetMe)
	protected.Put("/users/me/profile", h.user.UpdateProfile)
	protected.Get("/users", priv(model.PrivUserView), h.user.GetUsers)
	protected.Get("/users/:id", priv(model.PrivUserView), h.user.GetUser)
	protected.Delete("/users/:id", priv(model.PrivUserDelete), h.user.DeleteUser)

	// Roles & privileges
	protected.Get("/roles", h.role.GetRoles)
	protected.Get("/privileges", h.role.GetPrivileges)

	// WebSocket Route: /ws?token=<jwt>
	app.Use("/ws", handler.UpgradeWS, middleware.RequireWSAuth(userRepo))
	app.Get("/ws", handler.ServeWS(wsHub))
}

// errorHandler keeps stray fiber errors in the API's {"error": ...} shape
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	if code == fiber.StatusInternalServerError {
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
