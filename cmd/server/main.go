package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"clinic-billing-backend/internal/config"
	"clinic-billing-backend/internal/database"
	"clinic-billing-backend/internal/handler"
	"clinic-billing-backend/internal/middleware"
	"clinic-billing-backend/internal/repository"
	"clinic-billing-backend/internal/service"
	"clinic-billing-backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()
	log.Println("Configuration loaded successfully")

	// 2. Initialize JWT utilities with config
	utils.InitJWT(
		cfg.JWT.AccessSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// 3. Initialize database connection (runs migrations)
	db := database.Connect(cfg)

	// 4. Initialize repositories
	userRepo := repository.NewUserRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	patientRepo := repository.NewPatientRepo(db)
	billRepo := repository.NewBillRepo(db)

	// 5. Initialize services
	authService := service.NewAuthService(userRepo, auditRepo)
	patientService := service.NewPatientService(patientRepo, auditRepo)
	billingService := service.NewBillingService(billRepo, patientRepo, auditRepo)

	// 6. Setup Gin
	gin.SetMode(cfg.Server.GinMode)
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// 7. Register handlers
	authHandler := handler.NewAuthHandler(authService)
	billHandler := handler.NewBillHandler(billingService)
	patientHandler := handler.NewPatientHandler(patientService)
	auditHandler := handler.NewAuditHandler(auditRepo)

	// 8. Define routes
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":  "healthy",
			"service": "clinic-billing-backend",
		})
	})

	// Auth routes (public, exempt from the tab check)
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}

	// Admin routes (authenticated, admin only, exempt from the tab check)
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireAdmin())
	{
		admin.GET("/audit", auditHandler.ListAuditLogs)
	}

	// Billing routes (authenticated; every request needs a tab identifier)
	billing := r.Group("/")
	billing.Use(middleware.AuthMiddleware(), middleware.TabSession())
	{
		billing.GET("/", billHandler.NewBillForm)
		billing.POST("/", billHandler.CreateBill)
		billing.GET("/bill/:id", billHandler.BillSummary)
		billing.GET("/patients/list", patientHandler.ListPatients)
		billing.GET("/patients/search", patientHandler.SearchPatients)
		billing.POST("/patients/:id/delete", patientHandler.DeletePatient)
	}

	// 9. Start server with graceful shutdown
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := r.Run(":" + cfg.Server.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Server exited")
}
