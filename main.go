package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yourusername/school-billing/config"
	"github.com/yourusername/school-billing/handlers"
	"github.com/yourusername/school-billing/middleware"
	"github.com/yourusername/school-billing/models"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Setup router
	router := gin.Default()
	router.Use(middleware.Metrics())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "school-billing-api",
		})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api/v1")

	// Authentication endpoints
	authHandler := handlers.NewAuthHandler(db, cfg)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.GET("/me", middleware.JwtAuthMiddleware(cfg), authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JwtAuthMiddleware(cfg))
	{
		// School endpoints
		schoolHandler := handlers.NewSchoolHandler(db)
		protected.POST("/schools", schoolHandler.CreateSchool)
		protected.GET("/schools", schoolHandler.ListSchools)
		protected.GET("/schools/:id", schoolHandler.GetSchool)
		protected.PUT("/schools/:id", schoolHandler.UpdateSchool)
		protected.DELETE("/schools/:id", middleware.RequireRole(models.RoleAdmin), schoolHandler.DeleteSchool)
		protected.GET("/schools/:id/statement", schoolHandler.GetSchoolStatement)

		// Student endpoints
		studentHandler := handlers.NewStudentHandler(db)
		protected.POST("/students", studentHandler.CreateStudent)
		protected.GET("/students", studentHandler.ListStudents)
		protected.GET("/students/:id", studentHandler.GetStudent)
		protected.PUT("/students/:id", studentHandler.UpdateStudent)
		protected.DELETE("/students/:id", middleware.RequireRole(models.RoleAdmin), studentHandler.DeleteStudent)
		protected.GET("/students/:id/statement", studentHandler.GetStudentStatement)

		// Invoice endpoints (items and payments nest under the invoice)
		invoiceHandler := handlers.NewInvoiceHandler(db)
		protected.POST("/invoices", invoiceHandler.CreateInvoice)
		protected.GET("/invoices", invoiceHandler.ListInvoices)
		protected.GET("/invoices/:id", invoiceHandler.GetInvoice)
		protected.PUT("/invoices/:id", invoiceHandler.UpdateInvoice)
		protected.POST("/invoices/:id/cancel", invoiceHandler.CancelInvoice)
		protected.POST("/invoices/:id/items", invoiceHandler.AddInvoiceItem)
		protected.PATCH("/invoices/:id/items/:itemID", invoiceHandler.UpdateInvoiceItem)
		protected.DELETE("/invoices/:id/items/:itemID", invoiceHandler.DeleteInvoiceItem)
		protected.POST("/invoices/:id/payments", invoiceHandler.CreatePayment)
		protected.GET("/invoices/:id/payments", invoiceHandler.ListPayments)
	}

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting school billing API server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
