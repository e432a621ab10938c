package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/dollar-advisor/config"
	"github.com/yourusername/dollar-advisor/handlers"
	"github.com/yourusername/dollar-advisor/middleware"
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

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
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
			"service": "dollar-advisor-api",
		})
	})

	authHandler := handlers.NewAuthHandler(db, cfg)
	adviceHandler := handlers.NewAdviceHandler(db, cfg)

	// Public routes
	router.POST("/register", authHandler.Register)
	router.POST("/request-verification", authHandler.RequestVerification)
	router.POST("/verify-email", authHandler.VerifyEmail)
	router.POST("/token", authHandler.Token)
	router.POST("/calculate", adviceHandler.Calculate)

	// Bearer-protected routes
	protected := router.Group("/")
	protected.Use(middleware.JwtAuthMiddleware(cfg, db))
	protected.GET("/advanced_investment_advice", adviceHandler.AdvancedInvestmentAdvice)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting dollar-advisor API server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
