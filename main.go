package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/mercic21/travelmate/config"
	"github.com/mercic21/travelmate/config/db"
	"github.com/mercic21/travelmate/logger"
	"github.com/mercic21/travelmate/middlewares/cors"
	"github.com/mercic21/travelmate/routes"
)

func init() {
	logger.InitLoggers()
	config.LoadEnv()
}

func main() {
	requiredEnvVars := []string{"DATABASE_URL", "RAZORPAY_KEY_ID", "RAZORPAY_KEY_SECRET", "JWT_SECRET"}
	for _, key := range requiredEnvVars {
		if os.Getenv(key) == "" {
			logger.ErrorLogger.Errorf("Missing required environment variable: %s", key)
			os.Exit(1)
		}
	}

	db.Connect()
	defer db.Close()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.CorsMiddleware())

	routes.RegisterUserRoutes(r)
	routes.RegisterHotelRoutes(r)
	routes.RegisterEventRoutes(r)
	routes.RegisterPaymentRoutes(r)
	routes.RegisterBookingRoutes(r)

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "Server is running"})
	})

	logger.InfoLogger.Infof("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		logger.ErrorLogger.Errorf("Server failed: %v", err)
		os.Exit(1)
	}
}
