package routes

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/mercic21/travelmate/clients"
	"github.com/mercic21/travelmate/config/db"
	"github.com/mercic21/travelmate/controllers/payment_controller"
	middleware "github.com/mercic21/travelmate/middlewares"
	"github.com/mercic21/travelmate/middlewares/auth"
	"github.com/mercic21/travelmate/models/booking_models"
	"github.com/mercic21/travelmate/models/payment_models"
)

// RegisterPaymentRoutes wires the payment intent and confirmation endpoints.
func RegisterPaymentRoutes(router *gin.Engine) {
	processor := clients.NewRazorpayProcessor(
		os.Getenv("RAZORPAY_KEY_ID"),
		os.Getenv("RAZORPAY_KEY_SECRET"),
	)

	paymentController := payment_controller.NewPaymentController(
		booking_models.NewPGStore(db.DB),
		payment_models.NewPGStore(db.DB),
		processor,
	)

	protected := router.Group("/api/payments")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/create-intent",
			middleware.CombinedRateLimiter("create-intent", "5-1m", "20-10m"),
			paymentController.CreatePaymentIntent)

		protected.POST("/confirm",
			middleware.NewRateLimiter("10-1m", "confirm-payment"),
			paymentController.ConfirmPayment)
	}
}
