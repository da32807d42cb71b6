package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mercic21/travelmate/config/db"
	"github.com/mercic21/travelmate/controllers/booking_controller"
	"github.com/mercic21/travelmate/middlewares/auth"
	"github.com/mercic21/travelmate/models/booking_models"
)

// RegisterBookingRoutes wires the booking ledger endpoints.
func RegisterBookingRoutes(router *gin.Engine) {
	bookingController := booking_controller.NewBookingController(booking_models.NewPGStore(db.DB))

	protected := router.Group("/api/bookings")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("", bookingController.CreateBooking)
		protected.GET("", bookingController.GetMyBookings)
		protected.GET("/:id", bookingController.GetBookingByID)
	}

	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	{
		admin.GET("/bookings", bookingController.GetAllBookings)
	}
}
