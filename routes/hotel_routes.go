package routes

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/mercic21/travelmate/clients"
	"github.com/mercic21/travelmate/controllers/hotel_controller"
)

// RegisterHotelRoutes wires the hotel search proxy.
func RegisterHotelRoutes(router *gin.Engine) {
	amadeus := clients.NewAmadeusClient(
		os.Getenv("AMADEUS_CLIENT_ID"),
		os.Getenv("AMADEUS_CLIENT_SECRET"),
	)
	hotelController := hotel_controller.NewHotelController(amadeus)

	router.GET("/api/hotels", hotelController.SearchHotels)
}
