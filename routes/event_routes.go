package routes

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/mercic21/travelmate/clients"
	"github.com/mercic21/travelmate/controllers/event_controller"
)

// RegisterEventRoutes wires the event search proxy.
func RegisterEventRoutes(router *gin.Engine) {
	ticketmaster := clients.NewTicketmasterClient(os.Getenv("TICKETMASTER_API_KEY"))
	eventController := event_controller.NewEventController(ticketmaster)

	router.GET("/api/events", eventController.SearchEvents)
}
