package event_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mercic21/travelmate/clients"
	"github.com/mercic21/travelmate/logger"
)

// EventController proxies event discovery searches to Ticketmaster.
type EventController struct {
	Ticketmaster clients.TicketmasterClientWrapper
}

func NewEventController(ticketmaster clients.TicketmasterClientWrapper) *EventController {
	return &EventController{Ticketmaster: ticketmaster}
}

type SearchEventsRequest struct {
	City      string `form:"city" binding:"required"`
	StartDate string `form:"startDate" binding:"required"`
	EndDate   string `form:"endDate" binding:"required"`
}

// SearchEvents returns events in a city within a date window.
func (ec *EventController) SearchEvents(c *gin.Context) {
	var req SearchEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city, startDate and endDate are required"})
		return
	}

	events, err := ec.Ticketmaster.GetEvents(c.Request.Context(), req.City, req.StartDate, req.EndDate)
	if err != nil {
		logger.ErrorLogger.Errorf("Event search failed for city %s: %v", req.City, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, events)
}
