package hotel_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mercic21/travelmate/clients"
	"github.com/mercic21/travelmate/logger"
)

// HotelController proxies hotel inventory searches to Amadeus.
type HotelController struct {
	Amadeus clients.AmadeusClientWrapper
}

func NewHotelController(amadeus clients.AmadeusClientWrapper) *HotelController {
	return &HotelController{Amadeus: amadeus}
}

type SearchHotelsRequest struct {
	CityCode     string `form:"cityCode" binding:"required,len=3"`
	CheckInDate  string `form:"checkInDate" binding:"required"`
	CheckOutDate string `form:"checkOutDate" binding:"required"`
}

// SearchHotels returns best-rate offers for hotels in a city.
func (hc *HotelController) SearchHotels(c *gin.Context) {
	var req SearchHotelsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cityCode, checkInDate and checkOutDate are required"})
		return
	}

	hotels, err := hc.Amadeus.GetHotels(c.Request.Context(), req.CityCode, req.CheckInDate, req.CheckOutDate)
	if err != nil {
		logger.ErrorLogger.Errorf("Hotel search failed for city %s: %v", req.CityCode, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch hotels"})
		return
	}

	c.JSON(http.StatusOK, hotels)
}
