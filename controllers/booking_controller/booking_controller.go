package booking_controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mercic21/travelmate/logger"
	"github.com/mercic21/travelmate/models/booking_models"
	"github.com/mercic21/travelmate/utils"
)

// BookingController holds dependencies for booking ledger operations.
type BookingController struct {
	Bookings booking_models.Store
}

// NewBookingController creates a new instance of BookingController.
func NewBookingController(bookings booking_models.Store) *BookingController {
	return &BookingController{
		Bookings: bookings,
	}
}

type CreateBookingRequest struct {
	ItemType    string                         `json:"itemType" binding:"required"`
	ItemID      string                         `json:"itemId" binding:"required"`
	TotalAmount float64                        `json:"totalAmount" binding:"required,gt=0"`
	Details     *booking_models.BookingDetails `json:"bookingDetails,omitempty"`
}

// CreateBooking records a booking directly, without a payment intent.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	booking, err := booking_models.NewBooking(userID, req.ItemType, req.ItemID, req.TotalAmount, req.Details)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err = bc.Bookings.CreateBooking(c.Request.Context(), booking)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create booking"})
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GetMyBookings lists the caller's bookings, newest first.
func (bc *BookingController) GetMyBookings(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookings, err := bc.Bookings.GetBookingsByUser(c.Request.Context(), userID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to list bookings for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch bookings"})
		return
	}
	if bookings == nil {
		bookings = []*booking_models.Booking{}
	}

	c.JSON(http.StatusOK, bookings)
}

// GetBookingByID returns one booking; only the owner or an admin may read
// it.
func (bc *BookingController) GetBookingByID(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	booking, err := bc.Bookings.GetBookingByID(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, booking_models.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch booking"})
		return
	}

	if booking.UserID != userID && !utils.IsAdminFromContext(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to view this booking"})
		return
	}

	c.JSON(http.StatusOK, booking)
}

// GetAllBookings lists every booking in the ledger. Admin only.
func (bc *BookingController) GetAllBookings(c *gin.Context) {
	if !utils.IsAdminFromContext(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	bookings, err := bc.Bookings.GetAllBookings(c.Request.Context())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to list all bookings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch bookings"})
		return
	}
	if bookings == nil {
		bookings = []*booking_models.Booking{}
	}

	c.JSON(http.StatusOK, bookings)
}
