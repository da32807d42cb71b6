package payment_controller

import (
	"context"
	"errors"
	"math"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mercic21/travelmate/clients"
	"github.com/mercic21/travelmate/logger"
	"github.com/mercic21/travelmate/models/booking_models"
	"github.com/mercic21/travelmate/models/payment_models"
	"github.com/mercic21/travelmate/utils"
)

// PaymentController handles payment intent creation and reconciliation.
type PaymentController struct {
	Bookings  booking_models.Store
	Payments  payment_models.Store
	Processor clients.PaymentProcessor
	Currency  string
}

// NewPaymentController creates a new payment controller. Currency is fixed
// system-wide, read from PAYMENT_CURRENCY with a USD default.
func NewPaymentController(bookings booking_models.Store, payments payment_models.Store, processor clients.PaymentProcessor) *PaymentController {
	currency := os.Getenv("PAYMENT_CURRENCY")
	if currency == "" {
		currency = "USD"
	}

	return &PaymentController{
		Bookings:  bookings,
		Payments:  payments,
		Processor: processor,
		Currency:  currency,
	}
}

type CreateIntentRequest struct {
	Amount   float64                        `json:"amount" binding:"required,gt=0"`
	ItemType string                         `json:"itemType" binding:"required"`
	ItemID   string                         `json:"itemId" binding:"required"`
	Details  *booking_models.BookingDetails `json:"bookingDetails,omitempty"`
}

type ConfirmRequest struct {
	BookingID       string `json:"bookingId" binding:"required"`
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
}

// minorUnits converts an amount to the processor's minor-unit convention
// (e.g. 49.99 -> 4999).
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreatePaymentIntent writes a pending booking and then requests a charge
// authorization from the processor, tagged with the booking id. The booking
// write deliberately precedes the processor call: a processor failure
// leaves an inert pending booking rather than an untracked external charge.
func (pc *PaymentController) CreatePaymentIntent(c *gin.Context) {
	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required payment details"})
		return
	}

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "User not authenticated"})
		return
	}

	booking, err := booking_models.NewBooking(userID, req.ItemType, req.ItemID, req.Amount, req.Details)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	booking, err = pc.Bookings.CreateBooking(ctx, booking)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create booking"})
		return
	}

	auth, err := pc.Processor.CreateAuthorization(ctx, minorUnits(req.Amount), pc.Currency, map[string]interface{}{
		"booking_id": booking.ID.String(),
		"user_id":    userID.String(),
		"item_type":  req.ItemType,
		"item_id":    req.ItemID,
	})
	if err != nil {
		// The pending booking stays behind on purpose; a new intent means a
		// new booking, never a retry under this id.
		logger.ErrorLogger.Errorf("Processor authorization failed for booking %s: %v", booking.ID, err)
		if errors.Is(err, clients.ErrProcessorTimeout) {
			c.JSON(http.StatusGatewayTimeout, gin.H{"success": false, "error": "Payment provider timed out"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Failed to initiate payment"})
		return
	}

	logger.InfoLogger.Infof("Authorization %s created for booking %s", auth.Ref, booking.ID)

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"clientSecret": auth.ClientSecret,
		"bookingId":    booking.ID,
	})
}

// ConfirmPayment verifies with the processor that a charge succeeded and
// flips the matching booking to paid.
func (pc *PaymentController) ConfirmPayment(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "bookingId and paymentIntentId are required"})
		return
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid booking id"})
		return
	}

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "User not authenticated"})
		return
	}

	booking, err := pc.confirm(c.Request.Context(), userID, utils.IsAdminFromContext(c), bookingID, req.PaymentIntentID)
	if err != nil {
		pc.renderConfirmError(c, bookingID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"bookingId":     booking.ID,
		"paymentStatus": booking.PaymentStatus,
	})
}

// confirm runs the reconciliation flow. The processor lookup always comes
// first; local state is only mutated after the source of truth has been
// asked. Repeated calls for an already-paid booking short-circuit without
// side effects.
func (pc *PaymentController) confirm(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID, ref string) (*booking_models.Booking, error) {
	auth, err := pc.Processor.GetAuthorization(ctx, ref)
	if err != nil {
		return nil, err
	}

	// Re-derive the booking from the notes we attached at creation time.
	// The client-supplied booking id must agree with the processor-held
	// mapping, otherwise one user's booking could be confirmed with another
	// user's authorization.
	if auth.BookingID() != bookingID.String() {
		logger.WarnLogger.Warnf("Authorization %s notes do not match booking %s", ref, bookingID)
		return nil, ErrAuthorizationMismatch
	}

	booking, err := pc.Bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID && !isAdmin {
		return nil, utils.ErrUnauthorized
	}

	if booking.PaymentStatus == booking_models.PaymentStatusPaid {
		logger.InfoLogger.Infof("Booking %s already paid, skipping", booking.ID)
		return booking, nil
	}

	if !auth.Succeeded() {
		logger.WarnLogger.Warnf("Authorization %s has status %s for booking %s", ref, auth.Status, bookingID)
		return nil, ErrPaymentNotSucceeded
	}

	applied, err := pc.Bookings.MarkPaidIfPending(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost the race or the booking already reached a terminal state.
		booking, err = pc.Bookings.GetBookingByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if booking.PaymentStatus == booking_models.PaymentStatusPaid {
			return booking, nil
		}
		return nil, ErrBookingNotPending
	}

	booking.PaymentStatus = booking_models.PaymentStatusPaid

	payment, err := payment_models.NewPayment(booking.ID, ref, minorUnits(booking.TotalAmount), pc.Currency, payment_models.StatusSucceeded)
	if err == nil {
		_, err = pc.Payments.CreatePayment(ctx, payment)
	}
	if err != nil {
		// The booking is already paid; losing the payment row is logged but
		// must not fail the confirmation.
		logger.ErrorLogger.Errorf("Critical: failed to record payment for booking %s: %v", booking.ID, err)
	}

	logger.InfoLogger.Infof("Booking %s confirmed paid via authorization %s", booking.ID, ref)
	return booking, nil
}

func (pc *PaymentController) renderConfirmError(c *gin.Context, bookingID uuid.UUID, err error) {
	switch {
	case errors.Is(err, clients.ErrAuthorizationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Payment intent not found"})
	case errors.Is(err, booking_models.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Booking " + bookingID.String() + " not found"})
	case errors.Is(err, ErrAuthorizationMismatch):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Payment intent does not match this booking"})
	case errors.Is(err, utils.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Not authorized to confirm this booking"})
	case errors.Is(err, ErrPaymentNotSucceeded):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Payment not succeeded"})
	case errors.Is(err, ErrBookingNotPending):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Booking is no longer pending"})
	case errors.Is(err, clients.ErrProcessorTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"success": false, "error": "Payment provider timed out"})
	default:
		logger.ErrorLogger.Errorf("Payment confirmation error for booking %s: %v", bookingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to confirm payment"})
	}
}
