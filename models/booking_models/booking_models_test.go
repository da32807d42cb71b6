package booking_models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBooking(t *testing.T) {
	userID := uuid.New()

	t.Run("ValidHotelBooking", func(t *testing.T) {
		booking, err := NewBooking(userID, ItemTypeHotel, "HTL1", 120.00, nil)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, booking.ID)
		assert.Equal(t, userID, booking.UserID)
		assert.Equal(t, ItemTypeHotel, booking.ItemType)
		assert.Equal(t, "HTL1", booking.ItemID)
		assert.Equal(t, 120.00, booking.TotalAmount)
		assert.Equal(t, PaymentStatusPending, booking.PaymentStatus)
		assert.False(t, booking.CreatedAt.IsZero())
	})

	t.Run("ValidEventBooking", func(t *testing.T) {
		booking, err := NewBooking(userID, ItemTypeEvent, "EVT1", 45.50, &BookingDetails{Guests: 2})
		require.NoError(t, err)
		assert.Equal(t, ItemTypeEvent, booking.ItemType)
		require.NotNil(t, booking.BookingDetails)
		assert.Equal(t, 2, booking.BookingDetails.Guests)
	})

	t.Run("RejectsUnknownItemType", func(t *testing.T) {
		_, err := NewBooking(userID, "flight", "FL1", 100, nil)
		assert.ErrorIs(t, err, ErrInvalidItemType)
	})

	t.Run("RejectsEmptyItemID", func(t *testing.T) {
		_, err := NewBooking(userID, ItemTypeHotel, "", 100, nil)
		assert.ErrorIs(t, err, ErrMissingItemID)
	})

	t.Run("RejectsNonPositiveAmount", func(t *testing.T) {
		_, err := NewBooking(userID, ItemTypeHotel, "HTL1", 0, nil)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = NewBooking(userID, ItemTypeHotel, "HTL1", -5, nil)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestValidPaymentStatus(t *testing.T) {
	assert.True(t, ValidPaymentStatus(PaymentStatusPending))
	assert.True(t, ValidPaymentStatus(PaymentStatusPaid))
	assert.True(t, ValidPaymentStatus(PaymentStatusFailed))
	assert.False(t, ValidPaymentStatus("refunded"))
	assert.False(t, ValidPaymentStatus(""))
}
