package booking_controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mercic21/travelmate/logger"
	"github.com/mercic21/travelmate/models/booking_models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitLoggers()
	gin.SetMode(gin.TestMode)
	m.Run()
}

type fakeStore struct {
	bookings map[uuid.UUID]*booking_models.Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{bookings: make(map[uuid.UUID]*booking_models.Booking)}
}

func (s *fakeStore) CreateBooking(_ context.Context, booking *booking_models.Booking) (*booking_models.Booking, error) {
	copied := *booking
	s.bookings[booking.ID] = &copied
	return booking, nil
}

func (s *fakeStore) GetBookingByID(_ context.Context, bookingID uuid.UUID) (*booking_models.Booking, error) {
	booking, ok := s.bookings[bookingID]
	if !ok {
		return nil, booking_models.ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}

func (s *fakeStore) GetBookingsByUser(_ context.Context, userID uuid.UUID) ([]*booking_models.Booking, error) {
	var out []*booking_models.Booking
	for _, b := range s.bookings {
		if b.UserID == userID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakeStore) GetAllBookings(_ context.Context) ([]*booking_models.Booking, error) {
	var out []*booking_models.Booking
	for _, b := range s.bookings {
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

func (s *fakeStore) SetPaymentStatus(_ context.Context, bookingID uuid.UUID, status string) error {
	booking, ok := s.bookings[bookingID]
	if !ok {
		return booking_models.ErrBookingNotFound
	}
	booking.PaymentStatus = status
	return nil
}

func (s *fakeStore) MarkPaidIfPending(_ context.Context, bookingID uuid.UUID) (bool, error) {
	booking, ok := s.bookings[bookingID]
	if !ok || booking.PaymentStatus != booking_models.PaymentStatusPending {
		return false, nil
	}
	booking.PaymentStatus = booking_models.PaymentStatusPaid
	return true, nil
}

func newRouter(store *fakeStore, userID uuid.UUID, isAdmin bool) *gin.Engine {
	bc := NewBookingController(store)

	r := gin.New()
	identify := func(c *gin.Context) {
		c.Set("user_id", userID.String())
		if isAdmin {
			c.Set("is_admin", true)
		}
	}
	r.POST("/api/bookings", identify, bc.CreateBooking)
	r.GET("/api/bookings", identify, bc.GetMyBookings)
	r.GET("/api/bookings/:id", identify, bc.GetBookingByID)
	r.GET("/api/admin/bookings", identify, bc.GetAllBookings)
	return r
}

func seedBooking(t *testing.T, store *fakeStore, userID uuid.UUID) *booking_models.Booking {
	t.Helper()
	booking, err := booking_models.NewBooking(userID, booking_models.ItemTypeHotel, "HTL1", 100, nil)
	require.NoError(t, err)
	_, err = store.CreateBooking(context.Background(), booking)
	require.NoError(t, err)
	return booking
}

func TestCreateBooking(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	r := newRouter(store, userID, false)

	body, _ := json.Marshal(map[string]interface{}{
		"itemType":    "event",
		"itemId":      "EVT1",
		"totalAmount": 45.50,
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var booking booking_models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	assert.Equal(t, userID, booking.UserID)
	assert.Equal(t, booking_models.PaymentStatusPending, booking.PaymentStatus)
	assert.Len(t, store.bookings, 1)
}

func TestGetBookingByID(t *testing.T) {
	t.Run("OwnerCanRead", func(t *testing.T) {
		store := newFakeStore()
		userID := uuid.New()
		booking := seedBooking(t, store, userID)
		r := newRouter(store, userID, false)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/bookings/"+booking.ID.String(), nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("StrangerIsForbidden", func(t *testing.T) {
		store := newFakeStore()
		booking := seedBooking(t, store, uuid.New())
		r := newRouter(store, uuid.New(), false)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/bookings/"+booking.ID.String(), nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("AdminCanReadAnyBooking", func(t *testing.T) {
		store := newFakeStore()
		booking := seedBooking(t, store, uuid.New())
		r := newRouter(store, uuid.New(), true)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/bookings/"+booking.ID.String(), nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("UnknownBookingIs404", func(t *testing.T) {
		store := newFakeStore()
		r := newRouter(store, uuid.New(), false)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/bookings/"+uuid.New().String(), nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetMyBookings(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	seedBooking(t, store, userID)
	seedBooking(t, store, userID)
	seedBooking(t, store, uuid.New()) // someone else's

	r := newRouter(store, userID, false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/bookings", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var bookings []booking_models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bookings))
	assert.Len(t, bookings, 2)
}

func TestGetAllBookings(t *testing.T) {
	t.Run("NonAdminIsForbidden", func(t *testing.T) {
		store := newFakeStore()
		r := newRouter(store, uuid.New(), false)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("AdminSeesEverything", func(t *testing.T) {
		store := newFakeStore()
		seedBooking(t, store, uuid.New())
		seedBooking(t, store, uuid.New())
		r := newRouter(store, uuid.New(), true)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var bookings []booking_models.Booking
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bookings))
		assert.Len(t, bookings, 2)
	})
}
