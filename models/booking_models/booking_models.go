package booking_models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mercic21/travelmate/logger"
)

// Item types a booking can reference.
const (
	ItemTypeHotel = "hotel"
	ItemTypeEvent = "event"
)

// Payment status values. A booking starts pending and moves to paid or
// failed; there is no documented transition back to pending.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrInvalidItemType      = errors.New("item type must be hotel or event")
	ErrInvalidAmount        = errors.New("total amount must be greater than zero")
	ErrMissingItemID        = errors.New("item id is required")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

// BookingDetails is an optional payload carried for display only; the
// payment flow never reads it.
type BookingDetails struct {
	CheckIn   *time.Time `json:"check_in,omitempty"`
	CheckOut  *time.Time `json:"check_out,omitempty"`
	EventDate *time.Time `json:"event_date,omitempty"`
	Guests    int        `json:"guests,omitempty"`
	Nights    int        `json:"nights,omitempty"`
}

// Booking represents one user's request to purchase one inventory item.
type Booking struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	ItemType       string          `json:"item_type"`
	ItemID         string          `json:"item_id"`
	TotalAmount    float64         `json:"total_amount"`
	PaymentStatus  string          `json:"payment_status"`
	BookingDetails *BookingDetails `json:"booking_details,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewBooking builds a pending Booking after validating the closed enums and
// amount. Validation failures carry no side effects.
func NewBooking(userID uuid.UUID, itemType, itemID string, totalAmount float64, details *BookingDetails) (*Booking, error) {
	if itemType != ItemTypeHotel && itemType != ItemTypeEvent {
		return nil, ErrInvalidItemType
	}
	if itemID == "" {
		return nil, ErrMissingItemID
	}
	if totalAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for booking: %w", err)
	}
	now := time.Now()
	return &Booking{
		ID:             id,
		UserID:         userID,
		ItemType:       itemType,
		ItemID:         itemID,
		TotalAmount:    totalAmount,
		PaymentStatus:  PaymentStatusPending,
		BookingDetails: details,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// ValidPaymentStatus reports whether s belongs to the closed status enum.
func ValidPaymentStatus(s string) bool {
	return s == PaymentStatusPending || s == PaymentStatusPaid || s == PaymentStatusFailed
}

// Store is the booking ledger persistence contract. The Postgres-backed
// implementation is PGStore; tests substitute in-memory fakes.
type Store interface {
	CreateBooking(ctx context.Context, booking *Booking) (*Booking, error)
	GetBookingByID(ctx context.Context, bookingID uuid.UUID) (*Booking, error)
	GetBookingsByUser(ctx context.Context, userID uuid.UUID) ([]*Booking, error)
	GetAllBookings(ctx context.Context) ([]*Booking, error)
	SetPaymentStatus(ctx context.Context, bookingID uuid.UUID, status string) error
	MarkPaidIfPending(ctx context.Context, bookingID uuid.UUID) (bool, error)
}

// PGStore implements Store on a pgx connection pool.
type PGStore struct {
	DB *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{DB: db}
}

func (s *PGStore) CreateBooking(ctx context.Context, booking *Booking) (*Booking, error) {
	return CreateBooking(ctx, s.DB, booking)
}

func (s *PGStore) GetBookingByID(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	return GetBookingByID(ctx, s.DB, bookingID)
}

func (s *PGStore) GetBookingsByUser(ctx context.Context, userID uuid.UUID) ([]*Booking, error) {
	return GetBookingsByUser(ctx, s.DB, userID)
}

func (s *PGStore) GetAllBookings(ctx context.Context) ([]*Booking, error) {
	return GetAllBookings(ctx, s.DB)
}

func (s *PGStore) SetPaymentStatus(ctx context.Context, bookingID uuid.UUID, status string) error {
	return SetPaymentStatus(ctx, s.DB, bookingID, status)
}

func (s *PGStore) MarkPaidIfPending(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	return MarkPaidIfPending(ctx, s.DB, bookingID)
}

// CreateBooking inserts a new booking record into the database.
func CreateBooking(ctx context.Context, db *pgxpool.Pool, booking *Booking) (*Booking, error) {
	logger.InfoLogger.Infof("Attempting to create booking for item %s (%s)", booking.ItemID, booking.ItemType)

	if booking.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate UUID: %w", err)
		}
		booking.ID = id
	}
	if booking.CreatedAt.IsZero() {
		now := time.Now()
		booking.CreatedAt = now
		booking.UpdatedAt = now
	}
	if !ValidPaymentStatus(booking.PaymentStatus) {
		return nil, ErrInvalidPaymentStatus
	}

	var detailsJSON []byte
	if booking.BookingDetails != nil {
		var err error
		detailsJSON, err = json.Marshal(booking.BookingDetails)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal booking details: %w", err)
		}
	}

	query := `
		INSERT INTO bookings (
			id, user_id, item_type, item_id, total_amount, payment_status,
			booking_details, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING id`

	var insertedID uuid.UUID
	err := db.QueryRow(ctx, query,
		booking.ID, booking.UserID, booking.ItemType, booking.ItemID,
		booking.TotalAmount, booking.PaymentStatus, detailsJSON,
		booking.CreatedAt, booking.UpdatedAt,
	).Scan(&insertedID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert booking for item %s: %v", booking.ItemID, err)
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	booking.ID = insertedID
	logger.InfoLogger.Infof("Booking %s created with status %s", booking.ID, booking.PaymentStatus)
	return booking, nil
}

// GetBookingByID fetches a booking record by its ID.
func GetBookingByID(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID) (*Booking, error) {
	booking := &Booking{}
	var detailsJSON []byte

	query := `
		SELECT id, user_id, item_type, item_id, total_amount, payment_status,
		       booking_details, created_at, updated_at
		FROM bookings
		WHERE id = $1`

	err := db.QueryRow(ctx, query, bookingID).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ItemType,
		&booking.ItemID,
		&booking.TotalAmount,
		&booking.PaymentStatus,
		&detailsJSON,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.WarnLogger.Warnf("Booking %s not found", bookingID)
			return nil, ErrBookingNotFound
		}
		logger.ErrorLogger.Errorf("Failed to fetch booking %s: %v", bookingID, err)
		return nil, fmt.Errorf("database error fetching booking: %w", err)
	}

	if len(detailsJSON) > 0 {
		booking.BookingDetails = &BookingDetails{}
		if err := json.Unmarshal(detailsJSON, booking.BookingDetails); err != nil {
			logger.ErrorLogger.Errorf("Failed to unmarshal details for booking %s: %v", bookingID, err)
			booking.BookingDetails = nil
		}
	}

	return booking, nil
}

// GetBookingsByUser fetches a user's bookings, newest first.
func GetBookingsByUser(ctx context.Context, db *pgxpool.Pool, userID uuid.UUID) ([]*Booking, error) {
	query := `
		SELECT id, user_id, item_type, item_id, total_amount, payment_status,
		       booking_details, created_at, updated_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to query bookings for user %s: %v", userID, err)
		return nil, fmt.Errorf("database error fetching bookings: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetAllBookings fetches every booking, newest first. Admin listing only.
func GetAllBookings(ctx context.Context, db *pgxpool.Pool) ([]*Booking, error) {
	query := `
		SELECT id, user_id, item_type, item_id, total_amount, payment_status,
		       booking_details, created_at, updated_at
		FROM bookings
		ORDER BY created_at DESC`

	rows, err := db.Query(ctx, query)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to query all bookings: %v", err)
		return nil, fmt.Errorf("database error fetching bookings: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func scanBookings(rows pgx.Rows) ([]*Booking, error) {
	var bookings []*Booking
	for rows.Next() {
		booking := &Booking{}
		var detailsJSON []byte
		if err := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.ItemType,
			&booking.ItemID,
			&booking.TotalAmount,
			&booking.PaymentStatus,
			&detailsJSON,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		); err != nil {
			logger.ErrorLogger.Errorf("Failed to scan booking row: %v", err)
			return nil, fmt.Errorf("error reading bookings: %w", err)
		}
		if len(detailsJSON) > 0 {
			booking.BookingDetails = &BookingDetails{}
			if err := json.Unmarshal(detailsJSON, booking.BookingDetails); err != nil {
				booking.BookingDetails = nil
			}
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading bookings: %w", err)
	}
	return bookings, nil
}

// SetPaymentStatus updates a booking's payment status unconditionally.
func SetPaymentStatus(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID, status string) error {
	if !ValidPaymentStatus(status) {
		return ErrInvalidPaymentStatus
	}

	tag, err := db.Exec(ctx,
		`UPDATE bookings SET payment_status = $2, updated_at = NOW() WHERE id = $1`,
		bookingID, status)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to update booking %s to %s: %v", bookingID, status, err)
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}

	logger.InfoLogger.Infof("Booking %s payment status set to %s", bookingID, status)
	return nil
}

// MarkPaidIfPending flips a booking to paid only when it is still pending.
// The conditional update serializes concurrent confirmations on the same
// booking: exactly one caller observes applied=true.
func MarkPaidIfPending(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID) (bool, error) {
	tag, err := db.Exec(ctx,
		`UPDATE bookings SET payment_status = $2, updated_at = NOW()
		 WHERE id = $1 AND payment_status = $3`,
		bookingID, PaymentStatusPaid, PaymentStatusPending)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed conditional paid update for booking %s: %v", bookingID, err)
		return false, fmt.Errorf("failed to mark booking paid: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
