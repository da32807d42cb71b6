package payment_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mercic21/travelmate/logger"
)

// Payment status values, mapped from the processor's vocabulary at write
// time.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

var ErrPaymentNotFound = errors.New("payment not found")

// Payment records the outcome of one reconciled charge. Amount is in the
// processor's minor units.
type Payment struct {
	ID              uuid.UUID `json:"id"`
	BookingID       uuid.UUID `json:"booking_id"`
	RazorpayOrderID string    `json:"razorpay_order_id"`
	Amount          int64     `json:"amount"`
	Currency        string    `json:"currency"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewPayment creates a new Payment struct.
func NewPayment(bookingID uuid.UUID, razorpayOrderID string, amount int64, currency, status string) (*Payment, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for payment: %w", err)
	}
	now := time.Now()
	return &Payment{
		ID:              id,
		BookingID:       bookingID,
		RazorpayOrderID: razorpayOrderID,
		Amount:          amount,
		Currency:        currency,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Store is the payment record persistence contract.
type Store interface {
	CreatePayment(ctx context.Context, payment *Payment) (*Payment, error)
	GetPaymentByBookingID(ctx context.Context, bookingID uuid.UUID) (*Payment, error)
}

// PGStore implements Store on a pgx connection pool.
type PGStore struct {
	DB *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{DB: db}
}

func (s *PGStore) CreatePayment(ctx context.Context, payment *Payment) (*Payment, error) {
	return CreatePayment(ctx, s.DB, payment)
}

func (s *PGStore) GetPaymentByBookingID(ctx context.Context, bookingID uuid.UUID) (*Payment, error) {
	return GetPaymentByBookingID(ctx, s.DB, bookingID)
}

// CreatePayment inserts a new payment record into the database.
func CreatePayment(ctx context.Context, db *pgxpool.Pool, payment *Payment) (*Payment, error) {
	logger.InfoLogger.Infof("Attempting to create payment record for booking %s", payment.BookingID)

	if payment.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate UUID: %w", err)
		}
		payment.ID = id
	}
	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	query := `
		INSERT INTO payments (
			id, booking_id, razorpay_order_id, amount, currency, status,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id`

	var insertedID uuid.UUID
	err := db.QueryRow(ctx, query,
		payment.ID, payment.BookingID, payment.RazorpayOrderID,
		payment.Amount, payment.Currency, payment.Status,
		payment.CreatedAt, payment.UpdatedAt,
	).Scan(&insertedID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert payment for booking %s: %v", payment.BookingID, err)
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	payment.ID = insertedID
	logger.InfoLogger.Infof("Payment %s recorded for booking %s (%s)", payment.ID, payment.BookingID, payment.Status)
	return payment, nil
}

// GetPaymentByBookingID fetches the payment record for a booking.
func GetPaymentByBookingID(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID) (*Payment, error) {
	payment := &Payment{}

	query := `
		SELECT id, booking_id, razorpay_order_id, amount, currency, status,
		       created_at, updated_at
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	err := db.QueryRow(ctx, query, bookingID).Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.RazorpayOrderID,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		logger.ErrorLogger.Errorf("Failed to fetch payment for booking %s: %v", bookingID, err)
		return nil, fmt.Errorf("database error fetching payment: %w", err)
	}

	return payment, nil
}
