package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/razorpay/razorpay-go"
)

// Outbound calls fail with ErrProcessorTimeout instead of hanging the
// request.
const processorCallTimeout = 10 * time.Second

var (
	ErrProcessorTimeout      = errors.New("payment processor call timed out")
	ErrAuthorizationNotFound = errors.New("authorization not found at payment processor")
	ErrInvalidProcessorReply = errors.New("unexpected payment processor response shape")
)

// Authorization is the processor-side handle for a charge attempt. Ref is
// the processor's order id; ClientSecret is the value the browser needs to
// complete checkout; Status uses the processor's own vocabulary
// ("created", "attempted", "paid").
type Authorization struct {
	Ref          string
	ClientSecret string
	Status       string
	Notes        map[string]interface{}
}

// BookingID returns the booking id recorded in the authorization notes at
// creation time, or "" when absent. Confirmation re-derives the booking from
// this server-held mapping rather than trusting client input alone.
func (a *Authorization) BookingID() string {
	id, _ := a.Notes["booking_id"].(string)
	return id
}

// Succeeded reports whether the processor considers the charge complete.
func (a *Authorization) Succeeded() bool {
	return a.Status == "paid"
}

// PaymentProcessor provides an interface for payment operations.
// This interface allows for easier testing by mocking processor interactions.
type PaymentProcessor interface {
	CreateAuthorization(ctx context.Context, amountMinorUnits int64, currency string, notes map[string]interface{}) (*Authorization, error)
	GetAuthorization(ctx context.Context, ref string) (*Authorization, error)
}

// RazorpayProcessor implements PaymentProcessor using the Razorpay SDK.
type RazorpayProcessor struct {
	Client *razorpay.Client
}

// NewRazorpayProcessor creates a new RazorpayProcessor. It initializes the
// underlying Razorpay SDK client with the provided key ID and secret.
func NewRazorpayProcessor(keyID, keySecret string) *RazorpayProcessor {
	return &RazorpayProcessor{
		Client: razorpay.NewClient(keyID, keySecret),
	}
}

// CreateAuthorization creates a Razorpay order for the given amount in minor
// units. The notes map links the order back to our records (booking id and
// item details) and is round-tripped by Razorpay on every later fetch.
func (r *RazorpayProcessor) CreateAuthorization(ctx context.Context, amountMinorUnits int64, currency string, notes map[string]interface{}) (*Authorization, error) {
	data := map[string]interface{}{
		"amount":   amountMinorUnits,
		"currency": currency,
		"notes":    notes,
	}
	if bookingID, ok := notes["booking_id"].(string); ok {
		data["receipt"] = bookingID
	}

	order, err := r.call(ctx, func() (map[string]interface{}, error) {
		return r.Client.Order.Create(data, nil)
	})
	if err != nil {
		return nil, err
	}

	return orderToAuthorization(order)
}

// GetAuthorization fetches the current state of an order from Razorpay.
// The processor is the source of truth for authorization status; callers
// must never trust a client-supplied status instead of this lookup.
func (r *RazorpayProcessor) GetAuthorization(ctx context.Context, ref string) (*Authorization, error) {
	order, err := r.call(ctx, func() (map[string]interface{}, error) {
		return r.Client.Order.Fetch(ref, nil, nil)
	})
	if err != nil {
		if strings.Contains(err.Error(), "does not exist") || strings.Contains(err.Error(), "is not a valid id") {
			return nil, ErrAuthorizationNotFound
		}
		return nil, err
	}

	return orderToAuthorization(order)
}

// call runs an SDK operation under the processor timeout. The SDK is not
// context-aware, so the call is made on a goroutine and abandoned on
// deadline.
func (r *RazorpayProcessor) call(ctx context.Context, fn func() (map[string]interface{}, error)) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, processorCallTimeout)
	defer cancel()

	type result struct {
		body map[string]interface{}
		err  error
	}
	done := make(chan result, 1)
	go func() {
		body, err := fn()
		done <- result{body, err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrProcessorTimeout
		}
		return nil, ctx.Err()
	case res := <-done:
		return res.body, res.err
	}
}

func orderToAuthorization(order map[string]interface{}) (*Authorization, error) {
	id, ok := order["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: missing order id", ErrInvalidProcessorReply)
	}
	status, _ := order["status"].(string)
	notes, _ := order["notes"].(map[string]interface{})

	return &Authorization{
		Ref: id,
		// Razorpay checkout is opened with the order id; it doubles as the
		// client-facing secret returned from create-intent.
		ClientSecret: id,
		Status:       status,
		Notes:        notes,
	}, nil
}
