// Package payment implements the mock payment provider flow: intent
// creation, the per-order payment upsert, and webhook event processing.
package payment

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status is a payment lifecycle state as reported by the (mock) provider.
type Status string

const (
	StatusPending    Status = "pending"
	StatusAuthorized Status = "authorized"
	StatusCaptured   Status = "captured"
	StatusFailed     Status = "failed"
	StatusRefunded   Status = "refunded"
)

// Payment is the financial-authorization record for exactly one order.
// The order_id column carries a unique constraint: re-submitting a payment
// for the same order replaces the existing row.
type Payment struct {
	ID                int64
	OrderID           int64
	Provider          string
	Status            Status
	Amount            decimal.Decimal
	ProviderPaymentID *string
	RawPayload        *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Sentinel errors for payment lookups and webhook validation.
var (
	ErrNotFound = errors.New("payment not found")
	// ErrOrderMismatch indicates a webhook event whose order does not match
	// the payment it references. Guards against cross-order replay.
	ErrOrderMismatch = errors.New("order_id mismatch for this payment")
	// ErrNonPositiveAmount indicates a payment intent with amount <= 0.
	ErrNonPositiveAmount = errors.New("amount must be > 0")
)

// Repository defines persistence operations for payments.
type Repository interface {
	// Upsert creates the payment row for p.OrderID or, when one already
	// exists, overwrites all of its mutable fields with p's values. This is
	// a full replace, not a merge: fields left unset in p come back cleared.
	Upsert(ctx context.Context, p *Payment) error
	GetByOrderID(ctx context.Context, orderID int64) (*Payment, error)
	GetByProviderPaymentID(ctx context.Context, providerPaymentID string) (*Payment, error)
}
