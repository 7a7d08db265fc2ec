// Package order implements order creation and the order status lifecycle.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status is the order lifecycle state. Transitions are not enforced: any
// status write is accepted.
type Status string

const (
	StatusCreated        Status = "created"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// IsValid reports whether the status is one of the known order statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusCreated, StatusConfirmed, StatusPreparing,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order is a customer's purchase request against one restaurant's menu.
// TotalAmount is derived from the items at creation time and never
// recomputed afterward.
type Order struct {
	ID              int64
	UserID          int64
	RestaurantID    int64
	Status          Status
	TotalAmount     decimal.Decimal
	DeliveryAddress *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Items           []Item
}

// Item is one order line. UnitPrice is snapshotted from the menu item at
// order time, so later menu price changes do not affect existing orders.
type Item struct {
	ID         int64
	OrderID    int64
	MenuItemID int64
	Quantity   int32
	UnitPrice  decimal.Decimal
	LineTotal  decimal.Decimal
}

// ErrNotFound indicates the referenced order does not exist.
var ErrNotFound = errors.New("order not found")

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists the order and all of its items atomically.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	// SetStatus updates the order status. Returns ErrNotFound when no such
	// order exists.
	SetStatus(ctx context.Context, id int64, status Status) (*Order, error)
}
