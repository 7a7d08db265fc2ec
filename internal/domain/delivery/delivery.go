// Package delivery implements delivery records, assignment, and the
// append-only status history.
package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
)

// Status is a delivery lifecycle state. SetStatus accepts any string; the
// constants below are the known set.
type Status string

const (
	StatusUnassigned Status = "unassigned"
	StatusAssigned   Status = "assigned"
	StatusPickedUp   Status = "picked_up"
	StatusInTransit  Status = "in_transit"
	StatusDelivered  Status = "delivered"
	StatusFailed     Status = "failed"
)

// Delivery is the fulfillment record for exactly one order.
type Delivery struct {
	ID               int64
	OrderID          int64
	DeliveryPersonID *int64
	Status           Status
	ETAMinutes       *int32
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// StatusHistory is one append-only audit entry of a delivery's status
// transitions. Rows are never updated or deleted once written.
type StatusHistory struct {
	ID         int64
	DeliveryID int64
	Status     Status
	Note       *string
	CreatedAt  time.Time
}

// Sentinel errors for delivery operations.
var (
	ErrNotFound = errors.New("delivery not found")
	// ErrAlreadyExists indicates the order already has a delivery; the
	// relationship is strictly one-to-one.
	ErrAlreadyExists = errors.New("delivery already exists for this order")
)

// InvalidAssigneeError indicates an assignment target whose role grants no
// delivery capability.
type InvalidAssigneeError struct {
	UserID int64
}

func (e *InvalidAssigneeError) Error() string {
	return fmt.Sprintf("user %d is not a delivery person", e.UserID)
}

// Repository defines persistence operations for deliveries.
type Repository interface {
	// Create persists the delivery together with its initial status-history
	// row in one atomic unit.
	Create(ctx context.Context, d *Delivery) error
	GetByID(ctx context.Context, id int64) (*Delivery, error)
	GetByOrderID(ctx context.Context, orderID int64) (*Delivery, error)
	// List returns deliveries, optionally filtered by assignee.
	List(ctx context.Context, deliveryPersonID *int64) ([]Delivery, error)
	// Assign sets the assignee, moves the delivery to assigned, and
	// optionally updates the ETA. It does not append a history row: history
	// records only explicit status updates.
	Assign(ctx context.Context, id, deliveryPersonID int64, etaMinutes *int32) (*Delivery, error)
	// SetStatus updates the status and appends exactly one history row,
	// atomically.
	SetStatus(ctx context.Context, id int64, status Status, note *string) (*Delivery, error)
	// History returns the delivery's status history ordered by creation time.
	History(ctx context.Context, deliveryID int64) ([]StatusHistory, error)
}
