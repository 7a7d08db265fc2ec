package delivery

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/gourmet-express/internal/domain/order"
	"github.com/xenking/gourmet-express/internal/domain/user"
)

// CreateRequest holds the input for creating a delivery.
type CreateRequest struct {
	OrderID          int64
	DeliveryPersonID *int64
	ETAMinutes       *int32
}

// WithHistory bundles a delivery with its ordered status history.
type WithHistory struct {
	Delivery *Delivery
	History  []StatusHistory
}

// Service encapsulates the delivery workflow.
type Service struct {
	deliveries Repository
	orders     order.Repository
	users      user.Repository
}

// NewService creates a delivery Service with the required domain dependencies.
func NewService(deliveries Repository, orders order.Repository, users user.Repository) *Service {
	return &Service{
		deliveries: deliveries,
		orders:     orders,
		users:      users,
	}
}

// Create creates the delivery for an order. Each order has at most one
// delivery; a second create yields ErrAlreadyExists. The initial status is
// assigned when a delivery person is supplied, unassigned otherwise, and a
// single history row mirroring that status is written alongside.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Delivery, error) {
	if _, err := s.orders.GetByID(ctx, req.OrderID); err != nil {
		return nil, err
	}

	if _, err := s.deliveries.GetByOrderID(ctx, req.OrderID); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, errors.Wrap(err, "check existing delivery")
	}

	status := StatusUnassigned
	if req.DeliveryPersonID != nil {
		status = StatusAssigned
	}

	d := &Delivery{
		OrderID:          req.OrderID,
		DeliveryPersonID: req.DeliveryPersonID,
		Status:           status,
		ETAMinutes:       req.ETAMinutes,
	}
	if err := s.deliveries.Create(ctx, d); err != nil {
		return nil, errors.Wrap(err, "create delivery")
	}
	return d, nil
}

// Get returns a delivery with its ordered status history.
func (s *Service) Get(ctx context.Context, id int64) (*WithHistory, error) {
	d, err := s.deliveries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.deliveries.History(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "load history")
	}
	return &WithHistory{Delivery: d, History: history}, nil
}

// List returns deliveries, optionally filtered to one delivery person.
func (s *Service) List(ctx context.Context, deliveryPersonID *int64) ([]Delivery, error) {
	return s.deliveries.List(ctx, deliveryPersonID)
}

// Assign hands the delivery to a user. The assignee must exist and hold the
// deliver capability (role delivery or admin); nothing is mutated otherwise.
func (s *Service) Assign(ctx context.Context, id, deliveryPersonID int64, etaMinutes *int32) (*Delivery, error) {
	assignee, err := s.users.GetByID(ctx, deliveryPersonID)
	if err != nil {
		return nil, err
	}
	if !assignee.Role.Can(user.CapabilityDeliver) {
		return nil, &InvalidAssigneeError{UserID: deliveryPersonID}
	}

	return s.deliveries.Assign(ctx, id, deliveryPersonID, etaMinutes)
}

// SetStatus updates the delivery status and appends one history row. The
// status string is not restricted to the known set, and terminal states
// accept further changes.
func (s *Service) SetStatus(ctx context.Context, id int64, status Status, note *string) (*Delivery, error) {
	return s.deliveries.SetStatus(ctx, id, status, note)
}
