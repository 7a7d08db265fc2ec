package order

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/gourmet-express/internal/domain/restaurant"
	"github.com/xenking/gourmet-express/internal/domain/user"
)

// ErrEmptyItems indicates an order creation request without line items.
var ErrEmptyItems = errors.New("items required")

// InvalidQuantityError indicates a line item with a quantity below one.
type InvalidQuantityError struct {
	MenuItemID int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be >= 1 for menu item %d", e.MenuItemID)
}

// ItemRequest is one requested (menu item, quantity) pair.
type ItemRequest struct {
	MenuItemID int64
	Quantity   int32
}

// CreateRequest holds the input for creating an order.
type CreateRequest struct {
	UserID          int64
	RestaurantID    int64
	DeliveryAddress *string
	Items           []ItemRequest
}

// Service encapsulates order creation business logic.
type Service struct {
	users       user.Repository
	restaurants restaurant.Repository
	orders      Repository
}

// NewService creates an order Service with the required domain dependencies.
func NewService(users user.Repository, restaurants restaurant.Repository, orders Repository) *Service {
	return &Service{
		users:       users,
		restaurants: restaurants,
		orders:      orders,
	}
}

// Create validates the request, snapshots current menu prices, computes the
// total as the exact sum of line totals, and persists the order with its
// items as one atomic unit. If any referenced menu item is missing the whole
// operation fails and nothing is written.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}
	if _, err := s.restaurants.GetByID(ctx, req.RestaurantID); err != nil {
		return nil, err
	}

	// Validate quantities and collect menu item IDs.
	ids := make([]int64, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity < 1 {
			return nil, &InvalidQuantityError{MenuItemID: item.MenuItemID}
		}
		ids[i] = item.MenuItemID
	}

	// Batch fetch all menu items in a single query.
	fetched, err := s.restaurants.GetMenuItemsByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get menu items")
	}

	menuByID := make(map[int64]restaurant.MenuItem, len(fetched))
	for _, m := range fetched {
		menuByID[m.ID] = m
	}

	// Build line items with snapshotted prices; total is the exact sum of
	// line totals, no rounding drift.
	items := make([]Item, len(req.Items))
	total := decimal.Zero
	for i, reqItem := range req.Items {
		m, ok := menuByID[reqItem.MenuItemID]
		if !ok {
			return nil, &restaurant.MenuItemNotFoundError{MenuItemID: reqItem.MenuItemID}
		}

		lineTotal := m.Price.Mul(decimal.NewFromInt32(reqItem.Quantity))
		items[i] = Item{
			MenuItemID: m.ID,
			Quantity:   reqItem.Quantity,
			UnitPrice:  m.Price,
			LineTotal:  lineTotal,
		}
		total = total.Add(lineTotal)
	}

	o := &Order{
		UserID:          req.UserID,
		RestaurantID:    req.RestaurantID,
		Status:          StatusCreated,
		TotalAmount:     total,
		DeliveryAddress: req.DeliveryAddress,
		Items:           items,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return o, nil
}

// Get returns an order with its items.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.orders.GetByID(ctx, id)
}

// SetStatus updates the order status. Any status value is accepted;
// transitions are not constrained.
func (s *Service) SetStatus(ctx context.Context, id int64, status Status) (*Order, error) {
	return s.orders.SetStatus(ctx, id, status)
}
