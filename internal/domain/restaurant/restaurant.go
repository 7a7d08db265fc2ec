// Package restaurant defines restaurants and their menus.
package restaurant

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Restaurant is a venue offering a menu of items.
type Restaurant struct {
	ID          int64
	Name        string
	Description *string
	Address     *string
	CreatedAt   time.Time
}

// MenuItem is a single orderable dish belonging to one restaurant.
// Price is fixed-point currency with two decimal places.
type MenuItem struct {
	ID           int64
	RestaurantID int64
	Name         string
	Description  *string
	Price        decimal.Decimal
	ImageURL     *string
	IsAvailable  bool
	CreatedAt    time.Time
}

// ErrNotFound indicates the referenced restaurant does not exist.
var ErrNotFound = errors.New("restaurant not found")

// MenuItemNotFoundError indicates a requested menu item does not exist.
type MenuItemNotFoundError struct {
	MenuItemID int64
}

func (e *MenuItemNotFoundError) Error() string {
	return fmt.Sprintf("menu item %d not found", e.MenuItemID)
}

// Repository defines persistence operations for restaurants and menu items.
type Repository interface {
	Create(ctx context.Context, r *Restaurant) error
	List(ctx context.Context) ([]Restaurant, error)
	GetByID(ctx context.Context, id int64) (*Restaurant, error)

	CreateMenuItem(ctx context.Context, item *MenuItem) error
	// ListMenu returns the restaurant's menu ordered by item name. When
	// onlyAvailable is true, unavailable items are filtered out.
	ListMenu(ctx context.Context, restaurantID int64, onlyAvailable bool) ([]MenuItem, error)
	GetMenuItem(ctx context.Context, id int64) (*MenuItem, error)
	// GetMenuItemsByIDs returns the menu items matching any of the given IDs.
	// Missing IDs are simply absent from the result.
	GetMenuItemsByIDs(ctx context.Context, ids []int64) ([]MenuItem, error)
}
