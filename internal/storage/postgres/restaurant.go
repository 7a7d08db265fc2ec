package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/gourmet-express/internal/domain/restaurant"
)

const (
	createRestaurantSQL = `INSERT INTO restaurants (name, description, address)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	listRestaurantsSQL = `SELECT id, name, description, address, created_at
		FROM restaurants ORDER BY name`

	getRestaurantByIDSQL = `SELECT id, name, description, address, created_at
		FROM restaurants WHERE id = $1`

	createMenuItemSQL = `INSERT INTO menu_items (restaurant_id, name, description, price, image_url, is_available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	listMenuSQL = `SELECT id, restaurant_id, name, description, price, image_url, is_available, created_at
		FROM menu_items WHERE restaurant_id = $1 AND ($2 = false OR is_available)
		ORDER BY name`

	getMenuItemByIDSQL = `SELECT id, restaurant_id, name, description, price, image_url, is_available, created_at
		FROM menu_items WHERE id = $1`

	getMenuItemsByIDsSQL = `SELECT id, restaurant_id, name, description, price, image_url, is_available, created_at
		FROM menu_items WHERE id = ANY($1)`
)

var _ restaurant.Repository = (*RestaurantRepository)(nil)

// RestaurantRepository implements restaurant.Repository backed by PostgreSQL.
type RestaurantRepository struct {
	pool *pgxpool.Pool
}

// NewRestaurantRepository returns a RestaurantRepository that uses the given pool.
func NewRestaurantRepository(pool *pgxpool.Pool) *RestaurantRepository {
	return &RestaurantRepository{pool: pool}
}

// Create persists a new restaurant, filling in the generated ID and timestamp.
func (r *RestaurantRepository) Create(ctx context.Context, rest *restaurant.Restaurant) error {
	err := r.pool.QueryRow(ctx, createRestaurantSQL,
		rest.Name, rest.Description, rest.Address,
	).Scan(&rest.ID, &rest.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating restaurant %q: %w", rest.Name, err)
	}
	return nil
}

// List returns all restaurants ordered by name.
func (r *RestaurantRepository) List(ctx context.Context) ([]restaurant.Restaurant, error) {
	rows, err := r.pool.Query(ctx, listRestaurantsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing restaurants: %w", err)
	}
	return pgx.CollectRows(rows, scanRestaurant)
}

// GetByID returns a single restaurant, or restaurant.ErrNotFound.
func (r *RestaurantRepository) GetByID(ctx context.Context, id int64) (*restaurant.Restaurant, error) {
	rows, err := r.pool.Query(ctx, getRestaurantByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting restaurant %d: %w", id, err)
	}

	rest, err := pgx.CollectExactlyOneRow(rows, scanRestaurant)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, restaurant.ErrNotFound
		}
		return nil, fmt.Errorf("getting restaurant %d: %w", id, err)
	}
	return &rest, nil
}

// CreateMenuItem persists a new menu item, filling in the generated ID and
// timestamp.
func (r *RestaurantRepository) CreateMenuItem(ctx context.Context, item *restaurant.MenuItem) error {
	err := r.pool.QueryRow(ctx, createMenuItemSQL,
		item.RestaurantID, item.Name, item.Description, item.Price, item.ImageURL, item.IsAvailable,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating menu item %q: %w", item.Name, err)
	}
	return nil
}

// ListMenu returns a restaurant's menu items, ordered by name.
func (r *RestaurantRepository) ListMenu(ctx context.Context, restaurantID int64, onlyAvailable bool) ([]restaurant.MenuItem, error) {
	rows, err := r.pool.Query(ctx, listMenuSQL, restaurantID, onlyAvailable)
	if err != nil {
		return nil, fmt.Errorf("listing menu for restaurant %d: %w", restaurantID, err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// GetMenuItem returns a single menu item, or a MenuItemNotFoundError.
func (r *RestaurantRepository) GetMenuItem(ctx context.Context, id int64) (*restaurant.MenuItem, error) {
	rows, err := r.pool.Query(ctx, getMenuItemByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting menu item %d: %w", id, err)
	}

	item, err := pgx.CollectExactlyOneRow(rows, scanMenuItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &restaurant.MenuItemNotFoundError{MenuItemID: id}
		}
		return nil, fmt.Errorf("getting menu item %d: %w", id, err)
	}
	return &item, nil
}

// GetMenuItemsByIDs returns menu items matching any of the given IDs.
func (r *RestaurantRepository) GetMenuItemsByIDs(ctx context.Context, ids []int64) ([]restaurant.MenuItem, error) {
	rows, err := r.pool.Query(ctx, getMenuItemsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting menu items by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

func scanRestaurant(row pgx.CollectableRow) (restaurant.Restaurant, error) {
	var rest restaurant.Restaurant
	err := row.Scan(&rest.ID, &rest.Name, &rest.Description, &rest.Address, &rest.CreatedAt)
	return rest, err
}

func scanMenuItem(row pgx.CollectableRow) (restaurant.MenuItem, error) {
	var item restaurant.MenuItem
	err := row.Scan(
		&item.ID, &item.RestaurantID, &item.Name, &item.Description,
		&item.Price, &item.ImageURL, &item.IsAvailable, &item.CreatedAt,
	)
	return item, err
}
