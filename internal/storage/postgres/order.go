package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/gourmet-express/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders (user_id, restaurant_id, status, total_amount, delivery_address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	getOrderByIDSQL = `SELECT id, user_id, restaurant_id, status, total_amount, delivery_address, created_at, updated_at
		FROM orders WHERE id = $1`

	listOrderItemsSQL = `SELECT id, order_id, menu_item_id, quantity, unit_price, line_total
		FROM order_items WHERE order_id = $1 ORDER BY id`

	setOrderStatusSQL = `UPDATE orders SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, user_id, restaurant_id, status, total_amount, delivery_address, created_at, updated_at`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order and all of its items in a single transaction:
// either every row exists afterward or none do.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	err = tx.QueryRow(ctx, insertOrderSQL,
		o.UserID, o.RestaurantID, o.Status, o.TotalAmount, o.DeliveryAddress,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		err = tx.QueryRow(ctx, insertOrderItemSQL,
			item.OrderID, item.MenuItemID, item.Quantity, item.UnitPrice, item.LineTotal,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("inserting order item for menu item %d: %w", item.MenuItemID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetByID returns the order with its items, or order.ErrNotFound.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	itemRows, err := r.pool.Query(ctx, listOrderItemsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("listing items for order %d: %w", id, err)
	}
	o.Items, err = pgx.CollectRows(itemRows, scanOrderItem)
	if err != nil {
		return nil, fmt.Errorf("listing items for order %d: %w", id, err)
	}
	return &o, nil
}

// SetStatus updates the order status, returning the updated row or
// order.ErrNotFound.
func (r *OrderRepository) SetStatus(ctx context.Context, id int64, status order.Status) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, setOrderStatusSQL, id, status)
	if err != nil {
		return nil, fmt.Errorf("setting status for order %d: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("setting status for order %d: %w", id, err)
	}
	return &o, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.RestaurantID, &o.Status,
		&o.TotalAmount, &o.DeliveryAddress, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

func scanOrderItem(row pgx.CollectableRow) (order.Item, error) {
	var item order.Item
	err := row.Scan(
		&item.ID, &item.OrderID, &item.MenuItemID,
		&item.Quantity, &item.UnitPrice, &item.LineTotal,
	)
	return item, err
}
