package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/gourmet-express/internal/domain/delivery"
)

const (
	insertDeliverySQL = `INSERT INTO deliveries (order_id, delivery_person_id, status, eta_minutes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	insertHistorySQL = `INSERT INTO delivery_status_history (delivery_id, status, note)
		VALUES ($1, $2, $3)`

	getDeliveryByIDSQL = `SELECT id, order_id, delivery_person_id, status, eta_minutes, created_at, updated_at
		FROM deliveries WHERE id = $1`

	getDeliveryByOrderIDSQL = `SELECT id, order_id, delivery_person_id, status, eta_minutes, created_at, updated_at
		FROM deliveries WHERE order_id = $1`

	listDeliveriesSQL = `SELECT id, order_id, delivery_person_id, status, eta_minutes, created_at, updated_at
		FROM deliveries
		WHERE $1::bigint IS NULL OR delivery_person_id = $1
		ORDER BY id`

	assignDeliverySQL = `UPDATE deliveries SET
			delivery_person_id = $2,
			status             = $3,
			eta_minutes        = COALESCE($4, eta_minutes),
			updated_at         = now()
		WHERE id = $1
		RETURNING id, order_id, delivery_person_id, status, eta_minutes, created_at, updated_at`

	setDeliveryStatusSQL = `UPDATE deliveries SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, order_id, delivery_person_id, status, eta_minutes, created_at, updated_at`

	listHistorySQL = `SELECT id, delivery_id, status, note, created_at
		FROM delivery_status_history WHERE delivery_id = $1
		ORDER BY created_at, id`
)

// initialHistoryNote marks the history row written at delivery creation.
const initialHistoryNote = "Initial status"

var _ delivery.Repository = (*DeliveryRepository)(nil)

// DeliveryRepository implements delivery.Repository backed by PostgreSQL.
type DeliveryRepository struct {
	pool *pgxpool.Pool
}

// NewDeliveryRepository returns a DeliveryRepository that uses the given pool.
func NewDeliveryRepository(pool *pgxpool.Pool) *DeliveryRepository {
	return &DeliveryRepository{pool: pool}
}

// Create persists the delivery and its initial history row in one
// transaction, so a delivery always has at least one history entry.
func (r *DeliveryRepository) Create(ctx context.Context, d *delivery.Delivery) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	err = tx.QueryRow(ctx, insertDeliverySQL,
		d.OrderID, d.DeliveryPersonID, d.Status, d.ETAMinutes,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting delivery for order %d: %w", d.OrderID, err)
	}

	note := initialHistoryNote
	if _, err := tx.Exec(ctx, insertHistorySQL, d.ID, d.Status, &note); err != nil {
		return fmt.Errorf("inserting initial history for delivery %d: %w", d.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetByID returns a single delivery, or delivery.ErrNotFound.
func (r *DeliveryRepository) GetByID(ctx context.Context, id int64) (*delivery.Delivery, error) {
	return r.getOne(ctx, getDeliveryByIDSQL, id)
}

// GetByOrderID returns the order's delivery, or delivery.ErrNotFound.
func (r *DeliveryRepository) GetByOrderID(ctx context.Context, orderID int64) (*delivery.Delivery, error) {
	return r.getOne(ctx, getDeliveryByOrderIDSQL, orderID)
}

// List returns deliveries ordered by ID, optionally filtered to one
// delivery person.
func (r *DeliveryRepository) List(ctx context.Context, deliveryPersonID *int64) ([]delivery.Delivery, error) {
	rows, err := r.pool.Query(ctx, listDeliveriesSQL, deliveryPersonID)
	if err != nil {
		return nil, fmt.Errorf("listing deliveries: %w", err)
	}
	return pgx.CollectRows(rows, scanDelivery)
}

// Assign sets the assignee and moves the delivery to assigned. No history
// row is written here; history records only explicit status updates.
func (r *DeliveryRepository) Assign(ctx context.Context, id, deliveryPersonID int64, etaMinutes *int32) (*delivery.Delivery, error) {
	rows, err := r.pool.Query(ctx, assignDeliverySQL, id, deliveryPersonID, delivery.StatusAssigned, etaMinutes)
	if err != nil {
		return nil, fmt.Errorf("assigning delivery %d: %w", id, err)
	}

	d, err := pgx.CollectExactlyOneRow(rows, scanDelivery)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, delivery.ErrNotFound
		}
		return nil, fmt.Errorf("assigning delivery %d: %w", id, err)
	}
	return &d, nil
}

// SetStatus updates the delivery status and appends exactly one history row,
// atomically.
func (r *DeliveryRepository) SetStatus(ctx context.Context, id int64, status delivery.Status, note *string) (*delivery.Delivery, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	rows, err := tx.Query(ctx, setDeliveryStatusSQL, id, status)
	if err != nil {
		return nil, fmt.Errorf("setting status for delivery %d: %w", id, err)
	}

	d, err := pgx.CollectExactlyOneRow(rows, scanDelivery)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, delivery.ErrNotFound
		}
		return nil, fmt.Errorf("setting status for delivery %d: %w", id, err)
	}

	if _, err := tx.Exec(ctx, insertHistorySQL, id, status, note); err != nil {
		return nil, fmt.Errorf("appending history for delivery %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &d, nil
}

// History returns the delivery's status history ordered by creation time.
func (r *DeliveryRepository) History(ctx context.Context, deliveryID int64) ([]delivery.StatusHistory, error) {
	rows, err := r.pool.Query(ctx, listHistorySQL, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("listing history for delivery %d: %w", deliveryID, err)
	}
	return pgx.CollectRows(rows, scanHistory)
}

func (r *DeliveryRepository) getOne(ctx context.Context, sql string, arg any) (*delivery.Delivery, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("getting delivery: %w", err)
	}

	d, err := pgx.CollectExactlyOneRow(rows, scanDelivery)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, delivery.ErrNotFound
		}
		return nil, fmt.Errorf("getting delivery: %w", err)
	}
	return &d, nil
}

func scanDelivery(row pgx.CollectableRow) (delivery.Delivery, error) {
	var d delivery.Delivery
	err := row.Scan(
		&d.ID, &d.OrderID, &d.DeliveryPersonID, &d.Status,
		&d.ETAMinutes, &d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

func scanHistory(row pgx.CollectableRow) (delivery.StatusHistory, error) {
	var h delivery.StatusHistory
	err := row.Scan(&h.ID, &h.DeliveryID, &h.Status, &h.Note, &h.CreatedAt)
	return h, err
}
