package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/gourmet-express/internal/domain/payment"
)

const (
	// Full replace on conflict: every mutable field is overwritten with the
	// new values, clearing anything the new call left unset.
	upsertPaymentSQL = `INSERT INTO payments (order_id, provider, status, amount, provider_payment_id, raw_payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (order_id) DO UPDATE SET
			provider            = EXCLUDED.provider,
			status              = EXCLUDED.status,
			amount              = EXCLUDED.amount,
			provider_payment_id = EXCLUDED.provider_payment_id,
			raw_payload         = EXCLUDED.raw_payload,
			updated_at          = now()
		RETURNING id, created_at, updated_at`

	getPaymentByOrderIDSQL = `SELECT id, order_id, provider, status, amount, provider_payment_id, raw_payload, created_at, updated_at
		FROM payments WHERE order_id = $1`

	getPaymentByProviderIDSQL = `SELECT id, order_id, provider, status, amount, provider_payment_id, raw_payload, created_at, updated_at
		FROM payments WHERE provider_payment_id = $1`
)

var _ payment.Repository = (*PaymentRepository)(nil)

// PaymentRepository implements payment.Repository backed by PostgreSQL.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository returns a PaymentRepository that uses the given pool.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// Upsert inserts the payment for p.OrderID or fully replaces the existing
// row's mutable fields. The unique constraint on order_id guarantees at most
// one payment per order.
func (r *PaymentRepository) Upsert(ctx context.Context, p *payment.Payment) error {
	err := r.pool.QueryRow(ctx, upsertPaymentSQL,
		p.OrderID, p.Provider, p.Status, p.Amount, p.ProviderPaymentID, p.RawPayload,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting payment for order %d: %w", p.OrderID, err)
	}
	return nil
}

// GetByOrderID returns the order's payment, or payment.ErrNotFound.
func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID int64) (*payment.Payment, error) {
	return r.getOne(ctx, getPaymentByOrderIDSQL, orderID)
}

// GetByProviderPaymentID returns the payment carrying the given
// provider-assigned identifier, or payment.ErrNotFound.
func (r *PaymentRepository) GetByProviderPaymentID(ctx context.Context, providerPaymentID string) (*payment.Payment, error) {
	return r.getOne(ctx, getPaymentByProviderIDSQL, providerPaymentID)
}

func (r *PaymentRepository) getOne(ctx context.Context, sql string, arg any) (*payment.Payment, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("getting payment: %w", err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanPayment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payment.ErrNotFound
		}
		return nil, fmt.Errorf("getting payment: %w", err)
	}
	return &p, nil
}

func scanPayment(row pgx.CollectableRow) (payment.Payment, error) {
	var p payment.Payment
	err := row.Scan(
		&p.ID, &p.OrderID, &p.Provider, &p.Status, &p.Amount,
		&p.ProviderPaymentID, &p.RawPayload, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}
