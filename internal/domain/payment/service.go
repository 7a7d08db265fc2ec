package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/gourmet-express/internal/domain/order"
)

// IntentRequest holds the input for creating a mock payment intent.
type IntentRequest struct {
	OrderID  int64
	Provider string
	// Amount overrides the order total when set.
	Amount   *decimal.Decimal
	Currency string
	// Succeed selects the simulated outcome: authorized when true,
	// failed otherwise.
	Succeed bool
}

// Intent is the result of a mock payment intent.
type Intent struct {
	Payment           *Payment
	CheckoutURL       string
	ProviderPaymentID string
}

// WebhookEvent is an inbound provider status push.
type WebhookEvent struct {
	ProviderPaymentID string `json:"provider_payment_id"`
	OrderID           int64  `json:"order_id"`
	Provider          string `json:"provider"`
	Status            Status `json:"status"`
}

// WebhookResult reports the outcome of processing a webhook event.
// OrderStatus is nil when the event's status did not map to an order
// transition.
type WebhookResult struct {
	PaymentID   int64
	OrderID     int64
	OrderStatus *order.Status
}

// Service encapsulates the mock payment flow.
type Service struct {
	payments Repository
	orders   order.Repository
}

// NewService creates a payment Service with the required domain dependencies.
func NewService(payments Repository, orders order.Repository) *Service {
	return &Service{
		payments: payments,
		orders:   orders,
	}
}

// CreateIntent persists a payment row for the order (upsert-on-order_id) and
// returns a mock checkout URL. When the simulated outcome is authorized and
// the order is still in its initial state, the order advances to confirmed.
func (s *Service) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	o, err := s.orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	amount := o.TotalAmount
	if req.Amount != nil {
		amount = *req.Amount
	}
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	providerPaymentID := "mock_" + uuid.New().String()
	status := StatusFailed
	if req.Succeed {
		status = StatusAuthorized
	}

	rawPayload, err := json.Marshal(map[string]any{
		"currency":     req.Currency,
		"succeed":      req.Succeed,
		"generated_by": "mock_intent",
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal intent payload")
	}
	raw := string(rawPayload)

	p := &Payment{
		OrderID:           req.OrderID,
		Provider:          req.Provider,
		Status:            status,
		Amount:            amount,
		ProviderPaymentID: &providerPaymentID,
		RawPayload:        &raw,
	}
	if err := s.payments.Upsert(ctx, p); err != nil {
		return nil, errors.Wrap(err, "upsert payment")
	}

	// Nudge the order forward on the simulated happy path.
	if status == StatusAuthorized && o.Status == order.StatusCreated {
		if _, err := s.orders.SetStatus(ctx, o.ID, order.StatusConfirmed); err != nil {
			return nil, errors.Wrap(err, "confirm order")
		}
	}

	checkoutURL := fmt.Sprintf("/mock-checkout?provider=%s&payment_id=%s&order_id=%d",
		req.Provider, providerPaymentID, o.ID)

	return &Intent{
		Payment:           p,
		CheckoutURL:       checkoutURL,
		ProviderPaymentID: providerPaymentID,
	}, nil
}

// HandleWebhook applies a provider status push. The payment referenced by
// provider_payment_id must exist and belong to the event's order. The
// payment row is re-upserted with the event's status and the raw request
// body, then the payment status is mapped onto the order:
// authorized/captured confirm it, failed cancels it, anything else leaves
// it untouched.
func (s *Service) HandleWebhook(ctx context.Context, event WebhookEvent, rawBody string) (*WebhookResult, error) {
	p, err := s.payments.GetByProviderPaymentID(ctx, event.ProviderPaymentID)
	if err != nil {
		return nil, err
	}
	if p.OrderID != event.OrderID {
		return nil, ErrOrderMismatch
	}

	providerPaymentID := event.ProviderPaymentID
	updated := &Payment{
		OrderID:           event.OrderID,
		Provider:          event.Provider,
		Status:            event.Status,
		Amount:            p.Amount,
		ProviderPaymentID: &providerPaymentID,
		RawPayload:        &rawBody,
	}
	if err := s.payments.Upsert(ctx, updated); err != nil {
		return nil, errors.Wrap(err, "upsert payment")
	}

	result := &WebhookResult{
		PaymentID: updated.ID,
		OrderID:   event.OrderID,
	}

	var next order.Status
	switch event.Status {
	case StatusAuthorized, StatusCaptured:
		next = order.StatusConfirmed
	case StatusFailed:
		next = order.StatusCancelled
	default:
		return result, nil
	}

	o, err := s.orders.SetStatus(ctx, event.OrderID, next)
	if err != nil {
		return nil, errors.Wrap(err, "set order status")
	}
	result.OrderStatus = &o.Status
	return result, nil
}
