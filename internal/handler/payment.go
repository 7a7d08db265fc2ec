package handler

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/gourmet-express/internal/domain/payment"
)

// webhookSecretHeader carries the shared secret for mock provider webhooks.
const webhookSecretHeader = "X-Webhook-Secret"

type paymentIntentRequest struct {
	OrderID  int64            `json:"order_id"`
	Provider string           `json:"provider"`
	Amount   *decimal.Decimal `json:"amount"`
	Currency string           `json:"currency"`
	Succeed  bool             `json:"succeed"`
}

type paymentResponse struct {
	ID                int64           `json:"id"`
	OrderID           int64           `json:"order_id"`
	Provider          string          `json:"provider"`
	Status            string          `json:"status"`
	Amount            decimal.Decimal `json:"amount"`
	ProviderPaymentID *string         `json:"provider_payment_id"`
	RawPayload        *string         `json:"raw_payload"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type paymentIntentResponse struct {
	Payment           paymentResponse `json:"payment"`
	CheckoutURL       string          `json:"checkout_url"`
	ProviderPaymentID string          `json:"provider_payment_id"`
}

type webhookResponse struct {
	OK          bool    `json:"ok"`
	PaymentID   int64   `json:"payment_id"`
	OrderID     int64   `json:"order_id,omitempty"`
	OrderStatus *string `json:"order_status,omitempty"`
}

type simulateWebhookResponse struct {
	SentTo     string          `json:"sent_to"`
	StatusCode int             `json:"status_code"`
	Response   json.RawMessage `json:"response"`
}

func toPaymentResponse(p *payment.Payment) paymentResponse {
	return paymentResponse{
		ID:                p.ID,
		OrderID:           p.OrderID,
		Provider:          p.Provider,
		Status:            string(p.Status),
		Amount:            p.Amount,
		ProviderPaymentID: p.ProviderPaymentID,
		RawPayload:        p.RawPayload,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// CreatePaymentIntent handles POST /payments/mock/intent.
func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req paymentIntentRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Provider == "" {
		req.Provider = "mock"
	}

	intent, err := h.payments.CreateIntent(r.Context(), payment.IntentRequest{
		OrderID:  req.OrderID,
		Provider: req.Provider,
		Amount:   req.Amount,
		Currency: req.Currency,
		Succeed:  req.Succeed,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, paymentIntentResponse{
		Payment:           toPaymentResponse(intent.Payment),
		CheckoutURL:       intent.CheckoutURL,
		ProviderPaymentID: intent.ProviderPaymentID,
	})
}

// PaymentWebhook handles POST /payments/webhooks/mock. The shared-secret
// header is verified before the body is read: an unauthorized caller learns
// nothing about the payload handling and mutates nothing.
func (h *Handler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get(webhookSecretHeader)
	if secret == "" || subtle.ConstantTimeCompare([]byte(secret), h.webhookSecret) != 1 {
		writeError(w, http.StatusUnauthorized, "invalid webhook secret")
		return
	}

	rawBody, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable request body")
		return
	}

	var event payment.WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.payments.HandleWebhook(r.Context(), event, string(rawBody))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := webhookResponse{OK: true, PaymentID: result.PaymentID}
	if result.OrderStatus != nil {
		resp.OrderID = result.OrderID
		status := string(*result.OrderStatus)
		resp.OrderStatus = &status
	}
	writeJSON(w, http.StatusOK, resp)
}

// SimulateWebhook handles POST /payments/mock/simulate-webhook: it posts the
// given event back into this service's webhook endpoint using the configured
// secret. A dev-only convenience; the outbound call is bounded by the client
// timeout and is not transactional with anything.
func (h *Handler) SimulateWebhook(w http.ResponseWriter, r *http.Request) {
	var event payment.WebhookEvent
	if err := decodeBody(w, r, &event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	webhookURL := h.webhookBaseURL + "/payments/webhooks/mock"
	resp, err := h.client.R().
		SetContext(r.Context()).
		SetHeader(webhookSecretHeader, string(h.webhookSecret)).
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(webhookURL)
	if err != nil {
		writeError(w, http.StatusBadGateway, "webhook delivery failed: "+err.Error())
		return
	}

	body := resp.Body()
	if !json.Valid(body) {
		quoted, _ := json.Marshal(string(body))
		body = quoted
	}
	writeJSON(w, http.StatusOK, simulateWebhookResponse{
		SentTo:     webhookURL,
		StatusCode: resp.StatusCode(),
		Response:   body,
	})
}
