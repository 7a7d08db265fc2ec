// Package handler exposes the HTTP API: request decoding, collaborator
// lookups, and mapping of domain results and errors onto responses.
package handler

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/xenking/gourmet-express/internal/domain/delivery"
	"github.com/xenking/gourmet-express/internal/domain/order"
	"github.com/xenking/gourmet-express/internal/domain/payment"
	"github.com/xenking/gourmet-express/internal/domain/restaurant"
	"github.com/xenking/gourmet-express/internal/domain/user"
)

// webhookClientTimeout bounds the simulate-webhook round trip.
const webhookClientTimeout = 10 * time.Second

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// WebhookSecret is the shared secret expected in X-Webhook-Secret.
	WebhookSecret string
	// WebhookBaseURL is where the simulate-webhook helper posts events,
	// normally this service's own public address.
	WebhookBaseURL string
}

// Handler wires the HTTP surface to the domain services.
type Handler struct {
	users       user.Repository
	restaurants restaurant.Repository
	orders      *order.Service
	payments    *payment.Service
	deliveries  *delivery.Service

	webhookSecret  []byte
	webhookBaseURL string
	client         *resty.Client
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cfg Config,
	users user.Repository,
	restaurants restaurant.Repository,
	orders *order.Service,
	payments *payment.Service,
	deliveries *delivery.Service,
) *Handler {
	return &Handler{
		users:          users,
		restaurants:    restaurants,
		orders:         orders,
		payments:       payments,
		deliveries:     deliveries,
		webhookSecret:  []byte(cfg.WebhookSecret),
		webhookBaseURL: cfg.WebhookBaseURL,
		client:         resty.New().SetTimeout(webhookClientTimeout),
	}
}

// Routes registers every API route on the mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Health)

	mux.HandleFunc("POST /users", h.CreateUser)
	mux.HandleFunc("GET /users/{id}", h.GetUser)

	mux.HandleFunc("POST /restaurants", h.CreateRestaurant)
	mux.HandleFunc("GET /restaurants", h.ListRestaurants)
	mux.HandleFunc("GET /restaurants/{id}", h.GetRestaurant)
	mux.HandleFunc("POST /restaurants/{id}/menu", h.CreateMenuItem)
	mux.HandleFunc("GET /restaurants/{id}/menu", h.ListMenu)

	mux.HandleFunc("POST /orders", h.CreateOrder)
	mux.HandleFunc("GET /orders/{id}", h.GetOrder)
	mux.HandleFunc("POST /orders/{id}/status", h.SetOrderStatus)

	mux.HandleFunc("POST /deliveries", h.CreateDelivery)
	mux.HandleFunc("GET /deliveries", h.ListDeliveries)
	mux.HandleFunc("GET /deliveries/{id}", h.GetDelivery)
	mux.HandleFunc("POST /deliveries/{id}/assign", h.AssignDelivery)
	mux.HandleFunc("POST /deliveries/{id}/status", h.SetDeliveryStatus)

	mux.HandleFunc("POST /payments/mock/intent", h.CreatePaymentIntent)
	mux.HandleFunc("POST /payments/webhooks/mock", h.PaymentWebhook)
	mux.HandleFunc("POST /payments/mock/simulate-webhook", h.SimulateWebhook)
}
