package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/xenking/gourmet-express/internal/domain/delivery"
)

type createDeliveryRequest struct {
	OrderID          int64  `json:"order_id"`
	DeliveryPersonID *int64 `json:"delivery_person_id"`
	ETAMinutes       *int32 `json:"eta_minutes"`
}

type assignDeliveryRequest struct {
	DeliveryPersonID int64  `json:"delivery_person_id"`
	ETAMinutes       *int32 `json:"eta_minutes"`
}

type setDeliveryStatusRequest struct {
	DeliveryID int64   `json:"delivery_id"`
	Status     string  `json:"status"`
	Note       *string `json:"note"`
}

type deliveryResponse struct {
	ID               int64     `json:"id"`
	OrderID          int64     `json:"order_id"`
	DeliveryPersonID *int64    `json:"delivery_person_id"`
	Status           string    `json:"status"`
	ETAMinutes       *int32    `json:"eta_minutes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type historyResponse struct {
	ID         int64     `json:"id"`
	DeliveryID int64     `json:"delivery_id"`
	Status     string    `json:"status"`
	Note       *string   `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}

type deliveryWithHistoryResponse struct {
	Delivery deliveryResponse  `json:"delivery"`
	History  []historyResponse `json:"history"`
}

func toDeliveryResponse(d *delivery.Delivery) deliveryResponse {
	return deliveryResponse{
		ID:               d.ID,
		OrderID:          d.OrderID,
		DeliveryPersonID: d.DeliveryPersonID,
		Status:           string(d.Status),
		ETAMinutes:       d.ETAMinutes,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// CreateDelivery handles POST /deliveries.
func (h *Handler) CreateDelivery(w http.ResponseWriter, r *http.Request) {
	var req createDeliveryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ETAMinutes != nil && *req.ETAMinutes < 1 {
		writeError(w, http.StatusBadRequest, "eta_minutes must be >= 1")
		return
	}

	d, err := h.deliveries.Create(r.Context(), delivery.CreateRequest{
		OrderID:          req.OrderID,
		DeliveryPersonID: req.DeliveryPersonID,
		ETAMinutes:       req.ETAMinutes,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDeliveryResponse(d))
}

// ListDeliveries handles GET /deliveries with an optional
// delivery_person_id filter.
func (h *Handler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	var filter *int64
	if raw := r.URL.Query().Get("delivery_person_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid delivery_person_id")
			return
		}
		filter = &id
	}

	list, err := h.deliveries.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := make([]deliveryResponse, len(list))
	for i := range list {
		resp[i] = toDeliveryResponse(&list[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetDelivery handles GET /deliveries/{id}, returning the delivery with its
// ordered status history.
func (h *Handler) GetDelivery(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid delivery id")
		return
	}

	res, err := h.deliveries.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	history := make([]historyResponse, len(res.History))
	for i, entry := range res.History {
		history[i] = historyResponse{
			ID:         entry.ID,
			DeliveryID: entry.DeliveryID,
			Status:     string(entry.Status),
			Note:       entry.Note,
			CreatedAt:  entry.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, deliveryWithHistoryResponse{
		Delivery: toDeliveryResponse(res.Delivery),
		History:  history,
	})
}

// AssignDelivery handles POST /deliveries/{id}/assign.
func (h *Handler) AssignDelivery(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid delivery id")
		return
	}

	var req assignDeliveryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.deliveries.Assign(r.Context(), id, req.DeliveryPersonID, req.ETAMinutes)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDeliveryResponse(d))
}

// SetDeliveryStatus handles POST /deliveries/{id}/status. The body must
// reference the same delivery as the path.
func (h *Handler) SetDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid delivery id")
		return
	}

	var req setDeliveryStatusRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DeliveryID != id {
		writeError(w, http.StatusBadRequest, "delivery_id in body must match path parameter")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	d, err := h.deliveries.SetStatus(r.Context(), id, delivery.Status(req.Status), req.Note)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDeliveryResponse(d))
}
