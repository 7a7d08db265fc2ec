package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/gourmet-express/internal/domain/restaurant"
)

type createRestaurantRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
}

type restaurantResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Address     *string   `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
}

type createMenuItemRequest struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image_url"`
	IsAvailable *bool           `json:"is_available"`
}

type menuItemResponse struct {
	ID           int64           `json:"id"`
	RestaurantID int64           `json:"restaurant_id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     *string         `json:"image_url"`
	IsAvailable  bool            `json:"is_available"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toRestaurantResponse(rest *restaurant.Restaurant) restaurantResponse {
	return restaurantResponse{
		ID:          rest.ID,
		Name:        rest.Name,
		Description: rest.Description,
		Address:     rest.Address,
		CreatedAt:   rest.CreatedAt,
	}
}

func toMenuItemResponse(item *restaurant.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:           item.ID,
		RestaurantID: item.RestaurantID,
		Name:         item.Name,
		Description:  item.Description,
		Price:        item.Price,
		ImageURL:     item.ImageURL,
		IsAvailable:  item.IsAvailable,
		CreatedAt:    item.CreatedAt,
	}
}

// CreateRestaurant handles POST /restaurants.
func (h *Handler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var req createRestaurantRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	rest := &restaurant.Restaurant{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
	}
	if err := h.restaurants.Create(r.Context(), rest); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRestaurantResponse(rest))
}

// ListRestaurants handles GET /restaurants.
func (h *Handler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	list, err := h.restaurants.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := make([]restaurantResponse, len(list))
	for i := range list {
		resp[i] = toRestaurantResponse(&list[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetRestaurant handles GET /restaurants/{id}.
func (h *Handler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid restaurant id")
		return
	}

	rest, err := h.restaurants.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRestaurantResponse(rest))
}

// CreateMenuItem handles POST /restaurants/{id}/menu.
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid restaurant id")
		return
	}

	var req createMenuItemRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !req.Price.IsPositive() {
		writeError(w, http.StatusBadRequest, "price must be > 0")
		return
	}

	if _, err := h.restaurants.GetByID(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	item := &restaurant.MenuItem{
		RestaurantID: id,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		IsAvailable:  available,
	}
	if err := h.restaurants.CreateMenuItem(r.Context(), item); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMenuItemResponse(item))
}

// ListMenu handles GET /restaurants/{id}/menu. Unavailable items are
// excluded unless available=false is passed.
func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid restaurant id")
		return
	}

	if _, err := h.restaurants.GetByID(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	onlyAvailable := r.URL.Query().Get("available") != "false"
	items, err := h.restaurants.ListMenu(r.Context(), id, onlyAvailable)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := make([]menuItemResponse, len(items))
	for i := range items {
		resp[i] = toMenuItemResponse(&items[i])
	}
	writeJSON(w, http.StatusOK, resp)
}
