//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestCreateOrder_TotalAndSnapshots(t *testing.T) {
	o, _ := createOrder(t)

	if o.Status != "created" {
		t.Errorf("status: got %q, want created", o.Status)
	}
	if o.TotalAmount != "24.48" {
		t.Errorf("total_amount: got %q, want 24.48", o.TotalAmount)
	}
	if len(o.Items) != 2 {
		t.Fatalf("items: got %d, want 2", len(o.Items))
	}
	if o.Items[0].UnitPrice != "9.99" || o.Items[0].LineTotal != "19.98" {
		t.Errorf("first line: unit %q total %q", o.Items[0].UnitPrice, o.Items[0].LineTotal)
	}
}

func TestCreateOrder_LaterPriceChangeDoesNotAffectOrder(t *testing.T) {
	u := createUser(t, "customer")
	r, items := createRestaurantWithMenu(t)

	resp := doPost(t, "/orders", map[string]any{
		"user_id":       u.ID,
		"restaurant_id": r.ID,
		"items":         []map[string]any{{"menu_item_id": items[0].ID, "quantity": 1}},
	})
	o := decodeJSON[orderResponse](t, resp)
	resp.Body.Close()

	// Add a second, more expensive item with the same name. The existing
	// order keeps its snapshotted price.
	resp = doPost(t, fmt.Sprintf("/restaurants/%d/menu", r.ID), map[string]any{
		"name": "Dish A", "price": "99.00",
	})
	resp.Body.Close()

	resp = doGet(t, fmt.Sprintf("/orders/%d", o.ID))
	defer resp.Body.Close()
	got := decodeJSON[orderResponse](t, resp)

	if got.TotalAmount != "9.99" {
		t.Errorf("total_amount: got %q, want 9.99", got.TotalAmount)
	}
}

func TestCreateOrder_UnknownMenuItem(t *testing.T) {
	u := createUser(t, "customer")
	r, _ := createRestaurantWithMenu(t)

	resp := doPost(t, "/orders", map[string]any{
		"user_id":       u.ID,
		"restaurant_id": r.ID,
		"items":         []map[string]any{{"menu_item_id": 999999, "quantity": 1}},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", resp.StatusCode)
	}
	errResp := decodeJSON[errorResponse](t, resp)
	if errResp.Code != http.StatusNotFound {
		t.Errorf("error code: got %d, want 404", errResp.Code)
	}
}

func TestCreateOrder_EmptyItems(t *testing.T) {
	u := createUser(t, "customer")
	r, _ := createRestaurantWithMenu(t)

	resp := doPost(t, "/orders", map[string]any{
		"user_id":       u.ID,
		"restaurant_id": r.ID,
		"items":         []map[string]any{},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestOrderStatusRoundTrip(t *testing.T) {
	o, _ := createOrder(t)

	resp := doPost(t, fmt.Sprintf("/orders/%d/status", o.ID), map[string]any{
		"status": "preparing",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	updated := decodeJSON[orderResponse](t, resp)
	if updated.Status != "preparing" {
		t.Errorf("order status: got %q, want preparing", updated.Status)
	}

	getResp := doGet(t, fmt.Sprintf("/orders/%d", o.ID))
	defer getResp.Body.Close()
	got := decodeJSON[orderResponse](t, getResp)
	if got.Status != "preparing" {
		t.Errorf("persisted status: got %q, want preparing", got.Status)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	resp := doGet(t, "/orders/999999")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", resp.StatusCode)
	}
}
