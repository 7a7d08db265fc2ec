//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestListRestaurants_SeededData(t *testing.T) {
	resp := doGet(t, "/restaurants")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	restaurants := decodeJSON[[]restaurantResponse](t, resp)
	if len(restaurants) < 3 {
		t.Fatalf("restaurants: got %d, want at least 3 seeded", len(restaurants))
	}
}

func TestCreateAndGetRestaurant(t *testing.T) {
	desc := "Late night noodles"
	resp := doPost(t, "/restaurants", map[string]any{
		"name":        "Noodle Cart",
		"description": desc,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d", resp.StatusCode)
	}
	created := decodeJSON[restaurantResponse](t, resp)
	resp.Body.Close()

	getResp := doGet(t, fmt.Sprintf("/restaurants/%d", created.ID))
	defer getResp.Body.Close()
	got := decodeJSON[restaurantResponse](t, getResp)

	if got.Name != "Noodle Cart" {
		t.Errorf("name: got %q", got.Name)
	}
	if got.Description == nil || *got.Description != desc {
		t.Errorf("description: got %v", got.Description)
	}
}

func TestMenuAvailabilityFilter(t *testing.T) {
	r, _ := createRestaurantWithMenu(t)

	resp := doPost(t, fmt.Sprintf("/restaurants/%d/menu", r.ID), map[string]any{
		"name":         "Off Menu Special",
		"price":        "31.00",
		"is_available": false,
	})
	resp.Body.Close()

	listResp := doGet(t, fmt.Sprintf("/restaurants/%d/menu", r.ID))
	available := decodeJSON[[]menuItemResponse](t, listResp)
	listResp.Body.Close()
	if len(available) != 2 {
		t.Errorf("available menu: got %d items, want 2", len(available))
	}

	allResp := doGet(t, fmt.Sprintf("/restaurants/%d/menu?available=false", r.ID))
	all := decodeJSON[[]menuItemResponse](t, allResp)
	allResp.Body.Close()
	if len(all) != 3 {
		t.Errorf("full menu: got %d items, want 3", len(all))
	}
}

func TestCreateMenuItem_InvalidPrice(t *testing.T) {
	r, _ := createRestaurantWithMenu(t)

	resp := doPost(t, fmt.Sprintf("/restaurants/%d/menu", r.ID), map[string]any{
		"name":  "Free Sample",
		"price": "0",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	email := uniqueEmail("dup")
	body := map[string]any{"email": email, "name": "Dup"}

	resp := doPost(t, "/users", body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first create: status %d", resp.StatusCode)
	}

	resp = doPost(t, "/users", body)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second create: got %d, want 409", resp.StatusCode)
	}
}
