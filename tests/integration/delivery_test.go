//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestDeliveryLifecycle(t *testing.T) {
	o, _ := createOrder(t)
	courier := createUser(t, "delivery")

	// Create unassigned.
	resp := doPost(t, "/deliveries", map[string]any{"order_id": o.ID})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create delivery: status %d", resp.StatusCode)
	}
	d := decodeJSON[deliveryResponse](t, resp)
	resp.Body.Close()
	if d.Status != "unassigned" {
		t.Errorf("initial status: got %q, want unassigned", d.Status)
	}

	// Assign the courier.
	resp = doPost(t, fmt.Sprintf("/deliveries/%d/assign", d.ID), map[string]any{
		"delivery_person_id": courier.ID,
		"eta_minutes":        25,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("assign: status %d", resp.StatusCode)
	}
	assigned := decodeJSON[deliveryResponse](t, resp)
	resp.Body.Close()
	if assigned.Status != "assigned" {
		t.Errorf("assigned status: got %q", assigned.Status)
	}
	if assigned.DeliveryPersonID == nil || *assigned.DeliveryPersonID != courier.ID {
		t.Errorf("delivery_person_id: got %v, want %d", assigned.DeliveryPersonID, courier.ID)
	}

	// Walk the delivery through pickup and handoff.
	for _, status := range []string{"picked_up", "in_transit", "delivered"} {
		resp = doPost(t, fmt.Sprintf("/deliveries/%d/status", d.ID), map[string]any{
			"delivery_id": d.ID,
			"status":      status,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("set status %s: %d", status, resp.StatusCode)
		}
		resp.Body.Close()
	}

	// History shows the initial row plus one per explicit update; the
	// assignment itself adds nothing.
	getResp := doGet(t, fmt.Sprintf("/deliveries/%d", d.ID))
	defer getResp.Body.Close()
	got := decodeJSON[deliveryWithHistory](t, getResp)

	if got.Delivery.Status != "delivered" {
		t.Errorf("final status: got %q", got.Delivery.Status)
	}
	if len(got.History) != 4 {
		t.Fatalf("history: got %d rows, want 4", len(got.History))
	}
	if got.History[0].Status != "unassigned" {
		t.Errorf("first history row: got %q, want unassigned", got.History[0].Status)
	}
	if got.History[3].Status != "delivered" {
		t.Errorf("last history row: got %q, want delivered", got.History[3].Status)
	}
}

func TestDelivery_OnePerOrder(t *testing.T) {
	o, _ := createOrder(t)

	resp := doPost(t, "/deliveries", map[string]any{"order_id": o.ID})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first create: status %d", resp.StatusCode)
	}

	resp = doPost(t, "/deliveries", map[string]any{"order_id": o.ID})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second create: got %d, want 409", resp.StatusCode)
	}
}

func TestDelivery_AssignRejectsCustomer(t *testing.T) {
	o, customer := createOrder(t)

	resp := doPost(t, "/deliveries", map[string]any{"order_id": o.ID})
	d := decodeJSON[deliveryResponse](t, resp)
	resp.Body.Close()

	resp = doPost(t, fmt.Sprintf("/deliveries/%d/assign", d.ID), map[string]any{
		"delivery_person_id": customer.ID,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("assign customer: got %d, want 400", resp.StatusCode)
	}

	// The delivery is untouched.
	getResp := doGet(t, fmt.Sprintf("/deliveries/%d", d.ID))
	defer getResp.Body.Close()
	got := decodeJSON[deliveryWithHistory](t, getResp)
	if got.Delivery.Status != "unassigned" || got.Delivery.DeliveryPersonID != nil {
		t.Errorf("delivery mutated: %+v", got.Delivery)
	}
}

func TestDelivery_StatusBodyMustMatchPath(t *testing.T) {
	o, _ := createOrder(t)

	resp := doPost(t, "/deliveries", map[string]any{"order_id": o.ID})
	d := decodeJSON[deliveryResponse](t, resp)
	resp.Body.Close()

	resp = doPost(t, fmt.Sprintf("/deliveries/%d/status", d.ID), map[string]any{
		"delivery_id": d.ID + 1,
		"status":      "picked_up",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("mismatched body: got %d, want 400", resp.StatusCode)
	}
}

func TestListDeliveries_FilterByCourier(t *testing.T) {
	o, _ := createOrder(t)
	courier := createUser(t, "delivery")

	resp := doPost(t, "/deliveries", map[string]any{
		"order_id":           o.ID,
		"delivery_person_id": courier.ID,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d", resp.StatusCode)
	}

	listResp := doGet(t, fmt.Sprintf("/deliveries?delivery_person_id=%d", courier.ID))
	defer listResp.Body.Close()
	mine := decodeJSON[[]deliveryResponse](t, listResp)
	if len(mine) != 1 {
		t.Fatalf("filtered list: got %d, want 1", len(mine))
	}
	if mine[0].OrderID != o.ID {
		t.Errorf("order_id: got %d, want %d", mine[0].OrderID, o.ID)
	}
}
