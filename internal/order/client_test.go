package order_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/canteen-order/internal/common"
	"github.com/noah-isme/canteen-order/internal/order"
	"github.com/noah-isme/canteen-order/internal/resilience"
)

func payload() order.Payload {
	return order.Payload{
		CustomerName: "Asha",
		Phone:        "9876543210",
		Hostel:       "H4",
		Room:         "112",
		Items:        []order.Item{{ItemID: common.NumberID("1"), Name: "Tea", Qty: 2, Price: 10}},
		TotalAmount:  30,
	}
}

func TestClientPlaceOrder(t *testing.T) {
	var got map[string]any
	var key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/orders", r.URL.Path)
		key = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 1042}`))
	}))
	defer srv.Close()

	client := order.NewClient(srv.URL, resilience.NewHTTPClient(resilience.ClientConfig{MaxAttempts: 1}))
	res, err := client.PlaceOrder(context.Background(), payload())
	require.NoError(t, err)
	require.Equal(t, "1042", res.ID)

	_, err = uuid.Parse(key)
	require.NoError(t, err)
	require.Equal(t, "Asha", got["customer_name"])
	require.Equal(t, "", got["delivery_instructions"])
	require.Equal(t, 30.0, got["total_amount"])
	items := got["items"].([]any)
	require.Equal(t, map[string]any{"item_id": 1.0, "name": "Tea", "qty": 2.0, "price": 10.0}, items[0])
}

func TestClientPlaceOrderFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
		"rejected":     func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadRequest) },
		"missing id":   func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"status":"ok"}`)) },
		"bad json":     func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`<html>`)) },
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()
			client := order.NewClient(srv.URL, resilience.NewHTTPClient(resilience.ClientConfig{MaxAttempts: 1}))
			_, err := client.PlaceOrder(context.Background(), payload())
			require.ErrorIs(t, err, order.ErrOrderSubmission)
		})
	}
}
