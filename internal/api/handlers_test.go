// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/abreschi/kumoai-hackathon-2025/internal/config"
	"github.com/abreschi/kumoai-hackathon-2025/internal/dataset"
	"github.com/abreschi/kumoai-hackathon-2025/internal/predict"
)

func testAPIConfig() config.APIConfig {
	return config.APIConfig{
		DefaultItems:      5,
		MaxItems:          10,
		RateLimitReqs:     100,
		RateLimitWindow:   time.Minute,
		RateLimitDisabled: true,
		CORSOrigins:       []string{"*"},
	}
}

// newTestServer stands up the API over a small fixture dataset with the
// RFM service disabled, so every prediction takes the fallback path.
func newTestServer(t *testing.T, cfg config.APIConfig) *httptest.Server {
	t.Helper()
	dir := t.TempDir()

	users := []dataset.User{
		{UserID: 1, HouseholdSize: 4, DietaryPreference: "vegetarian", PrimaryShoppingDay: "Saturday"},
		{UserID: 2, HouseholdSize: 2, DietaryPreference: "none", PrimaryShoppingDay: "Monday"},
	}
	products := []dataset.Product{
		{ProductID: 1, ProductName: "Apples", Category: "Produce", Brand: "Local Farm", Size: "2", Unit: "lb", PricePerUnit: 2.50},
		{ProductID: 2, ProductName: "Milk", Category: "Dairy", Brand: "Horizon", Size: "1", Unit: "gal", PricePerUnit: 3.99},
		{ProductID: 3, ProductName: "Bananas", Category: "Produce", Brand: "Local Farm", Size: "1", Unit: "lb", PricePerUnit: 1.20},
	}
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	orders := []dataset.Order{
		{OrderID: 1, UserID: 1, OrderTimestamp: ts, DeliveryMethod: "delivery", DeliveryWindow: "9am-11am"},
	}
	items := []dataset.OrderItem{
		{OrderID: 1, ProductID: 1, Quantity: 2},
		{OrderID: 1, ProductID: 1, Quantity: 2, WasSubstituted: true},
	}

	if err := dataset.WriteUsers(filepath.Join(dir, "users.csv"), users); err != nil {
		t.Fatal(err)
	}
	if err := dataset.WriteProducts(filepath.Join(dir, "products.csv"), products); err != nil {
		t.Fatal(err)
	}
	if err := dataset.WriteOrders(filepath.Join(dir, "orders.csv"), orders); err != nil {
		t.Fatal(err)
	}
	if err := dataset.WriteOrderItems(filepath.Join(dir, "order_items.csv"), items); err != nil {
		t.Fatal(err)
	}

	store, err := dataset.Open(context.Background(), dir)
	if err != nil {
		t.Fatalf("opening fixture dataset: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	predictor := predict.New(store, nil, false)
	srv := httptest.NewServer(NewRouter(NewHandler(predictor, store, cfg), cfg))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s: %v", url, err)
		}
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, testAPIConfig())

	var health struct {
		Status  string         `json:"status"`
		Dataset dataset.Counts `json:"dataset"`
	}
	resp := getJSON(t, srv.URL+"/healthz", &health)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if health.Status != "ok" || health.Dataset.Users != 2 {
		t.Errorf("health = %+v", health)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestCartEndpoint(t *testing.T) {
	srv := newTestServer(t, testAPIConfig())

	var items []predict.CartItem
	resp := getJSON(t, srv.URL+"/api/v1/users/1/cart", &items)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 produce items", len(items))
	}
	for _, it := range items {
		if it.Category != "Produce" {
			t.Errorf("item %d category %q, want Produce for vegetarian", it.ProductID, it.Category)
		}
	}
}

func TestCartUnknownUserReturnsEmptyList(t *testing.T) {
	srv := newTestServer(t, testAPIConfig())

	var items []predict.CartItem
	resp := getJSON(t, srv.URL+"/api/v1/users/99/cart", &items)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(items) != 0 {
		t.Errorf("got %d items for unknown user", len(items))
	}
}

func TestCartBadArguments(t *testing.T) {
	srv := newTestServer(t, testAPIConfig())

	for _, url := range []string{
		srv.URL + "/api/v1/users/abc/cart",
		srv.URL + "/api/v1/users/1/cart?num_items=abc",
		srv.URL + "/api/v1/users/1/cart?num_items=0",
	} {
		resp := getJSON(t, url, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", url, resp.StatusCode)
		}
	}
}

func TestRecommendationsEndpoint(t *testing.T) {
	srv := newTestServer(t, testAPIConfig())

	var recs []predict.Recommendation
	resp := getJSON(t, srv.URL+"/api/v1/users/2/recommendations?num_items=2", &recs)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(recs) != 2 {
		t.Errorf("got %d recommendations, want 2", len(recs))
	}
}

func TestDeliveryTimesEndpoint(t *testing.T) {
	srv := newTestServer(t, testAPIConfig())

	var slots []predict.DeliverySlot
	resp := getJSON(t, srv.URL+"/api/v1/users/1/delivery-times?num_slots=3", &slots)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(slots) != 3 {
		t.Fatalf("got %d slots, want 3", len(slots))
	}
	if slots[0].TimeWindow != "9am-11am" {
		t.Errorf("first slot = %q", slots[0].TimeWindow)
	}
}

func TestSubstitutionRateEndpoint(t *testing.T) {
	srv := newTestServer(t, testAPIConfig())

	var body substitutionRateResponse
	resp := getJSON(t, srv.URL+"/api/v1/products/1/substitution-rate", &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body.ProductID != 1 || body.SubstitutionRate != 0.5 {
		t.Errorf("body = %+v, want product 1 rate 0.5", body)
	}
}

func TestBatchSubstitutionRatesEndpoint(t *testing.T) {
	srv := newTestServer(t, testAPIConfig())

	resp, err := http.Post(srv.URL+"/api/v1/substitution-rates", "application/json",
		strings.NewReader(`{"product_ids":[1,3]}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var rates map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&rates); err != nil {
		t.Fatal(err)
	}
	if len(rates) != 2 {
		t.Fatalf("got %d rates, want 2", len(rates))
	}
	if rates["1"] != 0.5 {
		t.Errorf("rates[1] = %v, want observed 0.5", rates["1"])
	}
}

func TestBatchSubstitutionRatesValidation(t *testing.T) {
	srv := newTestServer(t, testAPIConfig())

	tests := []struct {
		name string
		body string
	}{
		{"empty list", `{"product_ids":[]}`},
		{"not json", `product_ids=1`},
		{"too many", `{"product_ids":[1,2,3,4,5,6,7,8,9,10,11]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/v1/substitution-rates", "application/json",
				strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestRankEndpoint(t *testing.T) {
	srv := newTestServer(t, testAPIConfig())

	resp, err := http.Post(srv.URL+"/api/v1/users/1/rank", "application/json",
		strings.NewReader(`{"product_ids":[3,1]}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var ranked []predict.RankedItem
	if err := json.NewDecoder(resp.Body).Decode(&ranked); err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 2 || ranked[0].ProductID != 3 || ranked[1].ProductID != 1 {
		t.Errorf("ranked = %+v, want input order [3 1]", ranked)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, testAPIConfig())

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestRateLimitEnforced(t *testing.T) {
	cfg := testAPIConfig()
	cfg.RateLimitDisabled = false
	cfg.RateLimitReqs = 2
	srv := newTestServer(t, cfg)

	var lastStatus int
	for i := 0; i < 3; i++ {
		resp := getJSON(t, srv.URL+"/api/v1/users/1/cart", nil)
		lastStatus = resp.StatusCode
	}
	if lastStatus != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", lastStatus)
	}
}
