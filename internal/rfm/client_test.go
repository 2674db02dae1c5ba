// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package rfm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/abreschi/kumoai-hackathon-2025/internal/config"
)

func TestQueryBuilders(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			"quantity sum",
			QuantitySumQuery(42, 10),
			"PREDICT SUM(order_items.quantity, 0, 10, days) FOR users.user_id = 42",
		},
		{
			"product rank",
			ProductRankQuery(7, 5, 30),
			"PREDICT LIST_DISTINCT(order_items.product_id, 0, 30, days) RANK TOP 5 FOR users.user_id = 7",
		},
		{
			"delivery window rank",
			DeliveryWindowRankQuery(3, 3, 30),
			"PREDICT LIST_DISTINCT(orders.delivery_window, 0, 30, days) RANK TOP 3 FOR users.user_id = 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got  %q\nwant %q", tt.got, tt.want)
			}
		})
	}
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(config.RFMConfig{
		Enabled: true,
		URL:     srv.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})
}

func TestQuantityForecast(t *testing.T) {
	var gotQuery, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		gotQuery = req.Query
		_ = json.NewEncoder(w).Encode(Result{Rows: []Row{{TargetPred: 17.4}}})
	}))
	defer srv.Close()

	got, err := newTestClient(srv).QuantityForecast(context.Background(), 42, 10)
	if err != nil {
		t.Fatalf("QuantityForecast: %v", err)
	}
	if got != 17.4 {
		t.Errorf("forecast = %v, want 17.4", got)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want Bearer test-key", gotAuth)
	}
	if want := QuantitySumQuery(42, 10); gotQuery != want {
		t.Errorf("query = %q, want %q", gotQuery, want)
	}
}

func TestQuantityForecastEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(Result{})
	}))
	defer srv.Close()

	_, err := newTestClient(srv).QuantityForecast(context.Background(), 1, 10)
	if err == nil {
		t.Fatal("QuantityForecast on empty result = nil error")
	}
}

func TestRankProducts(t *testing.T) {
	score := func(v float64) *float64 { return &v }
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(Result{Rows: []Row{
			{Class: "12", Score: score(0.9)},
			{Class: "not-a-number", Score: score(0.8)},
			{Class: "7"},
		}})
	}))
	defer srv.Close()

	got, err := newTestClient(srv).RankProducts(context.Background(), 1, 3, 30)
	if err != nil {
		t.Fatalf("RankProducts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d products, want 2 (non-numeric skipped)", len(got))
	}
	if got[0].ProductID != 12 || got[0].Score != 0.9 {
		t.Errorf("got[0] = %+v", got[0])
	}
	// Missing score defaults to 0.5.
	if got[1].ProductID != 7 || got[1].Score != 0.5 {
		t.Errorf("got[1] = %+v, want product 7 score 0.5", got[1])
	}
}

func TestRankDeliveryWindowsSkipsEmptyClasses(t *testing.T) {
	score := func(v float64) *float64 { return &v }
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(Result{Rows: []Row{
			{Class: "9am-11am", Score: score(0.8)},
			{Class: ""},
			{Class: "5pm-7pm", Score: score(0.3)},
		}})
	}))
	defer srv.Close()

	got, err := newTestClient(srv).RankDeliveryWindows(context.Background(), 1, 3, 30)
	if err != nil {
		t.Fatalf("RankDeliveryWindows: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d windows, want 2", len(got))
	}
	if got[0].Window != "9am-11am" || got[1].Window != "5pm-7pm" {
		t.Errorf("windows = %+v", got)
	}
}

func TestPredictServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).RankProducts(context.Background(), 1, 5, 30)
	if err == nil {
		t.Fatal("RankProducts on 503 = nil error")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error %q does not mention status", err)
	}
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cbc := NewCircuitBreakerClient(config.RFMConfig{
		Enabled:                 true,
		URL:                     srv.URL,
		APIKey:                  "k",
		Timeout:                 time.Second,
		BreakerMaxRequests:      1,
		BreakerInterval:         time.Minute,
		BreakerTimeout:          time.Minute,
		BreakerFailureThreshold: 3,
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := cbc.QuantityForecast(ctx, 1, 10); err == nil {
			t.Fatalf("call %d succeeded against failing server", i)
		}
	}

	// Breaker is now open; the next call must fail fast without
	// reaching the server.
	srv.Close()
	if _, err := cbc.QuantityForecast(ctx, 1, 10); err == nil {
		t.Fatal("call after breaker opened = nil error")
	}
}

func TestCircuitBreakerPassesThroughSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(Result{Rows: []Row{{Class: "4"}}})
	}))
	defer srv.Close()

	cbc := NewCircuitBreakerClient(config.RFMConfig{
		Enabled:                 true,
		URL:                     srv.URL,
		APIKey:                  "k",
		Timeout:                 time.Second,
		BreakerFailureThreshold: 5,
	})

	got, err := cbc.RankProducts(context.Background(), 1, 1, 30)
	if err != nil {
		t.Fatalf("RankProducts: %v", err)
	}
	if len(got) != 1 || got[0].ProductID != 4 {
		t.Errorf("got = %+v, want product 4", got)
	}
}
