// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package generate

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/abreschi/kumoai-hackathon-2025/internal/config"
	"github.com/abreschi/kumoai-hackathon-2025/internal/dataset"
)

// fakeChat returns canned model output, or an error.
type fakeChat struct {
	content string
	err     error
	calls   int
}

func (f *fakeChat) ChatJSON(_ context.Context, _, _ string, _ int, _ float64) (string, error) {
	f.calls++
	return f.content, f.err
}

func testConfig(t *testing.T) config.GenerateConfig {
	return config.GenerateConfig{
		Seed:                42,
		OutputDir:           t.TempDir(),
		Users:               10,
		Orders:              20,
		ProductsPerCategory: 6,
		BatchSize:           3,
		SimilarBatchPct:     0.6,
		SimilarSubsetPct:    0.4,
		SubstitutionRate:    0.05,
		HistoryDays:         730,
		PreferredDayBias:    0.7,
	}
}

func TestGenerateUsers(t *testing.T) {
	g := New(testConfig(t), nil)
	users := g.GenerateUsers()

	if len(users) != 10 {
		t.Fatalf("got %d users, want 10", len(users))
	}
	prefs := map[string]bool{"none": true, "vegetarian": true, "gluten-free": true, "vegan": true}
	days := map[string]bool{"Saturday": true, "Sunday": true, "Monday": true, "Wednesday": true}
	for i, u := range users {
		if u.UserID != i+1 {
			t.Errorf("user %d has ID %d", i, u.UserID)
		}
		if u.HouseholdSize < 1 || u.HouseholdSize > 5 {
			t.Errorf("user %d household size %d out of range", u.UserID, u.HouseholdSize)
		}
		if !prefs[u.DietaryPreference] {
			t.Errorf("user %d has preference %q", u.UserID, u.DietaryPreference)
		}
		if !days[u.PrimaryShoppingDay] {
			t.Errorf("user %d has shopping day %q", u.UserID, u.PrimaryShoppingDay)
		}
	}
}

func TestGenerateUsersDeterministic(t *testing.T) {
	cfg := testConfig(t)
	first := New(cfg, nil).GenerateUsers()
	second := New(cfg, nil).GenerateUsers()
	if !reflect.DeepEqual(first, second) {
		t.Error("same seed produced different users")
	}
}

func TestGenerateProductsFallback(t *testing.T) {
	g := New(testConfig(t), nil)
	products := g.GenerateProducts(context.Background())

	want := 6 * len(Categories)
	if len(products) != want {
		t.Fatalf("got %d products, want %d", len(products), want)
	}
	seen := make(map[int]bool)
	for i, p := range products {
		if p.ProductID != i+1 {
			t.Errorf("product %d has ID %d, want sequential", i, p.ProductID)
		}
		if seen[p.ProductID] {
			t.Errorf("duplicate product ID %d", p.ProductID)
		}
		seen[p.ProductID] = true
		if p.ProductName == "" || p.Brand == "" || p.Size == "" || p.Unit == "" {
			t.Errorf("product %d has empty fields: %+v", p.ProductID, p)
		}
		if p.PricePerUnit <= 0 {
			t.Errorf("product %d has price %v", p.ProductID, p.PricePerUnit)
		}
	}
	if len(g.SubstitutionMap()) != 0 {
		t.Error("scripted catalog should not create substitution groups")
	}
}

func TestGenerateProductsLLM(t *testing.T) {
	chat := &fakeChat{content: `{"products":[
		{"product_name":"Cheddar Block","brand":"Whole Foods","size":"16 oz","unit":"oz","price_per_unit":5.99},
		{"product_name":"Greek Yogurt","brand":"Chobani","size":"32 oz","unit":"oz","price_per_unit":6.49},
		{"product_name":"Whole Milk","brand":"Horizon","size":"1 gallon","unit":"gallon","price_per_unit":4.29}
	]}`}
	g := New(testConfig(t), chat)
	products := g.GenerateProducts(context.Background())

	if chat.calls == 0 {
		t.Fatal("LLM was never called")
	}
	if len(products) < 6*len(Categories) {
		t.Fatalf("got %d products, want at least %d", len(products), 6*len(Categories))
	}

	byID := make(map[int]dataset.Product, len(products))
	for _, p := range products {
		if p.Category == "" {
			t.Errorf("product %d missing category", p.ProductID)
		}
		byID[p.ProductID] = p
	}

	subs := g.SubstitutionMap()
	if len(subs) == 0 {
		t.Fatal("LLM batches should produce substitution groups")
	}
	for baseID, variantIDs := range subs {
		base, ok := byID[baseID]
		if !ok {
			t.Fatalf("substitution base %d not in catalog", baseID)
		}
		for _, vid := range variantIDs {
			variant, ok := byID[vid]
			if !ok {
				t.Fatalf("variant %d not in catalog", vid)
			}
			if variant.Category != base.Category {
				t.Errorf("variant %d category %q != base %q", vid, variant.Category, base.Category)
			}
		}
	}
}

func TestGenerateProductsLLMFailureFallsBack(t *testing.T) {
	chat := &fakeChat{err: errors.New("rate limited")}
	g := New(testConfig(t), chat)
	products := g.GenerateProducts(context.Background())

	want := 6 * len(Categories)
	if len(products) != want {
		t.Fatalf("got %d products, want scripted %d", len(products), want)
	}
}

func TestGenerateOrders(t *testing.T) {
	cfg := testConfig(t)
	cfg.PreferredDayBias = 1.0
	g := New(cfg, nil)
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	users := g.GenerateUsers()
	orders := g.GenerateOrders(users)

	if len(orders) != 20 {
		t.Fatalf("got %d orders, want 20", len(orders))
	}
	methods := map[string]bool{"pickup": true, "delivery": true}
	windows := map[string]bool{"9am-11am": true, "11am-1pm": true, "3pm-5pm": true, "5pm-7pm": true}
	earliest := now.AddDate(0, 0, -cfg.HistoryDays)
	// Weekday snapping can push a timestamp up to 6 days past the window.
	latest := now.AddDate(0, 0, 7)
	for _, o := range orders {
		if o.UserID < 1 || o.UserID > len(users) {
			t.Errorf("order %d references user %d", o.OrderID, o.UserID)
		}
		if o.OrderTimestamp.Before(earliest) || o.OrderTimestamp.After(latest) {
			t.Errorf("order %d timestamp %v outside history window", o.OrderID, o.OrderTimestamp)
		}
		if !methods[o.DeliveryMethod] {
			t.Errorf("order %d method %q", o.OrderID, o.DeliveryMethod)
		}
		if !windows[o.DeliveryWindow] {
			t.Errorf("order %d window %q", o.OrderID, o.DeliveryWindow)
		}
		// Bias 1.0 snaps every order to the user's preferred day.
		want := weekdayByName(users[o.UserID-1].PrimaryShoppingDay)
		if o.OrderTimestamp.Weekday() != want {
			t.Errorf("order %d on %v, want %v", o.OrderID, o.OrderTimestamp.Weekday(), want)
		}
	}
}

func TestSnapToWeekday(t *testing.T) {
	// 2026-08-25 is a Tuesday.
	tuesday := time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC)

	if got := snapToWeekday(tuesday, time.Tuesday); !got.Equal(tuesday) {
		t.Errorf("matching day moved to %v", got)
	}
	got := snapToWeekday(tuesday, time.Monday)
	if got.Weekday() != time.Monday {
		t.Errorf("snapped to %v, want Monday", got.Weekday())
	}
	if days := int(got.Sub(tuesday).Hours() / 24); days != 6 {
		t.Errorf("moved %d days, want 6 (forward only)", days)
	}
	if got.Hour() != 14 || got.Minute() != 30 {
		t.Errorf("time of day changed: %v", got)
	}
}

func TestBuildAffinityGroups(t *testing.T) {
	products := []dataset.Product{
		{ProductID: 1, ProductName: "Spaghetti Pasta", Category: "Pantry Staples"},
		{ProductID: 2, ProductName: "Marinara Sauce", Category: "Pantry Staples"},
		{ProductID: 3, ProductName: "Whole Milk", Category: "Dairy"},
		{ProductID: 4, ProductName: "Cheddar Cheese", Category: "Dairy"},
		{ProductID: 5, ProductName: "Apples", Category: "Produce"},
		{ProductID: 6, ProductName: "Potato Chips", Category: "Snacks"},
		{ProductID: 7, ProductName: "Paper Towels", Category: "Household"},
	}

	groups := buildAffinityGroups(products)
	byName := make(map[string][]int, len(groups))
	for _, g := range groups {
		byName[g.name] = g.products
	}

	if !reflect.DeepEqual(byName["pasta_meal"], []int{1, 2}) {
		t.Errorf("pasta_meal = %v", byName["pasta_meal"])
	}
	if !reflect.DeepEqual(byName["breakfast"], []int{3}) {
		t.Errorf("breakfast = %v", byName["breakfast"])
	}
	if !reflect.DeepEqual(byName["snacks"], []int{4}) {
		t.Errorf("snacks = %v", byName["snacks"])
	}
	if !reflect.DeepEqual(byName["healthy"], []int{5}) {
		t.Errorf("healthy = %v", byName["healthy"])
	}
	if !reflect.DeepEqual(byName["snack_time"], []int{6}) {
		t.Errorf("snack_time = %v", byName["snack_time"])
	}
}

func TestGenerateOrderItems(t *testing.T) {
	cfg := testConfig(t)
	g := New(cfg, nil)
	users := g.GenerateUsers()
	products := g.GenerateProducts(context.Background())
	orders := g.GenerateOrders(users)

	items := g.GenerateOrderItems(orders, products, users)
	if len(items) == 0 {
		t.Fatal("no order items generated")
	}

	known := make(map[int]bool, len(products))
	for _, p := range products {
		known[p.ProductID] = true
	}
	perOrder := make(map[int]map[int]bool)
	for _, it := range items {
		if it.Quantity < 1 {
			t.Errorf("order %d product %d quantity %d", it.OrderID, it.ProductID, it.Quantity)
		}
		if !known[it.ProductID] {
			t.Errorf("order %d references unknown product %d", it.OrderID, it.ProductID)
		}
		if perOrder[it.OrderID] == nil {
			perOrder[it.OrderID] = make(map[int]bool)
		}
		perOrder[it.OrderID][it.ProductID] = true
	}
	for _, o := range orders {
		n := len(perOrder[o.OrderID])
		if n < 5 || n > 25 {
			t.Errorf("order %d basket size %d outside [5, 25]", o.OrderID, n)
		}
	}
}

func TestGenerateOrderItemsSubstitutionRate(t *testing.T) {
	cfg := testConfig(t)
	cfg.SubstitutionRate = 0
	g := New(cfg, nil)
	users := g.GenerateUsers()
	products := g.GenerateProducts(context.Background())
	orders := g.GenerateOrders(users)

	for _, it := range g.GenerateOrderItems(orders, products, users) {
		if it.WasSubstituted {
			t.Fatal("item substituted with rate 0")
		}
	}

	cfg.SubstitutionRate = 1
	g = New(cfg, nil)
	for _, it := range g.GenerateOrderItems(orders, products, users) {
		if !it.WasSubstituted {
			t.Fatal("item not substituted with rate 1")
		}
	}
}

func TestRunWritesLoadableDataset(t *testing.T) {
	cfg := testConfig(t)
	g := New(cfg, nil)

	summary, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Users != 10 || summary.Orders != 20 {
		t.Errorf("summary = %+v", summary)
	}

	store, err := dataset.Open(context.Background(), cfg.OutputDir)
	if err != nil {
		t.Fatalf("opening generated dataset: %v", err)
	}
	defer store.Close()

	counts, err := store.Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts.Users != int64(summary.Users) ||
		counts.Products != int64(summary.Products) ||
		counts.Orders != int64(summary.Orders) ||
		counts.OrderItems != int64(summary.OrderItems) {
		t.Errorf("loaded counts %+v do not match summary %+v", counts, summary)
	}
}
