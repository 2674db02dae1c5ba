// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package generate

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"

	"github.com/abreschi/kumoai-hackathon-2025/internal/config"
	"github.com/abreschi/kumoai-hackathon-2025/internal/dataset"
	"github.com/abreschi/kumoai-hackathon-2025/internal/logging"
)

// Categories is the fixed product category list.
var Categories = []string{
	"Produce", "Dairy", "Bakery", "Meat & Seafood",
	"Pantry Staples", "Snacks", "Beverages", "Household",
}

var (
	dietaryPreferences = []string{"none", "vegetarian", "gluten-free", "vegan"}
	shoppingDays       = []string{"Saturday", "Sunday", "Monday", "Wednesday"}
	deliveryMethods    = []string{"pickup", "delivery"}
	deliveryWindows    = []string{"9am-11am", "11am-1pm", "3pm-5pm", "5pm-7pm"}
)

// ChatClient is the LLM surface the generator needs. *llm.Client
// satisfies it; nil disables LLM product generation entirely.
type ChatClient interface {
	ChatJSON(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error)
}

// Summary reports what a generation run produced.
type Summary struct {
	Users              int `json:"users"`
	Products           int `json:"products"`
	Orders             int `json:"orders"`
	OrderItems         int `json:"order_items"`
	SubstitutionGroups int `json:"substitution_groups"`
}

// Generator builds the four dataset tables.
type Generator struct {
	cfg    config.GenerateConfig
	chat   ChatClient
	rng    *rand.Rand
	faker  *gofakeit.Faker
	logger zerolog.Logger

	// substitutionMap links a base product to the IDs of its similar
	// variants; order items use it to pick plausible substitutes.
	substitutionMap map[int][]int

	// now is replaceable in tests.
	now func() time.Time
}

// New creates a Generator. Pass a nil chat client to skip the LLM and
// use the scripted catalog.
func New(cfg config.GenerateConfig, chat ChatClient) *Generator {
	return &Generator{
		cfg:             cfg,
		chat:            chat,
		rng:             rand.New(rand.NewSource(cfg.Seed)),
		faker:           gofakeit.New(uint64(cfg.Seed)),
		logger:          logging.With().Str("component", "generate").Logger(),
		substitutionMap: make(map[int][]int),
		now:             time.Now,
	}
}

// Run generates all four tables and writes them as CSV files under the
// configured output directory.
func (g *Generator) Run(ctx context.Context) (Summary, error) {
	users := g.GenerateUsers()
	products := g.GenerateProducts(ctx)
	orders := g.GenerateOrders(users)
	items := g.GenerateOrderItems(orders, products, users)

	if err := os.MkdirAll(g.cfg.OutputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating output directory: %w", err)
	}

	writes := []struct {
		file  string
		write func(string) error
	}{
		{"users.csv", func(p string) error { return dataset.WriteUsers(p, users) }},
		{"products.csv", func(p string) error { return dataset.WriteProducts(p, products) }},
		{"orders.csv", func(p string) error { return dataset.WriteOrders(p, orders) }},
		{"order_items.csv", func(p string) error { return dataset.WriteOrderItems(p, items) }},
	}
	for _, w := range writes {
		if err := w.write(filepath.Join(g.cfg.OutputDir, w.file)); err != nil {
			return Summary{}, err
		}
	}

	summary := Summary{
		Users:              len(users),
		Products:           len(products),
		Orders:             len(orders),
		OrderItems:         len(items),
		SubstitutionGroups: len(g.substitutionMap),
	}
	g.logger.Info().
		Int("users", summary.Users).
		Int("products", summary.Products).
		Int("orders", summary.Orders).
		Int("order_items", summary.OrderItems).
		Int("substitution_groups", summary.SubstitutionGroups).
		Str("dir", g.cfg.OutputDir).
		Msg("Dataset generation complete")
	return summary, nil
}

// SubstitutionMap exposes the base-product to variant links built
// during product generation.
func (g *Generator) SubstitutionMap() map[int][]int {
	return g.substitutionMap
}

// GenerateUsers produces the users table.
func (g *Generator) GenerateUsers() []dataset.User {
	users := make([]dataset.User, 0, g.cfg.Users)
	for i := 1; i <= g.cfg.Users; i++ {
		users = append(users, dataset.User{
			UserID:             i,
			HouseholdSize:      g.rng.Intn(5) + 1,
			DietaryPreference:  choice(g.rng, dietaryPreferences),
			PrimaryShoppingDay: choice(g.rng, shoppingDays),
		})
	}
	return users
}

// GenerateOrders produces the orders table: two years of history with
// most orders snapped to the user's preferred shopping day.
func (g *Generator) GenerateOrders(users []dataset.User) []dataset.Order {
	end := g.now()
	start := end.AddDate(0, 0, -g.cfg.HistoryDays)

	orders := make([]dataset.Order, 0, g.cfg.Orders)
	for orderID := 1; orderID <= g.cfg.Orders; orderID++ {
		user := users[g.rng.Intn(len(users))]

		ts := g.randomTimestamp(start, end)
		if g.rng.Float64() < g.cfg.PreferredDayBias {
			ts = snapToWeekday(ts, weekdayByName(user.PrimaryShoppingDay))
		}

		orders = append(orders, dataset.Order{
			OrderID:        orderID,
			UserID:         user.UserID,
			OrderTimestamp: ts,
			DeliveryMethod: choice(g.rng, deliveryMethods),
			DeliveryWindow: choice(g.rng, deliveryWindows),
		})
	}
	return orders
}

// randomTimestamp picks a uniform instant in [start, end), truncated to
// whole seconds so it round-trips through the CSV timestamp format.
func (g *Generator) randomTimestamp(start, end time.Time) time.Time {
	span := end.Unix() - start.Unix()
	return time.Unix(start.Unix()+g.rng.Int63n(span), 0)
}

// snapToWeekday moves ts forward to the next occurrence of the target
// weekday, keeping the time of day. A matching day stays put.
func snapToWeekday(ts time.Time, target time.Weekday) time.Time {
	ahead := (int(target) - int(ts.Weekday()) + 7) % 7
	return ts.AddDate(0, 0, ahead)
}

func weekdayByName(name string) time.Weekday {
	switch name {
	case "Sunday":
		return time.Sunday
	case "Monday":
		return time.Monday
	case "Tuesday":
		return time.Tuesday
	case "Wednesday":
		return time.Wednesday
	case "Thursday":
		return time.Thursday
	case "Friday":
		return time.Friday
	default:
		return time.Saturday
	}
}

// choice picks one element with the generator's random source.
func choice[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}

// sample picks up to n distinct elements, preserving none of the input
// order.
func sample[T any](rng *rand.Rand, items []T, n int) []T {
	if n > len(items) {
		n = len(items)
	}
	out := make([]T, 0, n)
	for _, idx := range rng.Perm(len(items))[:n] {
		out = append(out, items[idx])
	}
	return out
}
