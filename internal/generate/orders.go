// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package generate

import (
	"strings"

	"github.com/abreschi/kumoai-hackathon-2025/internal/dataset"
)

// affinityGroup names a set of products that tend to land in the same
// basket.
type affinityGroup struct {
	name     string
	products []int
}

// buildAffinityGroups derives basket affinities from the catalog:
// pasta with sauce, milk for breakfast, cheese as a snack, and whole
// category pulls for produce and snacks.
func buildAffinityGroups(products []dataset.Product) []affinityGroup {
	var pastaMeal, breakfast, snacks, healthy, snackTime []int

	for _, p := range products {
		name := strings.ToLower(p.ProductName)
		switch p.Category {
		case "Pantry Staples":
			if strings.Contains(name, "pasta") || strings.Contains(name, "sauce") {
				pastaMeal = append(pastaMeal, p.ProductID)
			}
		case "Dairy":
			if strings.Contains(name, "milk") {
				breakfast = append(breakfast, p.ProductID)
			}
			if strings.Contains(name, "cheese") {
				snacks = append(snacks, p.ProductID)
			}
		case "Produce":
			healthy = append(healthy, p.ProductID)
		case "Snacks":
			snackTime = append(snackTime, p.ProductID)
		}
	}

	var groups []affinityGroup
	for _, g := range []affinityGroup{
		{"pasta_meal", pastaMeal},
		{"breakfast", breakfast},
		{"snacks", snacks},
		{"healthy", healthy},
		{"snack_time", snackTime},
	} {
		if len(g.products) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

// GenerateOrderItems fills every order with a basket sized by household,
// expanded along affinity groups, with occasional substitutions drawn
// from the similar-product map.
func (g *Generator) GenerateOrderItems(orders []dataset.Order, products []dataset.Product, users []dataset.User) []dataset.OrderItem {
	groups := buildAffinityGroups(products)

	productIDs := make([]int, len(products))
	categoryByID := make(map[int]string, len(products))
	for i, p := range products {
		productIDs[i] = p.ProductID
		categoryByID[p.ProductID] = p.Category
	}

	usersByID := make(map[int]dataset.User, len(users))
	for _, u := range users {
		usersByID[u.UserID] = u
	}

	var items []dataset.OrderItem
	for _, order := range orders {
		user := usersByID[order.UserID]
		basketSize := g.basketSize(user.HouseholdSize)

		selected := g.selectBasket(productIDs, groups, basketSize)

		for _, productID := range selected {
			quantity := 1
			if user.HouseholdSize > 2 && g.rng.Float64() < 0.4 {
				quantity = g.rng.Intn(user.HouseholdSize-1) + 2
			}
			switch categoryByID[productID] {
			case "Produce", "Snacks":
				if g.rng.Float64() < 0.3 {
					quantity += g.rng.Intn(2) + 1
				}
			}

			wasSubstituted := false
			if g.rng.Float64() < g.cfg.SubstitutionRate {
				if variants := g.substitutionMap[productID]; len(variants) > 0 {
					productID = choice(g.rng, variants)
				}
				wasSubstituted = true
			}

			items = append(items, dataset.OrderItem{
				OrderID:        order.OrderID,
				ProductID:      productID,
				Quantity:       quantity,
				WasSubstituted: wasSubstituted,
			})
		}
	}
	return items
}

// basketSize draws a base size of 5 to 15 items and scales it with the
// household, capped at 25.
func (g *Generator) basketSize(householdSize int) int {
	base := g.rng.Intn(11) + 5
	size := int(float64(base) * (1 + float64(householdSize-1)*0.3))
	if size > 25 {
		size = 25
	}
	return size
}

// selectBasket picks basketSize distinct products: half at random, then
// affinity pulls for any group already represented, then random fill.
func (g *Generator) selectBasket(productIDs []int, groups []affinityGroup, basketSize int) []int {
	selected := make([]int, 0, basketSize)
	inBasket := make(map[int]bool, basketSize)
	add := func(id int) {
		if !inBasket[id] {
			inBasket[id] = true
			selected = append(selected, id)
		}
	}

	for _, id := range sample(g.rng, productIDs, basketSize/2) {
		add(id)
	}

	for _, group := range groups {
		represented := false
		for _, id := range group.products {
			if inBasket[id] {
				represented = true
				break
			}
		}
		if represented {
			for _, id := range sample(g.rng, group.products, g.rng.Intn(3)+1) {
				add(id)
			}
		}
	}

	if len(selected) < basketSize {
		var remaining []int
		for _, id := range productIDs {
			if !inBasket[id] {
				remaining = append(remaining, id)
			}
		}
		for _, id := range sample(g.rng, remaining, basketSize-len(selected)) {
			add(id)
		}
	}

	if len(selected) > basketSize {
		selected = selected[:basketSize]
	}
	return selected
}
