// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package generate

import (
	"math"
	"strings"
	"testing"

	"github.com/abreschi/kumoai-hackathon-2025/internal/dataset"
)

func TestSplitSize(t *testing.T) {
	tests := []struct {
		size       string
		wantAmount float64
		wantRest   string
		wantOK     bool
	}{
		{"16 oz", 16, "oz", true},
		{"1.5 lb", 1.5, "lb", true},
		{"12 fl oz", 12, "fl oz", true},
		{"500g", 0, "", false},
		{"one pound", 0, "", false},
		{"", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.size, func(t *testing.T) {
			amount, rest, ok := splitSize(tt.size)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if amount != tt.wantAmount || rest != tt.wantRest {
				t.Errorf("got (%v, %q), want (%v, %q)", amount, rest, tt.wantAmount, tt.wantRest)
			}
		})
	}
}

func TestSimilarProductStaysPlausible(t *testing.T) {
	base := dataset.Product{
		ProductID:    1,
		ProductName:  "Cheddar Block",
		Category:     "Dairy",
		Brand:        "Whole Foods",
		Size:         "16 oz",
		Unit:         "oz",
		PricePerUnit: 5.99,
	}

	cfg := testConfig(t)
	for seed := int64(0); seed < 20; seed++ {
		cfg.Seed = seed
		g := New(cfg, nil)
		variant := g.similarProduct(base, 100)

		if variant.ProductID != 100 {
			t.Fatalf("variant ID = %d", variant.ProductID)
		}
		if variant.Category != base.Category || variant.Unit != base.Unit {
			t.Errorf("seed %d: category or unit changed: %+v", seed, variant)
		}
		if variant.PricePerUnit < 0.99 {
			t.Errorf("seed %d: price %v below floor", seed, variant.PricePerUnit)
		}
		if cents := math.Round(variant.PricePerUnit*100) / 100; cents != variant.PricePerUnit {
			t.Errorf("seed %d: price %v not rounded to cents", seed, variant.PricePerUnit)
		}
		if !strings.HasSuffix(variant.ProductName, base.ProductName) {
			t.Errorf("seed %d: name %q does not extend base", seed, variant.ProductName)
		}
		if variant.Brand == base.Brand {
			continue
		}
		// A swapped Whole Foods brand must come from its variant list.
		wantBrands := map[string]bool{"365 Everyday Value": true, "Whole Foods Market": true}
		if !wantBrands[variant.Brand] {
			t.Errorf("seed %d: unexpected brand %q", seed, variant.Brand)
		}
	}
}

func TestSimilarProductGenericBrand(t *testing.T) {
	base := dataset.Product{
		ProductID:    1,
		ProductName:  "Oat Crackers",
		Category:     "Snacks",
		Brand:        "Some Unknown Brand",
		Size:         "12 oz",
		Unit:         "oz",
		PricePerUnit: 3.49,
	}

	generic := map[string]bool{
		"Store Brand": true, "Value Brand": true,
		"Premium Choice": true, "Fresh Select": true,
	}
	cfg := testConfig(t)
	swapped := false
	for seed := int64(0); seed < 20; seed++ {
		cfg.Seed = seed
		variant := New(cfg, nil).similarProduct(base, 50)
		if variant.Brand == base.Brand {
			continue
		}
		swapped = true
		if !generic[variant.Brand] {
			t.Errorf("seed %d: brand %q not a generic alternative", seed, variant.Brand)
		}
	}
	if !swapped {
		t.Error("brand never swapped across 20 seeds")
	}
}

func TestFallbackBatch(t *testing.T) {
	g := New(testConfig(t), nil)

	produce := g.fallbackBatch("Produce", 10, 1)
	if len(produce) != 10 {
		t.Fatalf("got %d products, want 10", len(produce))
	}
	for _, p := range produce {
		if p.Unit != "lb" {
			t.Errorf("produce unit = %q", p.Unit)
		}
		if p.PricePerUnit < 1.0 || p.PricePerUnit > 6.0 {
			t.Errorf("produce price %v outside [1, 6]", p.PricePerUnit)
		}
		if !strings.HasPrefix(p.ProductName, p.Brand) {
			t.Errorf("name %q does not start with brand %q", p.ProductName, p.Brand)
		}
	}

	other := g.fallbackBatch("Mystery", 5, 11)
	for _, p := range other {
		if p.Brand != "Generic Brand" {
			t.Errorf("unknown category brand = %q", p.Brand)
		}
		if p.ProductID < 11 || p.ProductID > 15 {
			t.Errorf("product ID %d outside assigned range", p.ProductID)
		}
	}
}
