// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package predict

import (
	"context"
	"errors"
	"math"
	"math/rand"

	"github.com/abreschi/kumoai-hackathon-2025/internal/dataset"
	"github.com/abreschi/kumoai-hackathon-2025/internal/metrics"
)

// SubstitutionRate estimates how likely a product is to be substituted
// in a delivered order. With order history for the product it is the
// observed rate; otherwise a deterministic rate is synthesized from the
// product's price band, seeded by the product ID so repeat calls agree.
func (p *Predictor) SubstitutionRate(ctx context.Context, productID int) (float64, error) {
	observations, rate, err := p.store.SubstitutionStats(ctx, productID)
	if err != nil {
		return 0, err
	}
	if observations > 0 {
		metrics.RecordPrediction("substitution_rate", false)
		return rate, nil
	}

	product, err := p.store.ProductByID(ctx, productID)
	if err != nil && !errors.Is(err, dataset.ErrNotFound) {
		return 0, err
	}

	rng := rand.New(rand.NewSource(int64(productID)))
	var synthesized float64
	if product == nil {
		synthesized = unknownProductRate(rng)
	} else {
		synthesized = priceBandRate(rng, product.PricePerUnit)
	}
	metrics.RecordPrediction("substitution_rate", true)
	return synthesized, nil
}

// BatchSubstitutionRates computes rates for many products at once,
// keyed by product ID.
func (p *Predictor) BatchSubstitutionRates(ctx context.Context, productIDs []int) (map[int]float64, error) {
	rates := make(map[int]float64, len(productIDs))
	for _, id := range productIDs {
		rate, err := p.SubstitutionRate(ctx, id)
		if err != nil {
			return nil, err
		}
		rates[id] = rate
	}
	return rates, nil
}

// priceBandRate synthesizes a substitution rate from the price band.
// Expensive items are rarely substituted; cheap staples swap often.
// Each band draws once to pick a tier, then once more to split the
// remaining tiers.
func priceBandRate(rng *rand.Rand, price float64) float64 {
	switch {
	case price > 10:
		if rng.Float64() < 0.8 {
			return round3(uniform(rng, 0.01, 0.06))
		}
		return round3(uniform(rng, 0.07, 0.12))
	case price > 5:
		if rng.Float64() < 0.6 {
			return round3(uniform(rng, 0.01, 0.07))
		}
		if rng.Float64() < 0.85 {
			return round3(uniform(rng, 0.08, 0.18))
		}
		return round3(uniform(rng, 0.19, 0.30))
	default:
		if rng.Float64() < 0.5 {
			return round3(uniform(rng, 0.01, 0.07))
		}
		if rng.Float64() < 0.75 {
			return round3(uniform(rng, 0.08, 0.20))
		}
		return round3(uniform(rng, 0.21, 0.40))
	}
}

// unknownProductRate synthesizes a rate for a product absent from the
// catalog.
func unknownProductRate(rng *rand.Rand) float64 {
	if rng.Float64() < 0.7 {
		return round3(uniform(rng, 0.01, 0.07))
	}
	if rng.Float64() < 0.9 {
		return round3(uniform(rng, 0.08, 0.15))
	}
	return round3(uniform(rng, 0.16, 0.35))
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
