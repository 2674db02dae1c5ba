// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package predict

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/abreschi/kumoai-hackathon-2025/internal/dataset"
	"github.com/abreschi/kumoai-hackathon-2025/internal/logging"
	"github.com/abreschi/kumoai-hackathon-2025/internal/metrics"
	"github.com/abreschi/kumoai-hackathon-2025/internal/rfm"
)

const (
	// Horizons for the predictive queries, in days.
	cartQuantityHorizon = 10
	cartRankHorizon     = 30
	recommendHorizon    = 60
	deliveryHorizon     = 30
	rankHorizon         = 30

	// Total-quantity forecast assumed when the forecast query fails but
	// ranking may still work.
	defaultQuantityForecast = 20
)

// Predictor runs all prediction operations against a loaded dataset,
// optionally backed by the RFM service.
type Predictor struct {
	store      *dataset.Store
	rfm        rfm.Service
	rfmEnabled bool
	logger     zerolog.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// New creates a Predictor. When rfmEnabled is false (or svc is nil)
// every operation goes straight to its rule-based fallback.
func New(store *dataset.Store, svc rfm.Service, rfmEnabled bool) *Predictor {
	return &Predictor{
		store:      store,
		rfm:        svc,
		rfmEnabled: rfmEnabled && svc != nil,
		logger:     logging.With().Str("component", "predict").Logger(),
		now:        time.Now,
	}
}

// Cart predicts up to numItems products for the user's next order. The
// item count is additionally capped by a short-horizon total-quantity
// forecast so small households are not handed oversized carts.
func (p *Predictor) Cart(ctx context.Context, userID, numItems int) ([]CartItem, error) {
	if !p.rfmEnabled {
		return p.fallbackCart(ctx, userID, numItems)
	}

	forecast, err := p.rfm.QuantityForecast(ctx, userID, cartQuantityHorizon)
	if err != nil {
		p.logger.Warn().Err(err).Int("user_id", userID).
			Msg("Quantity forecast failed, assuming default")
		forecast = defaultQuantityForecast
	}

	topK := numItems
	if f := int(forecast); f < topK {
		topK = f
	}

	ranked, err := p.rfm.RankProducts(ctx, userID, topK, cartRankHorizon)
	if err != nil {
		p.logger.Warn().Err(err).Int("user_id", userID).
			Msg("Cart ranking failed, using fallback")
		return p.fallbackCart(ctx, userID, numItems)
	}

	items, err := p.cartFromRanking(ctx, ranked)
	if err != nil {
		return nil, err
	}
	metrics.RecordPrediction("cart", false)
	p.logger.Info().Int("user_id", userID).Int("items", len(items)).
		Msg("RFM cart prediction completed")
	return items, nil
}

// cartFromRanking resolves ranked product IDs to cart items, keeping
// the ranking order. IDs absent from the catalog are dropped.
func (p *Predictor) cartFromRanking(ctx context.Context, ranked []rfm.RankedProduct) ([]CartItem, error) {
	ids := make([]int, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ProductID
	}

	products, err := p.store.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	avgQty, err := p.store.AverageQuantities(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]CartItem, 0, len(ranked))
	for _, r := range ranked {
		product, ok := products[r.ProductID]
		if !ok {
			continue
		}
		quantity := avgQuantityOrDefault(avgQty, r.ProductID)
		items = append(items, CartItem{
			ProductID:    product.ProductID,
			ProductName:  product.ProductName,
			Brand:        product.Brand,
			Category:     product.Category,
			Size:         product.Size,
			Unit:         product.Unit,
			Quantity:     quantity,
			PricePerUnit: product.PricePerUnit,
			Confidence:   0.95,
			Reason:       fmt.Sprintf("Kumo RFM prediction: average quantity %d based on historical orders", quantity),
		})
	}
	return items, nil
}

// fallbackCart builds a cart from the user's profile: dietary filtering
// plus a price ordering keyed on household size.
func (p *Predictor) fallbackCart(ctx context.Context, userID, numItems int) ([]CartItem, error) {
	user, err := p.store.UserByID(ctx, userID)
	if errors.Is(err, dataset.ErrNotFound) {
		return []CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	// Larger households shop price-conscious; smaller ones see premium
	// picks first.
	priceAscending := user.HouseholdSize > 2
	candidates, err := p.store.CandidateProducts(ctx, user.DietaryPreference, priceAscending, numItems)
	if err != nil {
		return nil, err
	}
	avgQty, err := p.store.AverageQuantities(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]CartItem, 0, len(candidates))
	for _, product := range candidates {
		confidence := 0.7
		if user.DietaryPreference == "vegetarian" && product.Category == "Produce" {
			confidence = 0.8
		}
		items = append(items, CartItem{
			ProductID:    product.ProductID,
			ProductName:  product.ProductName,
			Brand:        product.Brand,
			Category:     product.Category,
			Size:         product.Size,
			Unit:         product.Unit,
			Quantity:     avgQuantityOrDefault(avgQty, product.ProductID),
			PricePerUnit: product.PricePerUnit,
			Confidence:   confidence,
			Reason:       fmt.Sprintf("Enhanced fallback: matches %s diet, avg quantity from orders", user.DietaryPreference),
		})
	}
	metrics.RecordPrediction("cart", true)
	return items, nil
}

// Recommendations predicts up to numItems products the user may be
// interested in over a longer horizon than the cart.
func (p *Predictor) Recommendations(ctx context.Context, userID, numItems int) ([]Recommendation, error) {
	if !p.rfmEnabled {
		return p.fallbackRecommendations(ctx, userID, numItems)
	}

	ranked, err := p.rfm.RankProducts(ctx, userID, numItems, recommendHorizon)
	if err != nil {
		p.logger.Warn().Err(err).Int("user_id", userID).
			Msg("Recommendation ranking failed, using fallback")
		return p.fallbackRecommendations(ctx, userID, numItems)
	}

	ids := make([]int, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ProductID
	}
	products, err := p.store.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(ranked))
	for _, r := range ranked {
		product, ok := products[r.ProductID]
		if !ok {
			continue
		}
		recs = append(recs, Recommendation{
			ProductID:    product.ProductID,
			ProductName:  product.ProductName,
			Brand:        product.Brand,
			Category:     product.Category,
			Size:         product.Size,
			Unit:         product.Unit,
			PricePerUnit: product.PricePerUnit,
			Confidence:   0.9,
			Reason:       "Kumo RFM recommendation: predicted interest over 60 days",
		})
	}
	metrics.RecordPrediction("recommendations", false)
	return recs, nil
}

// fallbackRecommendations serves the catalog in order, filtered by the
// user's dietary preference.
func (p *Predictor) fallbackRecommendations(ctx context.Context, userID, numItems int) ([]Recommendation, error) {
	user, err := p.store.UserByID(ctx, userID)
	if errors.Is(err, dataset.ErrNotFound) {
		return []Recommendation{}, nil
	}
	if err != nil {
		return nil, err
	}

	candidates, err := p.store.ProductsByPreference(ctx, user.DietaryPreference, numItems)
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(candidates))
	for _, product := range candidates {
		recs = append(recs, Recommendation{
			ProductID:    product.ProductID,
			ProductName:  product.ProductName,
			Brand:        product.Brand,
			Category:     product.Category,
			Size:         product.Size,
			Unit:         product.Unit,
			PricePerUnit: product.PricePerUnit,
			Confidence:   0.75,
			Reason:       fmt.Sprintf("Enhanced fallback: suitable for %s preference", user.DietaryPreference),
		})
	}
	metrics.RecordPrediction("recommendations", true)
	return recs, nil
}

// Rank orders the given product IDs by predicted interest for the user.
// Every requested product known to the catalog appears exactly once:
// ranked products first in model order, then the rest in input order.
func (p *Predictor) Rank(ctx context.Context, userID int, productIDs []int) ([]RankedItem, error) {
	products, err := p.store.ProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	requested := make(map[int]bool, len(productIDs))
	for _, id := range productIDs {
		requested[id] = true
	}

	var results []RankedItem
	seen := make(map[int]bool, len(productIDs))

	if p.rfmEnabled {
		ranked, err := p.rfm.RankProducts(ctx, userID, len(productIDs), rankHorizon)
		if err != nil {
			p.logger.Warn().Err(err).Int("user_id", userID).
				Msg("Personalized ranking failed, using input order")
		} else {
			for _, r := range ranked {
				if !requested[r.ProductID] || seen[r.ProductID] {
					continue
				}
				product, ok := products[r.ProductID]
				if !ok {
					continue
				}
				results = append(results, rankedItem(product, len(results)+1))
				seen[r.ProductID] = true
			}
			metrics.RecordPrediction("rank", false)
		}
	}

	// Requested products the model did not rank keep their input order
	// behind the ranked ones. With RFM disabled this is the whole list.
	for _, id := range productIDs {
		if seen[id] {
			continue
		}
		product, ok := products[id]
		if !ok {
			continue
		}
		results = append(results, rankedItem(product, len(results)+1))
		seen[id] = true
	}

	if !p.rfmEnabled {
		metrics.RecordPrediction("rank", true)
	}
	if results == nil {
		results = []RankedItem{}
	}
	return results, nil
}

func rankedItem(product dataset.Product, rank int) RankedItem {
	return RankedItem{
		ProductID:    product.ProductID,
		ProductName:  product.ProductName,
		Brand:        product.Brand,
		Category:     product.Category,
		Size:         product.Size,
		Unit:         product.Unit,
		PricePerUnit: product.PricePerUnit,
		KumoRank:     rank,
	}
}

// avgQuantityOrDefault returns the historical average quantity for the
// product, or 1 when it was never ordered.
func avgQuantityOrDefault(avg map[int]int, productID int) int {
	if q, ok := avg[productID]; ok {
		return q
	}
	return 1
}
