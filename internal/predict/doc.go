// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

/*
Package predict produces shopping predictions for a single user from
the relational dataset: the next cart, broader product recommendations,
delivery window suggestions, substitution likelihoods and personalized
rankings of a caller-supplied product list.

# Prediction Strategy

Every operation runs a two-tier strategy:

 1. RFM path: when the relational foundation model service is
    configured, the operation issues predictive queries (quantity
    forecasts and ranked classes) and shapes the answer from the
    returned scores.
 2. Fallback path: when the service is disabled, unreachable or the
    circuit breaker is open, the operation degrades to deterministic
    rule-based heuristics over the local dataset.

The fallback rules mirror the shopper profile: vegetarian users only
see Produce in their cart, larger households get cheaper items first
and higher quantities, and substitution rates for never-substituted
products are synthesized from a product-ID-seeded source so repeated
calls agree.

# Confidence and Reasons

Each cart item and recommendation carries a confidence score and a
human-readable reason. RFM-backed answers use higher confidences (0.95
cart, 0.9 recommendations) than fallbacks (0.7-0.8 and 0.75) so the UI
can communicate prediction quality.

# Edge Cases

An unknown user is not an error; cart and recommendation predictions
return an empty list. Unknown products are dropped from rankings and
get a synthesized substitution rate. Unknown or empty timezones resolve
to the server's local time for delivery slot labeling.

# Usage

	store, _ := dataset.Open(ctx, "data")
	p := predict.New(store, rfmClient, cfg.RFM.Available())

	items, err := p.Cart(ctx, userID, 10)
	slots, err := p.DeliveryTimes(ctx, userID, 3, "America/New_York")
	rate, err := p.SubstitutionRate(ctx, productID)
*/
package predict
