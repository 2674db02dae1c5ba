// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

/*
Package rfm talks to the external relational foundation model service
that powers product and delivery-window predictions. The service takes
a PQL-style predictive query string and returns either ranked classes
with scores or a single aggregate forecast.

# Queries

Three query shapes cover everything the predictor asks for:

	PREDICT SUM(order_items.quantity, 0, N, days) FOR users.user_id=U
	PREDICT LIST_DISTINCT(order_items.product_id, 0, N, days)
	        RANK TOP K FOR users.user_id=U
	PREDICT LIST_DISTINCT(orders.delivery_window, 0, N, days)
	        RANK TOP K FOR users.user_id=U

See query.go for the builders.

# Failure Handling

Every failure mode here is survivable: callers treat any error as a
signal to fall back to rule-based heuristics. The CircuitBreakerClient
wraps the plain Client with a sony/gobreaker circuit breaker so a
flapping or dead service stops consuming request timeouts, and
transitions are logged and exported as Prometheus metrics.

Both clients implement the Service interface, which is what the
predictor depends on; tests substitute a fake.
*/
package rfm
