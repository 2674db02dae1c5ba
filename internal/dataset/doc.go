// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

/*
Package dataset loads the CSV dataset into an embedded DuckDB instance
and exposes the read queries the predictor needs, plus the CSV writers
the generator uses to produce the files in the first place.

# Schema

Four tables mirror the CSV files one to one:

	users(user_id, name, email, dietary_preference, household_size,
	      preferred_shopping_day, delivery_method)
	products(product_id, product_name, brand, category, size, unit,
	      price_per_unit)
	orders(order_id, user_id, order_timestamp, delivery_window)
	order_items(order_id, product_id, quantity, is_substituted)

# Queries

Store methods cover the lookups the prediction heuristics need:
per-user and per-product fetches, batched product resolution, average
historical quantities, observed substitution statistics, and candidate
listings filtered by dietary preference with price or catalog ordering.
Missing rows return ErrNotFound so callers can distinguish "unknown"
from a query failure.

All queries are instrumented with Prometheus metrics and accept a
context for cancellation. The Store is safe for concurrent use; DuckDB
handles its own connection pooling through database/sql.
*/
package dataset
