// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

/*
Package api exposes the prediction operations over HTTP for the demo
UI, built on chi v5.

# Endpoints

	GET  /healthz
	GET  /metrics
	GET  /api/v1/users/{userID}/cart?num_items=N
	GET  /api/v1/users/{userID}/recommendations?num_items=N
	GET  /api/v1/users/{userID}/delivery-times?num_slots=N&timezone=TZ
	POST /api/v1/users/{userID}/rank            {"product_ids": [...]}
	GET  /api/v1/products/{productID}/substitution-rate
	POST /api/v1/substitution-rates             {"product_ids": [...]}

Responses are JSON encoded with goccy/go-json. Errors use a single
{"error": "..."} shape with conventional status codes: 400 for
malformed parameters, 429 when rate limited, 500 for dataset or
predictor failures. An unknown user is a 200 with an empty list, same
as the underlying predictor.

# Middleware

The router applies, in order: request ID assignment (UUID, echoed in
X-Request-ID), real IP resolution, panic recovery, CORS and Prometheus
instrumentation with per-route latency and in-flight gauges. The
/api/v1 subtree is additionally rate limited per client IP with
httprate; the limit is configurable and can be disabled for local
development.
*/
package api
