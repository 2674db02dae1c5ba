// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

/*
Package metrics defines the Prometheus instrumentation shared across
the application, registered with promauto on the default registry and
served by the API's /metrics endpoint.

Covered concerns:

  - RFM predictive query latency, errors and circuit breaker state
  - Prediction counts split by operation and RFM-versus-fallback path
  - LLM catalog batch outcomes and generated product counts
  - DuckDB store query latency and errors
  - HTTP endpoint latency, status codes and in-flight requests

Helpers like RecordRFMRequest and RecordAPIRequest keep label
construction in one place so call sites stay single-line.
*/
package metrics
